package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ecommerce-backend/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-backend/internal/interface/middleware"
)

// UserModule routes /api/user.
// Public: POST /signin, POST /register
// Protected: PUT /profile, GET /:id (self or admin)
// Admin: GET /, GET /search, PUT /:id, DELETE /:id
type UserModule struct {
	Handler *handlers.UserHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewUserModule(h *handlers.UserHandler, auth gin.HandlerFunc, rdb *redis.Client) *UserModule {
	return &UserModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	users := rg.Group("/user")

	signinLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	registerLimiter := middleware.RateLimit(m.Redis, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	users.POST("/signin", signinLimiter, m.Handler.SignIn)
	users.POST("/register", registerLimiter, m.Handler.Register)

	auth := users.Group("")
	auth.Use(m.Auth, middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.PUT("/profile", m.Handler.UpdateProfile)
		auth.GET("/:id", m.Handler.Get)
	}

	admin := auth.Group("")
	admin.Use(middleware.Admin())
	{
		admin.GET("", m.Handler.List)
		admin.GET("/search", m.Handler.Search)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}
