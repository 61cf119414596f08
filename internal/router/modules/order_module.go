package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/go-ecommerce-backend/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-backend/internal/interface/middleware"
)

type OrderModule struct {
	Handler *handlers.OrderHandler
	Auth    gin.HandlerFunc
	Redis   *redis.Client
}

func NewOrderModule(h *handlers.OrderHandler, auth gin.HandlerFunc, rdb *redis.Client) *OrderModule {
	return &OrderModule{Handler: h, Auth: auth, Redis: rdb}
}

func (m *OrderModule) Register(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.Use(m.Auth, middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		orders.POST("", m.Handler.Create)
		orders.GET("/:id", m.Handler.Get)
	}
}
