package router

import (
	"expvar"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-ecommerce-backend/internal/container"
	handlers "github.com/oksasatya/go-ecommerce-backend/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-backend/internal/interface/middleware"
	"github.com/oksasatya/go-ecommerce-backend/internal/router/modules"
)

// NewEngine builds the Gin engine with global middleware, static uploads and
// every API module registered.
func NewEngine(c *container.Container) *gin.Engine {
	cfg := c.Config

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.Recovery(c.Logger))
	r.Use(middleware.RealIP())
	r.Use(cors.New(corsConfig(cfg.CORSOrigins())))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	r.NoRoute(middleware.NotFound())
	r.Static("/uploads", cfg.UploadsDir)

	reg := NewRegistry(r, "/api")
	reg.Use(middleware.RateLimit(c.Redis, 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()))
	InitModules(reg, c)
	reg.RegisterAll()
	return r
}

// InitModules builds handlers from the container and adds their modules to r.
func InitModules(r *Registry, c *container.Container) {
	auth := middleware.Auth(c.Redis, c.JWT)

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(c.Stores.Ping)))
	r.Add(modules.NewProductModule(handlers.NewProductHandler(c.ProductService, c.Logger), auth))
	r.Add(modules.NewUserModule(handlers.NewUserHandler(c.UserService, c.Logger), auth, c.Redis))
	r.Add(modules.NewOrderModule(handlers.NewOrderHandler(c.OrderService, c.Logger), auth, c.Redis))
	r.Add(modules.NewUploadModule(handlers.NewUploadHandler(c.Config.UploadsDir, c.Logger), auth))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(expvar.Handler(), c.Redis))
	}
}

// corsConfig allows any origin for "*" or an empty list. Tokens travel in the
// Authorization header, so credentials are never allowed.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	cfg.AllowAllOrigins = len(origins) == 0 || slices.Contains(origins, "*")
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = origins
	}
	return cfg
}
