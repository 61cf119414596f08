package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ecommerce-backend/internal/interface/http"
	"github.com/oksasatya/go-ecommerce-backend/internal/interface/middleware"
)

// ProductModule routes /api/products.
// Public: GET /, /category, /seller/:id, /:id
// Admin: POST /, PUT /:id, DELETE /:id
type ProductModule struct {
	Handler *handlers.ProductHandler
	Auth    gin.HandlerFunc
}

func NewProductModule(h *handlers.ProductHandler, auth gin.HandlerFunc) *ProductModule {
	return &ProductModule{Handler: h, Auth: auth}
}

func (m *ProductModule) Register(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", m.Handler.List)
	products.GET("/category", m.Handler.Categories)
	products.GET("/seller/:id", m.Handler.SellerCatalog)
	products.GET("/:id", m.Handler.Get)

	admin := products.Group("")
	admin.Use(m.Auth, middleware.Admin())
	{
		admin.POST("", m.Handler.Create)
		admin.PUT("/:id", m.Handler.Update)
		admin.DELETE("/:id", m.Handler.Delete)
	}
}
