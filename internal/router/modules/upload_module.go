package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/go-ecommerce-backend/internal/interface/http"
)

type UploadModule struct {
	Handler *handlers.UploadHandler
	Auth    gin.HandlerFunc
}

func NewUploadModule(h *handlers.UploadHandler, auth gin.HandlerFunc) *UploadModule {
	return &UploadModule{Handler: h, Auth: auth}
}

func (m *UploadModule) Register(rg *gin.RouterGroup) {
	rg.POST("/uploads", m.Auth, m.Handler.Upload)
}
