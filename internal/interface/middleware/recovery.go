package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-backend/pkg/response"
)

// Recovery turns a panic into a 500 envelope and logs it with the request id.
func Recovery(logger *logrus.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		if logger != nil {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.Request.URL.Path,
				"panic":      recovered,
			}).Error("panic recovered")
		}
		response.Abort(c, http.StatusInternalServerError, "Internal Server Error", nil)
	})
}

// NotFound answers unknown routes with the JSON envelope.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error[any](c, http.StatusNotFound, "Not Found - "+c.Request.URL.Path, nil)
	}
}
