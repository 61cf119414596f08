package router

import "github.com/gin-gonic/gin"

// Module registers a feature's routes, e.g. /products, on the API group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
