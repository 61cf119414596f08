package modules

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ecommerce-backend/internal/interface/middleware"
)

// DebugModule exposes expvar counters such as orders_created and
// stock_decrement_failed.
type DebugModule struct {
	Vars  http.Handler
	Redis *redis.Client
}

func NewDebugModule(vars http.Handler, rdb *redis.Client) *DebugModule {
	return &DebugModule{Vars: vars, Redis: rdb}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	// rate-limited per IP; scrapers on private networks are exempt
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/debug/vars", rl, gin.WrapH(m.Vars))
}
