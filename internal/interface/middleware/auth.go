package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-ecommerce-backend/pkg/helpers"
	"github.com/oksasatya/go-ecommerce-backend/pkg/response"
)

// Context keys set by Auth.
const (
	CtxUserIDKey   = "userID"
	CtxIsAdminKey  = "isAdmin"
	CtxIsSellerKey = "isSeller"
)

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Auth validates the bearer token and rejects tokens of revoked users.
// It sets userID, isAdmin and isSeller in the Gin context on success.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "No Token", nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid Token", err.Error())
			return
		}

		if iat := claims.IssuedAt; iat != nil {
			revoked, err := helpers.IsRevoked(c.Request.Context(), rdb, claims.UserID, iat.Time)
			// fail-open when redis is unavailable, like the rate limiter
			if err == nil && revoked {
				response.Abort(c, http.StatusUnauthorized, "Invalid Token", "token revoked")
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxIsAdminKey, claims.IsAdmin)
		c.Set(CtxIsSellerKey, claims.IsSeller)
		c.Next()
	}
}

// Admin must run after Auth.
func Admin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(CtxIsAdminKey) {
			response.Abort(c, http.StatusForbidden, "Admin access required", nil)
			return
		}
		c.Next()
	}
}
