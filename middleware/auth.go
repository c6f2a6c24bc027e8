package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/auth"
)

const callerKey = "caller"

// Resolver turns a bearer token into a Caller.
type Resolver interface {
	Resolve(ctx context.Context, token string) (auth.Caller, error)
}

// AuthMiddleware resolves the bearer token and attaches the Caller to the
// request. Requests without a resolvable identity are rejected.
func AuthMiddleware(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
			return
		}
		token = strings.TrimPrefix(token, "Bearer ")

		caller, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// AdminMiddleware rejects callers without order-management rights. It runs
// after AuthMiddleware.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok || !auth.CanManageOrders(caller) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: admin only"})
			return
		}
		c.Next()
	}
}

// CallerFrom returns the Caller set by AuthMiddleware.
func CallerFrom(c *gin.Context) (auth.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return auth.Caller{}, false
	}
	caller, ok := v.(auth.Caller)
	return caller, ok
}
