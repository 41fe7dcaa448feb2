package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"board-automation/internal/model"
	"board-automation/pkg/response"
)

const (
	// InternalKeyHeader authenticates trusted internal callers (the
	// board service and the scheduler).
	InternalKeyHeader = "X-Internal-Key"

	// UserIDHeader carries the acting user, forwarded by the gateway.
	UserIDHeader = "X-User-Id"

	scopeKey = "scope"
)

// InternalAuth guards routes that only internal services may call.
func (m Middleware) InternalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.internalKey == "" {
			m.l.Warnf(c.Request.Context(), "middleware: internal key not configured, rejecting %s", c.FullPath())
			response.Forbidden(c)
			c.Abort()
			return
		}
		key := c.GetHeader(InternalKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(m.internalKey)) != 1 {
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Set(scopeKey, model.Scope{UserID: c.GetHeader(UserIDHeader)})
		c.Next()
	}
}

// GetScope returns the request scope set by the auth middleware.
func GetScope(c *gin.Context) model.Scope {
	if sc, ok := c.Get(scopeKey); ok {
		if scope, ok := sc.(model.Scope); ok {
			return scope
		}
	}
	return model.Scope{}
}
