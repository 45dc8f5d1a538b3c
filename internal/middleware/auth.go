// Middleware: Authorization: Bearer <token> validation and role gating.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

const HeaderAuthorization = "Authorization"
const BearerPrefix = "Bearer "

// TokenValidator checks a Bearer token (JWT) and returns the user identity.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (userID int64, role string, err error)
}

// AuthMiddleware requires Authorization: Bearer <token>; on success the user
// id and role are stored both in gin keys and the request context.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(HeaderAuthorization)
		if raw == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "access denied: no token provided")
			return
		}
		if !strings.HasPrefix(raw, BearerPrefix) {
			response.AbortWithError(c, http.StatusUnauthorized, "invalid Authorization; expected Bearer <token>")
			return
		}
		token := strings.TrimPrefix(raw, BearerPrefix)
		if token == "" {
			response.AbortWithError(c, http.StatusUnauthorized, "missing Bearer token")
			return
		}
		userID, role, err := validator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.AbortWithError(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		c.Set(string(ContextKeyUserID), userID)
		c.Set(string(ContextKeyRole), role)
		ctx := context.WithValue(c.Request.Context(), ContextKeyUserID, userID)
		ctx = context.WithValue(ctx, ContextKeyRole, role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// AdminOnly rejects non-admin users; must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFrom(c.Request.Context()) != "admin" {
			response.AbortWithError(c, http.StatusForbidden, "access denied: admin privileges required")
			return
		}
		c.Next()
	}
}
