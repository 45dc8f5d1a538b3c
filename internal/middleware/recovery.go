// Middleware: panic recovery, 500 without leaking the stack to the client.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/thejas-c/E-Waste-Facility-Locator/internal/response"
)

// RecoveryMiddleware catches panics, logs them and returns 500 without
// exposing details to the client.
func RecoveryMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.String("path", c.Request.URL.Path),
					zap.Any("panic", err),
				)
				response.AbortWithError(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}
