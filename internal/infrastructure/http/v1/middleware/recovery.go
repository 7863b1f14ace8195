// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"dukapos/internal/core/apperror"
	"dukapos/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// Logs stack trace but never exposes internal details to client.
// Renders the response itself: a panic unwinds past the error
// middleware, so nothing downstream would write one.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
				)

				appErr := apperror.NewInternal(fmt.Errorf("panic: %v", err))
				c.AbortWithStatusJSON(appErr.HTTPStatus, gin.H{
					"code":    appErr.Code,
					"message": appErr.Message,
					"details": map[string]any{
						"request_id": c.GetString("request_id"),
					},
				})
			}
		}()
		c.Next()
	}
}
