package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"dukapos/internal/core/apperror"
	appctx "dukapos/internal/core/context"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth middleware validates JWT tokens and populates user context.
// Requests without a valid identity never reach the domain layer.
func Auth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", user.UserID)
		c.Set("user_role", user.Role)

		c.Next()
	}
}

// RequireAdmin allows only admin users past this point. Must run after
// Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appctx.IsAdmin(c.Request.Context()) {
			_ = c.Error(apperror.NewForbidden("admin role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
