// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Roles known to the system. Authorization checks compare against
// these constants; there is no user-defined permission model.
const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

// UserContext contains authenticated user information.
type UserContext struct {
	UserID string
	Email  string
	Role   string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// IsAdmin checks whether the calling user has the admin role.
func IsAdmin(ctx context.Context) bool {
	u := GetUser(ctx)
	return u != nil && u.Role == RoleAdmin
}
