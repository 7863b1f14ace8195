// Package auth provides authentication domain logic: users, password
// verification and JWT issuing.
package auth

import (
	"time"

	"dukapos/internal/core/apperror"
	appctx "dukapos/internal/core/context"
	"dukapos/internal/core/id"
)

// User represents a system user. Role is one of the static role
// constants; there is no user-defined permission model.
type User struct {
	ID           id.ID      `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Name         string     `db:"name" json:"name"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         string     `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
}

// NewUser creates a new active user.
func NewUser(email, name, passwordHash, role string) *User {
	return &User{
		ID:           id.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
}

// Validate validates user data.
func (u *User) Validate() error {
	if u.Email == "" {
		return apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if u.Role != appctx.RoleAdmin && u.Role != appctx.RoleCashier {
		return apperror.NewValidation("unknown role").WithDetail("field", "role")
	}
	return nil
}

// CanLogin checks if user may authenticate.
func (u *User) CanLogin() error {
	if !u.IsActive {
		return apperror.NewForbidden("account is disabled")
	}
	return nil
}

// RecordLogin updates the last login timestamp.
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// Credentials for login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is the login response payload.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TokenType   string    `json:"tokenType"`
	User        *User     `json:"user"`
}
