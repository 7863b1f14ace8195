package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/pkg/logger"
)

const passwordMinLength = 8

// Service provides authentication logic.
type Service struct {
	repo       Repository
	jwtService *JWTService
}

// NewService creates a new auth service.
func NewService(repo Repository, jwtService *JWTService) *Service {
	return &Service{repo: repo, jwtService: jwtService}
}

// Login authenticates a user by email and password and issues a token.
// Lookup failures and password mismatches return the same error so the
// response does not reveal which emails exist.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Token, error) {
	user, err := s.repo.GetByEmail(ctx, creds.Email)
	if err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	user.RecordLogin()
	if err := s.repo.Update(ctx, user); err != nil {
		logger.Warn(ctx, "failed to record login time", "error", err)
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID, "email", user.Email)
	return &Token{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
		User:        user,
	}, nil
}

// CreateUser creates a user with a bcrypt-hashed password. Admin only;
// the handler enforces the role check.
func (s *Service) CreateUser(ctx context.Context, email, name, password, role string) (*User, error) {
	if len(password) < passwordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", passwordMinLength),
		).WithDetail("field", "password")
	}

	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperror.NewDuplicate("user", "email", email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := NewUser(email, name, string(passwordHash), role)
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user created", "user_id", user.ID, "email", user.Email, "role", user.Role)
	return user, nil
}

// GetByID retrieves one user.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// List retrieves all users.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}
