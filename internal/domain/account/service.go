package account

import (
	"context"

	"dukapos/internal/core/id"
)

// Service exposes read access to accounts for handlers and reports.
type Service struct {
	repo Repository
}

// NewService creates a new account service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetByID retrieves one account.
func (s *Service) GetByID(ctx context.Context, accountID id.ID) (*Account, error) {
	return s.repo.GetByID(ctx, accountID)
}

// List retrieves all accounts.
func (s *Service) List(ctx context.Context) ([]*Account, error) {
	return s.repo.List(ctx)
}

// GetDefault retrieves the default account.
func (s *Service) GetDefault(ctx context.Context) (*Account, error) {
	return s.repo.GetDefault(ctx)
}
