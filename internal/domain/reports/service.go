package reports

import (
	"context"
	"time"

	"dukapos/pkg/logger"
)

// Service serves reports. The dashboard goes through the cache; the
// other reports hit the database directly.
type Service struct {
	repo  Repository
	cache Cache
}

// NewService creates a new reports service. cache may be nil, in which
// case every dashboard request recomputes.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// SalesByProduct returns per-product quantity and revenue for a period.
func (s *Service) SalesByProduct(ctx context.Context, r Range) ([]*ProductSales, error) {
	return s.repo.SalesByProduct(ctx, r)
}

// SalesByCategory returns per-category quantity and revenue for a period.
func (s *Service) SalesByCategory(ctx context.Context, r Range) ([]*CategorySales, error) {
	return s.repo.SalesByCategory(ctx, r)
}

// SwapSummary returns swap volume per account pair for a period.
func (s *Service) SwapSummary(ctx context.Context, r Range) ([]*SwapSummary, error) {
	return s.repo.SwapSummary(ctx, r)
}

// Dashboard returns the front-page summary, served from cache when
// fresh. Cache failures degrade to a direct computation.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	if s.cache != nil {
		cached, err := s.cache.GetDashboard(ctx)
		if err != nil {
			logger.Warn(ctx, "dashboard cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	d, err := s.repo.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	d.GeneratedAt = time.Now()

	if s.cache != nil {
		if err := s.cache.SetDashboard(ctx, d); err != nil {
			logger.Warn(ctx, "dashboard cache write failed", "error", err)
		}
	}
	return d, nil
}
