package inventory

import (
	"context"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/core/tx"
	"dukapos/pkg/logger"
)

// Service provides catalog operations on products, variants and SKUs.
// Stock mutations during sales go through Repository directly inside
// the sale transaction, not through this service.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new inventory service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, txManager: txManager}
}

// GetProduct retrieves a product with variants and SKUs.
func (s *Service) GetProduct(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetProduct(ctx, productID)
}

// ListProducts retrieves all products.
func (s *Service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.ListProducts(ctx)
}

// CreateProduct creates a product with its variants and SKUs and
// computes the initial stock rollup.
func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, v := range p.Variants {
		for _, sku := range v.SKUs {
			if sku.StockQuantity < 0 {
				return apperror.NewValidation("stock quantity cannot be negative").
					WithDetail("sku", sku.Code)
			}
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if id.IsNil(p.ID) {
			p.ID = id.New()
		}
		if err := s.repo.CreateProduct(ctx, p); err != nil {
			return err
		}
		for i := range p.Variants {
			v := &p.Variants[i]
			if id.IsNil(v.ID) {
				v.ID = id.New()
			}
			v.ProductID = p.ID
			if err := s.repo.CreateVariant(ctx, v); err != nil {
				return err
			}
			for j := range v.SKUs {
				sku := &v.SKUs[j]
				if id.IsNil(sku.ID) {
					sku.ID = id.New()
				}
				sku.VariantID = v.ID
				if err := s.repo.CreateSKU(ctx, sku); err != nil {
					return err
				}
			}
		}
		return s.repo.RecomputeProductStock(ctx, p.ID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "product created", "id", p.ID, "name", p.Name)
	return nil
}

// UpdateProduct updates product fields (not stock; stock is derived).
func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repo.UpdateProduct(ctx, p)
}

// DeleteProduct removes a product with its variants and SKUs.
func (s *Service) DeleteProduct(ctx context.Context, productID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetProduct(ctx, productID); err != nil {
			return err
		}
		return s.repo.DeleteProduct(ctx, productID)
	})
}
