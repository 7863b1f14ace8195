package inventory

import (
	"context"

	"dukapos/internal/core/id"
)

// Repository defines data access for the inventory store.
type Repository interface {
	// GetSKUForUpdate locks the SKU row for the enclosing transaction.
	// Sale mutations read stock through this.
	GetSKUForUpdate(ctx context.Context, skuID id.ID) (*SKU, error)

	// UpdateSKUStock writes an absolute stock count for a SKU.
	UpdateSKUStock(ctx context.Context, skuID id.ID, quantity int) error

	// RecomputeProductStock rewrites the product rollup as the sum of
	// its variants' SKU stock. Must run in the same transaction as the
	// SKU write that invalidated it.
	RecomputeProductStock(ctx context.Context, productID id.ID) error

	GetProduct(ctx context.Context, productID id.ID) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
	DeleteProduct(ctx context.Context, productID id.ID) error

	CreateVariant(ctx context.Context, v *Variant) error
	CreateSKU(ctx context.Context, s *SKU) error
}
