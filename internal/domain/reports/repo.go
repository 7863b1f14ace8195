package reports

import (
	"context"
)

// Repository defines the aggregation queries behind reports. All
// implementations run plain read-only SQL.
type Repository interface {
	SalesByProduct(ctx context.Context, r Range) ([]*ProductSales, error)
	SalesByCategory(ctx context.Context, r Range) ([]*CategorySales, error)
	SwapSummary(ctx context.Context, r Range) ([]*SwapSummary, error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

// Cache stores a computed dashboard for a short TTL. A miss returns
// (nil, nil); errors are infrastructure failures, not misses.
type Cache interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
	SetDashboard(ctx context.Context, d *Dashboard) error
}
