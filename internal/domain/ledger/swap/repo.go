package swap

import (
	"context"
	"time"

	"dukapos/internal/core/id"
)

// ListFilter narrows swap listings.
type ListFilter struct {
	AccountID *id.ID
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

// Repository defines data access for account swaps.
type Repository interface {
	Create(ctx context.Context, a *AccountSwap) error
	Update(ctx context.Context, a *AccountSwap) error
	Delete(ctx context.Context, swapID id.ID) error
	GetByID(ctx context.Context, swapID id.ID) (*AccountSwap, error)
	List(ctx context.Context, filter ListFilter) ([]*AccountSwap, error)
}
