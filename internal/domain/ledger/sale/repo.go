package sale

import (
	"context"
	"time"

	"dukapos/internal/core/id"
)

// ListFilter narrows sell listings.
type ListFilter struct {
	AccountID *id.ID
	UserID    *id.ID
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

// Repository defines data access for sells and their items.
type Repository interface {
	Create(ctx context.Context, s *Sell) error
	Update(ctx context.Context, s *Sell) error
	Delete(ctx context.Context, sellID id.ID) error

	// GetByID returns the sell with its items.
	GetByID(ctx context.Context, sellID id.ID) (*Sell, error)

	SaveItems(ctx context.Context, sellID id.ID, items []SellItem) error
	DeleteItems(ctx context.Context, sellID id.ID) error

	List(ctx context.Context, filter ListFilter) ([]*Sell, error)
}
