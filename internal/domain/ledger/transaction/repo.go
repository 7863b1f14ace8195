package transaction

import (
	"context"
	"time"

	"dukapos/internal/core/id"
)

// ListFilter narrows transaction listings.
type ListFilter struct {
	AccountID  *id.ID
	CategoryID *id.ID
	IsExchange *bool
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// Repository defines data access for transactions.
type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	Update(ctx context.Context, t *Transaction) error
	Delete(ctx context.Context, transactionID id.ID) error
	GetByID(ctx context.Context, transactionID id.ID) (*Transaction, error)
	List(ctx context.Context, filter ListFilter) ([]*Transaction, error)
}
