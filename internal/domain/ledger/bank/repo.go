package bank

import (
	"context"
	"time"

	"dukapos/internal/core/id"
)

// ListFilter narrows bank transaction listings.
type ListFilter struct {
	AccountID     *id.ID
	BankAccountID *id.ID
	DateFrom      *time.Time
	DateTo        *time.Time
	Limit         int
	Offset        int
}

// Repository defines data access for bank transactions.
type Repository interface {
	Create(ctx context.Context, b *BankTransaction) error
	Update(ctx context.Context, b *BankTransaction) error
	Delete(ctx context.Context, bankTransactionID id.ID) error
	GetByID(ctx context.Context, bankTransactionID id.ID) (*BankTransaction, error)
	List(ctx context.Context, filter ListFilter) ([]*BankTransaction, error)
}
