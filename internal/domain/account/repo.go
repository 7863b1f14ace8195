package account

import (
	"context"

	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

// Repository defines data access for accounts. Accounts are
// pre-provisioned by an external admin flow; the core never creates or
// destroys them, only reads and mutates balances.
type Repository interface {
	GetByID(ctx context.Context, accountID id.ID) (*Account, error)

	// GetForUpdate locks the account row for the duration of the
	// enclosing transaction. All balance mutations read through this.
	GetForUpdate(ctx context.Context, accountID id.ID) (*Account, error)

	// UpdateBalances writes both balance buckets.
	UpdateBalances(ctx context.Context, accountID id.ID, balance, cashBalance types.Money) error

	List(ctx context.Context) ([]*Account, error)
	GetDefault(ctx context.Context) (*Account, error)
}
