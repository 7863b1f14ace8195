package history

import (
	"context"
	"time"

	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
	"dukapos/internal/domain/ledger/bank"
	"dukapos/internal/domain/ledger/sale"
	"dukapos/internal/domain/ledger/swap"
	"dukapos/internal/domain/ledger/transaction"
)

// Repository defines the read queries the reconstructor needs. Range
// queries return rows ordered by timestamp ascending; the *Before
// aggregates run as SQL sums so the walk-back never materializes old
// rows.
type Repository interface {
	// NetTransactionEffectBefore sums the signed effect of all
	// transactions against the account dated strictly before the cutoff.
	NetTransactionEffectBefore(ctx context.Context, accountID id.ID, before time.Time) (types.Money, error)

	// SalesTotalBefore sums sell totals for the account before the cutoff.
	SalesTotalBefore(ctx context.Context, accountID id.ID, before time.Time) (types.Money, error)

	// SwapNetBefore sums swap credits minus debits for the account
	// before the cutoff.
	SwapNetBefore(ctx context.Context, accountID id.ID, before time.Time) (types.Money, error)

	TransactionsInRange(ctx context.Context, accountID id.ID, from, to time.Time) ([]*transaction.Transaction, error)
	SellsInRange(ctx context.Context, accountID id.ID, from, to time.Time) ([]*sale.Sell, error)
	// SwapsInRange returns swaps touching the account on either side.
	SwapsInRange(ctx context.Context, accountID id.ID, from, to time.Time) ([]*swap.AccountSwap, error)
	BankTransactionsInRange(ctx context.Context, accountID id.ID, from, to time.Time) ([]*bank.BankTransaction, error)
}
