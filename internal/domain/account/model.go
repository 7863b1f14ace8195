// Package account provides the account store: durable records holding
// the two balances every ledger flow mutates.
package account

import (
	"time"

	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

// Account holds a digital balance (mobile money) and a physical cash
// balance for a single currency context. Balances are shared mutable
// state; they are only written under a row lock inside a ledger
// transaction, and every write clamps at zero.
type Account struct {
	ID id.ID `db:"id" json:"id"`

	// Label is the currency/display tag, e.g. "KES" or "USD".
	Label string `db:"label" json:"account"`

	// Balance is the digital/mobile-money bucket.
	Balance types.Money `db:"balance" json:"balance"`

	// CashBalance is the physical cash bucket.
	CashBalance types.Money `db:"cash_balance" json:"cashBalance"`

	// IsDefault marks the account sales credit when none is chosen.
	// At most one account per currency context should be default.
	IsDefault bool `db:"is_default" json:"default"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
