// Package swap provides account-to-account transfers at a recorded
// exchange rate, debiting one account's two buckets and crediting the
// other's.
package swap

import (
	"time"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

// AccountSwap moves value between two distinct accounts. The from and
// to totals need not match: the exchange rate models conversion
// between differing currencies, so value conservation is not enforced.
type AccountSwap struct {
	ID id.ID `db:"id" json:"id"`

	FromAccountID id.ID `db:"from_account_id" json:"fromAccountId"`
	ToAccountID   id.ID `db:"to_account_id" json:"toAccountId"`

	FromCashAmount    types.Money `db:"from_cash_amount" json:"fromCashAmount"`
	FromDigitalAmount types.Money `db:"from_digital_amount" json:"fromDigitalAmount"`
	FromAmount        types.Money `db:"from_amount" json:"fromAmount"`

	ToCashAmount    types.Money `db:"to_cash_amount" json:"toCashAmount"`
	ToDigitalAmount types.Money `db:"to_digital_amount" json:"toDigitalAmount"`
	ToAmount        types.Money `db:"to_amount" json:"toAmount"`

	ExchangeRate types.Money `db:"exchange_rate" json:"exchangeRate"`
	Details      string      `db:"details" json:"details,omitempty"`
	UserID       id.ID       `db:"user_id" json:"userId"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
}

// Validate checks the swap's accounts and split-sum invariants.
func (a *AccountSwap) Validate() error {
	if id.IsNil(a.FromAccountID) || id.IsNil(a.ToAccountID) {
		return apperror.NewValidation("both accounts are required")
	}
	if a.FromAccountID == a.ToAccountID {
		return apperror.NewValidation("from and to accounts must differ")
	}
	if a.FromCashAmount.IsNegative() || a.FromDigitalAmount.IsNegative() ||
		a.ToCashAmount.IsNegative() || a.ToDigitalAmount.IsNegative() {
		return apperror.NewValidation("swap amounts cannot be negative")
	}
	if !a.FromAmount.Equal(a.FromCashAmount.Add(a.FromDigitalAmount)) {
		return apperror.NewValidation("fromAmount must equal fromCashAmount plus fromDigitalAmount")
	}
	if !a.ToAmount.Equal(a.ToCashAmount.Add(a.ToDigitalAmount)) {
		return apperror.NewValidation("toAmount must equal toCashAmount plus toDigitalAmount")
	}
	return nil
}
