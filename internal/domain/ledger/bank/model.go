// Package bank provides bank deposits and withdrawals recorded against
// an internal account, with the external bank account as metadata.
package bank

import (
	"time"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

// Acc directions for bank transactions.
const (
	AccCredit = "cr"
	AccDebit  = "dr"
)

// BankTransaction adjusts one account's split balances. cr credits
// both buckets by the given amounts, dr debits them.
type BankTransaction struct {
	ID            id.ID `db:"id" json:"id"`
	AccountID     id.ID `db:"account_id" json:"accountId"`
	BankAccountID id.ID `db:"bank_account_id" json:"bankAccountId"`

	Acc string `db:"acc" json:"acc"`

	CashAmount    types.Money `db:"cash_amount" json:"cashBalance"`
	DigitalAmount types.Money `db:"digital_amount" json:"digitalBalance"`

	Details   string    `db:"details" json:"details,omitempty"`
	UserID    id.ID     `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks direction and amounts.
func (b *BankTransaction) Validate() error {
	if id.IsNil(b.AccountID) {
		return apperror.NewValidation("account is required").WithDetail("field", "accountId")
	}
	if id.IsNil(b.BankAccountID) {
		return apperror.NewValidation("bank account is required").WithDetail("field", "bankAccountId")
	}
	if b.Acc != AccCredit && b.Acc != AccDebit {
		return apperror.NewValidation("acc must be cr or dr").WithDetail("field", "acc")
	}
	if b.CashAmount.IsNegative() || b.DigitalAmount.IsNegative() {
		return apperror.NewValidation("amounts cannot be negative")
	}
	if !b.CashAmount.IsPositive() && !b.DigitalAmount.IsPositive() {
		return apperror.NewValidation("at least one amount must be positive")
	}
	return nil
}

// Total returns the combined value moved by this bank transaction.
func (b *BankTransaction) Total() types.Money {
	return b.CashAmount.Add(b.DigitalAmount)
}

// BalanceEffect returns the signed change to the account's buckets.
func (b *BankTransaction) BalanceEffect() (digital, cash types.Money) {
	if b.Acc == AccCredit {
		return b.DigitalAmount, b.CashAmount
	}
	return b.DigitalAmount.Neg(), b.CashAmount.Neg()
}
