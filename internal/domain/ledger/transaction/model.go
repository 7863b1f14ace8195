// Package transaction provides manual ledger transactions: plain
// credit/debit of one balance bucket, or an internal exchange moving
// value between an account's cash and digital buckets.
package transaction

import (
	"strings"
	"time"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

// Acc directions.
const (
	AccCredit = "Cr"
	AccDebit  = "Dr"
)

// Exchange types (only when IsExchange).
const (
	ExchangeWithdrawal = "withdrawal"
	ExchangeDeposit    = "deposit"
)

// Bucket selectors for plain credit/debit.
const (
	TypeCash    = "cash"
	TypeDigital = "digital"
)

// Transaction is one manual ledger entry against a single account.
// Exactly one of two effect modes applies: plain Cr/Dr of one bucket,
// or an internal exchange between the account's two buckets.
type Transaction struct {
	ID         id.ID `db:"id" json:"id"`
	UserID     id.ID `db:"user_id" json:"userId"`
	AccountID  id.ID `db:"account_id" json:"accountId"`
	CategoryID id.ID `db:"category_id" json:"categoryId"`

	Amount types.Money `db:"amount" json:"amount"`

	// AmountType is the currency tag, inferred from the account.
	AmountType string `db:"amount_type" json:"amountType"`

	// Type selects the bucket for plain Cr/Dr: cash -> cashBalance,
	// anything else -> balance. Irrelevant when IsExchange.
	Type string `db:"type" json:"type"`

	Acc          string `db:"acc" json:"acc"`
	IsExchange   bool   `db:"is_exchange" json:"isExchange"`
	ExchangeType string `db:"exchange_type" json:"exchangeType,omitempty"`

	SenderName    string `db:"sender_name" json:"senderName,omitempty"`
	SenderPhone   string `db:"sender_phone" json:"senderPhone,omitempty"`
	ReceiverName  string `db:"receiver_name" json:"receiverName,omitempty"`
	ReceiverPhone string `db:"receiver_phone" json:"receiverPhone,omitempty"`

	TranDate  time.Time `db:"tran_date" json:"tranDate"`
	Ref       string    `db:"ref" json:"ref"`
	Details   string    `db:"details" json:"details,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// NewRef generates a unique transaction reference.
func NewRef() string {
	raw := strings.ReplaceAll(id.New().String(), "-", "")
	return "TXN-" + strings.ToUpper(raw[:12])
}

// Validate checks the transaction's mode and amounts.
func (t *Transaction) Validate() error {
	if id.IsNil(t.AccountID) {
		return apperror.NewValidation("account is required").WithDetail("field", "accountId")
	}
	if !t.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").WithDetail("field", "amount")
	}

	if t.IsExchange {
		if t.ExchangeType != ExchangeWithdrawal && t.ExchangeType != ExchangeDeposit {
			return apperror.NewValidation("exchangeType must be withdrawal or deposit").
				WithDetail("field", "exchangeType")
		}
		return nil
	}

	if t.Acc != AccCredit && t.Acc != AccDebit {
		return apperror.NewValidation("acc must be Cr or Dr").WithDetail("field", "acc")
	}
	return nil
}

// BalanceEffect returns the signed change to the account's digital and
// cash buckets. Exchange withdrawal moves amount from digital to cash;
// deposit is the reverse. Plain Cr adds to one bucket, Dr subtracts.
func (t *Transaction) BalanceEffect() (digital, cash types.Money) {
	if t.IsExchange {
		if t.ExchangeType == ExchangeWithdrawal {
			return t.Amount.Neg(), t.Amount
		}
		return t.Amount, t.Amount.Neg()
	}

	amount := t.Amount
	if t.Acc == AccDebit {
		amount = amount.Neg()
	}
	if t.Type == TypeCash {
		return types.Zero(), amount
	}
	return amount, types.Zero()
}

// effectFields reports whether two transactions differ in any field
// that changes the balance effect.
func effectFieldsChanged(old, updated *Transaction) bool {
	return !old.Amount.Equal(updated.Amount) ||
		old.Acc != updated.Acc ||
		old.Type != updated.Type ||
		old.IsExchange != updated.IsExchange ||
		old.ExchangeType != updated.ExchangeType ||
		old.AccountID != updated.AccountID
}
