// Package sale provides the sale mutation flow: creating, updating and
// deleting sells while keeping SKU stock and account balances in step.
package sale

import (
	"time"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

// Payment types for a sell.
const (
	PaymentCash    = "cash"
	PaymentDigital = "digital"
	PaymentBoth    = "both"
)

// Sell statuses.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Sell is a completed or pending sale with its line items.
type Sell struct {
	ID        id.ID  `db:"id" json:"id"`
	UserID    id.ID  `db:"user_id" json:"userId"`
	AccountID id.ID  `db:"account_id" json:"accountId"`
	OrderID   string `db:"order_id" json:"orderId"`

	Total types.Money `db:"total" json:"total"`

	// Type selects the balance bucket(s) the total credits:
	// cash -> cashBalance, digital -> balance, both -> split amounts.
	Type          string      `db:"type" json:"type"`
	CashAmount    types.Money `db:"cash_amount" json:"cashAmount"`
	DigitalAmount types.Money `db:"digital_amount" json:"digitalAmount"`

	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`

	Items []SellItem `db:"-" json:"items"`
}

// SellItem is one line of a sell.
type SellItem struct {
	ID        id.ID       `db:"id" json:"id"`
	SellID    id.ID       `db:"sell_id" json:"sellId"`
	ProductID id.ID       `db:"product_id" json:"productId"`
	SkuID     id.ID       `db:"sku_id" json:"skuId"`
	Price     types.Money `db:"price" json:"price"`
	Quantity  int         `db:"quantity" json:"quantity"`
}

// ComputeTotal returns the sum of price*quantity over all items.
func (s *Sell) ComputeTotal() types.Money {
	total := types.Zero()
	for _, item := range s.Items {
		total = total.Add(item.Price.Mul(types.NewMoneyFromInt(int64(item.Quantity))))
	}
	return total
}

// Validate checks a sell before any stock or balance work.
func (s *Sell) Validate() error {
	if id.IsNil(s.AccountID) {
		return apperror.NewValidation("account is required").WithDetail("field", "accountId")
	}
	if len(s.Items) == 0 {
		return apperror.NewValidation("at least one item is required").WithDetail("field", "items")
	}
	for i, item := range s.Items {
		if id.IsNil(item.SkuID) {
			return apperror.NewValidation("sku is required").
				WithDetail("field", "items").WithDetail("itemNo", i+1)
		}
		if item.Quantity <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").WithDetail("itemNo", i+1)
		}
		if item.Price.IsNegative() {
			return apperror.NewValidation("price cannot be negative").
				WithDetail("field", "items").WithDetail("itemNo", i+1)
		}
	}

	switch s.Type {
	case PaymentCash, PaymentDigital:
	case PaymentBoth:
		if s.CashAmount.IsNegative() || s.DigitalAmount.IsNegative() {
			return apperror.NewValidation("split amounts cannot be negative")
		}
		if !s.CashAmount.IsPositive() && !s.DigitalAmount.IsPositive() {
			return apperror.NewValidation("at least one of cashAmount and digitalAmount must be positive")
		}
		// The split must account for the full total.
		if !s.CashAmount.Add(s.DigitalAmount).Equal(s.ComputeTotal()) {
			return apperror.NewValidation("cashAmount and digitalAmount must sum to the sale total").
				WithDetail("cashAmount", s.CashAmount).
				WithDetail("digitalAmount", s.DigitalAmount).
				WithDetail("total", s.ComputeTotal())
		}
	default:
		return apperror.NewValidation("type must be cash, digital or both").WithDetail("field", "type")
	}

	if s.Status == "" {
		s.Status = StatusPaid
	}
	return nil
}

// BalanceEffect returns the digital and cash credit this sell applies
// to its account. Reversal negates both.
func (s *Sell) BalanceEffect() (digital, cash types.Money) {
	switch s.Type {
	case PaymentCash:
		return types.Zero(), s.Total
	case PaymentDigital:
		return s.Total, types.Zero()
	default: // both
		return s.DigitalAmount, s.CashAmount
	}
}
