// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors; account
// balances, sale totals and swap amounts are all Money.
type Money = decimal.Decimal

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
// This is the preferred method for monetary values.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// NewMoneyFromInt creates a Money value from whole units.
func NewMoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// ClampZero returns m, or zero when m is negative. Balance writes go
// through this so no path can persist a negative balance.
func ClampZero(m Money) Money {
	if m.IsNegative() {
		return decimal.Zero
	}
	return m
}
