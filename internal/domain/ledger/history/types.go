// Package history reconstructs an account's running-balance timeline
// for a date window from the durable output of the four ledger flows.
// It is read-only: no side effects, no locks.
package history

import (
	"time"

	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

// Entry types appearing in the timeline.
const (
	EntryInitial        = "initial"
	EntryTransactionIn  = "transaction-in"
	EntryTransactionOut = "transaction-out"
	EntrySale           = "sale"
	EntrySwapIn         = "swap-in"
	EntrySwapOut        = "swap-out"
	EntryBankIn         = "bank-in"
	EntryBankOut        = "bank-out"
)

// Entry is one point on the timeline. Amount is signed; Balance is the
// running balance after applying this entry.
type Entry struct {
	Date        time.Time      `json:"date"`
	Type        string         `json:"type"`
	Amount      types.Money    `json:"amount"`
	Description string         `json:"description"`
	Details     map[string]any `json:"details,omitempty"`
	Balance     types.Money    `json:"balance"`
}

// Summary aggregates the window.
type Summary struct {
	StartingBalance types.Money `json:"startingBalance"`
	FinalBalance    types.Money `json:"finalBalance"`
	NetChange       types.Money `json:"netChange"`

	// TotalIn/TotalOut cover external transaction flow only; internal
	// cash<->digital exchanges appear on the timeline but not here.
	TotalIn      types.Money `json:"totalIn"`
	TotalOut     types.Money `json:"totalOut"`
	TotalSwapIn  types.Money `json:"totalSwapIn"`
	TotalSwapOut types.Money `json:"totalSwapOut"`
	TotalBankIn  types.Money `json:"totalBankIn"`
	TotalBankOut types.Money `json:"totalBankOut"`
	TotalSales   types.Money `json:"totalSales"`

	TransactionCount int `json:"transactionCount"`
	SaleCount        int `json:"saleCount"`
	SwapCount        int `json:"swapCount"`
	BankCount        int `json:"bankCount"`
}

// Report is the full response for one account and window.
type Report struct {
	AccountID id.ID     `json:"accountId"`
	FromDate  time.Time `json:"fromDate"`
	ToDate    time.Time `json:"toDate"`
	Summary   Summary   `json:"summary"`
	Timeline  []Entry   `json:"timeline"`
}
