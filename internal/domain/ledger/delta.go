// Package ledger provides the pieces shared by the four balance
// mutation flows: per-account delta accumulation and the retry runner.
package ledger

import (
	"bytes"
	"context"
	"slices"

	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
	"dukapos/internal/domain/account"
)

// Delta is a pending change to one account's two balance buckets.
type Delta struct {
	Digital types.Money
	Cash    types.Money
}

// DeltaSet accumulates balance changes per account within one
// operation. Reverting an old effect and applying a new one on the
// same account nets out here before any row is written, so each
// touched account is locked and written exactly once.
type DeltaSet map[id.ID]*Delta

// NewDeltaSet creates an empty delta set.
func NewDeltaSet() DeltaSet {
	return make(DeltaSet)
}

// Add accumulates a digital/cash change for an account.
func (s DeltaSet) Add(accountID id.ID, digital, cash types.Money) {
	d, ok := s[accountID]
	if !ok {
		d = &Delta{Digital: types.Zero(), Cash: types.Zero()}
		s[accountID] = d
	}
	d.Digital = d.Digital.Add(digital)
	d.Cash = d.Cash.Add(cash)
}

// Apply locks every touched account, adds the accumulated deltas and
// writes the new balances. Accounts are locked in ID order so two
// concurrent operations touching the same pair cannot deadlock.
// Negative results clamp at zero; no path persists a negative balance.
// Must run inside a transaction.
func (s DeltaSet) Apply(ctx context.Context, accounts account.Repository) error {
	ids := make([]id.ID, 0, len(s))
	for accountID := range s {
		ids = append(ids, accountID)
	}
	slices.SortFunc(ids, func(a, b id.ID) int {
		return bytes.Compare(a[:], b[:])
	})

	for _, accountID := range ids {
		d := s[accountID]
		if d.Digital.IsZero() && d.Cash.IsZero() {
			continue
		}

		acc, err := accounts.GetForUpdate(ctx, accountID)
		if err != nil {
			return err
		}

		newBalance := types.ClampZero(acc.Balance.Add(d.Digital))
		newCash := types.ClampZero(acc.CashBalance.Add(d.Cash))

		if err := accounts.UpdateBalances(ctx, accountID, newBalance, newCash); err != nil {
			return err
		}
	}
	return nil
}
