package swap

import (
	"context"
	"time"

	"dukapos/internal/core/apperror"
	appctx "dukapos/internal/core/context"
	"dukapos/internal/core/id"
	"dukapos/internal/core/tx"
	"dukapos/internal/domain/account"
	"dukapos/internal/domain/ledger"
	"dukapos/pkg/logger"
)

// Service runs the swap mutation flow.
type Service struct {
	repo      Repository
	accounts  account.Repository
	txManager tx.Manager
}

// NewService creates a new swap service.
func NewService(repo Repository, accounts account.Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, accounts: accounts, txManager: txManager}
}

// effect returns the swap's deltas: debit from, credit to.
func effect(a *AccountSwap) ledger.DeltaSet {
	deltas := ledger.NewDeltaSet()
	deltas.Add(a.FromAccountID, a.FromDigitalAmount.Neg(), a.FromCashAmount.Neg())
	deltas.Add(a.ToAccountID, a.ToDigitalAmount, a.ToCashAmount)
	return deltas
}

// reverse returns the inverse deltas of a swap.
func reverse(a *AccountSwap) ledger.DeltaSet {
	deltas := ledger.NewDeltaSet()
	deltas.Add(a.FromAccountID, a.FromDigitalAmount, a.FromCashAmount)
	deltas.Add(a.ToAccountID, a.ToDigitalAmount.Neg(), a.ToCashAmount.Neg())
	return deltas
}

// Create records a swap and moves the balances.
func (s *Service) Create(ctx context.Context, a *AccountSwap) error {
	if err := a.Validate(); err != nil {
		return err
	}

	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return apperror.NewUnauthorized("missing caller identity")
	}
	uid, err := id.Parse(userID)
	if err != nil {
		return apperror.NewUnauthorized("invalid caller identity")
	}
	a.UserID = uid

	err = ledger.RunWithRetry(ctx, s.txManager, "swap.create", func(ctx context.Context) error {
		// Both accounts must exist before any balance is touched.
		if _, err := s.accounts.GetByID(ctx, a.FromAccountID); err != nil {
			return err
		}
		if _, err := s.accounts.GetByID(ctx, a.ToAccountID); err != nil {
			return err
		}

		if id.IsNil(a.ID) {
			a.ID = id.New()
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = time.Now()
		}

		if err := s.repo.Create(ctx, a); err != nil {
			return err
		}
		return effect(a).Apply(ctx, s.accounts)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "account swap created",
		"id", a.ID, "from", a.FromAccountID, "to", a.ToAccountID,
		"from_amount", a.FromAmount, "to_amount", a.ToAmount)
	return nil
}

// Update reverts the old swap's movement and applies the new one.
func (s *Service) Update(ctx context.Context, swapID id.ID, updated *AccountSwap) error {
	if err := updated.Validate(); err != nil {
		return err
	}

	err := ledger.RunWithRetry(ctx, s.txManager, "swap.update", func(ctx context.Context) error {
		old, err := s.repo.GetByID(ctx, swapID)
		if err != nil {
			return err
		}

		updated.ID = old.ID
		updated.UserID = old.UserID
		updated.CreatedAt = old.CreatedAt

		deltas := reverse(old)
		deltas.Add(updated.FromAccountID, updated.FromDigitalAmount.Neg(), updated.FromCashAmount.Neg())
		deltas.Add(updated.ToAccountID, updated.ToDigitalAmount, updated.ToCashAmount)

		if err := s.repo.Update(ctx, updated); err != nil {
			return err
		}
		return deltas.Apply(ctx, s.accounts)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "account swap updated", "id", swapID)
	return nil
}

// Delete reverts the swap's movement and removes the row.
func (s *Service) Delete(ctx context.Context, swapID id.ID) error {
	err := ledger.RunWithRetry(ctx, s.txManager, "swap.delete", func(ctx context.Context) error {
		old, err := s.repo.GetByID(ctx, swapID)
		if err != nil {
			return err
		}
		if err := reverse(old).Apply(ctx, s.accounts); err != nil {
			return err
		}
		return s.repo.Delete(ctx, swapID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "account swap deleted", "id", swapID)
	return nil
}

// GetByID retrieves one swap.
func (s *Service) GetByID(ctx context.Context, swapID id.ID) (*AccountSwap, error) {
	return s.repo.GetByID(ctx, swapID)
}

// List retrieves swaps with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*AccountSwap, error) {
	return s.repo.List(ctx, filter)
}
