package transaction

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

// Service runs the manual transaction flow.
type Service struct {
	repo      Repository
	accounts  account.Repository
	txManager tx.Manager
}

// NewService creates a new transaction service.
func NewService(repo Repository, accounts account.Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, accounts: accounts, txManager: txManager}
}

// Create validates and records a transaction, applying its effect to
// the account in the same database transaction.
func (s *Service) Create(ctx context.Context, t *Transaction) error {
	if err := t.Validate(); err != nil {
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
	t.UserID = uid

	err = ledger.RunWithRetry(ctx, s.txManager, "transaction.create", func(ctx context.Context) error {
		acc, err := s.accounts.GetByID(ctx, t.AccountID)
		if err != nil {
			return err
		}
		// The currency tag follows the account.
		t.AmountType = acc.Label

		if id.IsNil(t.ID) {
			t.ID = id.New()
		}
		if t.Ref == "" {
			t.Ref = NewRef()
		}
		if t.TranDate.IsZero() {
			t.TranDate = time.Now()
		}
		if t.CreatedAt.IsZero() {
			t.CreatedAt = time.Now()
		}

		if err := s.repo.Create(ctx, t); err != nil {
			return err
		}

		digital, cash := t.BalanceEffect()
		deltas := ledger.NewDeltaSet()
		deltas.Add(t.AccountID, digital, cash)
		return deltas.Apply(ctx, s.accounts)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transaction created",
		"id", t.ID, "ref", t.Ref, "amount", t.Amount, "exchange", t.IsExchange)
	return nil
}

// Update rewrites a transaction. When any balance-relevant field
// changed, the old effect is reverted and the new one applied; deltas
// net per account before writing, so an update that keeps the same
// account writes that account exactly once.
func (s *Service) Update(ctx context.Context, transactionID id.ID, updated *Transaction) error {
	if err := updated.Validate(); err != nil {
		return err
	}

	err := ledger.RunWithRetry(ctx, s.txManager, "transaction.update", func(ctx context.Context) error {
		old, err := s.repo.GetByID(ctx, transactionID)
		if err != nil {
			return err
		}

		updated.ID = old.ID
		updated.UserID = old.UserID
		updated.Ref = old.Ref
		updated.CreatedAt = old.CreatedAt
		if updated.TranDate.IsZero() {
			updated.TranDate = old.TranDate
		}

		if effectFieldsChanged(old, updated) {
			acc, err := s.accounts.GetByID(ctx, updated.AccountID)
			if err != nil {
				return err
			}
			updated.AmountType = acc.Label

			deltas := ledger.NewDeltaSet()
			oldDigital, oldCash := old.BalanceEffect()
			deltas.Add(old.AccountID, oldDigital.Neg(), oldCash.Neg())
			newDigital, newCash := updated.BalanceEffect()
			deltas.Add(updated.AccountID, newDigital, newCash)
			if err := deltas.Apply(ctx, s.accounts); err != nil {
				return err
			}
		} else {
			updated.AmountType = old.AmountType
		}

		return s.repo.Update(ctx, updated)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transaction updated", "id", transactionID)
	return nil
}

// Delete reverts the transaction's effect and removes the row.
func (s *Service) Delete(ctx context.Context, transactionID id.ID) error {
	err := ledger.RunWithRetry(ctx, s.txManager, "transaction.delete", func(ctx context.Context) error {
		old, err := s.repo.GetByID(ctx, transactionID)
		if err != nil {
			return err
		}

		digital, cash := old.BalanceEffect()
		deltas := ledger.NewDeltaSet()
		deltas.Add(old.AccountID, digital.Neg(), cash.Neg())
		if err := deltas.Apply(ctx, s.accounts); err != nil {
			return err
		}

		return s.repo.Delete(ctx, transactionID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transaction deleted", "id", transactionID)
	return nil
}

// GetByID retrieves one transaction.
func (s *Service) GetByID(ctx context.Context, transactionID id.ID) (*Transaction, error) {
	return s.repo.GetByID(ctx, transactionID)
}

// List retrieves transactions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.List(ctx, filter)
}
