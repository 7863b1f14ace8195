package bank

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

// Service runs the bank transaction flow.
type Service struct {
	repo      Repository
	accounts  account.Repository
	txManager tx.Manager
}

// NewService creates a new bank transaction service.
func NewService(repo Repository, accounts account.Repository, txManager tx.Manager) *Service {
	return &Service{repo: repo, accounts: accounts, txManager: txManager}
}

// Create records a bank transaction and adjusts the account.
func (s *Service) Create(ctx context.Context, b *BankTransaction) error {
	if err := b.Validate(); err != nil {
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
	b.UserID = uid

	err = ledger.RunWithRetry(ctx, s.txManager, "bank.create", func(ctx context.Context) error {
		if _, err := s.accounts.GetByID(ctx, b.AccountID); err != nil {
			return err
		}

		if id.IsNil(b.ID) {
			b.ID = id.New()
		}
		if b.CreatedAt.IsZero() {
			b.CreatedAt = time.Now()
		}

		if err := s.repo.Create(ctx, b); err != nil {
			return err
		}

		digital, cash := b.BalanceEffect()
		deltas := ledger.NewDeltaSet()
		deltas.Add(b.AccountID, digital, cash)
		return deltas.Apply(ctx, s.accounts)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "bank transaction created",
		"id", b.ID, "acc", b.Acc, "total", b.Total())
	return nil
}

// Update reverts the old effect and applies the new one.
func (s *Service) Update(ctx context.Context, bankTransactionID id.ID, updated *BankTransaction) error {
	if err := updated.Validate(); err != nil {
		return err
	}

	err := ledger.RunWithRetry(ctx, s.txManager, "bank.update", func(ctx context.Context) error {
		old, err := s.repo.GetByID(ctx, bankTransactionID)
		if err != nil {
			return err
		}

		updated.ID = old.ID
		updated.UserID = old.UserID
		updated.CreatedAt = old.CreatedAt

		deltas := ledger.NewDeltaSet()
		oldDigital, oldCash := old.BalanceEffect()
		deltas.Add(old.AccountID, oldDigital.Neg(), oldCash.Neg())
		newDigital, newCash := updated.BalanceEffect()
		deltas.Add(updated.AccountID, newDigital, newCash)

		if err := s.repo.Update(ctx, updated); err != nil {
			return err
		}
		return deltas.Apply(ctx, s.accounts)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "bank transaction updated", "id", bankTransactionID)
	return nil
}

// Delete reverts the effect and removes the row.
func (s *Service) Delete(ctx context.Context, bankTransactionID id.ID) error {
	err := ledger.RunWithRetry(ctx, s.txManager, "bank.delete", func(ctx context.Context) error {
		old, err := s.repo.GetByID(ctx, bankTransactionID)
		if err != nil {
			return err
		}

		digital, cash := old.BalanceEffect()
		deltas := ledger.NewDeltaSet()
		deltas.Add(old.AccountID, digital.Neg(), cash.Neg())
		if err := deltas.Apply(ctx, s.accounts); err != nil {
			return err
		}

		return s.repo.Delete(ctx, bankTransactionID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "bank transaction deleted", "id", bankTransactionID)
	return nil
}

// GetByID retrieves one bank transaction.
func (s *Service) GetByID(ctx context.Context, bankTransactionID id.ID) (*BankTransaction, error) {
	return s.repo.GetByID(ctx, bankTransactionID)
}

// List retrieves bank transactions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*BankTransaction, error) {
	return s.repo.List(ctx, filter)
}
