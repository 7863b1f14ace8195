// Package account_repo provides the PostgreSQL implementation of the
// account repository.
package account_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
	"dukapos/internal/domain/account"
	"dukapos/internal/infrastructure/storage/postgres"
)

const accountsTable = "accounts"

var accountColumns = []string{"id", "label", "balance", "cash_balance", "is_default", "created_at"}

// AccountRepo implements account.Repository.
type AccountRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewAccountRepo creates a new account repository.
func NewAccountRepo(txm *postgres.TxManager) *AccountRepo {
	return &AccountRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves an account by ID.
func (r *AccountRepo) GetByID(ctx context.Context, accountID id.ID) (*account.Account, error) {
	q := r.builder.Select(accountColumns...).
		From(accountsTable).
		Where(squirrel.Eq{"id": accountID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var acc account.Account
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &acc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("account", accountID)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &acc, nil
}

// GetForUpdate retrieves an account with a pessimistic row lock. Must
// run inside a transaction; outside one the lock is released at once.
func (r *AccountRepo) GetForUpdate(ctx context.Context, accountID id.ID) (*account.Account, error) {
	sql := `
		SELECT id, label, balance, cash_balance, is_default, created_at
		FROM accounts
		WHERE id = $1
		FOR UPDATE
	`

	var acc account.Account
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &acc, sql, accountID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("account", accountID)
		}
		return nil, fmt.Errorf("get account for update: %w", err)
	}
	return &acc, nil
}

// UpdateBalances writes both balance buckets.
func (r *AccountRepo) UpdateBalances(ctx context.Context, accountID id.ID, balance, cashBalance types.Money) error {
	q := r.builder.Update(accountsTable).
		Set("balance", balance).
		Set("cash_balance", cashBalance).
		Where(squirrel.Eq{"id": accountID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update balances: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("account", accountID)
	}
	return nil
}

// List retrieves all accounts.
func (r *AccountRepo) List(ctx context.Context) ([]*account.Account, error) {
	q := r.builder.Select(accountColumns...).
		From(accountsTable).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var accounts []*account.Account
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &accounts, sql, args...); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// GetDefault retrieves the default account.
func (r *AccountRepo) GetDefault(ctx context.Context) (*account.Account, error) {
	q := r.builder.Select(accountColumns...).
		From(accountsTable).
		Where(squirrel.Eq{"is_default": true}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var acc account.Account
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &acc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("account", "default")
		}
		return nil, fmt.Errorf("get default account: %w", err)
	}
	return &acc, nil
}
