package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/ledger/swap"
	"dukapos/internal/infrastructure/storage/postgres"
)

const swapsTable = "account_swaps"

var swapColumns = []string{
	"id", "from_account_id", "to_account_id",
	"from_cash_amount", "from_digital_amount", "from_amount",
	"to_cash_amount", "to_digital_amount", "to_amount",
	"exchange_rate", "details", "user_id", "created_at",
}

// SwapRepo implements swap.Repository.
type SwapRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSwapRepo creates a new swap repository.
func NewSwapRepo(txm *postgres.TxManager) *SwapRepo {
	return &SwapRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a swap row.
func (r *SwapRepo) Create(ctx context.Context, a *swap.AccountSwap) error {
	q := r.builder.Insert(swapsTable).
		Columns(swapColumns...).
		Values(a.ID, a.FromAccountID, a.ToAccountID,
			a.FromCashAmount, a.FromDigitalAmount, a.FromAmount,
			a.ToCashAmount, a.ToDigitalAmount, a.ToAmount,
			a.ExchangeRate, a.Details, a.UserID, a.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert swap: %w", err)
	}
	return nil
}

// Update rewrites a swap row.
func (r *SwapRepo) Update(ctx context.Context, a *swap.AccountSwap) error {
	q := r.builder.Update(swapsTable).
		Set("from_account_id", a.FromAccountID).
		Set("to_account_id", a.ToAccountID).
		Set("from_cash_amount", a.FromCashAmount).
		Set("from_digital_amount", a.FromDigitalAmount).
		Set("from_amount", a.FromAmount).
		Set("to_cash_amount", a.ToCashAmount).
		Set("to_digital_amount", a.ToDigitalAmount).
		Set("to_amount", a.ToAmount).
		Set("exchange_rate", a.ExchangeRate).
		Set("details", a.Details).
		Where(squirrel.Eq{"id": a.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update swap: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("swap", a.ID)
	}
	return nil
}

// Delete removes a swap row.
func (r *SwapRepo) Delete(ctx context.Context, swapID id.ID) error {
	q := r.builder.Delete(swapsTable).Where(squirrel.Eq{"id": swapID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete swap: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("swap", swapID)
	}
	return nil
}

// GetByID retrieves one swap.
func (r *SwapRepo) GetByID(ctx context.Context, swapID id.ID) (*swap.AccountSwap, error) {
	q := r.builder.Select(swapColumns...).
		From(swapsTable).
		Where(squirrel.Eq{"id": swapID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var a swap.AccountSwap
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("swap", swapID)
		}
		return nil, fmt.Errorf("get swap: %w", err)
	}
	return &a, nil
}

// List retrieves swaps with filtering, newest first. AccountID matches
// either side.
func (r *SwapRepo) List(ctx context.Context, filter swap.ListFilter) ([]*swap.AccountSwap, error) {
	q := r.builder.Select(swapColumns...).
		From(swapsTable).
		OrderBy("created_at DESC")

	if filter.AccountID != nil {
		q = q.Where(squirrel.Or{
			squirrel.Eq{"from_account_id": *filter.AccountID},
			squirrel.Eq{"to_account_id": *filter.AccountID},
		})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.DateTo})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var swaps []*swap.AccountSwap
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &swaps, sql, args...); err != nil {
		return nil, fmt.Errorf("list swaps: %w", err)
	}
	return swaps, nil
}
