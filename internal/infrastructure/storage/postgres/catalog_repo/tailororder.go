package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/catalog"
	"dukapos/internal/infrastructure/storage/postgres"
)

const tailorOrdersTable = "tailor_orders"

var tailorOrderColumns = []string{
	"id", "customer_id", "description", "measurements",
	"price", "status", "due_date", "created_at",
}

// TailorOrderRepo implements catalog.TailorOrderRepository.
type TailorOrderRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewTailorOrderRepo creates a new tailor order repository.
func NewTailorOrderRepo(txm *postgres.TxManager) *TailorOrderRepo {
	return &TailorOrderRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a tailor order row.
func (r *TailorOrderRepo) Create(ctx context.Context, t *catalog.TailorOrder) error {
	q := r.builder.Insert(tailorOrdersTable).
		Columns(tailorOrderColumns...).
		Values(t.ID, t.CustomerID, t.Description, t.Measurements,
			t.Price, t.Status, t.DueDate, t.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert tailor order: %w", err)
	}
	return nil
}

// Update rewrites a tailor order row.
func (r *TailorOrderRepo) Update(ctx context.Context, t *catalog.TailorOrder) error {
	q := r.builder.Update(tailorOrdersTable).
		Set("customer_id", t.CustomerID).
		Set("description", t.Description).
		Set("measurements", t.Measurements).
		Set("price", t.Price).
		Set("status", t.Status).
		Set("due_date", t.DueDate).
		Where(squirrel.Eq{"id": t.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update tailor order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("tailor order", t.ID)
	}
	return nil
}

// Delete removes a tailor order row.
func (r *TailorOrderRepo) Delete(ctx context.Context, orderID id.ID) error {
	q := r.builder.Delete(tailorOrdersTable).Where(squirrel.Eq{"id": orderID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete tailor order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("tailor order", orderID)
	}
	return nil
}

// GetByID retrieves one tailor order.
func (r *TailorOrderRepo) GetByID(ctx context.Context, orderID id.ID) (*catalog.TailorOrder, error) {
	q := r.builder.Select(tailorOrderColumns...).
		From(tailorOrdersTable).
		Where(squirrel.Eq{"id": orderID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t catalog.TailorOrder
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("tailor order", orderID)
		}
		return nil, fmt.Errorf("get tailor order: %w", err)
	}
	return &t, nil
}

// List retrieves all tailor orders, soonest due first.
func (r *TailorOrderRepo) List(ctx context.Context) ([]*catalog.TailorOrder, error) {
	q := r.builder.Select(tailorOrderColumns...).
		From(tailorOrdersTable).
		OrderBy("due_date NULLS LAST", "created_at DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var orders []*catalog.TailorOrder
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &orders, sql, args...); err != nil {
		return nil, fmt.Errorf("list tailor orders: %w", err)
	}
	return orders, nil
}
