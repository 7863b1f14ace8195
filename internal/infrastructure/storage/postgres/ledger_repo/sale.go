// Package ledger_repo provides PostgreSQL implementations for the
// ledger repositories: sells, transactions, swaps, bank transactions
// and the history read queries.
package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/ledger/sale"
	"dukapos/internal/infrastructure/storage/postgres"
)

const (
	sellsTable     = "sells"
	sellItemsTable = "sell_items"
)

var sellColumns = []string{
	"id", "user_id", "account_id", "order_id", "total",
	"type", "cash_amount", "digital_amount", "status", "created_at",
}

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts the sell row. Items go through SaveItems.
func (r *SaleRepo) Create(ctx context.Context, s *sale.Sell) error {
	q := r.builder.Insert(sellsTable).
		Columns(sellColumns...).
		Values(s.ID, s.UserID, s.AccountID, s.OrderID, s.Total,
			s.Type, s.CashAmount, s.DigitalAmount, s.Status, s.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sell: %w", err)
	}
	return nil
}

// Update rewrites the sell row.
func (r *SaleRepo) Update(ctx context.Context, s *sale.Sell) error {
	q := r.builder.Update(sellsTable).
		Set("account_id", s.AccountID).
		Set("total", s.Total).
		Set("type", s.Type).
		Set("cash_amount", s.CashAmount).
		Set("digital_amount", s.DigitalAmount).
		Set("status", s.Status).
		Where(squirrel.Eq{"id": s.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sell: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sell", s.ID)
	}
	return nil
}

// Delete removes the sell row. Items must already be deleted.
func (r *SaleRepo) Delete(ctx context.Context, sellID id.ID) error {
	q := r.builder.Delete(sellsTable).Where(squirrel.Eq{"id": sellID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete sell: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sell", sellID)
	}
	return nil
}

// GetByID retrieves a sell with its items.
func (r *SaleRepo) GetByID(ctx context.Context, sellID id.ID) (*sale.Sell, error) {
	q := r.builder.Select(sellColumns...).
		From(sellsTable).
		Where(squirrel.Eq{"id": sellID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var s sale.Sell
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sell", sellID)
		}
		return nil, fmt.Errorf("get sell: %w", err)
	}

	items, err := r.loadItems(ctx, sellID)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return &s, nil
}

// SaveItems batch inserts line items for a sell.
func (r *SaleRepo) SaveItems(ctx context.Context, sellID id.ID, items []sale.SellItem) error {
	if len(items) == 0 {
		return nil
	}

	q := r.builder.Insert(sellItemsTable).
		Columns("id", "sell_id", "product_id", "sku_id", "price", "quantity")
	for _, item := range items {
		q = q.Values(item.ID, sellID, item.ProductID, item.SkuID, item.Price, item.Quantity)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sell items: %w", err)
	}
	return nil
}

// DeleteItems removes all line items of a sell.
func (r *SaleRepo) DeleteItems(ctx context.Context, sellID id.ID) error {
	q := r.builder.Delete(sellItemsTable).Where(squirrel.Eq{"sell_id": sellID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("delete sell items: %w", err)
	}
	return nil
}

// List retrieves sells with filtering, newest first, items included.
func (r *SaleRepo) List(ctx context.Context, filter sale.ListFilter) ([]*sale.Sell, error) {
	q := r.builder.Select(sellColumns...).
		From(sellsTable).
		OrderBy("created_at DESC")

	if filter.AccountID != nil {
		q = q.Where(squirrel.Eq{"account_id": *filter.AccountID})
	}
	if filter.UserID != nil {
		q = q.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"status": filter.Status})
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

	var sells []*sale.Sell
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &sells, sql, args...); err != nil {
		return nil, fmt.Errorf("list sells: %w", err)
	}

	for _, s := range sells {
		items, err := r.loadItems(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.Items = items
	}
	return sells, nil
}

func (r *SaleRepo) loadItems(ctx context.Context, sellID id.ID) ([]sale.SellItem, error) {
	q := r.builder.Select("id", "sell_id", "product_id", "sku_id", "price", "quantity").
		From(sellItemsTable).
		Where(squirrel.Eq{"sell_id": sellID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []sale.SellItem
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list sell items: %w", err)
	}
	return items, nil
}
