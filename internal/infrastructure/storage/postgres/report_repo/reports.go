// Package report_repo provides the PostgreSQL implementation of the
// report aggregation queries.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"dukapos/internal/core/types"
	"dukapos/internal/domain/reports"
	"dukapos/internal/infrastructure/storage/postgres"
)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm *postgres.TxManager
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{txm: txm}
}

// rangeBounds widens zero-valued range edges so every query can use
// the same BETWEEN predicate.
func rangeBounds(r reports.Range) (time.Time, time.Time) {
	from := r.From
	to := r.To
	if from.IsZero() {
		from = time.Unix(0, 0)
	}
	if to.IsZero() {
		to = time.Now()
	}
	return from, to
}

// SalesByProduct aggregates sold quantity and revenue per product.
func (r *ReportRepo) SalesByProduct(ctx context.Context, rng reports.Range) ([]*reports.ProductSales, error) {
	from, to := rangeBounds(rng)

	sql := `
		SELECT
			p.id AS product_id,
			p.name AS product_name,
			COALESCE(SUM(si.quantity), 0)::int AS quantity,
			COALESCE(SUM(si.price * si.quantity), 0) AS revenue
		FROM sell_items si
		JOIN sells s ON si.sell_id = s.id
		JOIN products p ON si.product_id = p.id
		WHERE s.created_at BETWEEN $1 AND $2
		GROUP BY p.id, p.name
		ORDER BY revenue DESC
	`

	var rows []*reports.ProductSales
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, from, to); err != nil {
		return nil, fmt.Errorf("sales by product: %w", err)
	}
	return rows, nil
}

// SalesByCategory aggregates sold quantity and revenue per category.
func (r *ReportRepo) SalesByCategory(ctx context.Context, rng reports.Range) ([]*reports.CategorySales, error) {
	from, to := rangeBounds(rng)

	sql := `
		SELECT
			c.id AS category_id,
			c.name AS category_name,
			COALESCE(SUM(si.quantity), 0)::int AS quantity,
			COALESCE(SUM(si.price * si.quantity), 0) AS revenue
		FROM sell_items si
		JOIN sells s ON si.sell_id = s.id
		JOIN products p ON si.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE s.created_at BETWEEN $1 AND $2
		GROUP BY c.id, c.name
		ORDER BY revenue DESC
	`

	var rows []*reports.CategorySales
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, from, to); err != nil {
		return nil, fmt.Errorf("sales by category: %w", err)
	}
	return rows, nil
}

// SwapSummary aggregates swap count and volume per account pair.
func (r *ReportRepo) SwapSummary(ctx context.Context, rng reports.Range) ([]*reports.SwapSummary, error) {
	from, to := rangeBounds(rng)

	sql := `
		SELECT
			from_account_id,
			to_account_id,
			COUNT(*)::int AS count,
			COALESCE(SUM(from_amount), 0) AS total_from,
			COALESCE(SUM(to_amount), 0) AS total_to
		FROM account_swaps
		WHERE created_at BETWEEN $1 AND $2
		GROUP BY from_account_id, to_account_id
		ORDER BY total_from DESC
	`

	var rows []*reports.SwapSummary
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, from, to); err != nil {
		return nil, fmt.Errorf("swap summary: %w", err)
	}
	return rows, nil
}

// lowStockThreshold marks SKUs worth restocking on the dashboard.
const lowStockThreshold = 5

// Dashboard computes the front-page summary in one round trip.
func (r *ReportRepo) Dashboard(ctx context.Context) (*reports.Dashboard, error) {
	now := time.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	sql := `
		SELECT
			(SELECT COALESCE(SUM(total), 0) FROM sells WHERE created_at >= $1) AS today_sales,
			(SELECT COUNT(*)::int FROM sells WHERE created_at >= $1) AS today_sell_count,
			(SELECT COALESCE(SUM(total), 0) FROM sells WHERE created_at >= $2) AS month_sales,
			(SELECT COUNT(*)::int FROM sells WHERE created_at >= $2) AS month_sell_count,
			(SELECT COALESCE(SUM(balance), 0) FROM accounts) AS total_balance,
			(SELECT COALESCE(SUM(cash_balance), 0) FROM accounts) AS total_cash,
			(SELECT COUNT(*)::int FROM skus WHERE stock_quantity <= $3) AS low_stock_skus,
			(SELECT COUNT(*)::int FROM sells WHERE status = 'pending') AS pending_sells
	`

	var row struct {
		TodaySales     types.Money `db:"today_sales"`
		TodaySellCount int         `db:"today_sell_count"`
		MonthSales     types.Money `db:"month_sales"`
		MonthSellCount int         `db:"month_sell_count"`
		TotalBalance   types.Money `db:"total_balance"`
		TotalCash      types.Money `db:"total_cash"`
		LowStockSKUs   int         `db:"low_stock_skus"`
		PendingSells   int         `db:"pending_sells"`
	}

	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, dayStart, monthStart, lowStockThreshold); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	return &reports.Dashboard{
		TodaySales:     row.TodaySales,
		TodaySellCount: row.TodaySellCount,
		MonthSales:     row.MonthSales,
		MonthSellCount: row.MonthSellCount,
		TotalBalance:   row.TotalBalance,
		TotalCash:      row.TotalCash,
		LowStockSKUs:   row.LowStockSKUs,
		PendingSells:   row.PendingSells,
	}, nil
}
