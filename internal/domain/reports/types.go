// Package reports provides read-side rollups over sales and swaps.
// Everything here is derived data; no report touches balances or stock.
package reports

import (
	"time"

	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

// Range bounds a report period. Zero values mean unbounded.
type Range struct {
	From time.Time
	To   time.Time
}

// ProductSales is one row of the sales-by-product report.
type ProductSales struct {
	ProductID   id.ID       `db:"product_id" json:"productId"`
	ProductName string      `db:"product_name" json:"productName"`
	Quantity    int         `db:"quantity" json:"quantity"`
	Revenue     types.Money `db:"revenue" json:"revenue"`
}

// CategorySales is one row of the sales-by-category report.
type CategorySales struct {
	CategoryID   id.ID       `db:"category_id" json:"categoryId"`
	CategoryName string      `db:"category_name" json:"categoryName"`
	Quantity     int         `db:"quantity" json:"quantity"`
	Revenue      types.Money `db:"revenue" json:"revenue"`
}

// SwapSummary aggregates swap volume between a pair of accounts.
type SwapSummary struct {
	FromAccountID id.ID       `db:"from_account_id" json:"fromAccountId"`
	ToAccountID   id.ID       `db:"to_account_id" json:"toAccountId"`
	Count         int         `db:"count" json:"count"`
	TotalFrom     types.Money `db:"total_from" json:"totalFrom"`
	TotalTo       types.Money `db:"total_to" json:"totalTo"`
}

// Dashboard is the front-page summary. Cheap to render, expensive to
// compute, so it is cached with a short TTL.
type Dashboard struct {
	TodaySales     types.Money `json:"todaySales"`
	TodaySellCount int         `json:"todaySellCount"`
	MonthSales     types.Money `json:"monthSales"`
	MonthSellCount int         `json:"monthSellCount"`
	TotalBalance   types.Money `json:"totalBalance"`
	TotalCash      types.Money `json:"totalCash"`
	LowStockSKUs   int         `json:"lowStockSkus"`
	PendingSells   int         `json:"pendingSells"`
	GeneratedAt    time.Time   `json:"generatedAt"`
}
