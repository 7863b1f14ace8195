// Package inventory provides products, variants and SKUs with stock
// counters. SKU stock is the source of truth; the product-level count
// is a rollup recomputed inside the same transaction as any SKU write.
package inventory

import (
	"time"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

// Product is the top-level catalog item.
type Product struct {
	ID         id.ID     `db:"id" json:"id"`
	CategoryID id.ID     `db:"category_id" json:"categoryId"`
	Name       string    `db:"name" json:"name"`
	Imprint    string    `db:"imprint" json:"imprint,omitempty"`
	// StockQuantity is derived: the sum of all SKU stock under this
	// product. Never written directly by callers.
	StockQuantity int       `db:"stock_quantity" json:"stockQuantity"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`

	Variants []Variant `db:"-" json:"variants,omitempty"`
}

// Variant groups SKUs of one product (e.g. a colour).
type Variant struct {
	ID        id.ID  `db:"id" json:"id"`
	ProductID id.ID  `db:"product_id" json:"productId"`
	Name      string `db:"name" json:"name"`

	SKUs []SKU `db:"-" json:"skus,omitempty"`
}

// SKU is the sellable unit carrying price and stock.
type SKU struct {
	ID            id.ID       `db:"id" json:"id"`
	VariantID     id.ID       `db:"variant_id" json:"variantId"`
	Code          string      `db:"code" json:"code"`
	Price         types.Money `db:"price" json:"price"`
	StockQuantity int         `db:"stock_quantity" json:"stockQuantity"`
}

// Validate checks product fields for catalog CRUD.
func (p *Product) Validate() error {
	if p.Name == "" {
		return apperror.NewValidation("product name is required").WithDetail("field", "name")
	}
	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("category is required").WithDetail("field", "categoryId")
	}
	return nil
}
