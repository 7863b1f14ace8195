// Package inventory_repo provides the PostgreSQL implementation of the
// inventory repository.
package inventory_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/inventory"
	"dukapos/internal/infrastructure/storage/postgres"
)

const (
	productsTable = "products"
	variantsTable = "variants"
	skusTable     = "skus"
)

// InventoryRepo implements inventory.Repository.
type InventoryRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewInventoryRepo creates a new inventory repository.
func NewInventoryRepo(txm *postgres.TxManager) *InventoryRepo {
	return &InventoryRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetSKUForUpdate retrieves a SKU with a pessimistic row lock.
func (r *InventoryRepo) GetSKUForUpdate(ctx context.Context, skuID id.ID) (*inventory.SKU, error) {
	sql := `
		SELECT id, variant_id, code, price, stock_quantity
		FROM skus
		WHERE id = $1
		FOR UPDATE
	`

	var sku inventory.SKU
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &sku, sql, skuID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("sku", skuID)
		}
		return nil, fmt.Errorf("get sku for update: %w", err)
	}
	return &sku, nil
}

// UpdateSKUStock writes an absolute stock count.
func (r *InventoryRepo) UpdateSKUStock(ctx context.Context, skuID id.ID, quantity int) error {
	q := r.builder.Update(skusTable).
		Set("stock_quantity", quantity).
		Where(squirrel.Eq{"id": skuID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update sku stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("sku", skuID)
	}
	return nil
}

// RecomputeProductStock rewrites the product rollup from its SKUs.
func (r *InventoryRepo) RecomputeProductStock(ctx context.Context, productID id.ID) error {
	sql := `
		UPDATE products SET stock_quantity = (
			SELECT COALESCE(SUM(s.stock_quantity), 0)
			FROM skus s
			JOIN variants v ON s.variant_id = v.id
			WHERE v.product_id = $1
		)
		WHERE id = $1
	`

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, productID)
	if err != nil {
		return fmt.Errorf("recompute product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}
	return nil
}

// GetProduct retrieves a product with its variants and SKUs.
func (r *InventoryRepo) GetProduct(ctx context.Context, productID id.ID) (*inventory.Product, error) {
	q := r.builder.Select("id", "category_id", "name", "imprint", "stock_quantity", "created_at").
		From(productsTable).
		Where(squirrel.Eq{"id": productID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p inventory.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	if err := r.loadVariants(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts retrieves all products without variant expansion.
func (r *InventoryRepo) ListProducts(ctx context.Context) ([]*inventory.Product, error) {
	q := r.builder.Select("id", "category_id", "name", "imprint", "stock_quantity", "created_at").
		From(productsTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var products []*inventory.Product
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// CreateProduct inserts a product row.
func (r *InventoryRepo) CreateProduct(ctx context.Context, p *inventory.Product) error {
	q := r.builder.Insert(productsTable).
		Columns("id", "category_id", "name", "imprint", "stock_quantity", "created_at").
		Values(p.ID, p.CategoryID, p.Name, p.Imprint, p.StockQuantity, p.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct updates product fields (not the stock rollup).
func (r *InventoryRepo) UpdateProduct(ctx context.Context, p *inventory.Product) error {
	q := r.builder.Update(productsTable).
		Set("category_id", p.CategoryID).
		Set("name", p.Name).
		Set("imprint", p.Imprint).
		Where(squirrel.Eq{"id": p.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", p.ID)
	}
	return nil
}

// DeleteProduct removes a product and, via FK cascades, its variants
// and SKUs.
func (r *InventoryRepo) DeleteProduct(ctx context.Context, productID id.ID) error {
	q := r.builder.Delete(productsTable).Where(squirrel.Eq{"id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("product", productID)
	}
	return nil
}

// CreateVariant inserts a variant row.
func (r *InventoryRepo) CreateVariant(ctx context.Context, v *inventory.Variant) error {
	q := r.builder.Insert(variantsTable).
		Columns("id", "product_id", "name").
		Values(v.ID, v.ProductID, v.Name)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert variant: %w", err)
	}
	return nil
}

// CreateSKU inserts a SKU row.
func (r *InventoryRepo) CreateSKU(ctx context.Context, s *inventory.SKU) error {
	q := r.builder.Insert(skusTable).
		Columns("id", "variant_id", "code", "price", "stock_quantity").
		Values(s.ID, s.VariantID, s.Code, s.Price, s.StockQuantity)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert sku: %w", err)
	}
	return nil
}

// loadVariants populates a product's variants and their SKUs.
func (r *InventoryRepo) loadVariants(ctx context.Context, p *inventory.Product) error {
	querier := r.txm.GetQuerier(ctx)

	var variants []inventory.Variant
	vq := r.builder.Select("id", "product_id", "name").
		From(variantsTable).
		Where(squirrel.Eq{"product_id": p.ID}).
		OrderBy("name")
	sql, args, err := vq.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &variants, sql, args...); err != nil {
		return fmt.Errorf("list variants: %w", err)
	}

	for i := range variants {
		var skus []inventory.SKU
		sq := r.builder.Select("id", "variant_id", "code", "price", "stock_quantity").
			From(skusTable).
			Where(squirrel.Eq{"variant_id": variants[i].ID}).
			OrderBy("code")
		sql, args, err := sq.ToSql()
		if err != nil {
			return fmt.Errorf("build query: %w", err)
		}
		if err := pgxscan.Select(ctx, querier, &skus, sql, args...); err != nil {
			return fmt.Errorf("list skus: %w", err)
		}
		variants[i].SKUs = skus
	}

	p.Variants = variants
	return nil
}
