// Package catalog_repo provides PostgreSQL implementations for the
// catalog repositories.
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

const categoriesTable = "categories"

// CategoryRepo implements catalog.CategoryRepository.
type CategoryRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewCategoryRepo creates a new category repository.
func NewCategoryRepo(txm *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a category row.
func (r *CategoryRepo) Create(ctx context.Context, c *catalog.Category) error {
	q := r.builder.Insert(categoriesTable).
		Columns("id", "name", "details", "created_at").
		Values(c.ID, c.Name, c.Details, c.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// Update rewrites a category row.
func (r *CategoryRepo) Update(ctx context.Context, c *catalog.Category) error {
	q := r.builder.Update(categoriesTable).
		Set("name", c.Name).
		Set("details", c.Details).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", c.ID)
	}
	return nil
}

// Delete removes a category row.
func (r *CategoryRepo) Delete(ctx context.Context, categoryID id.ID) error {
	q := r.builder.Delete(categoriesTable).Where(squirrel.Eq{"id": categoryID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("category", categoryID)
	}
	return nil
}

// GetByID retrieves one category.
func (r *CategoryRepo) GetByID(ctx context.Context, categoryID id.ID) (*catalog.Category, error) {
	q := r.builder.Select("id", "name", "details", "created_at").
		From(categoriesTable).
		Where(squirrel.Eq{"id": categoryID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c catalog.Category
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("category", categoryID)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// List retrieves all categories.
func (r *CategoryRepo) List(ctx context.Context) ([]*catalog.Category, error) {
	q := r.builder.Select("id", "name", "details", "created_at").
		From(categoriesTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var categories []*catalog.Category
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
