// Package catalog provides the simple CRUD entities with no balance
// side effects: categories, customers, bank accounts and tailor orders.
package catalog

import (
	"context"
	"time"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
)

// Category groups products and transaction entries.
type Category struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Details   string    `db:"details" json:"details,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks category fields.
func (c *Category) Validate() error {
	if c.Name == "" {
		return apperror.NewValidation("category name is required").WithDetail("field", "name")
	}
	return nil
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, categoryID id.ID) error
	GetByID(ctx context.Context, categoryID id.ID) (*Category, error)
	List(ctx context.Context) ([]*Category, error)
}

// CategoryService provides category CRUD.
type CategoryService struct {
	repo CategoryRepository
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// Create creates a category.
func (s *CategoryService) Create(ctx context.Context, c *Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if id.IsNil(c.ID) {
		c.ID = id.New()
	}
	return s.repo.Create(ctx, c)
}

// Update updates a category.
func (s *CategoryService) Update(ctx context.Context, c *Category) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

// Delete removes a category.
func (s *CategoryService) Delete(ctx context.Context, categoryID id.ID) error {
	if _, err := s.repo.GetByID(ctx, categoryID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, categoryID)
}

// GetByID retrieves one category.
func (s *CategoryService) GetByID(ctx context.Context, categoryID id.ID) (*Category, error) {
	return s.repo.GetByID(ctx, categoryID)
}

// List retrieves all categories.
func (s *CategoryService) List(ctx context.Context) ([]*Category, error) {
	return s.repo.List(ctx)
}
