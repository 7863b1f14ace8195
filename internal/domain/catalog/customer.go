package catalog

import (
	"context"
	"time"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
)

// Customer is a named buyer, referenced by tailor orders.
type Customer struct {
	ID        id.ID     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	Email     string    `db:"email" json:"email,omitempty"`
	Address   string    `db:"address" json:"address,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Validate checks customer fields.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return apperror.NewValidation("customer name is required").WithDetail("field", "name")
	}
	return nil
}

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, customerID id.ID) error
	GetByID(ctx context.Context, customerID id.ID) (*Customer, error)
	List(ctx context.Context) ([]*Customer, error)
}

// CustomerService provides customer CRUD.
type CustomerService struct {
	repo CustomerRepository
}

// NewCustomerService creates a new customer service.
func NewCustomerService(repo CustomerRepository) *CustomerService {
	return &CustomerService{repo: repo}
}

// Create creates a customer.
func (s *CustomerService) Create(ctx context.Context, c *Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if id.IsNil(c.ID) {
		c.ID = id.New()
	}
	return s.repo.Create(ctx, c)
}

// Update updates a customer.
func (s *CustomerService) Update(ctx context.Context, c *Customer) error {
	if err := c.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, c)
}

// Delete removes a customer.
func (s *CustomerService) Delete(ctx context.Context, customerID id.ID) error {
	if _, err := s.repo.GetByID(ctx, customerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, customerID)
}

// GetByID retrieves one customer.
func (s *CustomerService) GetByID(ctx context.Context, customerID id.ID) (*Customer, error) {
	return s.repo.GetByID(ctx, customerID)
}

// List retrieves all customers.
func (s *CustomerService) List(ctx context.Context) ([]*Customer, error) {
	return s.repo.List(ctx)
}
