package catalog

import (
	"context"
	"time"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
)

// Tailor order statuses.
const (
	TailorOrderPending    = "pending"
	TailorOrderInProgress = "in-progress"
	TailorOrderReady      = "ready"
	TailorOrderDelivered  = "delivered"
)

// TailorOrder is a custom tailoring job for a customer. Payment for a
// finished job goes through the sale flow; the order itself carries no
// balance effect.
type TailorOrder struct {
	ID         id.ID `db:"id" json:"id"`
	CustomerID id.ID `db:"customer_id" json:"customerId"`

	Description  string      `db:"description" json:"description"`
	Measurements string      `db:"measurements" json:"measurements,omitempty"`
	Price        types.Money `db:"price" json:"price"`
	Status       string      `db:"status" json:"status"`
	DueDate      *time.Time  `db:"due_date" json:"dueDate,omitempty"`
	CreatedAt    time.Time   `db:"created_at" json:"createdAt"`
}

// Validate checks tailor order fields.
func (t *TailorOrder) Validate() error {
	if id.IsNil(t.CustomerID) {
		return apperror.NewValidation("customer is required").WithDetail("field", "customerId")
	}
	if t.Description == "" {
		return apperror.NewValidation("description is required").WithDetail("field", "description")
	}
	if t.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").WithDetail("field", "price")
	}
	switch t.Status {
	case "":
		t.Status = TailorOrderPending
	case TailorOrderPending, TailorOrderInProgress, TailorOrderReady, TailorOrderDelivered:
	default:
		return apperror.NewValidation("invalid status").WithDetail("field", "status")
	}
	return nil
}

// TailorOrderRepository defines data access for tailor orders.
type TailorOrderRepository interface {
	Create(ctx context.Context, t *TailorOrder) error
	Update(ctx context.Context, t *TailorOrder) error
	Delete(ctx context.Context, orderID id.ID) error
	GetByID(ctx context.Context, orderID id.ID) (*TailorOrder, error)
	List(ctx context.Context) ([]*TailorOrder, error)
}

// TailorOrderService provides tailor order CRUD.
type TailorOrderService struct {
	repo TailorOrderRepository
}

// NewTailorOrderService creates a new tailor order service.
func NewTailorOrderService(repo TailorOrderRepository) *TailorOrderService {
	return &TailorOrderService{repo: repo}
}

// Create creates a tailor order.
func (s *TailorOrderService) Create(ctx context.Context, t *TailorOrder) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if id.IsNil(t.ID) {
		t.ID = id.New()
	}
	return s.repo.Create(ctx, t)
}

// Update updates a tailor order.
func (s *TailorOrderService) Update(ctx context.Context, t *TailorOrder) error {
	if err := t.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, t)
}

// Delete removes a tailor order.
func (s *TailorOrderService) Delete(ctx context.Context, orderID id.ID) error {
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, orderID)
}

// GetByID retrieves one tailor order.
func (s *TailorOrderService) GetByID(ctx context.Context, orderID id.ID) (*TailorOrder, error) {
	return s.repo.GetByID(ctx, orderID)
}

// List retrieves all tailor orders.
func (s *TailorOrderService) List(ctx context.Context) ([]*TailorOrder, error) {
	return s.repo.List(ctx)
}
