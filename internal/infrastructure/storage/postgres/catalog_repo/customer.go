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

const customersTable = "customers"

var customerColumns = []string{"id", "name", "phone", "email", "address", "created_at"}

// CustomerRepo implements catalog.CustomerRepository.
type CustomerRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewCustomerRepo creates a new customer repository.
func NewCustomerRepo(txm *postgres.TxManager) *CustomerRepo {
	return &CustomerRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a customer row.
func (r *CustomerRepo) Create(ctx context.Context, c *catalog.Customer) error {
	q := r.builder.Insert(customersTable).
		Columns(customerColumns...).
		Values(c.ID, c.Name, c.Phone, c.Email, c.Address, c.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// Update rewrites a customer row.
func (r *CustomerRepo) Update(ctx context.Context, c *catalog.Customer) error {
	q := r.builder.Update(customersTable).
		Set("name", c.Name).
		Set("phone", c.Phone).
		Set("email", c.Email).
		Set("address", c.Address).
		Where(squirrel.Eq{"id": c.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", c.ID)
	}
	return nil
}

// Delete removes a customer row.
func (r *CustomerRepo) Delete(ctx context.Context, customerID id.ID) error {
	q := r.builder.Delete(customersTable).Where(squirrel.Eq{"id": customerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("customer", customerID)
	}
	return nil
}

// GetByID retrieves one customer.
func (r *CustomerRepo) GetByID(ctx context.Context, customerID id.ID) (*catalog.Customer, error) {
	q := r.builder.Select(customerColumns...).
		From(customersTable).
		Where(squirrel.Eq{"id": customerID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var c catalog.Customer
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &c, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("customer", customerID)
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return &c, nil
}

// List retrieves all customers.
func (r *CustomerRepo) List(ctx context.Context) ([]*catalog.Customer, error) {
	q := r.builder.Select(customerColumns...).
		From(customersTable).
		OrderBy("name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var customers []*catalog.Customer
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &customers, sql, args...); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}
