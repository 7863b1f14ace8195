// Package auth_repo provides the PostgreSQL implementation of the user
// repository.
package auth_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/auth"
	"dukapos/internal/infrastructure/storage/postgres"
)

const usersTable = "users"

var userColumns = []string{
	"id", "email", "name", "password_hash", "role",
	"is_active", "last_login_at", "created_at",
}

// UserRepo implements auth.Repository.
type UserRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewUserRepo creates a new user repository.
func NewUserRepo(txm *postgres.TxManager) *UserRepo {
	return &UserRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a user row.
func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	q := r.builder.Insert(usersTable).
		Columns(userColumns...).
		Values(u.ID, u.Email, u.Name, u.PasswordHash, u.Role,
			u.IsActive, u.LastLoginAt, u.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// Update rewrites a user row.
func (r *UserRepo) Update(ctx context.Context, u *auth.User) error {
	q := r.builder.Update(usersTable).
		Set("email", u.Email).
		Set("name", u.Name).
		Set("password_hash", u.PasswordHash).
		Set("role", u.Role).
		Set("is_active", u.IsActive).
		Set("last_login_at", u.LastLoginAt).
		Where(squirrel.Eq{"id": u.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("user", u.ID)
	}
	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, userID id.ID) (*auth.User, error) {
	q := r.builder.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"id": userID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.User
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", userID)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// GetByEmail retrieves a user by email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	q := r.builder.Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"email": email}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var u auth.User
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &u, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("user", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// List retrieves all users.
func (r *UserRepo) List(ctx context.Context) ([]*auth.User, error) {
	q := r.builder.Select(userColumns...).
		From(usersTable).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var users []*auth.User
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &users, sql, args...); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}
