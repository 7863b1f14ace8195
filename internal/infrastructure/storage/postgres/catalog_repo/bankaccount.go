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

const bankAccountsTable = "bank_accounts"

var bankAccountColumns = []string{
	"id", "bank_name", "account_name", "account_number", "branch", "created_at",
}

// BankAccountRepo implements catalog.BankAccountRepository.
type BankAccountRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewBankAccountRepo creates a new bank account repository.
func NewBankAccountRepo(txm *postgres.TxManager) *BankAccountRepo {
	return &BankAccountRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a bank account row.
func (r *BankAccountRepo) Create(ctx context.Context, b *catalog.BankAccount) error {
	q := r.builder.Insert(bankAccountsTable).
		Columns(bankAccountColumns...).
		Values(b.ID, b.BankName, b.AccountName, b.AccountNumber, b.Branch, b.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert bank account: %w", err)
	}
	return nil
}

// Update rewrites a bank account row.
func (r *BankAccountRepo) Update(ctx context.Context, b *catalog.BankAccount) error {
	q := r.builder.Update(bankAccountsTable).
		Set("bank_name", b.BankName).
		Set("account_name", b.AccountName).
		Set("account_number", b.AccountNumber).
		Set("branch", b.Branch).
		Where(squirrel.Eq{"id": b.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("bank account", b.ID)
	}
	return nil
}

// Delete removes a bank account row.
func (r *BankAccountRepo) Delete(ctx context.Context, bankAccountID id.ID) error {
	q := r.builder.Delete(bankAccountsTable).Where(squirrel.Eq{"id": bankAccountID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete bank account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("bank account", bankAccountID)
	}
	return nil
}

// GetByID retrieves one bank account.
func (r *BankAccountRepo) GetByID(ctx context.Context, bankAccountID id.ID) (*catalog.BankAccount, error) {
	q := r.builder.Select(bankAccountColumns...).
		From(bankAccountsTable).
		Where(squirrel.Eq{"id": bankAccountID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b catalog.BankAccount
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("bank account", bankAccountID)
		}
		return nil, fmt.Errorf("get bank account: %w", err)
	}
	return &b, nil
}

// List retrieves all bank accounts.
func (r *BankAccountRepo) List(ctx context.Context) ([]*catalog.BankAccount, error) {
	q := r.builder.Select(bankAccountColumns...).
		From(bankAccountsTable).
		OrderBy("bank_name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var accounts []*catalog.BankAccount
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &accounts, sql, args...); err != nil {
		return nil, fmt.Errorf("list bank accounts: %w", err)
	}
	return accounts, nil
}
