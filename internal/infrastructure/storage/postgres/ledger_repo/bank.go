package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/ledger/bank"
	"dukapos/internal/infrastructure/storage/postgres"
)

const bankTransactionsTable = "bank_transactions"

var bankTransactionColumns = []string{
	"id", "account_id", "bank_account_id", "acc",
	"cash_amount", "digital_amount", "details", "user_id", "created_at",
}

// BankRepo implements bank.Repository.
type BankRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewBankRepo creates a new bank transaction repository.
func NewBankRepo(txm *postgres.TxManager) *BankRepo {
	return &BankRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a bank transaction row.
func (r *BankRepo) Create(ctx context.Context, b *bank.BankTransaction) error {
	q := r.builder.Insert(bankTransactionsTable).
		Columns(bankTransactionColumns...).
		Values(b.ID, b.AccountID, b.BankAccountID, b.Acc,
			b.CashAmount, b.DigitalAmount, b.Details, b.UserID, b.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert bank transaction: %w", err)
	}
	return nil
}

// Update rewrites a bank transaction row.
func (r *BankRepo) Update(ctx context.Context, b *bank.BankTransaction) error {
	q := r.builder.Update(bankTransactionsTable).
		Set("account_id", b.AccountID).
		Set("bank_account_id", b.BankAccountID).
		Set("acc", b.Acc).
		Set("cash_amount", b.CashAmount).
		Set("digital_amount", b.DigitalAmount).
		Set("details", b.Details).
		Where(squirrel.Eq{"id": b.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update bank transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("bank transaction", b.ID)
	}
	return nil
}

// Delete removes a bank transaction row.
func (r *BankRepo) Delete(ctx context.Context, bankTransactionID id.ID) error {
	q := r.builder.Delete(bankTransactionsTable).Where(squirrel.Eq{"id": bankTransactionID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete bank transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("bank transaction", bankTransactionID)
	}
	return nil
}

// GetByID retrieves one bank transaction.
func (r *BankRepo) GetByID(ctx context.Context, bankTransactionID id.ID) (*bank.BankTransaction, error) {
	q := r.builder.Select(bankTransactionColumns...).
		From(bankTransactionsTable).
		Where(squirrel.Eq{"id": bankTransactionID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var b bank.BankTransaction
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &b, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("bank transaction", bankTransactionID)
		}
		return nil, fmt.Errorf("get bank transaction: %w", err)
	}
	return &b, nil
}

// List retrieves bank transactions with filtering, newest first.
func (r *BankRepo) List(ctx context.Context, filter bank.ListFilter) ([]*bank.BankTransaction, error) {
	q := r.builder.Select(bankTransactionColumns...).
		From(bankTransactionsTable).
		OrderBy("created_at DESC")

	if filter.AccountID != nil {
		q = q.Where(squirrel.Eq{"account_id": *filter.AccountID})
	}
	if filter.BankAccountID != nil {
		q = q.Where(squirrel.Eq{"bank_account_id": *filter.BankAccountID})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"created_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"created_at": *filter.DateTo})
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []*bank.BankTransaction
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list bank transactions: %w", err)
	}
	return rows, nil
}
