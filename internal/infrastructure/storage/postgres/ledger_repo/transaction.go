package ledger_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/id"
	"dukapos/internal/domain/ledger/transaction"
	"dukapos/internal/infrastructure/storage/postgres"
)

const transactionsTable = "transactions"

var transactionColumns = []string{
	"id", "user_id", "account_id", "category_id", "amount", "amount_type",
	"type", "acc", "is_exchange", "exchange_type",
	"sender_name", "sender_phone", "receiver_name", "receiver_phone",
	"tran_date", "ref", "details", "created_at",
}

// TransactionRepo implements transaction.Repository.
type TransactionRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewTransactionRepo creates a new transaction repository.
func NewTransactionRepo(txm *postgres.TxManager) *TransactionRepo {
	return &TransactionRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a transaction row.
func (r *TransactionRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	q := r.builder.Insert(transactionsTable).
		Columns(transactionColumns...).
		Values(t.ID, t.UserID, t.AccountID, t.CategoryID, t.Amount, t.AmountType,
			t.Type, t.Acc, t.IsExchange, t.ExchangeType,
			t.SenderName, t.SenderPhone, t.ReceiverName, t.ReceiverPhone,
			t.TranDate, t.Ref, t.Details, t.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// Update rewrites a transaction row.
func (r *TransactionRepo) Update(ctx context.Context, t *transaction.Transaction) error {
	q := r.builder.Update(transactionsTable).
		Set("account_id", t.AccountID).
		Set("category_id", t.CategoryID).
		Set("amount", t.Amount).
		Set("amount_type", t.AmountType).
		Set("type", t.Type).
		Set("acc", t.Acc).
		Set("is_exchange", t.IsExchange).
		Set("exchange_type", t.ExchangeType).
		Set("sender_name", t.SenderName).
		Set("sender_phone", t.SenderPhone).
		Set("receiver_name", t.ReceiverName).
		Set("receiver_phone", t.ReceiverPhone).
		Set("tran_date", t.TranDate).
		Set("details", t.Details).
		Where(squirrel.Eq{"id": t.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("transaction", t.ID)
	}
	return nil
}

// Delete removes a transaction row.
func (r *TransactionRepo) Delete(ctx context.Context, transactionID id.ID) error {
	q := r.builder.Delete(transactionsTable).Where(squirrel.Eq{"id": transactionID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	querier := r.txm.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("transaction", transactionID)
	}
	return nil
}

// GetByID retrieves one transaction.
func (r *TransactionRepo) GetByID(ctx context.Context, transactionID id.ID) (*transaction.Transaction, error) {
	q := r.builder.Select(transactionColumns...).
		From(transactionsTable).
		Where(squirrel.Eq{"id": transactionID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t transaction.Transaction
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("transaction", transactionID)
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}

// List retrieves transactions with filtering, newest first.
func (r *TransactionRepo) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	q := r.builder.Select(transactionColumns...).
		From(transactionsTable).
		OrderBy("tran_date DESC")

	if filter.AccountID != nil {
		q = q.Where(squirrel.Eq{"account_id": *filter.AccountID})
	}
	if filter.CategoryID != nil {
		q = q.Where(squirrel.Eq{"category_id": *filter.CategoryID})
	}
	if filter.IsExchange != nil {
		q = q.Where(squirrel.Eq{"is_exchange": *filter.IsExchange})
	}
	if filter.DateFrom != nil {
		q = q.Where(squirrel.GtOrEq{"tran_date": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		q = q.Where(squirrel.LtOrEq{"tran_date": *filter.DateTo})
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

	var transactions []*transaction.Transaction
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &transactions, sql, args...); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}
