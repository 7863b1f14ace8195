package ledger_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"dukapos/internal/core/id"
	"dukapos/internal/core/types"
	"dukapos/internal/domain/ledger/bank"
	"dukapos/internal/domain/ledger/sale"
	"dukapos/internal/domain/ledger/swap"
	"dukapos/internal/domain/ledger/transaction"
	"dukapos/internal/infrastructure/storage/postgres"
)

// HistoryRepo implements history.Repository. The *Before aggregates
// run as single SQL sums so the walk-back never materializes rows;
// the range queries return ascending, ready for the merge.
type HistoryRepo struct {
	txm *postgres.TxManager
}

// NewHistoryRepo creates a new history repository.
func NewHistoryRepo(txm *postgres.TxManager) *HistoryRepo {
	return &HistoryRepo{txm: txm}
}

// NetTransactionEffectBefore sums the signed effect of transactions
// dated strictly before the cutoff. Exchange withdrawal counts
// negative, deposit positive; plain rows follow their Cr/Dr direction.
func (r *HistoryRepo) NetTransactionEffectBefore(ctx context.Context, accountID id.ID, before time.Time) (types.Money, error) {
	sql := `
		SELECT COALESCE(SUM(
			CASE
				WHEN is_exchange AND exchange_type = 'withdrawal' THEN -amount
				WHEN is_exchange THEN amount
				WHEN acc = 'Dr' THEN -amount
				ELSE amount
			END
		), 0)
		FROM transactions
		WHERE account_id = $1 AND tran_date < $2
	`

	var net types.Money
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, accountID, before).Scan(&net); err != nil {
		return types.Zero(), fmt.Errorf("sum transaction effect: %w", err)
	}
	return net, nil
}

// SalesTotalBefore sums sell totals before the cutoff.
func (r *HistoryRepo) SalesTotalBefore(ctx context.Context, accountID id.ID, before time.Time) (types.Money, error) {
	sql := `
		SELECT COALESCE(SUM(total), 0)
		FROM sells
		WHERE account_id = $1 AND created_at < $2
	`

	var total types.Money
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, accountID, before).Scan(&total); err != nil {
		return types.Zero(), fmt.Errorf("sum sales: %w", err)
	}
	return total, nil
}

// SwapNetBefore sums swap credits minus debits before the cutoff.
func (r *HistoryRepo) SwapNetBefore(ctx context.Context, accountID id.ID, before time.Time) (types.Money, error) {
	sql := `
		SELECT COALESCE(SUM(
			CASE
				WHEN to_account_id = $1 THEN to_amount
				ELSE -from_amount
			END
		), 0)
		FROM account_swaps
		WHERE (from_account_id = $1 OR to_account_id = $1) AND created_at < $2
	`

	var net types.Money
	querier := r.txm.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, accountID, before).Scan(&net); err != nil {
		return types.Zero(), fmt.Errorf("sum swap effect: %w", err)
	}
	return net, nil
}

// TransactionsInRange returns transactions for the window, ascending.
func (r *HistoryRepo) TransactionsInRange(ctx context.Context, accountID id.ID, from, to time.Time) ([]*transaction.Transaction, error) {
	sql := `
		SELECT id, user_id, account_id, category_id, amount, amount_type,
		       type, acc, is_exchange, exchange_type,
		       sender_name, sender_phone, receiver_name, receiver_phone,
		       tran_date, ref, details, created_at
		FROM transactions
		WHERE account_id = $1 AND tran_date >= $2 AND tran_date <= $3
		ORDER BY tran_date
	`

	var rows []*transaction.Transaction
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, accountID, from, to); err != nil {
		return nil, fmt.Errorf("select transactions: %w", err)
	}
	return rows, nil
}

// SellsInRange returns sells for the window, ascending, without items.
func (r *HistoryRepo) SellsInRange(ctx context.Context, accountID id.ID, from, to time.Time) ([]*sale.Sell, error) {
	sql := `
		SELECT id, user_id, account_id, order_id, total,
		       type, cash_amount, digital_amount, status, created_at
		FROM sells
		WHERE account_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at
	`

	var rows []*sale.Sell
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, accountID, from, to); err != nil {
		return nil, fmt.Errorf("select sells: %w", err)
	}
	return rows, nil
}

// SwapsInRange returns swaps touching the account on either side,
// ascending.
func (r *HistoryRepo) SwapsInRange(ctx context.Context, accountID id.ID, from, to time.Time) ([]*swap.AccountSwap, error) {
	sql := `
		SELECT id, from_account_id, to_account_id,
		       from_cash_amount, from_digital_amount, from_amount,
		       to_cash_amount, to_digital_amount, to_amount,
		       exchange_rate, details, user_id, created_at
		FROM account_swaps
		WHERE (from_account_id = $1 OR to_account_id = $1)
		  AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at
	`

	var rows []*swap.AccountSwap
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, accountID, from, to); err != nil {
		return nil, fmt.Errorf("select swaps: %w", err)
	}
	return rows, nil
}

// BankTransactionsInRange returns bank transactions for the window,
// ascending.
func (r *HistoryRepo) BankTransactionsInRange(ctx context.Context, accountID id.ID, from, to time.Time) ([]*bank.BankTransaction, error) {
	sql := `
		SELECT id, account_id, bank_account_id, acc,
		       cash_amount, digital_amount, details, user_id, created_at
		FROM bank_transactions
		WHERE account_id = $1 AND created_at >= $2 AND created_at <= $3
		ORDER BY created_at
	`

	var rows []*bank.BankTransaction
	querier := r.txm.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &rows, sql, accountID, from, to); err != nil {
		return nil, fmt.Errorf("select bank transactions: %w", err)
	}
	return rows, nil
}
