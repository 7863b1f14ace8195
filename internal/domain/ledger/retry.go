package ledger

import (
	"context"

	"dukapos/internal/core/apperror"
	"dukapos/internal/core/tx"
	"dukapos/pkg/logger"
)

// MaxAttempts bounds the retry loop around each mutation transaction.
const MaxAttempts = 3

// RunWithRetry executes fn in a transaction, retrying up to MaxAttempts
// times. Only retryable errors (serialization failures, deadlocks,
// lock timeouts) re-enter the loop; validation and business rule
// failures surface immediately. Each attempt opens a fresh transaction,
// so a failed attempt leaves no partial stock or balance writes.
func RunWithRetry(ctx context.Context, txm tx.Manager, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 1; attempt <= MaxAttempts; attempt++ {
		err = txm.RunInTransaction(ctx, fn)
		if err == nil {
			return nil
		}
		if !apperror.IsRetryable(err) {
			return err
		}
		logger.Warn(ctx, "retrying after transient conflict",
			"op", op,
			"attempt", attempt,
			"error", err,
		)
	}
	return err
}
