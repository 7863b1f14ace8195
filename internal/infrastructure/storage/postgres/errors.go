package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"dukapos/internal/core/apperror"
)

// PostgreSQL SQLSTATE codes that indicate a transient conflict.
// A fresh transaction attempt may succeed where these failed.
const (
	sqlstateSerializationFailure = "40001"
	sqlstateDeadlockDetected     = "40P01"
	sqlstateLockNotAvailable     = "55P03"
	sqlstateQueryCanceled        = "57014" // statement_timeout
)

// MapError translates low-level database errors into AppErrors so the
// retry runner can distinguish transient conflicts from permanent
// failures. AppErrors pass through unchanged.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if apperror.IsAppError(err) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlstateSerializationFailure, sqlstateDeadlockDetected, sqlstateLockNotAvailable:
			return apperror.NewSerialization(err)
		case sqlstateQueryCanceled:
			return &apperror.AppError{
				Code:       apperror.CodeTimeout,
				Message:    "Database statement timed out",
				HTTPStatus: 500,
				Err:        err,
			}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &apperror.AppError{
			Code:       apperror.CodeTimeout,
			Message:    "Operation timed out",
			HTTPStatus: 500,
			Err:        err,
		}
	}

	return apperror.NewInternal(err)
}
