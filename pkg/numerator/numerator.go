// Package numerator provides sequential document numbering backed by a
// database sequence row. Numbers are allocated with a single
// UPDATE ... RETURNING, so two concurrent creates can never observe the
// same value (unlike reading the last row and incrementing).
package numerator

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// QuerierProvider resolves the querier for the current context, which
// lets the numerator participate in the caller's transaction.
type QuerierProvider interface {
	GetQuerier(ctx context.Context) Querier
}

// Config describes a numbered document series.
type Config struct {
	// Prefix of the generated number, e.g. "ORD".
	Prefix string
	// Digits of zero padding, e.g. 4 -> ORD-0001.
	Digits int
}

// DefaultConfig returns a standard series config.
func DefaultConfig(prefix string) Config {
	return Config{Prefix: prefix, Digits: 4}
}

// Service allocates document numbers from sys_sequences.
type Service struct {
	provider QuerierProvider
}

// New creates a numerator backed by the given querier provider.
func New(provider QuerierProvider) *Service {
	return &Service{provider: provider}
}

// GetNextNumber returns the next formatted number in the series.
// When called inside a transaction the allocation commits or rolls
// back with it; a rollback leaves a gap, never a duplicate.
func (s *Service) GetNextNumber(ctx context.Context, cfg Config) (string, error) {
	n, err := s.NextValue(ctx, cfg.Prefix)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, cfg.Digits, n), nil
}

// NextValue increments and returns the raw sequence value for a key.
func (s *Service) NextValue(ctx context.Context, key string) (int64, error) {
	q := s.provider.GetQuerier(ctx)

	var val int64
	err := q.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, 1)
		ON CONFLICT (key)
		DO UPDATE SET current_val = sys_sequences.current_val + 1
		RETURNING current_val
	`, key).Scan(&val)
	if err != nil {
		return 0, fmt.Errorf("next sequence value for %q: %w", key, err)
	}

	return val, nil
}
