package numerator

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentValue++
	return &mockRow{val: m.currentValue}
}

type mockProvider struct {
	q *mockQuerier
}

func (p *mockProvider) GetQuerier(ctx context.Context) Querier { return p.q }

func TestGetNextNumber_Sequential(t *testing.T) {
	svc := New(&mockProvider{q: &mockQuerier{}})
	ctx := context.Background()
	cfg := DefaultConfig("ORD")

	num, err := svc.GetNextNumber(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-0001" {
		t.Errorf("expected ORD-0001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-0002" {
		t.Errorf("expected ORD-0002, got %s", num)
	}
}

func TestGetNextNumber_Padding(t *testing.T) {
	q := &mockQuerier{currentValue: 9998}
	svc := New(&mockProvider{q: q})
	ctx := context.Background()
	cfg := DefaultConfig("ORD")

	num, err := svc.GetNextNumber(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-9999" {
		t.Errorf("expected ORD-9999, got %s", num)
	}

	// Padding widens past the configured digit count instead of truncating.
	num, err = svc.GetNextNumber(ctx, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-10000" {
		t.Errorf("expected ORD-10000, got %s", num)
	}
}
