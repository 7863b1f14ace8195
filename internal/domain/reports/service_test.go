package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dukapos/internal/core/types"
)

type memReportRepo struct {
	dashboard *Dashboard
	calls     int
	err       error
}

func (m *memReportRepo) SalesByProduct(ctx context.Context, r Range) ([]*ProductSales, error) {
	return nil, nil
}

func (m *memReportRepo) SalesByCategory(ctx context.Context, r Range) ([]*CategorySales, error) {
	return nil, nil
}

func (m *memReportRepo) SwapSummary(ctx context.Context, r Range) ([]*SwapSummary, error) {
	return nil, nil
}

func (m *memReportRepo) Dashboard(ctx context.Context) (*Dashboard, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	cp := *m.dashboard
	return &cp, nil
}

type memCache struct {
	dashboard *Dashboard
	getErr    error
	setErr    error
	sets      int
}

func (m *memCache) GetDashboard(ctx context.Context) (*Dashboard, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.dashboard, nil
}

func (m *memCache) SetDashboard(ctx context.Context, d *Dashboard) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets++
	m.dashboard = d
	return nil
}

func sampleDashboard() *Dashboard {
	return &Dashboard{
		TodaySales:     types.MustMoney("1200"),
		TodaySellCount: 4,
		TotalBalance:   types.MustMoney("5000"),
	}
}

func TestDashboard_CacheMissComputesAndStores(t *testing.T) {
	repo := &memReportRepo{dashboard: sampleDashboard()}
	cache := &memCache{}
	svc := NewService(repo, cache)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, 1, cache.sets)
	assert.False(t, d.GeneratedAt.IsZero())
	assert.True(t, d.TodaySales.Equal(types.MustMoney("1200")))
}

func TestDashboard_CacheHitSkipsRepo(t *testing.T) {
	repo := &memReportRepo{dashboard: sampleDashboard()}
	cached := sampleDashboard()
	cached.GeneratedAt = time.Now().Add(-30 * time.Second)
	cache := &memCache{dashboard: cached}
	svc := NewService(repo, cache)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, repo.calls)
	assert.Equal(t, cached.GeneratedAt, d.GeneratedAt)
}

func TestDashboard_CacheFailuresDegradeToCompute(t *testing.T) {
	repo := &memReportRepo{dashboard: sampleDashboard()}
	cache := &memCache{
		getErr: errors.New("connection refused"),
		setErr: errors.New("connection refused"),
	}
	svc := NewService(repo, cache)

	d, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.True(t, d.TodaySales.Equal(types.MustMoney("1200")))
}

func TestDashboard_NilCache(t *testing.T) {
	repo := &memReportRepo{dashboard: sampleDashboard()}
	svc := NewService(repo, nil)

	_, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
}

func TestDashboard_RepoErrorSurfaces(t *testing.T) {
	repo := &memReportRepo{err: errors.New("query failed")}
	svc := NewService(repo, &memCache{})

	_, err := svc.Dashboard(context.Background())
	require.Error(t, err)
}
