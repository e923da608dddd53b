package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklens/doi-dashboard/internal/cache"
	"github.com/stocklens/doi-dashboard/internal/domain"
	"github.com/stocklens/doi-dashboard/internal/insights"
	"github.com/stocklens/doi-dashboard/internal/metrics"
	"github.com/stocklens/doi-dashboard/internal/repository"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

// recordingCache counts hits so composition-vs-cache behavior is observable.
type recordingCache struct {
	stored map[string]*domain.Dashboard
	gets   int
	sets   int
}

func newRecordingCache() *recordingCache {
	return &recordingCache{stored: make(map[string]*domain.Dashboard)}
}

func (r *recordingCache) GetDashboard(ctx context.Context, filter domain.InventoryFilter) (*domain.Dashboard, bool, error) {
	r.gets++
	dashboard, ok := r.stored[cache.FilterKey(filter)]
	return dashboard, ok, nil
}

func (r *recordingCache) SetDashboard(ctx context.Context, filter domain.InventoryFilter, dashboard *domain.Dashboard) error {
	r.sets++
	r.stored[cache.FilterKey(filter)] = dashboard
	return nil
}

func (r *recordingCache) InvalidateAll(ctx context.Context) error {
	r.stored = make(map[string]*domain.Dashboard)
	return nil
}

func newTestService(t *testing.T, cacheImpl cache.DashboardCache) *DashboardService {
	t.Helper()

	expiry := testNow.AddDate(0, 0, 14)
	records := []domain.InventoryRecord{
		{SKUID: "SKU-0001", Product: "Serum", Category: "Beauty", Buyer: "Alice", Warehouse: "WH-North",
			QuantityOnHand: 100, UnitCost: 10, UnitPrice: 25, DailySalesVelocity: 5},
		{SKUID: "SKU-0002", Product: "Speaker", Category: "Electronics", Buyer: "Budi", Warehouse: "WH-South",
			QuantityOnHand: 400, UnitCost: 50, UnitPrice: 120, DailySalesVelocity: 1},
		{SKUID: "SKU-0003", Product: "Yogurt", Category: "Grocery", Buyer: "Alice", Warehouse: "WH-North",
			QuantityOnHand: 20, UnitCost: 2, UnitPrice: 5, DailySalesVelocity: 4, ExpiryDate: &expiry},
	}

	calc := metrics.NewCalculator(metrics.DefaultThresholds(), testNow)
	repo := repository.NewMemoryRepository(calc.Augment(records))
	gen := insights.NewGenerator(insights.DefaultConfig())

	return NewDashboardService(repo, gen, cacheImpl, 90)
}

func TestGetDashboardComposesEverySection(t *testing.T) {
	svc := newTestService(t, cache.NewNoopDashboardCache())
	ctx := context.Background()

	dashboard, err := svc.GetDashboard(ctx, domain.InventoryFilter{})
	require.NoError(t, err)
	require.NotNil(t, dashboard)

	assert.Equal(t, 3, dashboard.Summary.TotalProducts)
	assert.Len(t, dashboard.StatusCounts, 3)
	assert.NotEmpty(t, dashboard.Insights)
	assert.NotEmpty(t, dashboard.Charts.DOIHistogram)
	assert.NotEmpty(t, dashboard.Charts.TopOverstock)
	assert.NotEmpty(t, dashboard.Charts.AvgDOIByBuyer)
	assert.NotEmpty(t, dashboard.Charts.ValueByCategory)
	assert.NotEmpty(t, dashboard.Charts.TopRevenue)
	assert.NotEmpty(t, dashboard.Charts.ExpiryTimeline)
	assert.NotEmpty(t, dashboard.Charts.DOIScatter)
	assert.False(t, dashboard.GeneratedAt.IsZero())
}

func TestGetDashboardUsesCacheOnSecondCall(t *testing.T) {
	rec := newRecordingCache()
	svc := newTestService(t, rec)
	ctx := context.Background()

	first, err := svc.GetDashboard(ctx, domain.InventoryFilter{Buyers: []string{"Alice"}})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.sets)

	second, err := svc.GetDashboard(ctx, domain.InventoryFilter{Buyers: []string{"Alice"}})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.gets)
	assert.Equal(t, 1, rec.sets, "cache hit must not recompose")
	assert.Equal(t, first, second)
}

func TestGetDashboardStripsPaginationFromCacheKey(t *testing.T) {
	rec := newRecordingCache()
	svc := newTestService(t, rec)
	ctx := context.Background()

	_, err := svc.GetDashboard(ctx, domain.InventoryFilter{Page: 1, PageSize: 10})
	require.NoError(t, err)

	_, err = svc.GetDashboard(ctx, domain.InventoryFilter{Page: 4, PageSize: 25, SortField: "doi"})
	require.NoError(t, err)

	assert.Equal(t, 1, rec.sets)
}

func TestGetDashboardFilteredView(t *testing.T) {
	svc := newTestService(t, cache.NewNoopDashboardCache())
	ctx := context.Background()

	dashboard, err := svc.GetDashboard(ctx, domain.InventoryFilter{Buyers: []string{"Budi"}})
	require.NoError(t, err)

	assert.Equal(t, 1, dashboard.Summary.TotalProducts)
	assert.Equal(t, 1, dashboard.Summary.OverstockCount)
}

func TestGetInsightsReflectsFilter(t *testing.T) {
	svc := newTestService(t, cache.NewNoopDashboardCache())
	ctx := context.Background()

	all, err := svc.GetInsights(ctx, domain.InventoryFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, all)

	// SKU-0002 is the only overstocked item; filtering it out drops the rule.
	aliceOnly, err := svc.GetInsights(ctx, domain.InventoryFilter{Buyers: []string{"Alice"}})
	require.NoError(t, err)
	for _, insight := range aliceOnly {
		assert.NotEqual(t, insights.RuleOverstock, insight.Rule)
	}
}

func TestDefaultsClampLimits(t *testing.T) {
	svc := newTestService(t, cache.NewNoopDashboardCache())
	ctx := context.Background()

	ranked, err := svc.GetTopOverstock(ctx, domain.InventoryFilter{}, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, ranked)

	bins, err := svc.GetDOIHistogram(ctx, domain.InventoryFilter{}, -1)
	require.NoError(t, err)
	assert.NotEmpty(t, bins)

	timeline, err := svc.GetExpiryTimeline(ctx, domain.InventoryFilter{}, 0)
	require.NoError(t, err)
	assert.NotEmpty(t, timeline)
}
