package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklens/doi-dashboard/internal/domain"
	"github.com/stocklens/doi-dashboard/internal/metrics"
)

var testNow = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func daysFromNow(n int) *time.Time {
	d := testNow.AddDate(0, 0, n)
	return &d
}

// testItems builds a small augmented snapshot covering every bucket.
func testItems(t *testing.T) []domain.InventoryItem {
	t.Helper()

	records := []domain.InventoryRecord{
		{SKUID: "SKU-0001", Product: "Serum", Category: "Beauty", Buyer: "Alice", Warehouse: "WH-North",
			QuantityOnHand: 100, UnitCost: 10, UnitPrice: 25, DailySalesVelocity: 5},
		{SKUID: "SKU-0002", Product: "Speaker", Category: "Electronics", Buyer: "Budi", Warehouse: "WH-South",
			QuantityOnHand: 400, UnitCost: 50, UnitPrice: 120, DailySalesVelocity: 1, ExpiryDate: daysFromNow(200)},
		{SKUID: "SKU-0003", Product: "Lamp", Category: "Home & Living", Buyer: "Alice", Warehouse: "WH-North",
			QuantityOnHand: 5, UnitCost: 8, UnitPrice: 20, DailySalesVelocity: 2, ExpiryDate: daysFromNow(10)},
		{SKUID: "SKU-0004", Product: "Coffee", Category: "Grocery", Buyer: "Chen", Warehouse: "WH-East",
			QuantityOnHand: 50, UnitCost: 4, UnitPrice: 9, DailySalesVelocity: 0, ExpiryDate: daysFromNow(45)},
		{SKUID: "SKU-0005", Product: "Jacket", Category: "Apparel", Buyer: "Budi", Warehouse: "WH-South",
			QuantityOnHand: 60, UnitCost: 30, UnitPrice: 80, DailySalesVelocity: 1},
	}

	calc := metrics.NewCalculator(metrics.DefaultThresholds(), testNow)
	return calc.Augment(records)
}

func newTestRepo(t *testing.T) InventoryRepository {
	return NewMemoryRepository(testItems(t))
}

func TestGetFilteredByBuyer(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	view, err := repo.GetFiltered(ctx, domain.InventoryFilter{Buyers: []string{"Alice"}})
	require.NoError(t, err)
	require.Len(t, view, 2)
	for _, item := range view {
		assert.Equal(t, "Alice", item.Buyer)
	}
}

func TestFilteringIsIdempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	filter := domain.InventoryFilter{Buyers: []string{"Budi"}}

	once, err := repo.GetFiltered(ctx, filter)
	require.NoError(t, err)

	// Re-filtering the filtered view with the same predicate must be a
	// no-op.
	again, err := NewMemoryRepository(once).GetFiltered(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, once, again)
}

func TestGetFilteredCombinedPredicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	view, err := repo.GetFiltered(ctx, domain.InventoryFilter{
		Buyers:     []string{"Alice", "Budi"},
		Warehouses: []string{"WH-South"},
	})
	require.NoError(t, err)
	require.Len(t, view, 2)
	for _, item := range view {
		assert.Equal(t, "WH-South", item.Warehouse)
	}
}

func TestGetFilteredByStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	view, err := repo.GetFiltered(ctx, domain.InventoryFilter{DOIStatus: domain.StatusOverstock})
	require.NoError(t, err)

	// SKU-0002 (DOI 400) and SKU-0004 (dead stock) are overstock.
	require.Len(t, view, 2)
	skus := []string{view[0].SKUID, view[1].SKUID}
	assert.ElementsMatch(t, []string{"SKU-0002", "SKU-0004"}, skus)
}

func TestGetItemsPagination(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	items, total, err := repo.GetItems(ctx, domain.InventoryFilter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 2)

	items, total, err = repo.GetItems(ctx, domain.InventoryFilter{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, items, 1)

	items, _, err = repo.GetItems(ctx, domain.InventoryFilter{Page: 9, PageSize: 2})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestGetItemsSortByDOIPutsSentinelLast(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	items, _, err := repo.GetItems(ctx, domain.InventoryFilter{SortField: "doi", SortDir: "asc"})
	require.NoError(t, err)
	require.Len(t, items, 5)

	// Zero-velocity SKU-0004 has no DOI and sorts after every finite value.
	assert.Equal(t, "SKU-0004", items[len(items)-1].SKUID)
	assert.Equal(t, "SKU-0003", items[0].SKUID)
}

func TestGetSummary(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	summary, err := repo.GetSummary(ctx, domain.InventoryFilter{})
	require.NoError(t, err)

	assert.Equal(t, 5, summary.TotalProducts)
	assert.Equal(t, 1, summary.LowStockCount)     // SKU-0003, DOI 2.5
	assert.Equal(t, 2, summary.OverstockCount)    // SKU-0002, SKU-0004
	assert.Equal(t, 1, summary.ExpiringSoonCount) // only SKU-0003 is inside the 30-day window
	assert.InDelta(t, 11200.0, summary.TotalOverstockValue, 0.01)

	// carrying costs: 1000 + 20000 + 40 + 200 + 1800
	assert.InDelta(t, 23040.0, summary.TotalInventoryValue, 0.01)
}

func TestGetStatusCounts(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	counts, err := repo.GetStatusCounts(ctx, domain.InventoryFilter{})
	require.NoError(t, err)
	require.Len(t, counts, 3)

	byStatus := make(map[string]int)
	for _, sc := range counts {
		byStatus[sc.Status] = sc.Count
	}
	assert.Equal(t, 1, byStatus[domain.StatusLow])
	assert.Equal(t, 2, byStatus[domain.StatusNormal])
	assert.Equal(t, 2, byStatus[domain.StatusOverstock])
}

func TestGetFilterOptions(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	options, err := repo.GetFilterOptions(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"Alice", "Budi", "Chen"}, options.Buyers)
	assert.Equal(t, []string{"WH-East", "WH-North", "WH-South"}, options.Warehouses)
	assert.Len(t, options.Categories, 5)
	assert.Equal(t, domain.DOIStatuses(), options.Statuses)
}

func TestGetDOIHistogramExcludesSentinel(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	bins, err := repo.GetDOIHistogram(ctx, domain.InventoryFilter{}, 10)
	require.NoError(t, err)
	require.NotEmpty(t, bins)

	total := 0
	for _, bin := range bins {
		total += bin.Count
	}
	// 4 records have a finite DOI; the zero-velocity one stays out.
	assert.Equal(t, 4, total)
}

func TestGetDOIHistogramEmptyView(t *testing.T) {
	repo := NewMemoryRepository(nil)
	ctx := context.Background()

	bins, err := repo.GetDOIHistogram(ctx, domain.InventoryFilter{}, 10)
	require.NoError(t, err)
	assert.Empty(t, bins)
}

func TestGetTopOverstock(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ranked, err := repo.GetTopOverstock(ctx, domain.InventoryFilter{}, 10)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	// SKU-0002: (400-180)*50 = 11000; SKU-0004: 50*4 = 200.
	assert.Equal(t, "SKU-0002", ranked[0].SKUID)
	assert.InDelta(t, 11000.0, ranked[0].Value, 0.01)
	assert.Equal(t, "SKU-0004", ranked[1].SKUID)
	assert.InDelta(t, 200.0, ranked[1].Value, 0.01)
}

func TestGetTopRevenueHonorsLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ranked, err := repo.GetTopRevenue(ctx, domain.InventoryFilter{}, 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.GreaterOrEqual(t, ranked[0].Value, ranked[1].Value)
}

func TestGetAvgDOIByBuyerExcludesSentinel(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	groups, err := repo.GetAvgDOIByBuyer(ctx, domain.InventoryFilter{})
	require.NoError(t, err)

	byBuyer := make(map[string]domain.GroupAggregate)
	for _, g := range groups {
		byBuyer[g.Group] = g
	}

	// Chen only owns the zero-velocity SKU, so Chen has no average at all.
	_, ok := byBuyer["Chen"]
	assert.False(t, ok)

	alice := byBuyer["Alice"]
	assert.Equal(t, 2, alice.Count)
	assert.InDelta(t, 11.25, alice.Value, 0.01) // (20 + 2.5) / 2

	budi := byBuyer["Budi"]
	assert.Equal(t, 2, budi.Count)
	assert.InDelta(t, 230.0, budi.Value, 0.01) // (400 + 60) / 2
}

func TestGetValueByCategory(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	groups, err := repo.GetValueByCategory(ctx, domain.InventoryFilter{})
	require.NoError(t, err)
	require.Len(t, groups, 5)

	// Sorted by total value descending.
	assert.Equal(t, "Electronics", groups[0].Group)
	assert.InDelta(t, 20000.0, groups[0].Value, 0.01)
}

func TestGetExpiryTimeline(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	timeline, err := repo.GetExpiryTimeline(ctx, domain.InventoryFilter{}, 90)
	require.NoError(t, err)

	// SKU-0003 at +10d and SKU-0004 at +45d are inside the horizon,
	// SKU-0002 at +200d is not.
	require.Len(t, timeline, 2)
	assert.Equal(t, testNow.AddDate(0, 0, 10).Format("2006-01-02"), timeline[0].Date)
	assert.Equal(t, 1, timeline[0].Count)
}

func TestGetDOIScatterExcludesSentinel(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	points, err := repo.GetDOIScatter(ctx, domain.InventoryFilter{})
	require.NoError(t, err)
	require.Len(t, points, 4)
	for _, p := range points {
		assert.NotEqual(t, "SKU-0004", p.SKUID)
	}
}
