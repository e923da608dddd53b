// internal/repository/inventory_repository.go
package repository

import (
	"context"

	"github.com/stocklens/doi-dashboard/internal/domain"
)

// InventoryRepository answers filtered views and aggregations over the
// immutable, metric-augmented snapshot.
type InventoryRepository interface {
	// GetItems returns one page of the filtered view plus the total count.
	GetItems(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, int, error)
	// GetFiltered returns the whole filtered view, unpaginated.
	GetFiltered(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error)
	GetSummary(ctx context.Context, filter domain.InventoryFilter) (domain.KPISummary, error)
	GetStatusCounts(ctx context.Context, filter domain.InventoryFilter) ([]domain.StatusCount, error)
	GetFilterOptions(ctx context.Context) (domain.FilterOptions, error)
	GetDOIHistogram(ctx context.Context, filter domain.InventoryFilter, maxBins int) ([]domain.HistogramBin, error)
	GetTopOverstock(ctx context.Context, filter domain.InventoryFilter, limit int) ([]domain.RankedProduct, error)
	GetTopRevenue(ctx context.Context, filter domain.InventoryFilter, limit int) ([]domain.RankedProduct, error)
	GetAvgDOIByBuyer(ctx context.Context, filter domain.InventoryFilter) ([]domain.GroupAggregate, error)
	GetValueByCategory(ctx context.Context, filter domain.InventoryFilter) ([]domain.GroupAggregate, error)
	GetExpiryTimeline(ctx context.Context, filter domain.InventoryFilter, horizonDays int) ([]domain.TimelineBucket, error)
	GetDOIScatter(ctx context.Context, filter domain.InventoryFilter) ([]domain.ScatterPoint, error)
}
