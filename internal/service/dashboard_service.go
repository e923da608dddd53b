package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/stocklens/doi-dashboard/internal/cache"
	"github.com/stocklens/doi-dashboard/internal/domain"
	"github.com/stocklens/doi-dashboard/internal/insights"
	"github.com/stocklens/doi-dashboard/internal/repository"
)

const (
	defaultTopN          = 10
	defaultHistogramBins = 30
)

// DashboardService composes the repository aggregations and the insight
// generator into render-ready payloads, with an optional cache in front of
// the fully composed dashboard.
type DashboardService struct {
	repo        repository.InventoryRepository
	generator   *insights.Generator
	cache       cache.DashboardCache
	horizonDays int
}

func NewDashboardService(repo repository.InventoryRepository, generator *insights.Generator, cacheImpl cache.DashboardCache, horizonDays int) *DashboardService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if horizonDays <= 0 {
		horizonDays = 90
	}
	return &DashboardService{
		repo:        repo,
		generator:   generator,
		cache:       cacheImpl,
		horizonDays: horizonDays,
	}
}

func (s *DashboardService) GetItems(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, int, error) {
	return s.repo.GetItems(ctx, filter)
}

func (s *DashboardService) GetFilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	return s.repo.GetFilterOptions(ctx)
}

func (s *DashboardService) GetSummary(ctx context.Context, filter domain.InventoryFilter) (domain.KPISummary, error) {
	return s.repo.GetSummary(ctx, filter)
}

func (s *DashboardService) GetStatusCounts(ctx context.Context, filter domain.InventoryFilter) ([]domain.StatusCount, error) {
	return s.repo.GetStatusCounts(ctx, filter)
}

func (s *DashboardService) GetInsights(ctx context.Context, filter domain.InventoryFilter) ([]domain.Insight, error) {
	view, err := s.repo.GetFiltered(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.generator.Generate(view), nil
}

func (s *DashboardService) GetDOIHistogram(ctx context.Context, filter domain.InventoryFilter, maxBins int) ([]domain.HistogramBin, error) {
	if maxBins <= 0 {
		maxBins = defaultHistogramBins
	}
	return s.repo.GetDOIHistogram(ctx, filter, maxBins)
}

func (s *DashboardService) GetTopOverstock(ctx context.Context, filter domain.InventoryFilter, limit int) ([]domain.RankedProduct, error) {
	if limit <= 0 {
		limit = defaultTopN
	}
	return s.repo.GetTopOverstock(ctx, filter, limit)
}

func (s *DashboardService) GetTopRevenue(ctx context.Context, filter domain.InventoryFilter, limit int) ([]domain.RankedProduct, error) {
	if limit <= 0 {
		limit = defaultTopN
	}
	return s.repo.GetTopRevenue(ctx, filter, limit)
}

func (s *DashboardService) GetAvgDOIByBuyer(ctx context.Context, filter domain.InventoryFilter) ([]domain.GroupAggregate, error) {
	return s.repo.GetAvgDOIByBuyer(ctx, filter)
}

func (s *DashboardService) GetValueByCategory(ctx context.Context, filter domain.InventoryFilter) ([]domain.GroupAggregate, error) {
	return s.repo.GetValueByCategory(ctx, filter)
}

func (s *DashboardService) GetExpiryTimeline(ctx context.Context, filter domain.InventoryFilter, horizonDays int) ([]domain.TimelineBucket, error) {
	if horizonDays <= 0 {
		horizonDays = s.horizonDays
	}
	return s.repo.GetExpiryTimeline(ctx, filter, horizonDays)
}

func (s *DashboardService) GetDOIScatter(ctx context.Context, filter domain.InventoryFilter) ([]domain.ScatterPoint, error) {
	return s.repo.GetDOIScatter(ctx, filter)
}

// GetDashboard composes the full dashboard payload for a filtered view.
// Pagination and sort fields are ignored for the composed payload so that
// equivalent filters share a cache entry.
func (s *DashboardService) GetDashboard(ctx context.Context, filter domain.InventoryFilter) (*domain.Dashboard, error) {
	cacheFilter := domain.InventoryFilter{
		Buyers:     filter.Buyers,
		Categories: filter.Categories,
		Warehouses: filter.Warehouses,
		DOIStatus:  filter.DOIStatus,
	}

	if dashboard, ok, err := s.cache.GetDashboard(ctx, cacheFilter); err == nil && ok {
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get failed")
	}

	summary, err := s.repo.GetSummary(ctx, cacheFilter)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.repo.GetStatusCounts(ctx, cacheFilter)
	if err != nil {
		return nil, err
	}

	insightList, err := s.GetInsights(ctx, cacheFilter)
	if err != nil {
		return nil, err
	}

	charts := domain.DashboardCharts{}
	if charts.DOIHistogram, err = s.repo.GetDOIHistogram(ctx, cacheFilter, defaultHistogramBins); err != nil {
		return nil, err
	}
	if charts.TopOverstock, err = s.repo.GetTopOverstock(ctx, cacheFilter, defaultTopN); err != nil {
		return nil, err
	}
	if charts.AvgDOIByBuyer, err = s.repo.GetAvgDOIByBuyer(ctx, cacheFilter); err != nil {
		return nil, err
	}
	if charts.ValueByCategory, err = s.repo.GetValueByCategory(ctx, cacheFilter); err != nil {
		return nil, err
	}
	if charts.TopRevenue, err = s.repo.GetTopRevenue(ctx, cacheFilter, defaultTopN); err != nil {
		return nil, err
	}
	if charts.ExpiryTimeline, err = s.repo.GetExpiryTimeline(ctx, cacheFilter, s.horizonDays); err != nil {
		return nil, err
	}
	if charts.DOIScatter, err = s.repo.GetDOIScatter(ctx, cacheFilter); err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{
		Summary:      summary,
		StatusCounts: statusCounts,
		Insights:     insightList,
		Charts:       charts,
		GeneratedAt:  time.Now().UTC(),
	}

	if err := s.cache.SetDashboard(ctx, cacheFilter, dashboard); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set failed")
	}

	return dashboard, nil
}
