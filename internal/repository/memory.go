package repository

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/stocklens/doi-dashboard/internal/domain"
)

const defaultHistogramBins = 30

// memoryInventoryRepository serves every query from the metric-augmented
// snapshot held in memory. The snapshot never changes after construction, so
// every method is a pure read and filtering is idempotent.
type memoryInventoryRepository struct {
	items []domain.InventoryItem
}

// NewMemoryRepository creates a repository over an augmented snapshot.
func NewMemoryRepository(items []domain.InventoryItem) InventoryRepository {
	return &memoryInventoryRepository{items: items}
}

func (r *memoryInventoryRepository) GetItems(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, int, error) {
	view := r.filtered(filter)
	total := len(view)

	sortItems(view, filter.SortField, filter.SortDir)

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		return view, total, nil
	}

	start := (page - 1) * pageSize
	if start >= total {
		return []domain.InventoryItem{}, total, nil
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return view[start:end], total, nil
}

func (r *memoryInventoryRepository) GetFiltered(ctx context.Context, filter domain.InventoryFilter) ([]domain.InventoryItem, error) {
	return r.filtered(filter), nil
}

func (r *memoryInventoryRepository) GetSummary(ctx context.Context, filter domain.InventoryFilter) (domain.KPISummary, error) {
	summary := domain.KPISummary{}
	for _, item := range r.filtered(filter) {
		summary.TotalProducts++
		summary.TotalInventoryValue += item.Metrics.CarryingCost
		summary.TotalOverstockValue += item.Metrics.OverstockValue
		if item.Metrics.DOIStatus == domain.StatusLow {
			summary.LowStockCount++
		}
		if item.Metrics.IsOverstocked {
			summary.OverstockCount++
		}
		if item.Metrics.IsExpiringSoon {
			summary.ExpiringSoonCount++
		}
	}
	return summary, nil
}

func (r *memoryInventoryRepository) GetStatusCounts(ctx context.Context, filter domain.InventoryFilter) ([]domain.StatusCount, error) {
	counts := make(map[string]int)
	for _, item := range r.filtered(filter) {
		counts[item.Metrics.DOIStatus]++
	}

	result := make([]domain.StatusCount, 0, len(counts))
	for _, status := range domain.DOIStatuses() {
		result = append(result, domain.StatusCount{
			Status: status,
			Count:  counts[status],
		})
	}
	return result, nil
}

func (r *memoryInventoryRepository) GetFilterOptions(ctx context.Context) (domain.FilterOptions, error) {
	buyers := make(map[string]struct{})
	categories := make(map[string]struct{})
	warehouses := make(map[string]struct{})
	for _, item := range r.items {
		buyers[item.Buyer] = struct{}{}
		categories[item.Category] = struct{}{}
		warehouses[item.Warehouse] = struct{}{}
	}

	return domain.FilterOptions{
		Buyers:     sortedKeys(buyers),
		Categories: sortedKeys(categories),
		Warehouses: sortedKeys(warehouses),
		Statuses:   domain.DOIStatuses(),
	}, nil
}

func (r *memoryInventoryRepository) GetDOIHistogram(ctx context.Context, filter domain.InventoryFilter, maxBins int) ([]domain.HistogramBin, error) {
	if maxBins <= 0 {
		maxBins = defaultHistogramBins
	}

	// Zero-velocity records have no DOI and are excluded from the
	// distribution rather than binned at a fake value.
	var dois []float64
	for _, item := range r.filtered(filter) {
		if item.Metrics.DaysOfInventory != nil {
			dois = append(dois, *item.Metrics.DaysOfInventory)
		}
	}
	if len(dois) == 0 {
		return []domain.HistogramBin{}, nil
	}

	min, max := dois[0], dois[0]
	for _, v := range dois[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if min == max {
		return []domain.HistogramBin{{From: min, To: max, Count: len(dois)}}, nil
	}

	width := (max - min) / float64(maxBins)
	bins := make([]domain.HistogramBin, maxBins)
	for i := range bins {
		bins[i].From = min + float64(i)*width
		bins[i].To = min + float64(i+1)*width
	}
	for _, v := range dois {
		idx := int((v - min) / width)
		if idx >= maxBins {
			idx = maxBins - 1
		}
		bins[idx].Count++
	}

	return bins, nil
}

func (r *memoryInventoryRepository) GetTopOverstock(ctx context.Context, filter domain.InventoryFilter, limit int) ([]domain.RankedProduct, error) {
	return r.topBy(filter, limit, func(item *domain.InventoryItem) (float64, bool) {
		return item.Metrics.OverstockValue, item.Metrics.OverstockValue > 0
	}), nil
}

func (r *memoryInventoryRepository) GetTopRevenue(ctx context.Context, filter domain.InventoryFilter, limit int) ([]domain.RankedProduct, error) {
	return r.topBy(filter, limit, func(item *domain.InventoryItem) (float64, bool) {
		return item.Metrics.AnnualRevenue, item.Metrics.AnnualRevenue > 0
	}), nil
}

func (r *memoryInventoryRepository) GetAvgDOIByBuyer(ctx context.Context, filter domain.InventoryFilter) ([]domain.GroupAggregate, error) {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, item := range r.filtered(filter) {
		// Averages are divide-based; zero-velocity records stay out.
		if item.Metrics.DaysOfInventory == nil {
			continue
		}
		a, ok := groups[item.Buyer]
		if !ok {
			a = &acc{}
			groups[item.Buyer] = a
		}
		a.sum += *item.Metrics.DaysOfInventory
		a.count++
	}

	result := make([]domain.GroupAggregate, 0, len(groups))
	for _, buyer := range sortedKeys(keysOf(groups)) {
		a := groups[buyer]
		result = append(result, domain.GroupAggregate{
			Group: buyer,
			Value: a.sum / float64(a.count),
			Count: a.count,
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Value > result[j].Value })
	return result, nil
}

func (r *memoryInventoryRepository) GetValueByCategory(ctx context.Context, filter domain.InventoryFilter) ([]domain.GroupAggregate, error) {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[string]*acc)
	for _, item := range r.filtered(filter) {
		a, ok := groups[item.Category]
		if !ok {
			a = &acc{}
			groups[item.Category] = a
		}
		a.sum += item.Metrics.CarryingCost
		a.count++
	}

	result := make([]domain.GroupAggregate, 0, len(groups))
	for _, category := range sortedKeys(keysOf(groups)) {
		a := groups[category]
		result = append(result, domain.GroupAggregate{
			Group: category,
			Value: a.sum,
			Count: a.count,
		})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Value > result[j].Value })
	return result, nil
}

func (r *memoryInventoryRepository) GetExpiryTimeline(ctx context.Context, filter domain.InventoryFilter, horizonDays int) ([]domain.TimelineBucket, error) {
	if horizonDays <= 0 {
		horizonDays = 90
	}

	counts := make(map[string]int)
	for _, item := range r.filtered(filter) {
		if item.ExpiryDate == nil || item.Metrics.DaysToExpiry == nil {
			continue
		}
		if *item.Metrics.DaysToExpiry > horizonDays {
			continue
		}
		counts[item.ExpiryDate.Format("2006-01-02")]++
	}

	result := make([]domain.TimelineBucket, 0, len(counts))
	for _, date := range sortedKeys(keysOf(counts)) {
		result = append(result, domain.TimelineBucket{Date: date, Count: counts[date]})
	}
	return result, nil
}

func (r *memoryInventoryRepository) GetDOIScatter(ctx context.Context, filter domain.InventoryFilter) ([]domain.ScatterPoint, error) {
	view := r.filtered(filter)
	points := make([]domain.ScatterPoint, 0, len(view))
	for _, item := range view {
		if item.Metrics.DaysOfInventory == nil {
			continue
		}
		points = append(points, domain.ScatterPoint{
			SKUID:           item.SKUID,
			Product:         item.Product,
			Category:        item.Category,
			Buyer:           item.Buyer,
			DaysOfInventory: *item.Metrics.DaysOfInventory,
			AnnualRevenue:   item.Metrics.AnnualRevenue,
			CarryingCost:    item.Metrics.CarryingCost,
			QuantityOnHand:  item.QuantityOnHand,
		})
	}
	return points, nil
}

// filtered applies the filter predicates and returns a fresh slice; the
// underlying snapshot is never mutated.
func (r *memoryInventoryRepository) filtered(filter domain.InventoryFilter) []domain.InventoryItem {
	buyers := toSet(filter.Buyers)
	categories := toSet(filter.Categories)
	warehouses := toSet(filter.Warehouses)
	status := strings.ToLower(strings.TrimSpace(filter.DOIStatus))

	view := make([]domain.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		if len(buyers) > 0 {
			if _, ok := buyers[item.Buyer]; !ok {
				continue
			}
		}
		if len(categories) > 0 {
			if _, ok := categories[item.Category]; !ok {
				continue
			}
		}
		if len(warehouses) > 0 {
			if _, ok := warehouses[item.Warehouse]; !ok {
				continue
			}
		}
		if status != "" && item.Metrics.DOIStatus != status {
			continue
		}
		view = append(view, item)
	}
	return view
}

func (r *memoryInventoryRepository) topBy(filter domain.InventoryFilter, limit int, value func(*domain.InventoryItem) (float64, bool)) []domain.RankedProduct {
	if limit <= 0 {
		limit = 10
	}

	view := r.filtered(filter)
	ranked := make([]domain.RankedProduct, 0, len(view))
	for i := range view {
		v, ok := value(&view[i])
		if !ok {
			continue
		}
		ranked = append(ranked, domain.RankedProduct{
			SKUID:   view[i].SKUID,
			Product: view[i].Product,
			Value:   v,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Value > ranked[j].Value })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

func sortItems(items []domain.InventoryItem, field, dir string) {
	desc := strings.EqualFold(dir, "desc")

	less := func(i, j int) bool { return items[i].SKUID < items[j].SKUID }
	switch strings.ToLower(field) {
	case "", "sku":
		// default ordering
	case "product":
		less = func(i, j int) bool { return items[i].Product < items[j].Product }
	case "category":
		less = func(i, j int) bool { return items[i].Category < items[j].Category }
	case "buyer":
		less = func(i, j int) bool { return items[i].Buyer < items[j].Buyer }
	case "warehouse":
		less = func(i, j int) bool { return items[i].Warehouse < items[j].Warehouse }
	case "stock_qty":
		less = func(i, j int) bool { return items[i].QuantityOnHand < items[j].QuantityOnHand }
	case "unit_cost":
		less = func(i, j int) bool { return items[i].UnitCost < items[j].UnitCost }
	case "doi":
		less = func(i, j int) bool { return doiForSort(&items[i]) < doiForSort(&items[j]) }
	case "carrying_cost":
		less = func(i, j int) bool { return items[i].Metrics.CarryingCost < items[j].Metrics.CarryingCost }
	case "overstock_value":
		less = func(i, j int) bool { return items[i].Metrics.OverstockValue < items[j].Metrics.OverstockValue }
	case "annual_revenue":
		less = func(i, j int) bool { return items[i].Metrics.AnnualRevenue < items[j].Metrics.AnnualRevenue }
	case "expiry_date":
		less = func(i, j int) bool { return expiryForSort(&items[i]).Before(expiryForSort(&items[j])) }
	}

	if desc {
		inner := less
		less = func(i, j int) bool { return inner(j, i) }
	}
	sort.SliceStable(items, less)
}

// doiForSort orders zero-velocity records after every finite DOI.
func doiForSort(item *domain.InventoryItem) float64 {
	if item.Metrics.DaysOfInventory == nil {
		return math.Inf(1)
	}
	return *item.Metrics.DaysOfInventory
}

func expiryForSort(item *domain.InventoryItem) sortableTime {
	if item.ExpiryDate == nil {
		return sortableTime{}
	}
	return sortableTime{valid: true, unix: item.ExpiryDate.Unix()}
}

// sortableTime orders records without an expiry date last.
type sortableTime struct {
	valid bool
	unix  int64
}

func (t sortableTime) Before(other sortableTime) bool {
	if t.valid != other.valid {
		return t.valid
	}
	return t.unix < other.unix
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func keysOf[V any](m map[string]V) map[string]struct{} {
	set := make(map[string]struct{}, len(m))
	for k := range m {
		set[k] = struct{}{}
	}
	return set
}
