// internal/domain/models.go
package domain

import "time"

// InventoryRecord is a single row of the static inventory snapshot.
// The snapshot is immutable for the lifetime of a session and SKUID is
// unique within it.
type InventoryRecord struct {
	SKUID              string     `json:"sku_id" db:"sku_id" csv:"SKU"`
	Product            string     `json:"product" db:"product" csv:"Product"`
	Category           string     `json:"category" db:"category" csv:"Category"`
	Buyer              string     `json:"buyer" db:"buyer" csv:"Buyer"`
	Warehouse          string     `json:"warehouse" db:"warehouse" csv:"Warehouse"`
	QuantityOnHand     int        `json:"quantity_on_hand" db:"quantity_on_hand" csv:"StockQty"`
	UnitCost           float64    `json:"unit_cost" db:"unit_cost" csv:"UnitCost"`
	UnitPrice          float64    `json:"unit_price" db:"unit_price" csv:"UnitPrice"`
	DailySalesVelocity float64    `json:"daily_sales_velocity" db:"daily_sales_velocity" csv:"DailySalesVelocity"`
	ExpiryDate         *time.Time `json:"expiry_date,omitempty" db:"expiry_date" csv:"ExpiryDate"`
}

// ItemMetrics holds the derived, non-persisted metrics for a record.
// DaysOfInventory is nil when the record has zero sales velocity; such
// records never enter DOI-ranked outputs.
type ItemMetrics struct {
	DaysOfInventory *float64 `json:"days_of_inventory"`
	DOIStatus       string   `json:"doi_status"`
	IsOverstocked   bool     `json:"is_overstocked"`
	IsExpiringSoon  bool     `json:"is_expiring_soon"`
	CarryingCost    float64  `json:"carrying_cost"`
	OverstockValue  float64  `json:"overstock_value"`
	AnnualUnitsSold int      `json:"annual_units_sold"`
	AnnualRevenue   float64  `json:"annual_revenue"`
	DaysToExpiry    *int     `json:"days_to_expiry,omitempty"`
}

// InventoryItem is a record augmented with its derived metrics, the unit the
// dashboard filters, sorts and renders.
type InventoryItem struct {
	InventoryRecord
	Metrics ItemMetrics `json:"metrics"`
}

// InventoryFilter represents the user-selected predicates applied to the
// snapshot before any aggregation.
type InventoryFilter struct {
	Buyers     []string `json:"buyers"`
	Categories []string `json:"categories"`
	Warehouses []string `json:"warehouses"`
	DOIStatus  string   `json:"doi_status"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	SortField  string   `json:"sort_field"`
	SortDir    string   `json:"sort_dir"`
}

// FilterOptions lists the distinct values available for the filter widgets.
type FilterOptions struct {
	Buyers     []string `json:"buyers"`
	Categories []string `json:"categories"`
	Warehouses []string `json:"warehouses"`
	Statuses   []string `json:"statuses"`
}

// KPISummary holds the metric cards shown at the top of the dashboard.
type KPISummary struct {
	TotalProducts       int     `json:"total_products"`
	LowStockCount       int     `json:"low_stock_count"`
	OverstockCount      int     `json:"overstock_count"`
	ExpiringSoonCount   int     `json:"expiring_soon_count"`
	TotalOverstockValue float64 `json:"total_overstock_value"`
	TotalInventoryValue float64 `json:"total_inventory_value"`
}

// StatusCount is one DOI status bucket with its record count.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// HistogramBin is a single bin of the DOI distribution chart.
type HistogramBin struct {
	From  float64 `json:"from"`
	To    float64 `json:"to"`
	Count int     `json:"count"`
}

// RankedProduct is one bar of a top-N product chart.
type RankedProduct struct {
	SKUID   string  `json:"sku_id"`
	Product string  `json:"product"`
	Value   float64 `json:"value"`
}

// GroupAggregate is one bar of a per-buyer or per-category breakdown chart.
type GroupAggregate struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// ScatterPoint is one bubble of the DOI vs revenue scatter chart.
type ScatterPoint struct {
	SKUID           string  `json:"sku_id"`
	Product         string  `json:"product"`
	Category        string  `json:"category"`
	Buyer           string  `json:"buyer"`
	DaysOfInventory float64 `json:"days_of_inventory"`
	AnnualRevenue   float64 `json:"annual_revenue"`
	CarryingCost    float64 `json:"carrying_cost"`
	QuantityOnHand  int     `json:"quantity_on_hand"`
}

// TimelineBucket is one date of the expiry timeline chart.
type TimelineBucket struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Insight is a single rule-generated sentence with its severity.
type Insight struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Text     string `json:"text"`
}

// Insight severities.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// DashboardCharts bundles every chart series the dashboard renders.
type DashboardCharts struct {
	DOIHistogram    []HistogramBin   `json:"doi_histogram"`
	TopOverstock    []RankedProduct  `json:"top_overstock"`
	AvgDOIByBuyer   []GroupAggregate `json:"avg_doi_by_buyer"`
	ValueByCategory []GroupAggregate `json:"value_by_category"`
	TopRevenue      []RankedProduct  `json:"top_revenue"`
	ExpiryTimeline  []TimelineBucket `json:"expiry_timeline"`
	DOIScatter      []ScatterPoint   `json:"doi_scatter"`
}

// Dashboard aggregates the full render payload for a filtered view.
type Dashboard struct {
	Summary      KPISummary      `json:"summary"`
	StatusCounts []StatusCount   `json:"status_counts"`
	Insights     []Insight       `json:"insights"`
	Charts       DashboardCharts `json:"charts"`
	GeneratedAt  time.Time       `json:"generated_at"`
}
