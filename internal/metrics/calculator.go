package metrics

import (
	"math"
	"time"

	"github.com/stocklens/doi-dashboard/internal/domain"
)

// Thresholds holds the tunable cutoffs for metric derivation.
type Thresholds struct {
	LowDOIDays       float64 // DOI below this is "low"
	OverstockDOIDays float64 // DOI above this is "overstock"
	ExpiryWindowDays int     // days-to-expiry at or below this is "expiring soon"
}

// DefaultThresholds mirror the demo dashboard: low below 10 days, overstock
// above 180 days, expiring within 30 days.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowDOIDays:       10,
		OverstockDOIDays: 180,
		ExpiryWindowDays: 30,
	}
}

// Calculator derives per-record inventory metrics. All methods are pure;
// the reference time is fixed at construction so a full recomputation pass
// over the snapshot is deterministic.
type Calculator struct {
	thresholds Thresholds
	now        time.Time
}

// NewCalculator creates a calculator with the given thresholds and
// reference time.
func NewCalculator(thresholds Thresholds, now time.Time) *Calculator {
	if thresholds.OverstockDOIDays <= 0 {
		thresholds.OverstockDOIDays = DefaultThresholds().OverstockDOIDays
	}
	if thresholds.LowDOIDays <= 0 {
		thresholds.LowDOIDays = DefaultThresholds().LowDOIDays
	}
	if thresholds.ExpiryWindowDays <= 0 {
		thresholds.ExpiryWindowDays = DefaultThresholds().ExpiryWindowDays
	}
	return &Calculator{thresholds: thresholds, now: now}
}

// Thresholds returns the thresholds the calculator was built with.
func (c *Calculator) Thresholds() Thresholds {
	return c.thresholds
}

// Calculate computes all derived metrics for a record.
func (c *Calculator) Calculate(rec *domain.InventoryRecord) domain.ItemMetrics {
	m := domain.ItemMetrics{}

	// 1. Carrying cost = on-hand quantity × unit cost, never negative.
	m.CarryingCost = float64(rec.QuantityOnHand) * rec.UnitCost

	// 2. Days of inventory. Zero velocity has no defined DOI: the sentinel
	// is a nil pointer, never a division.
	if rec.DailySalesVelocity > 0 {
		doi := float64(rec.QuantityOnHand) / rec.DailySalesVelocity
		m.DaysOfInventory = &doi
	}

	// 3. DOI status bucket.
	m.DOIStatus = c.doiStatus(rec, m.DaysOfInventory)
	m.IsOverstocked = m.DOIStatus == domain.StatusOverstock

	// 4. Overstock value: capital tied up beyond the target cover quantity.
	if m.IsOverstocked {
		targetQty := math.Ceil(rec.DailySalesVelocity * c.thresholds.OverstockDOIDays)
		excess := float64(rec.QuantityOnHand) - targetQty
		if excess > 0 {
			m.OverstockValue = excess * rec.UnitCost
		}
	}

	// 5. Expiry risk.
	if rec.ExpiryDate != nil {
		days := int(math.Ceil(rec.ExpiryDate.Sub(c.now).Hours() / 24))
		m.DaysToExpiry = &days
		m.IsExpiringSoon = days <= c.thresholds.ExpiryWindowDays
	}

	// 6. Annualized movement and revenue.
	m.AnnualUnitsSold = int(math.Round(rec.DailySalesVelocity * 365))
	m.AnnualRevenue = rec.DailySalesVelocity * 365 * rec.UnitPrice

	return m
}

// Augment derives metrics for every record of a snapshot.
func (c *Calculator) Augment(records []domain.InventoryRecord) []domain.InventoryItem {
	items := make([]domain.InventoryItem, 0, len(records))
	for i := range records {
		items = append(items, domain.InventoryItem{
			InventoryRecord: records[i],
			Metrics:         c.Calculate(&records[i]),
		})
	}
	return items
}

func (c *Calculator) doiStatus(rec *domain.InventoryRecord, doi *float64) string {
	if doi == nil {
		// Stock that never sells is overstock; no stock at all is low.
		if rec.QuantityOnHand > 0 {
			return domain.StatusOverstock
		}
		return domain.StatusLow
	}

	switch {
	case *doi < c.thresholds.LowDOIDays:
		return domain.StatusLow
	case *doi > c.thresholds.OverstockDOIDays:
		return domain.StatusOverstock
	default:
		return domain.StatusNormal
	}
}
