// Package insights produces the rule-based textual summaries shown on the
// dashboard. The rules are fixed templates over aggregates of the filtered
// view; every count in a sentence matches the underlying aggregate exactly.
package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stocklens/doi-dashboard/internal/domain"
)

// Rule names, stable identifiers for clients that want to style per rule.
const (
	RuleLowStock            = "low_stock"
	RuleOverstock           = "overstock"
	RuleTopBuyerOverstock   = "top_buyer_overstock"
	RuleHighCostLowMovement = "high_cost_low_movement"
	RuleExpiringSoon        = "expiring_soon"
)

// Config holds the thresholds the rules reference in their sentences.
type Config struct {
	LowDOIDays           float64
	ExpiryWindowDays     int
	HighCostValue        float64
	LowMovementAnnualQty int
	MaxExampleSKUs       int
}

// DefaultConfig mirrors the demo dashboard rules.
func DefaultConfig() Config {
	return Config{
		LowDOIDays:           10,
		ExpiryWindowDays:     30,
		HighCostValue:        5000,
		LowMovementAnnualQty: 50,
		MaxExampleSKUs:       2,
	}
}

// Generator turns a filtered view into insight sentences.
type Generator struct {
	cfg Config
}

func NewGenerator(cfg Config) *Generator {
	if cfg.MaxExampleSKUs <= 0 {
		cfg.MaxExampleSKUs = DefaultConfig().MaxExampleSKUs
	}
	return &Generator{cfg: cfg}
}

// Generate evaluates every rule against the view. The low-stock line is
// always present; the other rules only fire when they have something to say.
// Example SKUs are picked deterministically (largest value first), never
// sampled.
func (g *Generator) Generate(items []domain.InventoryItem) []domain.Insight {
	insights := []domain.Insight{g.lowStock(items)}

	if insight, ok := g.overstock(items); ok {
		insights = append(insights, insight)
	}
	if insight, ok := g.topBuyerOverstock(items); ok {
		insights = append(insights, insight)
	}
	if insight, ok := g.highCostLowMovement(items); ok {
		insights = append(insights, insight)
	}
	if insight, ok := g.expiringSoon(items); ok {
		insights = append(insights, insight)
	}

	return insights
}

func (g *Generator) lowStock(items []domain.InventoryItem) domain.Insight {
	count := 0
	for _, item := range items {
		if item.Metrics.DOIStatus == domain.StatusLow {
			count++
		}
	}

	severity := domain.SeverityInfo
	if count > 0 {
		severity = domain.SeverityCritical
	}

	return domain.Insight{
		Rule:     RuleLowStock,
		Severity: severity,
		Text: fmt.Sprintf("%d %s critically low on inventory (DOI < %s days).",
			count, pluralProducts(count), trimFloat(g.cfg.LowDOIDays)),
	}
}

func (g *Generator) overstock(items []domain.InventoryItem) (domain.Insight, bool) {
	count := 0
	value := 0.0
	for _, item := range items {
		if item.Metrics.IsOverstocked {
			count++
			value += item.Metrics.OverstockValue
		}
	}
	if count == 0 {
		return domain.Insight{}, false
	}

	return domain.Insight{
		Rule:     RuleOverstock,
		Severity: domain.SeverityWarning,
		Text: fmt.Sprintf("%d %s overstocked, tying up %s.",
			count, pluralSKUs(count), formatDollars(value)),
	}, true
}

func (g *Generator) topBuyerOverstock(items []domain.InventoryItem) (domain.Insight, bool) {
	totals := make(map[string]float64)
	for _, item := range items {
		if item.Metrics.OverstockValue > 0 {
			totals[item.Buyer] += item.Metrics.OverstockValue
		}
	}
	if len(totals) == 0 {
		return domain.Insight{}, false
	}

	topBuyer := ""
	topValue := 0.0
	for _, buyer := range sortedBuyers(totals) {
		if totals[buyer] > topValue {
			topBuyer = buyer
			topValue = totals[buyer]
		}
	}

	return domain.Insight{
		Rule:     RuleTopBuyerOverstock,
		Severity: domain.SeverityWarning,
		Text: fmt.Sprintf("Buyer %s is carrying %s in overstocked items.",
			topBuyer, formatDollars(topValue)),
	}, true
}

func (g *Generator) highCostLowMovement(items []domain.InventoryItem) (domain.Insight, bool) {
	var risky []domain.InventoryItem
	for _, item := range items {
		if item.Metrics.CarryingCost > g.cfg.HighCostValue &&
			item.Metrics.AnnualUnitsSold < g.cfg.LowMovementAnnualQty {
			risky = append(risky, item)
		}
	}
	if len(risky) == 0 {
		return domain.Insight{}, false
	}

	sort.SliceStable(risky, func(i, j int) bool {
		return risky[i].Metrics.CarryingCost > risky[j].Metrics.CarryingCost
	})

	return domain.Insight{
		Rule:     RuleHighCostLowMovement,
		Severity: domain.SeverityWarning,
		Text: fmt.Sprintf("High holding cost with low movement detected in SKUs: %s.",
			joinProducts(risky, g.cfg.MaxExampleSKUs)),
	}, true
}

func (g *Generator) expiringSoon(items []domain.InventoryItem) (domain.Insight, bool) {
	var expiring []domain.InventoryItem
	for _, item := range items {
		if item.Metrics.IsExpiringSoon {
			expiring = append(expiring, item)
		}
	}
	if len(expiring) == 0 {
		return domain.Insight{}, false
	}

	sort.SliceStable(expiring, func(i, j int) bool {
		return *expiring[i].Metrics.DaysToExpiry < *expiring[j].Metrics.DaysToExpiry
	})

	return domain.Insight{
		Rule:     RuleExpiringSoon,
		Severity: domain.SeverityCritical,
		Text: fmt.Sprintf("Expiring soon: %s within %d days.",
			joinProducts(expiring, g.cfg.MaxExampleSKUs), g.cfg.ExpiryWindowDays),
	}, true
}

func joinProducts(items []domain.InventoryItem, max int) string {
	if max > len(items) {
		max = len(items)
	}
	names := make([]string, 0, max)
	for _, item := range items[:max] {
		names = append(names, item.Product)
	}
	return strings.Join(names, ", ")
}

func sortedBuyers(totals map[string]float64) []string {
	buyers := make([]string, 0, len(totals))
	for buyer := range totals {
		buyers = append(buyers, buyer)
	}
	sort.Strings(buyers)
	return buyers
}

func pluralProducts(n int) string {
	if n == 1 {
		return "product is"
	}
	return "products are"
}

func pluralSKUs(n int) string {
	if n == 1 {
		return "SKU is"
	}
	return "SKUs are"
}
