// Package dataset loads the immutable inventory snapshot the dashboard
// serves. Every source is read-only: the snapshot is loaded once at startup
// and never written back.
package dataset

import (
	"context"
	"fmt"

	"github.com/stocklens/doi-dashboard/internal/domain"
)

// Source produces the inventory snapshot from one of the configured
// backends (sample, file, s3, postgres).
type Source interface {
	Load(ctx context.Context) ([]domain.InventoryRecord, error)
	Name() string
}

// Validate checks snapshot-level invariants: at least one record, unique
// SKU ids and non-negative quantities, costs and velocities. A violation is
// fatal at startup.
func Validate(records []domain.InventoryRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("dataset is empty")
	}

	seen := make(map[string]struct{}, len(records))
	for i := range records {
		rec := &records[i]
		if rec.SKUID == "" {
			return fmt.Errorf("record %d: missing sku id", i+1)
		}
		if _, ok := seen[rec.SKUID]; ok {
			return fmt.Errorf("duplicate sku id %q", rec.SKUID)
		}
		seen[rec.SKUID] = struct{}{}

		if rec.QuantityOnHand < 0 {
			return fmt.Errorf("sku %s: negative quantity on hand", rec.SKUID)
		}
		if rec.UnitCost < 0 {
			return fmt.Errorf("sku %s: negative unit cost", rec.SKUID)
		}
		if rec.UnitPrice < 0 {
			return fmt.Errorf("sku %s: negative unit price", rec.SKUID)
		}
		if rec.DailySalesVelocity < 0 {
			return fmt.Errorf("sku %s: negative daily sales velocity", rec.SKUID)
		}
	}

	return nil
}
