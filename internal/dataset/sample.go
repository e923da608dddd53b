package dataset

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/stocklens/doi-dashboard/internal/domain"
)

// defaultSampleSize matches the demo dataset of 200 products.
const defaultSampleSize = 200

const sampleSeed = 42

var (
	sampleCategories = []string{"Beauty", "Electronics", "Home & Living", "Toys", "Grocery", "Apparel"}
	sampleBuyers     = []string{"Alice", "Budi", "Chen", "Dewi", "Elena", "Farhan"}
	sampleWarehouses = []string{"WH-North", "WH-South", "WH-East", "WH-West"}

	productAdjectives = []string{"Classic", "Premium", "Eco", "Compact", "Deluxe", "Everyday", "Pro", "Mini"}
	productNouns      = []string{"Serum", "Speaker", "Lamp", "Blocks", "Coffee", "Jacket", "Cream", "Charger", "Mug", "Scarf"}
)

// SampleSource deterministically generates the demo snapshot. Upload is
// disabled for demo purposes, so this is the default source.
type SampleSource struct {
	Size int
	Now  time.Time
}

func NewSampleSource(size int, now time.Time) *SampleSource {
	if size <= 0 {
		size = defaultSampleSize
	}
	return &SampleSource{Size: size, Now: now}
}

func (s *SampleSource) Name() string { return "sample" }

func (s *SampleSource) Load(ctx context.Context) ([]domain.InventoryRecord, error) {
	return GenerateSample(s.Size, s.Now), nil
}

// GenerateSample builds a deterministic snapshot of n records. The same n
// and reference date always yield the same records, so dashboards and tests
// are reproducible across runs.
func GenerateSample(n int, now time.Time) []domain.InventoryRecord {
	if n <= 0 {
		n = defaultSampleSize
	}

	rng := rand.New(rand.NewSource(sampleSeed))
	records := make([]domain.InventoryRecord, 0, n)

	for i := 0; i < n; i++ {
		category := sampleCategories[rng.Intn(len(sampleCategories))]
		adjective := productAdjectives[rng.Intn(len(productAdjectives))]
		noun := productNouns[rng.Intn(len(productNouns))]

		rec := domain.InventoryRecord{
			SKUID:     fmt.Sprintf("SKU-%04d", i+1),
			Product:   fmt.Sprintf("%s %s %s", adjective, category, noun),
			Category:  category,
			Buyer:     sampleBuyers[rng.Intn(len(sampleBuyers))],
			Warehouse: sampleWarehouses[rng.Intn(len(sampleWarehouses))],
		}

		rec.UnitCost = roundCents(2 + rng.Float64()*148)
		rec.UnitPrice = roundCents(rec.UnitCost * (1.2 + rng.Float64()*1.3))

		// Shape the stock profile so every DOI bucket is populated:
		// fast movers run low, slow movers pile up, and a handful of SKUs
		// have no movement at all.
		switch bucket := rng.Intn(10); {
		case bucket == 0:
			// Dead stock: no velocity, some quantity on hand.
			rec.DailySalesVelocity = 0
			rec.QuantityOnHand = 20 + rng.Intn(400)
		case bucket <= 2:
			// Fast mover running low.
			rec.DailySalesVelocity = roundCents(4 + rng.Float64()*16)
			rec.QuantityOnHand = rng.Intn(int(rec.DailySalesVelocity*9) + 1)
		case bucket <= 4:
			// Slow mover piled up past the overstock threshold.
			rec.DailySalesVelocity = roundCents(0.2 + rng.Float64()*0.8)
			rec.QuantityOnHand = int(rec.DailySalesVelocity*200) + rng.Intn(600)
		default:
			// Healthy cover between the two thresholds.
			rec.DailySalesVelocity = roundCents(1 + rng.Float64()*6)
			rec.QuantityOnHand = int(rec.DailySalesVelocity * float64(15+rng.Intn(150)))
		}

		// Roughly 60% of products are perishable.
		if rng.Intn(10) < 6 {
			expiry := now.AddDate(0, 0, 5+rng.Intn(360))
			expiry = time.Date(expiry.Year(), expiry.Month(), expiry.Day(), 0, 0, 0, 0, time.UTC)
			rec.ExpiryDate = &expiry
		}

		records = append(records, rec)
	}

	return records
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
