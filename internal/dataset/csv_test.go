package dataset

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocklens/doi-dashboard/internal/domain"
)

const validCSV = `SKU,Product,Category,Buyer,Warehouse,StockQty,UnitCost,UnitPrice,DailySalesVelocity,ExpiryDate
SKU-0001,Classic Serum,Beauty,Alice,WH-North,100,12.50,29.99,5,2026-06-15
SKU-0002,Compact Speaker,Electronics,Budi,WH-South,40,80.00,199.00,0,
`

func TestParseCSV(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(validCSV))
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "SKU-0001", first.SKUID)
	assert.Equal(t, "Classic Serum", first.Product)
	assert.Equal(t, "Beauty", first.Category)
	assert.Equal(t, "Alice", first.Buyer)
	assert.Equal(t, "WH-North", first.Warehouse)
	assert.Equal(t, 100, first.QuantityOnHand)
	assert.Equal(t, 12.5, first.UnitCost)
	assert.Equal(t, 29.99, first.UnitPrice)
	assert.Equal(t, 5.0, first.DailySalesVelocity)
	require.NotNil(t, first.ExpiryDate)
	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), *first.ExpiryDate)

	second := records[1]
	assert.Zero(t, second.DailySalesVelocity)
	assert.Nil(t, second.ExpiryDate)
}

func TestParseCSVColumnOrderDoesNotMatter(t *testing.T) {
	shuffled := `Buyer,SKU,StockQty,Product,Category,Warehouse,UnitCost,DailySalesVelocity
Alice,SKU-0001,100,Classic Serum,Beauty,WH-North,12.50,5
`
	records, err := ParseCSV(strings.NewReader(shuffled))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "SKU-0001", records[0].SKUID)
	assert.Equal(t, 100, records[0].QuantityOnHand)
}

func TestParseCSVMissingRequiredColumn(t *testing.T) {
	noBuyer := `SKU,Product,Category,Warehouse,StockQty,UnitCost,DailySalesVelocity
SKU-0001,Classic Serum,Beauty,WH-North,100,12.50,5
`
	_, err := ParseCSV(strings.NewReader(noBuyer))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column: Buyer")
}

func TestParseCSVBadValues(t *testing.T) {
	cases := []struct {
		name string
		csv  string
		want string
	}{
		{
			name: "bad quantity",
			csv: `SKU,Product,Category,Buyer,Warehouse,StockQty,UnitCost,DailySalesVelocity
SKU-0001,Serum,Beauty,Alice,WH-North,lots,12.50,5
`,
			want: "invalid StockQty",
		},
		{
			name: "bad velocity",
			csv: `SKU,Product,Category,Buyer,Warehouse,StockQty,UnitCost,DailySalesVelocity
SKU-0001,Serum,Beauty,Alice,WH-North,100,12.50,fast
`,
			want: "invalid DailySalesVelocity",
		},
		{
			name: "bad expiry date",
			csv: `SKU,Product,Category,Buyer,Warehouse,StockQty,UnitCost,DailySalesVelocity,ExpiryDate
SKU-0001,Serum,Beauty,Alice,WH-North,100,12.50,5,15/06/2026
`,
			want: "invalid ExpiryDate",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tc.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestWriteCSVRoundTrip(t *testing.T) {
	expiry := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	records := []domain.InventoryRecord{
		{SKUID: "SKU-0001", Product: "Classic Serum", Category: "Beauty", Buyer: "Alice", Warehouse: "WH-North",
			QuantityOnHand: 100, UnitCost: 12.5, UnitPrice: 29.99, DailySalesVelocity: 5, ExpiryDate: &expiry},
		{SKUID: "SKU-0002", Product: "Compact Speaker", Category: "Electronics", Buyer: "Budi", Warehouse: "WH-South",
			QuantityOnHand: 40, UnitCost: 80, UnitPrice: 199, DailySalesVelocity: 0},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, records))

	parsed, err := ParseCSV(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, records[0].SKUID, parsed[0].SKUID)
	assert.Equal(t, records[0].QuantityOnHand, parsed[0].QuantityOnHand)
	require.NotNil(t, parsed[0].ExpiryDate)
	assert.True(t, parsed[0].ExpiryDate.Equal(expiry))
	assert.Nil(t, parsed[1].ExpiryDate)
}

func TestValidate(t *testing.T) {
	good := []domain.InventoryRecord{
		{SKUID: "SKU-0001", QuantityOnHand: 1, UnitCost: 1, DailySalesVelocity: 1},
		{SKUID: "SKU-0002"},
	}
	assert.NoError(t, Validate(good))

	assert.ErrorContains(t, Validate(nil), "empty")

	dup := []domain.InventoryRecord{{SKUID: "SKU-0001"}, {SKUID: "SKU-0001"}}
	assert.ErrorContains(t, Validate(dup), "duplicate sku id")

	negative := []domain.InventoryRecord{{SKUID: "SKU-0001", QuantityOnHand: -5}}
	assert.ErrorContains(t, Validate(negative), "negative quantity")

	missing := []domain.InventoryRecord{{QuantityOnHand: 5}}
	assert.ErrorContains(t, Validate(missing), "missing sku id")
}
