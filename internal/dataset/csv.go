package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/stocklens/doi-dashboard/internal/domain"
)

// expiryDateLayout is the date format expected in the ExpiryDate column.
const expiryDateLayout = "2006-01-02"

// Header is the canonical CSV header for inventory snapshots, in the order
// written by the sample generator.
var Header = []string{
	"SKU", "Product", "Category", "Buyer", "Warehouse",
	"StockQty", "UnitCost", "UnitPrice", "DailySalesVelocity", "ExpiryDate",
}

var requiredColumns = []string{
	"SKU", "Product", "Category", "Buyer", "Warehouse",
	"StockQty", "UnitCost", "DailySalesVelocity",
}

// FileSource loads the snapshot from a local CSV or XLSX file.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "file" }

func (s *FileSource) Load(ctx context.Context) ([]domain.InventoryRecord, error) {
	path := s.Path
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		csvPath, err := convertXLSXToCSV(path)
		if err != nil {
			return nil, err
		}
		defer os.Remove(csvPath)
		path = csvPath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset file %s: %w", s.Path, err)
	}
	defer f.Close()

	records, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset file %s: %w", s.Path, err)
	}

	return records, nil
}

// ParseCSV reads an inventory snapshot from CSV. The header row is mapped by
// name so column order does not matter; missing required columns and
// unparsable values are errors.
func ParseCSV(r io.Reader) ([]domain.InventoryRecord, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}

	for _, col := range requiredColumns {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	var records []domain.InventoryRecord
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		rec, err := parseRow(row, colMap)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseRow(row []string, colMap map[string]int) (domain.InventoryRecord, error) {
	getValue := func(colName string) string {
		if idx, ok := colMap[colName]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	getFloat := func(colName string) (float64, error) {
		val := getValue(colName)
		if val == "" {
			return 0, nil
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q", colName, val)
		}
		return f, nil
	}

	getInt := func(colName string) (int, error) {
		val := getValue(colName)
		if val == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("invalid %s value %q", colName, val)
		}
		return n, nil
	}

	rec := domain.InventoryRecord{
		SKUID:     getValue("SKU"),
		Product:   getValue("Product"),
		Category:  getValue("Category"),
		Buyer:     getValue("Buyer"),
		Warehouse: getValue("Warehouse"),
	}

	var err error
	if rec.QuantityOnHand, err = getInt("StockQty"); err != nil {
		return rec, err
	}
	if rec.UnitCost, err = getFloat("UnitCost"); err != nil {
		return rec, err
	}
	if rec.UnitPrice, err = getFloat("UnitPrice"); err != nil {
		return rec, err
	}
	if rec.DailySalesVelocity, err = getFloat("DailySalesVelocity"); err != nil {
		return rec, err
	}

	if raw := getValue("ExpiryDate"); raw != "" {
		expiry, err := time.Parse(expiryDateLayout, raw)
		if err != nil {
			return rec, fmt.Errorf("invalid ExpiryDate value %q", raw)
		}
		rec.ExpiryDate = &expiry
	}

	return rec, nil
}

// WriteCSV writes a snapshot using the canonical header. Used by the seed
// CLI to materialize the sample dataset.
func WriteCSV(w io.Writer, records []domain.InventoryRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range records {
		rec := &records[i]
		expiry := ""
		if rec.ExpiryDate != nil {
			expiry = rec.ExpiryDate.Format(expiryDateLayout)
		}
		row := []string{
			rec.SKUID,
			rec.Product,
			rec.Category,
			rec.Buyer,
			rec.Warehouse,
			strconv.Itoa(rec.QuantityOnHand),
			strconv.FormatFloat(rec.UnitCost, 'f', 2, 64),
			strconv.FormatFloat(rec.UnitPrice, 'f', 2, 64),
			strconv.FormatFloat(rec.DailySalesVelocity, 'f', 2, 64),
			expiry,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for sku %s: %w", rec.SKUID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
