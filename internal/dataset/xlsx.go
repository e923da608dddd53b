package dataset

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// convertXLSXToCSV converts the first sheet of an XLSX file to a temporary
// CSV file and returns its path. The caller removes the file when done.
func convertXLSXToCSV(xlsxPath string) (string, error) {
	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return "", fmt.Errorf("failed to open xlsx file %s: %w", xlsxPath, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("xlsx file %s has no sheets", xlsxPath)
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return "", fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	defer rows.Close()

	out, err := os.CreateTemp("", "inventory-*.csv")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary csv file: %w", err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			os.Remove(out.Name())
			return "", fmt.Errorf("failed to read row from %s: %w", xlsxPath, err)
		}
		if err := w.Write(record); err != nil {
			os.Remove(out.Name())
			return "", fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()

	if err := rows.Error(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("error iterating rows in %s: %w", xlsxPath, err)
	}
	if err := w.Error(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("error flushing csv: %w", err)
	}

	return out.Name(), nil
}
