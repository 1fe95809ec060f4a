package csvimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/zaiko-app/zaikogo/internal/store"
)

// ExportCSV writes the (optionally dealer-filtered) catalog to the report
// directory as UTF-8 with a BOM, so spreadsheet tools pick the encoding up.
// Returns the written file path.
func (s *Service) ExportCSV(dealer string) (string, error) {
	products, err := s.store.ListProducts(store.ProductFilter{Dealer: dealer, SortBy: "product_name"})
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"manufacturer", "product_name", "unit_price", "current_stock", "min_quantity", "category", "dealer"}); err != nil {
		return "", err
	}
	for _, p := range products {
		category, dealerVal := "", ""
		if p.Category != nil {
			category = *p.Category
		}
		if p.Dealer != nil {
			dealerVal = *p.Dealer
		}
		row := []string{
			p.Manufacturer,
			p.ProductName,
			p.UnitPrice.String(),
			fmt.Sprintf("%d", p.CurrentStock),
			fmt.Sprintf("%d", p.MinQuantity),
			category,
			dealerVal,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.reportDir, 0o755); err != nil {
		return "", err
	}
	suffix := ""
	if dealer != "" {
		suffix = "_" + dealer
	}
	path := filepath.Join(s.reportDir,
		fmt.Sprintf("inventory_export%s_%s.csv", suffix, time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}
