package csvimport

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zaiko-app/zaikogo/internal/models"
	"github.com/zaiko-app/zaikogo/internal/store"
)

// NameImportDefaults supply field values for products created from a bare
// name list. Blank values fall back to "未設定".
type NameImportDefaults struct {
	Category     string
	Dealer       string
	Manufacturer string
}

var errNoProductNames = errors.New("有効な商品名が含まれていません")
var errAllNamesExist = errors.New("全ての商品名が既に登録されています")

const nameImportUnitPrice = 100

// ImportProductNames registers products from a header-less, single-column
// CSV of product names (UTF-8 only). Names already present in the catalog
// are skipped; remaining names are created with defaulted fields, zero stock
// and a minimum quantity of 5.
func (s *Service) ImportProductNames(raw []byte, defaults NameImportDefaults) (string, error) {
	r := csv.NewReader(bytes.NewReader(raw))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return "", fmt.Errorf("CSVの解析に失敗しました: %w", err)
	}

	var names []string
	seen := map[string]bool{}
	for _, row := range records {
		if len(row) == 0 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return "", errNoProductNames
	}

	existing, err := s.store.ExistingProductNames(names)
	if err != nil {
		return "", err
	}
	existingSet := make(map[string]bool, len(existing))
	for _, n := range existing {
		existingSet[n] = true
	}

	var fresh []string
	for _, n := range names {
		if !existingSet[n] {
			fresh = append(fresh, n)
		}
	}
	if len(fresh) == 0 {
		return "", errAllNamesExist
	}

	orDefault := func(v string) string {
		if v == "" {
			return "未設定"
		}
		return v
	}

	added := 0
	err = s.store.Transaction(func(tx *store.Store) error {
		stamp := time.Now().Format("150405")
		for _, name := range fresh {
			category := orDefault(defaults.Category)
			dealer := orDefault(defaults.Dealer)
			p := &models.Product{
				ProductCode:  fmt.Sprintf("CSV_%s_%03d", stamp, added),
				ProductName:  name,
				Manufacturer: orDefault(defaults.Manufacturer),
				Category:     &category,
				Dealer:       &dealer,
				UnitPrice:    decimal.NewFromInt(nameImportUnitPrice),
				CurrentStock: 0,
				MinQuantity:  importedMinQuantity,
			}
			if err := tx.CreateProduct(p); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	msg := fmt.Sprintf("%d件の商品を登録しました", added)
	if len(existing) > 0 {
		msg += fmt.Sprintf("（%d件は既存のためスキップ）", len(existing))
	}
	return msg, nil
}
