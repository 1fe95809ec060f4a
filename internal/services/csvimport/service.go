package csvimport

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/zaiko-app/zaikogo/internal/logger"
	"github.com/zaiko-app/zaikogo/internal/models"
	"github.com/zaiko-app/zaikogo/internal/store"
	"github.com/zaiko-app/zaikogo/internal/utils"
)

// Default minimum quantity assigned to products created by import.
const importedMinQuantity = 5

// Service reconciles uploaded inventory CSV files against the catalog.
type Service struct {
	store     *store.Store
	reportDir string
	log       *zap.Logger
}

func NewService(st *store.Store, reportDir string) *Service {
	return &Service{store: st, reportDir: reportDir, log: logger.Get()}
}

// Result summarizes one import run.
type Result struct {
	Processed int
	Added     int
	Updated   int
	Message   string
}

// Import runs the full reconciliation pipeline for one uploaded file:
// encoding detection, header resolution, identity matching and row upserts.
// All writes happen in a single transaction; any failure rolls the whole
// batch back. An ImportLog row is recorded either way.
func (s *Service) Import(raw []byte, filename, dealer string) (*Result, error) {
	res, encName, cols, err := s.runImport(raw, dealer)
	s.writeLog(filename, dealer, encName, cols, res, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) runImport(raw []byte, dealer string) (*Result, string, map[Field]string, error) {
	records, encName, err := decodeTable(raw)
	if err != nil {
		return nil, "", nil, err
	}
	s.log.Info("CSV decoded", zap.String("encoding", encName), zap.Int("rows", len(records)-1))

	headers := records[0]
	cols, err := ResolveColumns(dealer, headers)
	if err != nil {
		return nil, encName, nil, err
	}

	// First occurrence wins when a header appears twice.
	headerIdx := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, seen := headerIdx[h]; !seen {
			headerIdx[h] = i
		}
	}

	res := &Result{}
	err = s.store.Transaction(func(tx *store.Store) error {
		// Pre-load the whole catalog once; row processing then matches
		// against this point-in-time snapshot instead of querying per row.
		existing, err := tx.ListAll("")
		if err != nil {
			return err
		}
		index := make(map[string]*models.Product, len(existing))
		for i := range existing {
			p := &existing[i]
			index[IdentityKey(p.Manufacturer, p.ProductName)] = p
		}

		for line, row := range records[1:] {
			cell := func(f Field) string {
				idx, ok := headerIdx[cols[f]]
				if !ok || idx >= len(row) {
					return ""
				}
				return strings.TrimSpace(row[idx])
			}

			manufacturer := cell(FieldManufacturer)
			name := cell(FieldProductName)

			price, err := decimal.NewFromString(cell(FieldUnitPrice))
			if err != nil {
				return &RowParseError{Line: line + 2, Field: FieldUnitPrice, Err: err}
			}

			quantity := 0
			if qv := cell(FieldQuantity); qv != "" {
				f, err := strconv.ParseFloat(qv, 64)
				if err != nil {
					return &RowParseError{Line: line + 2, Field: FieldQuantity, Err: err}
				}
				quantity = int(f)
			}

			if existing, ok := index[IdentityKey(manufacturer, name)]; ok {
				// Last write wins on price; stock accumulates.
				existing.UnitPrice = price
				existing.CurrentStock += quantity
				if err := tx.SaveProduct(existing); err != nil {
					return err
				}
				res.Updated++
			} else {
				code, err := utils.GenerateProductCode(manufacturer, tx.CodeExists)
				if err != nil {
					return err
				}
				product := &models.Product{
					ProductCode:  code,
					Manufacturer: manufacturer,
					ProductName:  name,
					UnitPrice:    price,
					CurrentStock: quantity,
					MinQuantity:  importedMinQuantity,
				}
				if dealer != "" {
					d := dealer
					product.Dealer = &d
				}
				if err := tx.CreateProduct(product); err != nil {
					return err
				}
				res.Added++
			}
			res.Processed++
		}
		return nil
	})
	if err != nil {
		return nil, encName, cols, err
	}

	dealerLabel := dealer
	if dealerLabel == "" {
		dealerLabel = "未指定"
	}
	msg := fmt.Sprintf("%d件の商品を処理しました（取引会社: %s）", res.Processed, dealerLabel)
	if res.Added > 0 {
		msg += fmt.Sprintf(" - 新規追加: %d件", res.Added)
	}
	if res.Updated > 0 {
		msg += fmt.Sprintf(" - 既存商品更新: %d件", res.Updated)
	}
	res.Message = msg
	return res, encName, cols, nil
}

// writeLog records the attempt outside the import transaction. A failing log
// write is reported but never fails the import itself.
func (s *Service) writeLog(filename, dealer, encName string, cols map[Field]string, res *Result, importErr error) {
	entry := &models.ImportLog{
		Dealer:   dealer,
		Filename: filename,
		Encoding: encName,
		Success:  importErr == nil,
	}
	if cols != nil {
		if b, err := json.Marshal(cols); err == nil {
			entry.ResolvedColumns = datatypes.JSON(b)
		}
	}
	if importErr != nil {
		entry.Message = importErr.Error()
	} else if res != nil {
		entry.RowsProcessed = res.Processed
		entry.RowsAdded = res.Added
		entry.RowsUpdated = res.Updated
		entry.Message = res.Message
	}
	if err := s.store.CreateImportLog(entry); err != nil {
		s.log.Warn("failed to write import log", zap.Error(err))
	}
}
