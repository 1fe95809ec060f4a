package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/zaiko-app/zaikogo/internal/store"
)

// Service renders the inventory catalog as a PDF table, one row per product,
// with a QR code cell encoding the product code for shelf scanning.
type Service struct {
	store     *store.Store
	reportDir string
}

func NewService(st *store.Store, reportDir string) *Service {
	return &Service{store: st, reportDir: reportDir}
}

const qrCell = 12.0

// GenerateInventoryPDF writes the (optionally dealer-filtered) catalog to
// the report directory and returns the file path.
func (s *Service) GenerateInventoryPDF(dealer string) (string, error) {
	products, err := s.store.ListProducts(store.ProductFilter{Dealer: dealer, SortBy: "product_name"})
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	title := "Inventory Report"
	if dealer != "" {
		title += " - " + dealer
	}
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 6, time.Now().Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	widths := []float64{30, 45, 80, 25, 20, 20, 25, qrCell + 4}
	headers := []string{"Code", "Manufacturer", "Product", "Unit Price", "Stock", "Min Qty", "Dealer", "QR"}

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
	}
	drawHeader()

	rowH := qrCell + 2
	for i, p := range products {
		if pdf.GetY()+rowH > 190 {
			pdf.AddPage()
			drawHeader()
		}

		dealerVal := ""
		if p.Dealer != nil {
			dealerVal = *p.Dealer
		}

		x, y := pdf.GetXY()
		pdf.CellFormat(widths[0], rowH, p.ProductCode, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], rowH, tr(p.Manufacturer), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], rowH, tr(p.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], rowH, p.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], rowH, fmt.Sprintf("%d", p.CurrentStock), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], rowH, fmt.Sprintf("%d", p.MinQuantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[6], rowH, tr(dealerVal), "1", 0, "L", false, 0, "")

		qrX := x
		for _, w := range widths[:7] {
			qrX += w
		}
		pdf.CellFormat(widths[7], rowH, "", "1", 0, "C", false, 0, "")

		qrPng, err := qrcode.Encode(p.ProductCode, qrcode.Low, 128)
		if err != nil {
			return "", fmt.Errorf("encode QR for %s: %w", p.ProductCode, err)
		}
		imgName := fmt.Sprintf("qr_%d", i)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(qrPng))
		pdf.ImageOptions(imgName, qrX+2, y+1, qrCell, qrCell, false, opts, 0, "")

		pdf.Ln(-1)
	}

	if err := os.MkdirAll(s.reportDir, 0o755); err != nil {
		return "", err
	}
	suffix := ""
	if dealer != "" {
		suffix = "_" + dealer
	}
	path := filepath.Join(s.reportDir,
		fmt.Sprintf("inventory_report%s_%s.pdf", suffix, time.Now().Format("20060102_150405")))

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
