package csvimport_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zaiko-app/zaikogo/internal/models"
	"github.com/zaiko-app/zaikogo/internal/services/csvimport"
	"github.com/zaiko-app/zaikogo/internal/store"
)

func newTestService(t *testing.T) (*csvimport.Service, *store.Store) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.OrderHistory{}, &models.ImportLog{}); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	st := store.New(db)
	return csvimport.NewService(st, t.TempDir()), st
}

const sampleCSV = "メーカー名,商品名,単価,数量\n" +
	"shiseido,hair oil,1200,5\n" +
	"kao,body soap,300,8\n"

func TestImportTwiceAccumulatesStock(t *testing.T) {
	svc, st := newTestService(t)

	res, err := svc.Import([]byte(sampleCSV), "test.csv", "")
	if err != nil {
		t.Fatalf("first import failed: %v", err)
	}
	if res.Processed != 2 || res.Added != 2 || res.Updated != 0 {
		t.Fatalf("first import: processed=%d added=%d updated=%d", res.Processed, res.Added, res.Updated)
	}

	res, err = svc.Import([]byte(sampleCSV), "test.csv", "")
	if err != nil {
		t.Fatalf("second import failed: %v", err)
	}
	if res.Processed != 2 || res.Added != 0 || res.Updated != 2 {
		t.Fatalf("second import: processed=%d added=%d updated=%d", res.Processed, res.Added, res.Updated)
	}

	products, err := st.ListAll("")
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products after re-import, got %d", len(products))
	}
	for _, p := range products {
		var want int
		switch p.ProductName {
		case "hair oil":
			want = 10
		case "body soap":
			want = 16
		default:
			t.Fatalf("unexpected product %q", p.ProductName)
		}
		if p.CurrentStock != want {
			t.Errorf("%s: stock = %d, want %d (accumulation, not replacement)", p.ProductName, p.CurrentStock, want)
		}
		if p.MinQuantity != 5 {
			t.Errorf("%s: min quantity = %d, want default 5", p.ProductName, p.MinQuantity)
		}
	}
}

func TestImportAcceptsBOMPrefixedUTF8(t *testing.T) {
	svc, st := newTestService(t)

	// Excel's "CSV UTF-8" and our own exporter both write a leading BOM;
	// it must not leak into the first header.
	bom := append([]byte{0xEF, 0xBB, 0xBF}, []byte(sampleCSV)...)
	res, err := svc.Import(bom, "excel.csv", "")
	if err != nil {
		t.Fatalf("BOM-prefixed import failed: %v", err)
	}
	if res.Added != 2 {
		t.Fatalf("added = %d, want 2", res.Added)
	}

	// Re-importing must match the same products, proving the headers
	// resolved identically with and without the BOM.
	res, err = svc.Import([]byte(sampleCSV), "plain.csv", "")
	if err != nil {
		t.Fatalf("plain import failed: %v", err)
	}
	if res.Added != 0 || res.Updated != 2 {
		t.Fatalf("plain re-import: added=%d updated=%d, want 0/2", res.Added, res.Updated)
	}

	products, err := st.ListAll("")
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	for _, p := range products {
		if strings.ContainsRune(p.ProductName, '\ufeff') || strings.ContainsRune(p.Manufacturer, '\ufeff') {
			t.Errorf("BOM leaked into product data: %q / %q", p.Manufacturer, p.ProductName)
		}
	}
}

func TestImportMatchesNormalizedIdentity(t *testing.T) {
	svc, st := newTestService(t)

	if _, err := svc.Import([]byte(sampleCSV), "test.csv", ""); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	// Same identity in full-width/upper-case form must update, not add.
	variant := "メーカー名,商品名,単価,数量\n" +
		"SHISEIDO,HAIR　OIL,1500,3\n"
	res, err := svc.Import([]byte(variant), "test.csv", "トヨタ")
	if err != nil {
		t.Fatalf("variant import failed: %v", err)
	}
	if res.Added != 0 || res.Updated != 1 {
		t.Fatalf("variant import: added=%d updated=%d, want 0/1", res.Added, res.Updated)
	}

	products, err := st.ListAll("")
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	for _, p := range products {
		if p.ProductName == "hair oil" {
			if p.CurrentStock != 8 {
				t.Errorf("stock = %d, want 8", p.CurrentStock)
			}
			if p.UnitPrice.IntPart() != 1500 {
				t.Errorf("price = %s, want last-write 1500", p.UnitPrice)
			}
			if p.Dealer != nil {
				t.Error("matched row must not change the product's dealer")
			}
		}
	}
}

func TestImportMissingColumnCommitsNothing(t *testing.T) {
	svc, st := newTestService(t)

	noPrice := "メーカー名,商品名,数量\nshiseido,hair oil,5\n"
	_, err := svc.Import([]byte(noPrice), "test.csv", "")
	if err == nil {
		t.Fatal("expected MissingColumnError, got nil")
	}
	var missing *csvimport.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %T: %v", err, err)
	}

	products, err := st.ListAll("")
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("store changed despite aborted import: %d products", len(products))
	}
}

func TestImportRowParseErrorRollsBackWholeBatch(t *testing.T) {
	svc, st := newTestService(t)

	bad := "メーカー名,商品名,単価,数量\n" +
		"shiseido,hair oil,1200,5\n" +
		"kao,body soap,notanumber,8\n"
	_, err := svc.Import([]byte(bad), "test.csv", "")
	if err == nil {
		t.Fatal("expected RowParseError, got nil")
	}
	var rowErr *csvimport.RowParseError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowParseError, got %T: %v", err, err)
	}
	if rowErr.Line != 3 {
		t.Errorf("expected failure on line 3, got %d", rowErr.Line)
	}

	products, err := st.ListAll("")
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(products) != 0 {
		t.Errorf("partial commit detected: %d products survived a failed batch", len(products))
	}
}

func TestImportBlankQuantityIsZero(t *testing.T) {
	svc, st := newTestService(t)

	blank := "メーカー名,商品名,単価,数量\nshiseido,hair oil,1200,\n"
	res, err := svc.Import([]byte(blank), "test.csv", "")
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if res.Added != 1 {
		t.Fatalf("added = %d, want 1", res.Added)
	}

	products, _ := st.ListAll("")
	if products[0].CurrentStock != 0 {
		t.Errorf("blank quantity should yield stock 0, got %d", products[0].CurrentStock)
	}
}

func TestImportShiftJISEncodedFile(t *testing.T) {
	svc, st := newTestService(t)

	utf8CSV := "メーカー名,商品名,単価,数量\n資生堂,ヘアオイル５０,1200,5\n"
	sjis, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(utf8CSV))
	if err != nil {
		t.Fatalf("failed to build Shift_JIS fixture: %v", err)
	}

	res, err := svc.Import(sjis, "sjis.csv", "ホンダ")
	if err != nil {
		t.Fatalf("Shift_JIS import failed: %v", err)
	}
	if res.Added != 1 {
		t.Fatalf("added = %d, want 1", res.Added)
	}

	products, _ := st.ListAll("")
	if products[0].ProductName != "ヘアオイル５０" {
		t.Errorf("decoded product name = %q", products[0].ProductName)
	}
	if products[0].Dealer == nil || *products[0].Dealer != "ホンダ" {
		t.Error("new product should carry the import dealer")
	}
	if !strings.HasPrefix(products[0].ProductCode, "資生堂_") {
		t.Errorf("generated code = %q, want manufacturer prefix", products[0].ProductCode)
	}
}

func TestImportProductNames(t *testing.T) {
	svc, st := newTestService(t)

	names := "hair oil\nbody soap\n\nhair oil\n"
	msg, err := svc.ImportProductNames([]byte(names), csvimport.NameImportDefaults{Dealer: "トヨタ"})
	if err != nil {
		t.Fatalf("name import failed: %v", err)
	}
	if !strings.Contains(msg, "2件") {
		t.Errorf("unexpected message: %q", msg)
	}

	products, _ := st.ListAll("")
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	for _, p := range products {
		if p.Manufacturer != "未設定" {
			t.Errorf("blank default manufacturer should fall back to 未設定, got %q", p.Manufacturer)
		}
	}

	// Re-importing the same list has nothing left to add.
	if _, err := svc.ImportProductNames([]byte(names), csvimport.NameImportDefaults{}); err == nil {
		t.Error("expected an error when every name already exists")
	}
}

func TestExportCSVWritesBOM(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Import([]byte(sampleCSV), "test.csv", ""); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	path, err := svc.ExportCSV("")
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if len(data) < 3 || data[0] != 0xEF || data[1] != 0xBB || data[2] != 0xBF {
		t.Error("export is missing the UTF-8 BOM")
	}
	if !strings.Contains(string(data), "hair oil") {
		t.Error("export does not contain the catalog rows")
	}
}
