package store_test

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/zaiko-app/zaikogo/internal/models"
	"github.com/zaiko-app/zaikogo/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
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
	return store.New(db)
}

func makeProduct(t *testing.T, s *store.Store, code, name, manufacturer string, dealer *string) *models.Product {
	t.Helper()
	p := &models.Product{
		ProductCode:  code,
		ProductName:  name,
		Manufacturer: manufacturer,
		UnitPrice:    decimal.NewFromInt(500),
		Dealer:       dealer,
	}
	if err := s.CreateProduct(p); err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return p
}

func TestDeleteProductCascadesHistory(t *testing.T) {
	s := newTestStore(t)
	p := makeProduct(t, s, "ABC_00001", "shampoo", "acme", nil)

	for i := 0; i < 2; i++ {
		if err := s.AppendOrder(&models.OrderHistory{ProductID: p.ID, Quantity: 5}); err != nil {
			t.Fatalf("failed to append order: %v", err)
		}
	}

	if err := s.DeleteProduct(p.ID); err != nil {
		t.Fatalf("failed to delete product: %v", err)
	}

	orders, err := s.ListOrderHistory(p.ID)
	if err != nil {
		t.Fatalf("failed to list order history: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("expected no history after cascade delete, got %d rows", len(orders))
	}
}

func TestCodeExists(t *testing.T) {
	s := newTestStore(t)
	makeProduct(t, s, "ABC_00001", "shampoo", "acme", nil)

	taken, err := s.CodeExists("ABC_00001")
	if err != nil {
		t.Fatalf("CodeExists failed: %v", err)
	}
	if !taken {
		t.Error("expected existing code to be reported as taken")
	}

	free, err := s.CodeExists("ABC_00002")
	if err != nil {
		t.Fatalf("CodeExists failed: %v", err)
	}
	if free {
		t.Error("expected unused code to be reported as free")
	}
}

func TestFindByIdentityDealerMatching(t *testing.T) {
	s := newTestStore(t)
	dealer := "トヨタ"
	makeProduct(t, s, "A_00001", "oil", "acme", &dealer)
	makeProduct(t, s, "A_00002", "oil", "acme", nil)

	p, err := s.FindByIdentity("oil", "acme", &dealer)
	if err != nil {
		t.Fatalf("FindByIdentity failed: %v", err)
	}
	if p == nil || p.ProductCode != "A_00001" {
		t.Errorf("expected dealer-scoped match A_00001, got %+v", p)
	}

	p, err = s.FindByIdentity("oil", "acme", nil)
	if err != nil {
		t.Fatalf("FindByIdentity failed: %v", err)
	}
	if p == nil || p.ProductCode != "A_00002" {
		t.Errorf("expected nil-dealer match A_00002, got %+v", p)
	}
}

func TestListProductsExcludesPlaceholders(t *testing.T) {
	s := newTestStore(t)
	makeProduct(t, s, "A_00001", "oil", "acme", nil)

	category := "hair care"
	sys := "システム管理"
	placeholder := &models.Product{
		ProductCode:   "CATEGORY_00001",
		ProductName:   "カテゴリ管理用_hair care",
		Manufacturer:  "システム",
		UnitPrice:     decimal.Zero,
		Category:      &category,
		Dealer:        &sys,
		IsPlaceholder: true,
	}
	if err := s.CreateProduct(placeholder); err != nil {
		t.Fatalf("failed to create placeholder: %v", err)
	}

	products, err := s.ListProducts(store.ProductFilter{})
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected placeholder to be excluded, got %d products", len(products))
	}
	if products[0].ProductCode != "A_00001" {
		t.Errorf("unexpected product in listing: %s", products[0].ProductCode)
	}

	// But its category value is still registered.
	found, err := s.FindPlaceholder("category", "hair care")
	if err != nil {
		t.Fatalf("FindPlaceholder failed: %v", err)
	}
	if found == nil {
		t.Error("expected placeholder row to be findable by category value")
	}
}

func TestCleanDuplicateGroupsKeepsLowestID(t *testing.T) {
	s := newTestStore(t)
	first := makeProduct(t, s, "A_00001", "oil", "acme", nil)
	makeProduct(t, s, "A_00002", "oil", "acme", nil)
	makeProduct(t, s, "A_00003", "soap", "acme", nil)

	groups, err := s.ListDuplicateGroups()
	if err != nil {
		t.Fatalf("ListDuplicateGroups failed: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("expected 1 duplicate group, got %d", len(groups))
	}
	if groups[0].Count != 2 {
		t.Errorf("expected group of 2, got %d", groups[0].Count)
	}

	deleted, err := s.CleanDuplicateGroups()
	if err != nil {
		t.Fatalf("CleanDuplicateGroups failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deletion, got %d", deleted)
	}

	remaining, err := s.ListAll("")
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(remaining) != 2 {
		t.Fatalf("expected 2 products after cleanup, got %d", len(remaining))
	}
	for _, p := range remaining {
		if p.ProductName == "oil" && p.ID != first.ID {
			t.Errorf("cleanup kept the wrong duplicate: id %d", p.ID)
		}
	}
}

func TestRenameAndClearFieldValue(t *testing.T) {
	s := newTestStore(t)
	dealer := "ホンダ"
	makeProduct(t, s, "A_00001", "oil", "acme", &dealer)
	makeProduct(t, s, "A_00002", "soap", "acme", &dealer)

	n, err := s.RenameFieldValue("dealer", "ホンダ", "マツダ")
	if err != nil {
		t.Fatalf("RenameFieldValue failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows renamed, got %d", n)
	}

	values, err := s.DistinctValues("dealer")
	if err != nil {
		t.Fatalf("DistinctValues failed: %v", err)
	}
	if len(values) != 1 || values[0] != "マツダ" {
		t.Errorf("unexpected dealer values after rename: %v", values)
	}

	if _, err := s.ClearFieldValue("dealer", "マツダ"); err != nil {
		t.Fatalf("ClearFieldValue failed: %v", err)
	}
	values, err = s.DistinctValues("dealer")
	if err != nil {
		t.Fatalf("DistinctValues failed: %v", err)
	}
	if len(values) != 0 {
		t.Errorf("expected no dealer values after clear, got %v", values)
	}

	if _, err := s.RenameFieldValue("unit_price", "1", "2"); err != store.ErrUnknownField {
		t.Errorf("expected ErrUnknownField for non-editable field, got %v", err)
	}
}
