package csvimport

import (
	"errors"
	"testing"
)

func TestResolveColumnsDefaultMapping(t *testing.T) {
	headers := []string{"メーカー名", "商品名", "単価", "数量"}
	cols, err := ResolveColumns("", headers)
	if err != nil {
		t.Fatalf("ResolveColumns failed: %v", err)
	}
	want := map[Field]string{
		FieldManufacturer: "メーカー名",
		FieldProductName:  "商品名",
		FieldUnitPrice:    "単価",
		FieldQuantity:     "数量",
	}
	for f, header := range want {
		if cols[f] != header {
			t.Errorf("field %s resolved to %q, want %q", f, cols[f], header)
		}
	}
}

func TestResolveColumnsIsOrderIndependent(t *testing.T) {
	a := []string{"数量", "単価", "商品名", "メーカー名"}
	b := []string{"メーカー名", "商品名", "単価", "数量"}

	colsA, err := ResolveColumns("ホンダ", a)
	if err != nil {
		t.Fatalf("ResolveColumns failed: %v", err)
	}
	colsB, err := ResolveColumns("ホンダ", b)
	if err != nil {
		t.Fatalf("ResolveColumns failed: %v", err)
	}
	for _, f := range []Field{FieldManufacturer, FieldProductName, FieldUnitPrice, FieldQuantity} {
		if colsA[f] != colsB[f] {
			t.Errorf("field %s resolution depends on header order: %q vs %q", f, colsA[f], colsB[f])
		}
	}
}

func TestResolveColumnsSynonymPriority(t *testing.T) {
	// GAMO prioritizes サロン価（税抜） over 単価 even when both exist.
	headers := []string{"単価", "サロン価（税抜）", "メーカー名", "商品名", "数量"}
	cols, err := ResolveColumns("GAMO", headers)
	if err != nil {
		t.Fatalf("ResolveColumns failed: %v", err)
	}
	if cols[FieldUnitPrice] != "サロン価（税抜）" {
		t.Errorf("expected dealer-priority synonym, got %q", cols[FieldUnitPrice])
	}

	// The default table prefers 単価 over 価格.
	cols, err = ResolveColumns("unknown-dealer", []string{"価格", "単価", "メーカー名", "商品名", "数量"})
	if err != nil {
		t.Fatalf("ResolveColumns failed: %v", err)
	}
	if cols[FieldUnitPrice] != "単価" {
		t.Errorf("expected default-priority synonym, got %q", cols[FieldUnitPrice])
	}
}

func TestResolveColumnsMissingField(t *testing.T) {
	headers := []string{"メーカー名", "商品名", "数量"} // no price-like header
	_, err := ResolveColumns("", headers)
	if err == nil {
		t.Fatal("expected MissingColumnError, got nil")
	}

	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %T: %v", err, err)
	}
	if missing.Field != FieldUnitPrice {
		t.Errorf("expected missing field %s, got %s", FieldUnitPrice, missing.Field)
	}
	if len(missing.Available) != 3 {
		t.Errorf("expected available headers to be reported, got %v", missing.Available)
	}
}
