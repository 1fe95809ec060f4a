package csvimport

import "testing"

func TestNormalizeTextWidthAndCase(t *testing.T) {
	if got, want := NormalizeText("Ａｂｃ　１"), NormalizeText("abc 1"); got != want {
		t.Errorf("full-width and half-width forms differ: %q vs %q", got, want)
	}
	if got := NormalizeText("ＡＢＣ　１２３"); got != "abc 123" {
		t.Errorf("unexpected normalization: %q", got)
	}
	if got := NormalizeText(""); got != "" {
		t.Errorf("empty input should stay empty, got %q", got)
	}
}

func TestIdentityKeyIgnoresDealerAndCase(t *testing.T) {
	a := IdentityKey("Shiseido", "Hair Oil　５０")
	b := IdentityKey("shiseido", "hair oil 50")
	if a != b {
		t.Errorf("identity keys differ: %q vs %q", a, b)
	}

	if IdentityKey("acme", "oil") == IdentityKey("acme", "soap") {
		t.Error("different products must not share an identity key")
	}
	if IdentityKey("a", "b|c") != "a|b|c" {
		// The separator is not escaped; this mirrors the matching behavior
		// of the upstream data model.
		t.Errorf("unexpected composite key: %q", IdentityKey("a", "b|c"))
	}
}
