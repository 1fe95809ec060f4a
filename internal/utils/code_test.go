package utils

import (
	"strings"
	"testing"
)

func TestProductCodePrefix(t *testing.T) {
	cases := map[string]string{
		"shiseido": "SHI",
		"ab":       "AB",
		"資生堂パーラー":  "資生堂",
	}
	for in, want := range cases {
		if got := ProductCodePrefix(in); got != want {
			t.Errorf("ProductCodePrefix(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGenerateCodeBumpsOnCollision(t *testing.T) {
	// Report the first three candidates as taken; the generator must keep
	// incrementing the suffix until a free code appears.
	var probed []string
	code, err := GenerateCode("ABC", func(c string) (bool, error) {
		probed = append(probed, c)
		return len(probed) <= 3, nil
	})
	if err != nil {
		t.Fatalf("GenerateCode failed: %v", err)
	}
	if len(probed) != 4 {
		t.Fatalf("expected 4 probes, got %d", len(probed))
	}
	if code != probed[3] {
		t.Errorf("returned code %s is not the first free candidate %s", code, probed[3])
	}
	if !strings.HasPrefix(code, "ABC_") {
		t.Errorf("unexpected code format: %s", code)
	}
	for _, c := range probed[:3] {
		if c == code {
			t.Errorf("returned a code reported as taken: %s", c)
		}
	}
}
