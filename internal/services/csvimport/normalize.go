package csvimport

import "strings"

var widthReplacer = strings.NewReplacer(
	"　", " ", // full-width space
	"０", "0", "１", "1", "２", "2", "３", "3", "４", "4",
	"５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
)

// NormalizeText canonicalizes a manufacturer or product name fragment:
// full-width spaces, digits and ASCII letters are mapped to their half-width
// forms, then the result is lower-cased. Two texts denote the same identity
// iff their normalized forms are equal.
func NormalizeText(s string) string {
	if s == "" {
		return ""
	}
	folded := strings.Map(func(r rune) rune {
		if (r >= 'Ａ' && r <= 'Ｚ') || (r >= 'ａ' && r <= 'ｚ') {
			return r - 0xFEE0
		}
		return r
	}, widthReplacer.Replace(s))
	return strings.ToLower(folded)
}

// IdentityKey builds the composite lookup key used to match imported rows
// against existing catalog entries. The dealer is deliberately excluded so
// the same manufacturer+name pair merges across import batches.
func IdentityKey(manufacturer, name string) string {
	return NormalizeText(manufacturer) + "|" + NormalizeText(name)
}
