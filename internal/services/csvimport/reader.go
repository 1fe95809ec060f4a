package csvimport

import (
	"bytes"
	"encoding/csv"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
)

type encodingCandidate struct {
	name string
	enc  encoding.Encoding
}

// decodeTable decodes raw CSV bytes into records, trying candidate encodings
// in priority order: the statistically detected charset first, then CP932,
// Shift_JIS, UTF-8 and EUC-JP. The first candidate that decodes cleanly and
// parses as tabular data wins. A decode producing U+FFFD is treated as
// mojibake and rejected, which also rejects files legitimately containing
// that rune; acceptable here, such files do not occur in dealer exports.
// ErrEncodingUndetected is returned when every candidate fails.
func decodeTable(raw []byte) ([][]string, string, error) {
	candidates := []encodingCandidate{
		{"cp932", japanese.ShiftJIS},
		{"shift_jis", japanese.ShiftJIS},
		{"utf-8", unicode.UTF8BOM},
		{"euc-jp", japanese.EUCJP},
	}

	if best, err := chardet.NewTextDetector().DetectBest(raw); err == nil && best != nil {
		label := strings.ToLower(best.Charset)
		// htmlindex maps "utf-8" to a decoder that keeps a leading BOM,
		// which would corrupt the first header. Excel's "CSV UTF-8" and
		// our own exports are BOM-prefixed, so strip it.
		if strings.HasPrefix(label, "utf-8") {
			candidates = append([]encodingCandidate{{"utf-8", unicode.UTF8BOM}}, candidates...)
		} else if enc, err := htmlindex.Get(label); err == nil {
			candidates = append([]encodingCandidate{{label, enc}}, candidates...)
		}
	}

	for _, c := range candidates {
		decoded, err := c.enc.NewDecoder().Bytes(raw)
		if err != nil || bytes.ContainsRune(decoded, utf8.RuneError) {
			continue
		}

		r := csv.NewReader(bytes.NewReader(decoded))
		r.TrimLeadingSpace = true
		records, err := r.ReadAll()
		if err != nil || len(records) == 0 {
			continue
		}
		return records, c.name, nil
	}

	return nil, "", ErrEncodingUndetected
}
