package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEncodingUndetected is returned when no candidate encoding can decode an
// uploaded file into tabular data.
var ErrEncodingUndetected = errors.New("CSVファイルのエンコーディングが判別できませんでした")

// MissingColumnError reports a required semantic column that could not be
// resolved against the file's headers. The whole import is aborted; there is
// no partial mapping.
type MissingColumnError struct {
	Field     Field
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("必要な列 '%s' が見つかりません。利用可能な列: [%s]",
		e.Field, strings.Join(e.Available, ", "))
}

// RowParseError reports a data row that could not be coerced to the required
// numeric types. It aborts the entire import.
type RowParseError struct {
	Line  int
	Field Field
	Err   error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("%d行目の '%s' を数値に変換できません: %v", e.Line, e.Field, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }
