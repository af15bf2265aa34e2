package xls97

import (
	"errors"
	"fmt"
)

// ErrNotXLS is returned when the input's CFB signature or sector shift
// does not match the format this library accepts (spec §4.2/§7).
var ErrNotXLS = errors.New("xls97: not a valid xls file")

// ErrWorkbookStreamMissing is returned when neither a "Workbook" nor a
// "Book" stream is present in the CFB directory (spec §4.2/§8 scenario 6).
var ErrWorkbookStreamMissing = errors.New("xls97: workbook stream missing")

// ErrEmptySheetName is returned by Write when the sheet name is empty.
var ErrEmptySheetName = errors.New("xls97: sheet name must not be empty")

// ParseError reports structural corruption in a CFB/BIFF input: a
// truncated sector, a chain cycle, or an out-of-range offset (spec §7).
type ParseError struct {
	Reason string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("xls97: parse error: %s", e.Reason)
}

// InvalidGridError is returned by Write when a data row's width does not
// match the header width (spec §6/§8 scenario 5).
type InvalidGridError struct {
	ExpectedWidth int
	RowIndex      int
	GotWidth      int
}

func (e InvalidGridError) Error() string {
	return fmt.Sprintf("xls97: row %d has width %d, expected %d", e.RowIndex, e.GotWidth, e.ExpectedWidth)
}
