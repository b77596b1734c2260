package sheet

import (
	"fmt"
	"strings"
)

// MissingColumnsError reports required labels absent from the header row.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing columns: %s", strings.Join(e.Columns, ", "))
}

// CellError reports a numeric cell that could not be decoded. Row is the
// 1-based row number as shown by spreadsheet software.
type CellError struct {
	Row    int
	Column string
	Value  string
}

func (e *CellError) Error() string {
	return fmt.Sprintf("row %d, column %q: not a number: %q", e.Row, e.Column, e.Value)
}
