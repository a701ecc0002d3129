package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetRow is one data row of the spreadsheet export, exposed positionally.
// Header text in these exports is not stable across vendors, so cells are
// addressed by 0-based column index only.
type SheetRow struct {
	// Num is the 1-based row number in the sheet (header row = 1, first data
	// row = 2).
	Num   int
	Cells []string
}

// Cell returns the trimmed value at the given column index, or "" when the
// row is shorter than idx+1 cells. excelize trims trailing empty cells from
// rows, so short rows are normal.
func (r SheetRow) Cell(idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[idx])
}

// ParseSheetExport reads the first sheet of an xlsx workbook, skips the
// header row, and returns the remaining rows positionally. Returns
// ErrEmptyFile when the workbook cannot be opened or has no sheets and
// ErrNoDataRows when the first sheet holds at most a header row.
func ParseSheetExport(data []byte) ([]SheetRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}
	if len(rows) <= 1 {
		return nil, ErrNoDataRows
	}

	out := make([]SheetRow, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		out = append(out, SheetRow{Num: i + 1, Cells: rows[i]})
	}
	return out, nil
}
