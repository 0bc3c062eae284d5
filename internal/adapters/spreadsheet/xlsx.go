// Package spreadsheet encodes export rows as a single-sheet XLSX workbook.
package spreadsheet

import (
	"errors"
	"fmt"

	"github.com/okian/feedback/internal/domain/export"
	"github.com/xuri/excelize/v2"
)

// Workbook defaults.
const (
	ContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	DefaultFilename = "feedback.xlsx"
	DefaultSheet    = "Feedback"
)

// excelize names the first sheet of a new workbook Sheet1.
const initialSheet = "Sheet1"

// ErrEncode marks every workbook encoding failure.
var ErrEncode = errors.New("spreadsheet encode failed")

// CheckSheetName reports whether sheet is usable as a worksheet name. An
// empty name is accepted and means DefaultSheet.
func CheckSheetName(sheet string) error {
	if sheet == "" {
		return nil
	}
	if err := excelize.CheckSheetName(sheet); err != nil {
		return fmt.Errorf("%w: sheet %q: %w", ErrEncode, sheet, err)
	}
	return nil
}

// Encode writes a header row of column labels followed by one row per entry
// to a single sheet named sheet (DefaultSheet when empty). Rows must share
// the label set of export.Columns.
func Encode(rows []export.Row, sheet string) ([]byte, error) {
	if sheet == "" {
		sheet = DefaultSheet
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet != initialSheet {
		if err := f.SetSheetName(initialSheet, sheet); err != nil {
			return nil, fmt.Errorf("%w: rename sheet: %w", ErrEncode, err)
		}
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: stream writer: %w", ErrEncode, err)
	}

	if err := writeRow(sw, 1, export.Columns()); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(sw, i+2, row.Values()); err != nil {
			return nil, err
		}
	}
	if err := sw.Flush(); err != nil {
		return nil, fmt.Errorf("%w: flush: %w", ErrEncode, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: write: %w", ErrEncode, err)
	}
	return buf.Bytes(), nil
}

func writeRow(sw *excelize.StreamWriter, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("%w: row %d: %w", ErrEncode, n, err)
	}
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	if err := sw.SetRow(cell, out); err != nil {
		return fmt.Errorf("%w: row %d: %w", ErrEncode, n, err)
	}
	return nil
}
