// =============================================================================
// Workshop Receipts - XLSX Codec
// =============================================================================
//
// This module is the tabular codec used for the three data files kept in the
// work folder (workshops, roster, payment log). It knows nothing about their
// columns: it turns workbook bytes into a grid of trimmed cell strings and a
// header plus rows back into workbook bytes. Column reconciliation lives in
// the schema package.
//
// SHARED HANDLE:
//   The codec is a single process-wide handle obtained through Acquire().
//   Callers never build their own; the handle is created lazily on first
//   use and reused afterwards.
//
// =============================================================================

package xlsxparser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned when a workbook has no worksheet to read.
var ErrNoSheets = errors.New("workbook has no sheets")

// =============================================================================
// CODEC HANDLE
// =============================================================================

// Codec converts between workbook bytes and grids of cell strings.
type Codec struct {
	// options are passed to excelize when opening workbooks.
	options excelize.Options

	// defaultSheet is used by Encode when the caller passes no sheet name.
	defaultSheet string
}

var (
	sharedCodec *Codec
	sharedOnce  sync.Once
)

// Acquire returns the shared codec, creating it on first use.
func Acquire() *Codec {
	sharedOnce.Do(func() {
		sharedCodec = &Codec{
			options:      excelize.Options{RawCellValue: false},
			defaultSheet: "Hoja1",
		}
	})
	return sharedCodec
}

// =============================================================================
// DECODING
// =============================================================================

// Decode reads the first worksheet of a workbook.
//
// PARAMETERS:
//   - data: The workbook bytes.
//
// RETURNS:
//   - The rows of the first sheet, every cell trimmed. Trailing empty rows
//     are dropped; rows keep whatever width excelize reports.
//   - An error if the bytes are not a readable workbook.
func (c *Codec) Decode(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), c.options)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %q: %w", sheetName, err)
	}

	for i, row := range rows {
		for j := range row {
			rows[i][j] = strings.TrimSpace(row[j])
		}
	}

	// Drop trailing blank rows so a header-only file decodes as one row.
	for len(rows) > 0 && isRowEmpty(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}

	return rows, nil
}

// =============================================================================
// ENCODING
// =============================================================================

// Encode writes a single-sheet workbook with a header row followed by rows.
//
// PARAMETERS:
//   - sheet: The worksheet name. Empty uses the codec default.
//   - header: The column names, written as row 1.
//   - rows: The data rows. Each row is written as-is, in order.
//
// RETURNS:
//   - The workbook bytes.
//   - An error if excelize cannot build the workbook.
func (c *Codec) Encode(sheet string, header []string, rows [][]string) ([]byte, error) {
	if sheet == "" {
		sheet = c.defaultSheet
	}

	f := excelize.NewFile()
	defer f.Close()

	// A new workbook starts with "Sheet1"; rename it instead of adding a
	// second sheet so the data sheet is always the first one.
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet %q: %w", sheet, err)
	}

	if err := writeRow(f, sheet, 1, header); err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeRow writes one row starting at column A.
func writeRow(f *excelize.File, sheet string, rowNumber int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNumber)
	if err != nil {
		return fmt.Errorf("invalid row %d: %w", rowNumber, err)
	}
	row := append([]string(nil), values...)
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNumber, err)
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
