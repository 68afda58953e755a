// =============================================================================
// Workshop Receipts - Tabular Schema Reconciler
// =============================================================================
//
// This module checks a decoded grid (first row = header) against the column
// schema of one of the data files and turns every data row into a Record
// keyed by the schema's column names.
//
// HEADER MATCHING:
//   - Header cells are compared case-insensitively, ignoring column order.
//   - Every schema column must be present, unless a known legacy variant
//     applies and tolerates the missing columns (see legacy.go).
//   - Columns outside the schema are kept on the record so decoders can read
//     historical aliases.
//
// RECORDS:
//   - Keys are the schema column names in their original casing.
//   - A column tolerated as missing is null (absent) in every record.
//   - Values are trimmed strings.
//   - Rows whose cells are all empty are skipped.
//
// =============================================================================

package schema

import (
	"fmt"
	"strings"
)

// =============================================================================
// SCHEMAS
// =============================================================================

// Schema is the ordered column list of one data file.
type Schema struct {
	// Name identifies the schema. Legacy variants match on it.
	Name string

	// Columns are the expected column names, in file order.
	Columns []string
}

// The three data-file schemas.
var (
	Workshops = Schema{
		Name:    "workshops",
		Columns: []string{"id_taller", "nombre_taller", "detalles_taller", "aranceles_taller"},
	}

	Roster = Schema{
		Name:    "roster",
		Columns: []string{"id_taller", "nombre_alumno", "tags_alumno"},
	}

	PaymentLog = Schema{
		Name: "payment_log",
		Columns: []string{
			"fecha_pago",
			"nombres_alumnos",
			"nombre_taller",
			"monto_abonado",
			"detalle_meses_pagados",
			"numero_recibo",
			"notas_generales",
		},
	}
)

// =============================================================================
// HEADER
// =============================================================================

// Header is a parsed header row with case-insensitive lookup.
type Header struct {
	// names holds the trimmed header cells in column order.
	names []string

	// index maps a lowercased header name to its first column index.
	index map[string]int
}

// NewHeader parses a header row. Blank header cells get a positional
// placeholder so they never match a schema column.
func NewHeader(row []string) Header {
	h := Header{
		names: make([]string, len(row)),
		index: make(map[string]int, len(row)),
	}
	for i, cell := range row {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		h.names[i] = name

		key := strings.ToLower(name)
		if _, seen := h.index[key]; !seen {
			h.index[key] = i
		}
	}
	return h
}

// Has reports whether the header contains a column, ignoring case.
func (h Header) Has(name string) bool {
	_, ok := h.index[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names returns the header cells in column order.
func (h Header) Names() []string {
	return append([]string(nil), h.names...)
}

// column returns the column index of a name, ignoring case.
func (h Header) column(name string) (int, bool) {
	i, ok := h.index[strings.ToLower(strings.TrimSpace(name))]
	return i, ok
}

// =============================================================================
// ERRORS
// =============================================================================

// MissingColumnsError is returned when required columns are absent and no
// legacy variant tolerates it.
type MissingColumnsError struct {
	Schema  string
	Missing []string
	Found   []string
}

// Error implements the error interface.
func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s (found: %s)",
		strings.Join(e.Missing, ", "),
		strings.Join(e.Found, ", "))
}

// =============================================================================
// RECORDS
// =============================================================================

// Record is one data row mapped onto a schema.
type Record struct {
	// fields holds schema columns; nil means the column is absent.
	fields map[string]*string

	// cells holds every header column by lowercased name.
	cells map[string]string

	// Row is the 1-based row number in the source grid.
	Row int
}

// Value returns a schema column's value. ok is false when the column is
// absent from the file (null).
func (r Record) Value(column string) (value string, ok bool) {
	v, exists := r.fields[column]
	if !exists || v == nil {
		return "", false
	}
	return *v, true
}

// String returns a schema column's value, or "" when absent.
func (r Record) String(column string) string {
	v, _ := r.Value(column)
	return v
}

// First returns the first non-empty value among the given column names.
// Names are matched case-insensitively against every header column, so
// historical column names outside the schema can be used as aliases.
func (r Record) First(names ...string) string {
	for _, name := range names {
		if v := r.cells[strings.ToLower(name)]; v != "" {
			return v
		}
	}
	return ""
}

// Fields returns the schema-keyed view of the record.
func (r Record) Fields() map[string]*string {
	out := make(map[string]*string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// =============================================================================
// TABLE
// =============================================================================

// Table is the result of reconciling a grid.
type Table struct {
	Schema  Schema
	Header  []string
	Records []Record

	// Variant is the legacy variant that was applied, or nil.
	Variant *LegacyVariant

	// Missing lists schema columns absent from the header (only non-empty
	// when a legacy variant applied).
	Missing []string
}

// Warning describes the legacy downgrade, or "" when none applied.
func (t *Table) Warning() string {
	if t.Variant == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s (missing: %s)",
		t.Variant.Name, t.Variant.Description, strings.Join(t.Missing, ", "))
}

// =============================================================================
// RECONCILE
// =============================================================================

// Reconcile maps a grid onto a schema.
//
// PARAMETERS:
//   - grid: The decoded rows; the first row is the header.
//   - s: The expected schema.
//
// RETURNS:
//   - The table of records. An empty grid gives an empty table.
//   - *MissingColumnsError when columns are missing and no legacy variant
//     tolerates them.
func Reconcile(grid [][]string, s Schema) (*Table, error) {
	table := &Table{Schema: s, Records: []Record{}}
	if len(grid) == 0 {
		return table, nil
	}

	header := NewHeader(grid[0])
	table.Header = header.Names()

	var missing []string
	for _, col := range s.Columns {
		if !header.Has(col) {
			missing = append(missing, col)
		}
	}

	if len(missing) > 0 {
		variant := MatchLegacyVariant(s, header)
		if variant == nil || !variant.ToleratesAll(missing) {
			return nil, &MissingColumnsError{
				Schema:  s.Name,
				Missing: missing,
				Found:   header.Names(),
			}
		}
		table.Variant = variant
		table.Missing = missing
	}

	for i := 1; i < len(grid); i++ {
		row := grid[i]
		if isRowEmpty(row) {
			continue
		}
		table.Records = append(table.Records, buildRecord(row, header, s, i+1))
	}

	return table, nil
}

// buildRecord maps one row onto the schema and keeps every header cell.
func buildRecord(row []string, header Header, s Schema, rowNumber int) Record {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	rec := Record{
		fields: make(map[string]*string, len(s.Columns)),
		cells:  make(map[string]string, len(header.names)),
		Row:    rowNumber,
	}

	for i, name := range header.names {
		key := strings.ToLower(name)
		if _, seen := rec.cells[key]; !seen {
			rec.cells[key] = cell(i)
		}
	}

	for _, col := range s.Columns {
		idx, ok := header.column(col)
		if !ok {
			rec.fields[col] = nil
			continue
		}
		v := cell(idx)
		rec.fields[col] = &v
	}

	return rec
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
