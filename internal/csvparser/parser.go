// =============================================================================
// Workshop Receipts - CSV Import Parser
// =============================================================================
//
// This module reads CSV exports of the workshop, roster and payment-log
// spreadsheets so they can be imported like the xlsx files. It produces the
// same grid shape as the xlsx codec (first row = header), which is then
// checked by the schema reconciler.
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, tab, pipe)
//   - UTF-8, Windows-1252 and ISO-8859-1 input
//   - UTF-8 byte order mark is removed
//   - Rows of uneven width and loosely quoted fields are accepted
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Settings controls how a CSV file is read.
type Settings struct {
	// Delimiter separates fields. Accepts the character itself or one of
	// "tab", "pipe", "semicolon", "comma". Default: ","
	Delimiter string `yaml:"delimiter"`

	// Encoding is the character encoding of the file.
	// Common values: "UTF-8", "Windows-1252", "ISO-8859-1". Default: "UTF-8"
	Encoding string `yaml:"encoding"`
}

// utf8BOM is stripped from the start of UTF-8 files written by spreadsheets.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Decode reads CSV bytes into a grid of trimmed cells.
//
// PARAMETERS:
//   - data: The file contents.
//   - settings: Delimiter and encoding.
//
// RETURNS:
//   - The rows, header first. Trailing empty rows are dropped.
//   - An error if the encoding is unknown or the CSV is malformed.
func Decode(data []byte, settings Settings) ([][]string, error) {
	dec, err := decoderFor(settings.Encoding)
	if err != nil {
		return nil, err
	}

	var reader io.Reader = bytes.NewReader(bytes.TrimPrefix(data, utf8BOM))
	if dec != nil {
		reader = transform.NewReader(reader, dec.NewDecoder())
	}

	csvReader := csv.NewReader(reader)
	configureReader(csvReader, settings)

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	for i, row := range rows {
		for j := range row {
			rows[i][j] = strings.TrimSpace(row[j])
		}
	}
	for len(rows) > 0 && isRowEmpty(rows[len(rows)-1]) {
		rows = rows[:len(rows)-1]
	}

	return rows, nil
}

// configureReader applies the delimiter and relaxes the CSV rules.
func configureReader(reader *csv.Reader, settings Settings) {
	switch strings.ToLower(settings.Delimiter) {
	case "\\t", "\t", "tab":
		reader.Comma = '\t'
	case "|", "pipe":
		reader.Comma = '|'
	case ";", "semicolon":
		reader.Comma = ';'
	case "", ",", "comma":
		reader.Comma = ','
	default:
		reader.Comma = []rune(settings.Delimiter)[0]
	}

	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// decoderFor maps an encoding name to a charmap. nil means UTF-8.
func decoderFor(name string) (encoding.Encoding, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), "_", "-")) {
	case "", "UTF-8", "UTF8":
		return nil, nil
	case "WINDOWS-1252", "CP1252":
		return charmap.Windows1252, nil
	case "ISO-8859-1", "LATIN1", "LATIN-1":
		return charmap.ISO8859_1, nil
	}
	return nil, fmt.Errorf("unsupported encoding %q", name)
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
