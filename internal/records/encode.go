package records

import (
	"strings"

	"github.com/ginjaninja78/workshop-receipts/internal/schema"
	"github.com/ginjaninja78/workshop-receipts/internal/types"
	"github.com/ginjaninja78/workshop-receipts/internal/xlsxparser"
)

// Default sheet names written into new workbooks.
const (
	SheetWorkshops  = "Talleres"
	SheetRoster     = "Inscriptos"
	SheetPaymentLog = "RegistroPagos"
)

// EncodeWorkshops projects workshops onto the workshops schema, in order.
func EncodeWorkshops(ws types.Workshops) (header []string, rows [][]string) {
	rows = make([][]string, 0, len(ws))
	for _, w := range ws {
		rows = append(rows, []string{w.ID, w.Name, w.Details, w.Fees})
	}
	return columns(schema.Workshops), rows
}

// EncodeRoster flattens the roster, one row per student, tags comma-joined.
func EncodeRoster(r *types.Roster) (header []string, rows [][]string) {
	if r != nil {
		for _, id := range r.WorkshopIDs() {
			for _, s := range r.Students(id) {
				rows = append(rows, []string{id, s.Name, strings.Join(s.Tags, ",")})
			}
		}
	}
	return columns(schema.Roster), rows
}

// EncodePaymentLog projects log entries onto the payment-log schema.
func EncodePaymentLog(entries []types.PaymentLogEntry) (header []string, rows [][]string) {
	rows = make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			e.Date,
			e.StudentNames,
			e.WorkshopName,
			e.Amount,
			e.MonthDetail,
			e.ReceiptNumber,
			e.Notes,
		})
	}
	return columns(schema.PaymentLog), rows
}

func columns(s schema.Schema) []string {
	return append([]string(nil), s.Columns...)
}

// =============================================================================
// WORKBOOK HELPERS
// =============================================================================

// WorkshopsWorkbook encodes workshops into xlsx bytes.
func WorkshopsWorkbook(ws types.Workshops, sheet string) ([]byte, error) {
	header, rows := EncodeWorkshops(ws)
	return xlsxparser.Acquire().Encode(orDefault(sheet, SheetWorkshops), header, rows)
}

// RosterWorkbook encodes the roster into xlsx bytes.
func RosterWorkbook(r *types.Roster, sheet string) ([]byte, error) {
	header, rows := EncodeRoster(r)
	return xlsxparser.Acquire().Encode(orDefault(sheet, SheetRoster), header, rows)
}

// PaymentLogWorkbook encodes the payment log into xlsx bytes.
func PaymentLogWorkbook(entries []types.PaymentLogEntry, sheet string) ([]byte, error) {
	header, rows := EncodePaymentLog(entries)
	return xlsxparser.Acquire().Encode(orDefault(sheet, SheetPaymentLog), header, rows)
}

// EmptyWorkbook encodes a header-only workbook for a schema.
func EmptyWorkbook(s schema.Schema, sheet string) ([]byte, error) {
	return xlsxparser.Acquire().Encode(sheet, columns(s), nil)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
