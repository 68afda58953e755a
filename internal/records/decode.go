// =============================================================================
// Workshop Receipts - Record Decoders
// =============================================================================
//
// This module turns reconciled grids into domain collections. Each decoder
// runs the grid through the schema reconciler first; a schema failure is
// returned as-is and the caller is expected to reset that collection.
//
// DROPPED ROWS:
//   Rows that cannot form a valid entity are skipped and counted in the
//   Report, never turned into an error.
//
// =============================================================================

package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/workshop-receipts/internal/schema"
	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

// UnnamedWorkshop is the placeholder name for workshops without one.
const UnnamedWorkshop = "Taller sin nombre"

// Report summarizes a decode.
type Report struct {
	// Warning is set when a legacy layout was accepted.
	Warning string

	// Rows is the number of non-empty data rows read.
	Rows int

	// Dropped counts rows that did not form a valid entity.
	Dropped int
}

// NewWorkshopID generates a workshop id for rows or forms that have none.
func NewWorkshopID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:5]
	return fmt.Sprintf("taller_%d_%s", now.UnixMilli(), suffix)
}

// =============================================================================
// WORKSHOPS
// =============================================================================

// DecodeWorkshops reads the workshops file.
//
// A blank id gets a generated one and a blank name gets UnnamedWorkshop.
// Rows where both id and name are blank are dropped.
func DecodeWorkshops(grid [][]string) (types.Workshops, Report, error) {
	table, err := schema.Reconcile(grid, schema.Workshops)
	if err != nil {
		return nil, Report{}, err
	}

	report := Report{Warning: table.Warning(), Rows: len(table.Records)}
	workshops := make(types.Workshops, 0, len(table.Records))
	now := time.Now()

	for _, rec := range table.Records {
		id := rec.String("id_taller")
		name := rec.String("nombre_taller")
		if id == "" && name == "" {
			report.Dropped++
			continue
		}
		if id == "" {
			id = NewWorkshopID(now)
		}
		if name == "" {
			name = UnnamedWorkshop
		}
		workshops = append(workshops, types.Workshop{
			ID:      id,
			Name:    name,
			Details: rec.String("detalles_taller"),
			Fees:    rec.String("aranceles_taller"),
		})
	}

	return workshops, report, nil
}

// =============================================================================
// ROSTER
// =============================================================================

// DecodeRoster reads the roster file, grouped by workshop id.
//
// Rows with an empty id or name are dropped. The first (workshop, name)
// occurrence wins; later duplicates are counted as dropped and their tags
// are ignored.
func DecodeRoster(grid [][]string) (*types.Roster, Report, error) {
	table, err := schema.Reconcile(grid, schema.Roster)
	if err != nil {
		return nil, Report{}, err
	}

	report := Report{Warning: table.Warning(), Rows: len(table.Records)}
	roster := types.NewRoster()

	for _, rec := range table.Records {
		id := rec.String("id_taller")
		name := rec.String("nombre_alumno")
		if id == "" || name == "" {
			report.Dropped++
			continue
		}
		student := types.StudentRecord{
			Name: name,
			Tags: types.SplitTags(rec.String("tags_alumno")),
		}
		if !roster.Add(id, student) {
			report.Dropped++
		}
	}

	return roster, report, nil
}

// =============================================================================
// PAYMENT LOG
// =============================================================================

// Column aliases, current name first. Older logs used English names.
var (
	aliasDate     = []string{"fecha_pago", "paymentDate"}
	aliasStudents = []string{"nombres_alumnos", "studentNames"}
	aliasWorkshop = []string{"nombre_taller", "workshopName"}
	aliasAmount   = []string{"monto_abonado", "amountPaid"}
	aliasDetail   = []string{"detalle_meses_pagados", "paidForMonthsDetails", "paymentMonth"}
	aliasReceipt  = []string{"numero_recibo", "receiptNumber"}
	aliasNotes    = []string{"notas_generales", "overallNotes", "notes"}
)

// DecodePaymentLog reads the payment log. Each field takes the first
// non-empty alias. Rows lacking a date, students, workshop name or receipt
// number are dropped.
func DecodePaymentLog(grid [][]string) ([]types.PaymentLogEntry, Report, error) {
	table, err := schema.Reconcile(grid, schema.PaymentLog)
	if err != nil {
		return nil, Report{}, err
	}

	report := Report{Warning: table.Warning(), Rows: len(table.Records)}
	entries := make([]types.PaymentLogEntry, 0, len(table.Records))

	for _, rec := range table.Records {
		entry := types.PaymentLogEntry{
			Date:          rec.First(aliasDate...),
			StudentNames:  rec.First(aliasStudents...),
			WorkshopName:  rec.First(aliasWorkshop...),
			Amount:        rec.First(aliasAmount...),
			MonthDetail:   rec.First(aliasDetail...),
			ReceiptNumber: rec.First(aliasReceipt...),
			Notes:         rec.First(aliasNotes...),
		}
		if entry.Date == "" || entry.StudentNames == "" || entry.WorkshopName == "" || entry.ReceiptNumber == "" {
			report.Dropped++
			continue
		}
		entries = append(entries, entry)
	}

	return entries, report, nil
}
