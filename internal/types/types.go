// =============================================================================
// Workshop Receipts - Shared Types
// =============================================================================
//
// This package contains the domain types shared by the decoders, the receipt
// composer, the validator and the session orchestrator. Keeping them here
// avoids import cycles between those packages.
//
// ENTITIES:
//   - Workshop            : a paid course offered by the institution
//   - StudentRecord       : an enrolled student and their free-form tags
//   - Roster              : workshop id -> students (the roster index)
//   - MonthlyPaymentLine  : one month paid on a receipt
//   - ReceiptTransaction  : everything printed on one receipt
//   - PaymentLogEntry     : the flattened row appended to the payment log
//
// =============================================================================

package types

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// WORKSHOPS
// =============================================================================

// Workshop is a recurring paid activity.
type Workshop struct {
	// ID is the stable identifier referenced by the roster file.
	ID string

	// Name is the display name printed on receipts and written to the log.
	Name string

	// Details is free-text description.
	Details string

	// Fees is the free-text fee schedule.
	Fees string
}

// Workshops is an ordered workshop collection. Order is the file order.
type Workshops []Workshop

// Lookup returns the workshop with the given id.
func (ws Workshops) Lookup(id string) (Workshop, bool) {
	for _, w := range ws {
		if w.ID == id {
			return w, true
		}
	}
	return Workshop{}, false
}

// Upsert replaces the workshop with the same id, or appends it.
// It reports whether an existing workshop was replaced.
func (ws Workshops) Upsert(w Workshop) (Workshops, bool) {
	for i := range ws {
		if ws[i].ID == w.ID {
			out := append(Workshops(nil), ws...)
			out[i] = w
			return out, true
		}
	}
	return append(append(Workshops(nil), ws...), w), false
}

// Delete removes the workshop with the given id. Roster and log entries that
// reference it are left alone.
func (ws Workshops) Delete(id string) (Workshops, bool) {
	out := make(Workshops, 0, len(ws))
	removed := false
	for _, w := range ws {
		if w.ID == id {
			removed = true
			continue
		}
		out = append(out, w)
	}
	return out, removed
}

// =============================================================================
// STUDENTS AND ROSTER
// =============================================================================

// StudentRecord is one enrolled student. Tags have set semantics.
type StudentRecord struct {
	Name string
	Tags []string
}

// NormalizeTags trims tags, drops empties and removes duplicates while
// keeping the first occurrence.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}

// SplitTags splits a comma-joined tag cell.
func SplitTags(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(cell, ","))
}

// Roster maps workshop ids to their students, keeping the order in which
// workshops and students were first seen.
//
// INVARIANT: a student name appears at most once per workshop.
type Roster struct {
	order    []string
	students map[string][]StudentRecord
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{students: make(map[string][]StudentRecord)}
}

// Add appends a student to a workshop unless the name is already there.
// It reports whether the student was added.
func (r *Roster) Add(workshopID string, student StudentRecord) bool {
	list, ok := r.students[workshopID]
	if !ok {
		r.order = append(r.order, workshopID)
	}
	for _, s := range list {
		if s.Name == student.Name {
			return false
		}
	}
	student.Tags = NormalizeTags(student.Tags)
	r.students[workshopID] = append(list, student)
	return true
}

// Students returns a copy of the students enrolled in a workshop.
func (r *Roster) Students(workshopID string) []StudentRecord {
	list := r.students[workshopID]
	out := make([]StudentRecord, len(list))
	copy(out, list)
	return out
}

// Student returns a single student record.
func (r *Roster) Student(workshopID, name string) (StudentRecord, bool) {
	for _, s := range r.students[workshopID] {
		if s.Name == name {
			return s, true
		}
	}
	return StudentRecord{}, false
}

// SetTags replaces a student's tags.
func (r *Roster) SetTags(workshopID, name string, tags []string) error {
	list := r.students[workshopID]
	for i := range list {
		if list[i].Name == name {
			list[i].Tags = NormalizeTags(tags)
			return nil
		}
	}
	return fmt.Errorf("student %q is not enrolled in workshop %q", name, workshopID)
}

// WorkshopIDs returns workshop ids in first-seen order.
func (r *Roster) WorkshopIDs() []string {
	return append([]string(nil), r.order...)
}

// Len returns the total number of student records.
func (r *Roster) Len() int {
	n := 0
	for _, list := range r.students {
		n += len(list)
	}
	return n
}

// AllTags returns every distinct tag in the roster, in first-seen order.
func (r *Roster) AllTags() []string {
	var all []string
	for _, id := range r.order {
		for _, s := range r.students[id] {
			all = append(all, s.Tags...)
		}
	}
	return NormalizeTags(all)
}

// =============================================================================
// PAYMENT METHOD
// =============================================================================

// PaymentMethod is how the payer settled the receipt. The value is the label
// printed on the receipt.
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "Efectivo"
	PaymentTransfer PaymentMethod = "Transferencia"
	PaymentCheck    PaymentMethod = "Cheque"
)

// ParsePaymentMethod accepts the printed label or its English name,
// case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "efectivo", "cash":
		return PaymentCash, nil
	case "transferencia", "transfer":
		return PaymentTransfer, nil
	case "cheque", "check":
		return PaymentCheck, nil
	}
	return "", fmt.Errorf("unknown payment method %q (use cash, transfer or check)", s)
}

// =============================================================================
// RECEIPTS
// =============================================================================

// monthTokenPattern is the year-month token format: 4-digit year, dash,
// 2-digit month.
var monthTokenPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidMonthToken reports whether s is a YYYY-MM token with a real month.
func ValidMonthToken(s string) bool {
	return monthTokenPattern.MatchString(s)
}

// MonthlyPaymentLine is one month paid on a receipt.
type MonthlyPaymentLine struct {
	// ID is only used to manage lines before the receipt is issued.
	// It is never persisted.
	ID string

	// Month is the YYYY-MM token.
	Month string

	// Amount is the decimal amount as entered.
	Amount string

	// Note is an optional free-text note for this line.
	Note string
}

// ParsedAmount returns the line amount. Invalid amounts are an error.
func (l MonthlyPaymentLine) ParsedAmount() (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(l.Amount))
}

// ReceiptTransaction holds everything printed on one receipt.
type ReceiptTransaction struct {
	WorkshopID string
	PayerName  string

	// Students holds one entry per student as selected on the form. Names
	// may themselves contain commas ("García, María"), so the list is kept
	// structured and only joined for display.
	Students []string

	PaymentMethod PaymentMethod
	Notes         string
	Date          time.Time
	ReceiptNumber string
	Lines         []MonthlyPaymentLine
}

// Total sums the line amounts. Lines whose amount does not parse count as
// zero; validation rejects such lines before a receipt is issued.
func (t ReceiptTransaction) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range t.Lines {
		amount, err := line.ParsedAmount()
		if err != nil {
			continue
		}
		total = total.Add(amount)
	}
	return total
}

// TotalString is the total fixed to two decimal places, e.g. "150.50".
func (t ReceiptTransaction) TotalString() string {
	return t.Total().StringFixed(2)
}

// StudentNames is the comma-joined student list printed on the receipt and
// written to the payment log.
func (t ReceiptTransaction) StudentNames() string {
	var names []string
	for _, name := range t.Students {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// =============================================================================
// PAYMENT LOG
// =============================================================================

// PaymentLogEntry is the persisted projection of an issued receipt.
// The workshop is stored by name, denormalized at write time.
type PaymentLogEntry struct {
	Date          string
	StudentNames  string
	WorkshopName  string
	Amount        string
	MonthDetail   string
	ReceiptNumber string
	Notes         string
}
