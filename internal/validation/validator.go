// =============================================================================
// Workshop Receipts - Receipt Validation
// =============================================================================
//
// This module checks a receipt form before anything is generated. A receipt
// is only composed, named, saved and logged when validation reports no
// errors.
//
// VALIDATION LEVELS:
//   1. Form-level: workshop, payer and students
//   2. Line-level: month token and amount of each monthly line
//   3. Receipt-level: the total
//
// ERROR HANDLING:
//   - Errors are collected, not thrown immediately
//   - Each error names the field, the offending value and the rule
//   - Warnings are reported but do not block the receipt
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation problem.
type ValidationError struct {
	// Severity is SeverityError (blocks the receipt) or SeverityWarning.
	Severity string

	// Field is the form field that failed validation.
	Field string

	// Value is the value that failed validation.
	Value string

	// Rule is the rule that was violated.
	Rule string

	// Message is the operator-facing message.
	Message string

	// Line is the 1-based monthly line number, or 0 for form-level problems.
	Line int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d, %s: %s", strings.ToUpper(e.Severity), e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), e.Field, e.Message)
}

// Errors is a list of blocking validation errors.
type Errors []*ValidationError

// Error joins the messages, one per line.
func (errs Errors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "\n")
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validating one receipt form.
type ValidationResult struct {
	// IsValid is true if there are no errors (warnings allowed).
	IsValid bool

	// Errors contains all problems, including warnings.
	Errors []*ValidationError

	ErrorCount   int
	WarningCount int

	// LinesValidated is the number of monthly lines checked.
	LinesValidated int
}

// Err returns the blocking errors as an Errors value, or nil.
func (r *ValidationResult) Err() error {
	if r.IsValid {
		return nil
	}
	var errs Errors
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			errs = append(errs, e)
		}
	}
	return errs
}

// Warnings returns the non-blocking problems.
func (r *ValidationResult) Warnings() []*ValidationError {
	var out []*ValidationError
	for _, e := range r.Errors {
		if e.Severity == SeverityWarning {
			out = append(out, e)
		}
	}
	return out
}

func (r *ValidationResult) add(e *ValidationError) {
	r.Errors = append(r.Errors, e)
	if e.Severity == SeverityWarning {
		r.WarningCount++
		return
	}
	r.ErrorCount++
	r.IsValid = false
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// ValidateReceipt validates a receipt form against the loaded workshops.
//
// PARAMETERS:
//   - tx: The form. Date and ReceiptNumber are not checked; they are
//     assigned when the receipt is issued.
//   - workshops: The loaded workshop collection.
//
// RETURNS:
//   - The collected result. Every rule is checked even after a failure.
func ValidateReceipt(tx types.ReceiptTransaction, workshops types.Workshops) *ValidationResult {
	result := &ValidationResult{IsValid: true, Errors: make([]*ValidationError, 0)}

	validateWorkshop(result, tx.WorkshopID, workshops)
	validateLines(result, tx)

	if strings.TrimSpace(tx.PayerName) == "" {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "payer",
			Rule:     "required",
			Message:  "Ingrese el nombre de quien paga.",
		})
	}

	if tx.StudentNames() == "" {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "students",
			Rule:     "required",
			Message:  "Ingrese el nombre del alumno/s.",
		})
	}

	return result
}

// validateWorkshop checks that a workshop is selected and loaded.
func validateWorkshop(result *ValidationResult, id string, workshops types.Workshops) {
	switch {
	case strings.TrimSpace(id) == "":
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "workshop",
			Rule:     "required",
			Message:  "Por favor, seleccione un taller.",
		})
	case len(workshops) == 0:
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "workshop",
			Value:    id,
			Rule:     "workshops_loaded",
			Message:  "No hay talleres cargados.",
		})
	default:
		if _, ok := workshops.Lookup(id); !ok {
			result.add(&ValidationError{
				Severity: SeverityError,
				Field:    "workshop",
				Value:    id,
				Rule:     "known_workshop",
				Message:  "No se pudo encontrar el taller seleccionado.",
			})
		}
	}
}

// validateLines checks each monthly line and the total.
func validateLines(result *ValidationResult, tx types.ReceiptTransaction) {
	if len(tx.Lines) == 0 {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "lines",
			Rule:     "required",
			Message:  "Agregue al menos un pago mensual con un monto válido.",
		})
		return
	}

	seen := make(map[string]int, len(tx.Lines))
	for i, line := range tx.Lines {
		n := i + 1
		result.LinesValidated++

		if !types.ValidMonthToken(line.Month) {
			result.add(&ValidationError{
				Severity: SeverityError,
				Field:    "month",
				Value:    line.Month,
				Rule:     "month_format",
				Message:  fmt.Sprintf("El pago %d debe tener un mes válido (AAAA-MM).", n),
				Line:     n,
			})
		} else if first, dup := seen[line.Month]; dup {
			result.add(&ValidationError{
				Severity: SeverityWarning,
				Field:    "month",
				Value:    line.Month,
				Rule:     "duplicate_month",
				Message:  fmt.Sprintf("El mes %s ya figura en el pago %d.", line.Month, first),
				Line:     n,
			})
		} else {
			seen[line.Month] = n
		}

		amount, err := line.ParsedAmount()
		if err != nil || !amount.IsPositive() {
			result.add(&ValidationError{
				Severity: SeverityError,
				Field:    "amount",
				Value:    line.Amount,
				Rule:     "positive_amount",
				Message:  fmt.Sprintf("El pago %d debe tener un monto válido mayor a cero.", n),
				Line:     n,
			})
		}
	}

	if !tx.Total().IsPositive() {
		result.add(&ValidationError{
			Severity: SeverityError,
			Field:    "total",
			Value:    tx.TotalString(),
			Rule:     "positive_total",
			Message:  "El monto total debe ser mayor a cero.",
		})
	}
}
