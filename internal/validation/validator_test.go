package validation

import (
	"errors"
	"testing"

	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

var workshops = types.Workshops{{ID: "W1", Name: "Pintura"}}

func validForm() types.ReceiptTransaction {
	return types.ReceiptTransaction{
		WorkshopID: "W1",
		PayerName:  "Laura",
		Students:   []string{"Ana"},
		Lines: []types.MonthlyPaymentLine{
			{Month: "2024-03", Amount: "100"},
		},
	}
}

func TestValidateReceiptValid(t *testing.T) {
	result := ValidateReceipt(validForm(), workshops)
	if !result.IsValid {
		t.Fatalf("unexpected errors: %v", result.Err())
	}
	if result.Err() != nil {
		t.Fatal("Err should be nil for a valid form")
	}
	if result.LinesValidated != 1 {
		t.Errorf("LinesValidated = %d", result.LinesValidated)
	}
}

func TestValidateReceiptRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.ReceiptTransaction)
		ws     types.Workshops
		rules  []string
	}{
		{"no workshop", func(tx *types.ReceiptTransaction) { tx.WorkshopID = "" }, workshops, []string{"required"}},
		{"unknown workshop", func(tx *types.ReceiptTransaction) { tx.WorkshopID = "W9" }, workshops, []string{"known_workshop"}},
		{"no workshops loaded", func(tx *types.ReceiptTransaction) {}, nil, []string{"workshops_loaded"}},
		{"no lines", func(tx *types.ReceiptTransaction) { tx.Lines = nil }, workshops, []string{"required"}},
		{"bad month", func(tx *types.ReceiptTransaction) { tx.Lines[0].Month = "2024-13" }, workshops, []string{"month_format"}},
		{"zero amount", func(tx *types.ReceiptTransaction) { tx.Lines[0].Amount = "0" }, workshops, []string{"positive_amount", "positive_total"}},
		{"garbage amount", func(tx *types.ReceiptTransaction) { tx.Lines[0].Amount = "abc" }, workshops, []string{"positive_amount", "positive_total"}},
		{"blank payer", func(tx *types.ReceiptTransaction) { tx.PayerName = "  " }, workshops, []string{"required"}},
		{"blank students", func(tx *types.ReceiptTransaction) { tx.Students = []string{" ", ""} }, workshops, []string{"required"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validForm()
			tx.Lines = append([]types.MonthlyPaymentLine(nil), tx.Lines...)
			tt.mutate(&tx)

			result := ValidateReceipt(tx, tt.ws)
			if result.IsValid {
				t.Fatal("expected the form to be rejected")
			}
			if len(result.Errors) != len(tt.rules) {
				t.Fatalf("got %d errors (%v), want %d", len(result.Errors), result.Errors, len(tt.rules))
			}
			for i, rule := range tt.rules {
				if result.Errors[i].Rule != rule {
					t.Errorf("error %d rule = %q, want %q", i, result.Errors[i].Rule, rule)
				}
			}

			var errs Errors
			if !errors.As(result.Err(), &errs) || len(errs) != len(tt.rules) {
				t.Errorf("Err() = %v, want Errors with %d entries", result.Err(), len(tt.rules))
			}
		})
	}
}

func TestValidateReceiptCollectsEverything(t *testing.T) {
	result := ValidateReceipt(types.ReceiptTransaction{}, workshops)
	if result.ErrorCount != 4 {
		t.Fatalf("ErrorCount = %d, want 4 (workshop, lines, payer, students): %v", result.ErrorCount, result.Errors)
	}
}

func TestDuplicateMonthIsWarning(t *testing.T) {
	tx := validForm()
	tx.Lines = append(tx.Lines, types.MonthlyPaymentLine{Month: "2024-03", Amount: "50"})

	result := ValidateReceipt(tx, workshops)
	if !result.IsValid {
		t.Fatalf("duplicate month should not block: %v", result.Err())
	}
	if w := result.Warnings(); len(w) != 1 || w[0].Line != 2 {
		t.Fatalf("warnings = %v, want one on line 2", w)
	}
}
