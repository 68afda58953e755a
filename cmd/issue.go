// =============================================================================
// Workshop Receipts - Issue Command
// =============================================================================
//
// This file defines the 'issue' command, which issues one receipt.
//
// COMMAND USAGE:
//   recibos issue --workshop ID --payer NAME --students NAME [--students NAME]
//                 --month YYYY-MM=AMOUNT[:note] [--month ...] [flags]
//
// PIPELINE:
//   1. Load the configuration and the work folder
//   2. Validate the form (every problem is reported at once)
//   3. Number and compose the receipt PDF
//   4. Save it under Recibos/<year>/<Month>/<workshop>/, or download it
//   5. Append the payment to the log and save the log
//   6. Enroll new students and save the roster
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/workshop-receipts/internal/locale"
	"github.com/ginjaninja78/workshop-receipts/internal/session"
	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var issueFlags struct {
	workshop string
	payer    string
	students []string
	method   string
	notes    string
	months   []string
	copy     bool
	digital  bool

	// Files loaded before issuing, for download-only use.
	workshopsFile string
	studentsFile  string
	logFile       string
}

// =============================================================================
// ISSUE COMMAND DEFINITION
// =============================================================================

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue a receipt and record the payment",
	Long: `The issue command validates the receipt form, composes the PDF receipt,
saves it in the work folder and records the payment in the payment log.

Each --month takes YYYY-MM=AMOUNT with an optional :note, e.g.
  --month 2024-03=1500 --month "2024-04=1500.50:pago adelantado"

Students are given one per --students flag, so names may contain commas
("García, María"). Students not yet enrolled in the workshop are added to
the roster.

Without a work folder, load the files with --workshops-file, --students-file
and --log-file; the receipt and the updated files are then downloaded.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runIssue(cmd)
	},
}

func init() {
	rootCmd.AddCommand(issueCmd)

	f := issueCmd.Flags()
	f.StringVarP(&issueFlags.workshop, "workshop", "w", "", "Workshop id")
	f.StringVarP(&issueFlags.payer, "payer", "p", "", "Name of the person paying")
	f.StringArrayVarP(&issueFlags.students, "students", "s", nil, "Student name (repeat for several students)")
	f.StringVar(&issueFlags.method, "method", "", "Payment method: cash, transfer or check (default from config)")
	f.StringVar(&issueFlags.notes, "notes", "", "General notes printed on the receipt")
	f.StringArrayVarP(&issueFlags.months, "month", "m", nil, "Paid month as YYYY-MM=AMOUNT[:note] (repeatable)")
	f.BoolVar(&issueFlags.copy, "copy", false, "Print the COPIA band below the original")
	f.BoolVar(&issueFlags.digital, "digital", false, "Mark the file name as the digital version")
	f.StringVar(&issueFlags.workshopsFile, "workshops-file", "", "Load workshops from this file first")
	f.StringVar(&issueFlags.studentsFile, "students-file", "", "Load students from this file first")
	f.StringVar(&issueFlags.logFile, "log-file", "", "Load the payment log from this file first")
}

// =============================================================================
// MAIN ISSUE FUNCTION
// =============================================================================

func runIssue(cmd *cobra.Command) error {
	lines, err := parseMonthFlags(issueFlags.months)
	if err != nil {
		return err
	}

	form := types.ReceiptTransaction{
		WorkshopID: strings.TrimSpace(issueFlags.workshop),
		PayerName:  strings.TrimSpace(issueFlags.payer),
		Students:   issueFlags.students,
		Notes:      strings.TrimSpace(issueFlags.notes),
		Lines:      lines,
	}
	if issueFlags.method != "" {
		if form.PaymentMethod, err = types.ParsePaymentMethod(issueFlags.method); err != nil {
			return err
		}
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer a.close()

	if err := importFiles(a.session, issueFlags.workshopsFile, issueFlags.studentsFile, issueFlags.logFile); err != nil {
		return err
	}

	issued, err := a.session.IssueReceipt(form, session.IssueOptions{
		IncludeCopy: issueFlags.copy,
		Digital:     issueFlags.digital,
	})
	if err != nil {
		return fmt.Errorf("receipt not issued: %w", err)
	}

	fmt.Fprintf(a.out, "\n=== Recibo %s ===\n", issued.Transaction.ReceiptNumber)
	fmt.Fprintf(a.out, "Fecha:       %s %s\n", locale.FormatDate(issued.Transaction.Date), locale.FormatTime(issued.Transaction.Date))
	fmt.Fprintf(a.out, "Total:       $%s\n", locale.FormatAmount(issued.Transaction.Total()))
	fmt.Fprintf(a.out, "Archivo:     %s\n", issued.Path)
	if len(issued.NewStudents) > 0 {
		fmt.Fprintf(a.out, "Nuevos:      %s\n", strings.Join(issued.NewStudents, "; "))
	}
	fmt.Fprintln(a.out)

	return a.session.SavePaymentLog()
}

// importFiles loads the given files into the session, skipping empty paths.
func importFiles(s *session.Session, workshops, students, log string) error {
	steps := []struct {
		path string
		load func(string, []byte) error
	}{
		{workshops, s.ImportWorkshops},
		{students, s.ImportRoster},
		{log, s.ImportPaymentLog},
	}
	for _, step := range steps {
		if step.path == "" {
			continue
		}
		name, data, err := readInput(step.path)
		if err != nil {
			return err
		}
		if err := step.load(name, data); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// parseMonthFlags parses --month values.
//
// PARAMETERS:
//   - values: "YYYY-MM=AMOUNT" with an optional ":note" suffix. The note may
//     itself contain colons.
//
// RETURNS:
//   - One line per value, in order, each with a fresh id.
//   - An error naming the first malformed value. Month and amount contents
//     are checked later by the validator.
func parseMonthFlags(values []string) ([]types.MonthlyPaymentLine, error) {
	lines := make([]types.MonthlyPaymentLine, 0, len(values))
	for _, v := range values {
		month, rest, ok := strings.Cut(v, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --month %q: expected YYYY-MM=AMOUNT[:note]", v)
		}
		amount, note, _ := strings.Cut(rest, ":")

		lines = append(lines, types.MonthlyPaymentLine{
			ID:     uuid.NewString(),
			Month:  strings.TrimSpace(month),
			Amount: strings.TrimSpace(amount),
			Note:   strings.TrimSpace(note),
		})
	}
	return lines, nil
}
