package session

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/workshop-receipts/internal/locale"
	"github.com/ginjaninja78/workshop-receipts/internal/naming"
	"github.com/ginjaninja78/workshop-receipts/internal/receipt"
	"github.com/ginjaninja78/workshop-receipts/internal/types"
	"github.com/ginjaninja78/workshop-receipts/internal/validation"
)

// maxLogNoteRunes is how much of a line note is copied into the log detail.
const maxLogNoteRunes = 50

// IssueOptions controls the printed document.
type IssueOptions struct {
	// IncludeCopy prints the COPIA band below the cut line.
	IncludeCopy bool

	// Digital marks the file name with "_Digital".
	Digital bool
}

// Issued is the outcome of a successful IssueReceipt.
type Issued struct {
	Transaction types.ReceiptTransaction
	Document    *receipt.Document
	Filename    string

	// Path is where the PDF was written, in the folder or the downloads
	// directory.
	Path       string
	Downloaded bool

	Entry       types.PaymentLogEntry
	NewStudents []string
	Warnings    []*validation.ValidationError
}

// IssueReceipt validates a receipt form, numbers and composes the receipt,
// saves the PDF and records the payment.
//
// PARAMETERS:
//   - form: The receipt form. Date and ReceiptNumber are assigned here.
//   - opts: Copy and digital flags.
//
// RETURNS:
//   - The issued receipt.
//   - validation.Errors when the form is invalid; nothing is written then.
//   - Any other error if the PDF could be neither saved nor downloaded.
//
// The payment log is appended in memory; SavePaymentLog writes it. Students
// not yet enrolled in the workshop are added and the roster is saved.
func (s *Session) IssueReceipt(form types.ReceiptTransaction, opts IssueOptions) (*Issued, error) {
	result := validation.ValidateReceipt(form, s.workshops)
	if !result.IsValid {
		err := result.Err()
		s.notify(NoticeError, err.Error())
		return nil, err
	}
	for _, w := range result.Warnings() {
		s.notify(NoticeInfo, w.Message)
	}

	workshop, _ := s.workshops.Lookup(form.WorkshopID)

	tx := form
	if tx.PaymentMethod == "" {
		tx.PaymentMethod = s.opts.PaymentMethod
	}
	tx.Date = s.opts.Clock()
	tx.ReceiptNumber = s.numbers.Next(tx.Date)

	doc, err := receipt.ComposeWithOptions(tx, s.workshops, receipt.Options{
		IncludeCopy: opts.IncludeCopy,
		Logo:        s.logo,
		Institution: s.opts.Institution,
	})
	if err != nil {
		s.notify(NoticeError, "Error al generar el archivo PDF del recibo.")
		return nil, fmt.Errorf("failed to compose receipt %s: %w", tx.ReceiptNumber, err)
	}
	if doc.LogoError != nil {
		s.opts.Logger.Warn("Letterhead not embedded: %v", doc.LogoError)
	}
	if labels := doc.Overflowing(); len(labels) > 0 {
		s.opts.Logger.Warn("Receipt %s overflows in %s", tx.ReceiptNumber, strings.Join(labels, ", "))
		s.notify(NoticeInfo, fmt.Sprintf("El contenido del recibo %s no entra en el espacio disponible (%s). Revise el PDF.",
			tx.ReceiptNumber, strings.Join(labels, ", ")))
	}

	filename := naming.DeriveFilename(tx, &workshop, opts.Digital)
	segments := naming.ReceiptFolder(s.opts.ReceiptsRoot, tx.Date, workshop.Name)

	res, err := s.save(segments, filename, doc.Bytes, "PDF")
	if err != nil {
		s.notify(NoticeError, fmt.Sprintf("Error al guardar el recibo %s: %v", filename, err))
		return nil, err
	}

	entry := NewLogEntry(tx, workshop.Name)
	s.log = append(s.log, entry)
	s.opts.Logger.Info("Issued receipt %s for %s (%s)", tx.ReceiptNumber, workshop.Name, tx.TotalString())

	switch {
	case res.Fallback:
		s.notify(NoticeSuccess, fmt.Sprintf("Recibo %s descargado (error al guardar en carpeta) y agregado al registro.", filename))
	case res.Downloaded:
		s.notify(NoticeSuccess, fmt.Sprintf("Recibo %s descargado y agregado al registro.", filename))
	default:
		s.notify(NoticeSuccess, fmt.Sprintf("Recibo guardado en: %s y agregado al registro.", res.Path))
	}

	issued := &Issued{
		Transaction: tx,
		Document:    doc,
		Filename:    filename,
		Path:        res.Path,
		Downloaded:  res.Downloaded,
		Entry:       entry,
		Warnings:    result.Warnings(),
	}

	for _, name := range tx.Students {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if s.roster.Add(tx.WorkshopID, types.StudentRecord{Name: name}) {
			issued.NewStudents = append(issued.NewStudents, name)
		}
	}
	if len(issued.NewStudents) > 0 {
		// The receipt is already issued; a roster save failure is only
		// reported.
		_ = s.SaveRoster()
	}

	return issued, nil
}

// NewLogEntry flattens an issued receipt into a payment log row.
func NewLogEntry(tx types.ReceiptTransaction, workshopName string) types.PaymentLogEntry {
	details := make([]string, 0, len(tx.Lines))
	for _, line := range tx.Lines {
		details = append(details, lineDetail(line))
	}

	return types.PaymentLogEntry{
		Date:          locale.ISODate(tx.Date),
		StudentNames:  tx.StudentNames(),
		WorkshopName:  workshopName,
		Amount:        tx.TotalString(),
		MonthDetail:   strings.Join(details, "; "),
		ReceiptNumber: tx.ReceiptNumber,
		Notes:         tx.Notes,
	}
}

// lineDetail renders "Marzo de 2024 ($1.500,00) [Nota: ...]".
func lineDetail(line types.MonthlyPaymentLine) string {
	detail := locale.TitleMonthYear(line.Month) + " ($" + locale.FormatAmountString(line.Amount) + ")"
	if line.Note == "" {
		return detail
	}

	note := line.Note
	if utf8.RuneCountInString(note) > maxLogNoteRunes {
		note = string([]rune(note)[:maxLogNoteRunes]) + "..."
	}
	return detail + " [Nota: " + note + "]"
}
