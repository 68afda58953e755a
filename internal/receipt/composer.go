// =============================================================================
// Workshop Receipts - Receipt Composer
// =============================================================================
//
// This module renders a receipt page to PDF bytes with fpdf. Geometry comes
// from Layout; this file only resolves the workshop, prepares the letterhead
// image and draws the elements.
//
// FONTS:
//   The built-in Helvetica is used, with text converted to Windows-1252 so
//   Spanish characters print correctly.
//
// =============================================================================

package receipt

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

// ErrWorkshopNotFound is returned when the transaction's workshop id does not
// resolve against the loaded workshops.
var ErrWorkshopNotFound = errors.New("workshop not found")

const fontFamily = "Helvetica"

// logoImageName is the fpdf registration name of the letterhead.
const logoImageName = "letterhead"

// =============================================================================
// OPTIONS
// =============================================================================

// Institution is the letterhead text.
type Institution struct {
	Name         string `yaml:"name"`
	AddressLine1 string `yaml:"address_line1"`
	AddressLine2 string `yaml:"address_line2"`
	Email        string `yaml:"email"`
	Phone        string `yaml:"phone"`
}

// DefaultInstitution returns the institution printed when none is configured.
func DefaultInstitution() Institution {
	return Institution{
		Name:         "Biblioteca Euforión",
		AddressLine1: "Calle Diagonal 79 Nro. 371",
		AddressLine2: "CP. 1900, La Plata, Buenos Aires",
		Email:        "secretariaeuforion@gmail.com",
		Phone:        "2214372736",
	}
}

// Options contains options for composing a receipt.
type Options struct {
	// IncludeCopy adds the COPIA band below the cut line.
	IncludeCopy bool

	// Logo is the letterhead image. nil prints a placeholder.
	Logo *Logo

	// Institution is printed next to the letterhead.
	Institution Institution
}

// DefaultOptions returns single-band options with the default institution.
func DefaultOptions() Options {
	return Options{Institution: DefaultInstitution()}
}

// Document is a composed receipt.
type Document struct {
	// Bytes is the PDF file.
	Bytes []byte

	// Page is the layout the PDF was drawn from.
	Page *Page

	// LogoError is set when the letterhead could not be embedded.
	LogoError error
}

// Overflowing returns the labels of bands whose content ran past the
// signature line.
func (d *Document) Overflowing() []string {
	var labels []string
	for _, band := range d.Page.Bands {
		if band.Overflow {
			labels = append(labels, band.Label)
		}
	}
	return labels
}

// =============================================================================
// COMPOSE
// =============================================================================

// Compose renders a receipt with the default institution.
func Compose(tx types.ReceiptTransaction, workshops types.Workshops, includeCopy bool, logo *Logo) (*Document, error) {
	opts := DefaultOptions()
	opts.IncludeCopy = includeCopy
	opts.Logo = logo
	return ComposeWithOptions(tx, workshops, opts)
}

// ComposeWithOptions renders a receipt.
//
// PARAMETERS:
//   - tx: The issued transaction (date and receipt number assigned).
//   - workshops: Used to resolve tx.WorkshopID.
//   - opts: Copy flag, letterhead and institution.
//
// RETURNS:
//   - The document.
//   - ErrWorkshopNotFound if the workshop does not resolve, or an fpdf error.
func ComposeWithOptions(tx types.ReceiptTransaction, workshops types.Workshops, opts Options) (*Document, error) {
	workshop, ok := workshops.Lookup(tx.WorkshopID)
	if !ok || tx.WorkshopID == "" {
		return nil, fmt.Errorf("%w: %q", ErrWorkshopNotFound, tx.WorkshopID)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Recibo "+tx.ReceiptNumber, true)
	pdf.SetCreator("recibos", true)
	if !tx.Date.IsZero() {
		pdf.SetCreationDate(tx.Date)
	}
	pdf.AddPage()

	doc := &Document{}
	opts.Logo, doc.LogoError = registerLogo(pdf, opts.Logo)

	r := &renderer{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	page := Layout(r, tx, workshop, opts)
	doc.Page = page

	for _, e := range page.Cut {
		r.draw(e)
	}
	for _, band := range page.Bands {
		for _, e := range band.Elements {
			r.draw(e)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write receipt: %w", err)
	}
	doc.Bytes = buf.Bytes()
	return doc, nil
}

// registerLogo embeds the letterhead. A logo fpdf cannot read is returned as
// Broken so the layout prints the error placeholder.
func registerLogo(pdf *fpdf.Fpdf, logo *Logo) (*Logo, error) {
	if logo == nil {
		return nil, nil
	}
	if logo.Broken != nil {
		return logo, logo.Broken
	}

	opt := fpdf.ImageOptions{ImageType: logo.Format}
	pdf.RegisterImageOptionsReader(logoImageName, opt, bytes.NewReader(logo.Data))
	if pdf.Err() {
		err := pdf.Error()
		pdf.ClearError()
		return &Logo{Broken: err}, err
	}
	return logo, nil
}

// =============================================================================
// RENDERER
// =============================================================================

// renderer draws page elements and measures text for Layout.
type renderer struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// SetFont implements Measurer.
func (r *renderer) SetFont(style string, size float64) {
	r.pdf.SetFont(fontFamily, style, size)
}

// SplitText implements Measurer. Widths are measured on the converted text
// the page will actually contain.
func (r *renderer) SplitText(text string, width float64) []string {
	return WrapText(text, width, func(s string) float64 {
		return r.pdf.GetStringWidth(r.tr(s))
	})
}

func (r *renderer) draw(e Element) {
	pdf := r.pdf
	switch e.Kind {
	case KindRect:
		pdf.SetLineWidth(e.LineWidth)
		pdf.SetDrawColor(e.Gray, e.Gray, e.Gray)
		pdf.RoundedRect(e.X, e.Y, e.W, e.H, e.Radius, "1234", "D")

	case KindLine:
		pdf.SetLineWidth(e.LineWidth)
		pdf.SetDrawColor(e.Gray, e.Gray, e.Gray)
		if len(e.Dash) > 0 {
			pdf.SetDashPattern(e.Dash, 0)
		}
		pdf.Line(e.X, e.Y, e.X2, e.Y2)
		if len(e.Dash) > 0 {
			pdf.SetDashPattern([]float64{}, 0)
		}

	case KindImage:
		pdf.ImageOptions(logoImageName, e.X, e.Y, e.W, e.H, false, fpdf.ImageOptions{}, 0, "")

	case KindText:
		pdf.SetFont(fontFamily, e.Style, e.Size)
		pdf.SetTextColor(e.Gray, e.Gray, e.Gray)
		if len(e.Lines) > 0 {
			for i, line := range e.Lines {
				r.text(e.X, e.Y+float64(i)*e.LineHeight, line, e.Align)
			}
		} else {
			y := e.Y
			if e.Middle {
				y += e.Size * ptToMM * 0.35
			}
			r.text(e.X, y, e.Text, e.Align)
		}
		pdf.SetTextColor(0, 0, 0)
	}
}

func (r *renderer) text(x, y float64, s string, align Align) {
	s = r.tr(s)
	switch align {
	case AlignCenter:
		x -= r.pdf.GetStringWidth(s) / 2
	case AlignRight:
		x -= r.pdf.GetStringWidth(s)
	}
	r.pdf.Text(x, y, s)
}
