// =============================================================================
// Workshop Receipts - Receipt Layout
// =============================================================================
//
// This module positions everything printed on a receipt page. It does no
// drawing: it produces a Page of positioned elements that the renderer
// draws with fpdf. Keeping layout separate lets the geometry be checked
// without parsing PDF output.
//
// PAGE STRUCTURE (A4 portrait, millimetres):
//
//   +--------------------------------------+  y = 0
//   | ORIGINAL band                        |
//   |   letterhead, title, payment data,   |
//   |   monthly breakdown, total, notes,   |
//   |   signature lines at the bottom      |
//   +- - - - - -  Cortar por aquí  - - - - +  y = 148.5 (copy only)
//   | COPIA band (same content)            |
//   +--------------------------------------+  y = 297
//
// WRAPPED TEXT:
//   Item notes and general notes wrap to a fixed width. Their height is
//   measured from the wrapped line count at the active font size, and the
//   cursor moves past them, so later content never overlaps them. The
//   signature lines are anchored to the band bottom and never move.
//
// =============================================================================

package receipt

import (
	"fmt"
	"strings"

	"github.com/ginjaninja78/workshop-receipts/internal/locale"
	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

// =============================================================================
// GEOMETRY
// =============================================================================

const (
	pageWidth    = 210.0
	pageHeight   = 297.0
	bandHeight   = pageHeight / 2
	margin       = 10.0
	contentWidth = pageWidth - 2*margin

	logoMaxWidth  = 25.0
	logoMaxHeight = 15.0

	// ptToMM converts a font size in points to millimetres.
	ptToMM = 0.352778

	// lineHeightFactor is the line spacing of wrapped text.
	lineHeightFactor = 1.2
)

// Band labels.
const (
	LabelOriginal = "ORIGINAL"
	LabelCopy     = "COPIA"
)

// CutLabel is printed on the cut line between the two bands.
const CutLabel = "-- Cortar por aquí --"

// Font styles.
const (
	StyleRegular = ""
	StyleBold    = "B"
	StyleItalic  = "I"
)

// TextHeight is the height of wrapped text: lines x size x line factor.
func TextHeight(lines int, size float64) float64 {
	return float64(lines) * size * ptToMM * lineHeightFactor
}

// =============================================================================
// PAGE MODEL
// =============================================================================

// Kind is the type of a page element.
type Kind int

const (
	KindText Kind = iota
	KindLine
	KindRect
	KindImage
)

// Align is the horizontal anchor of a text element.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Element is one positioned drawing instruction.
type Element struct {
	Kind Kind

	// X, Y is the anchor: text baseline, line start, rect or image corner.
	X, Y float64

	// X2, Y2 is the end of a line.
	X2, Y2 float64

	// W, H size rects and images.
	W, H float64

	// Text is a single-line string. Lines holds wrapped text drawn
	// downward from Y, LineHeight apart.
	Text       string
	Lines      []string
	LineHeight float64

	Style  string
	Size   float64
	Align  Align
	Middle bool

	// Gray is the text color for text and the stroke color otherwise
	// (0 = black, 255 = white).
	Gray int

	LineWidth float64
	Dash      []float64
	Radius    float64
}

// Bottom is the lowest y the element reaches.
func (e Element) Bottom() float64 {
	switch e.Kind {
	case KindRect, KindImage:
		return e.Y + e.H
	case KindLine:
		return max(e.Y, e.Y2)
	}
	if len(e.Lines) > 0 {
		return e.Y + float64(len(e.Lines)-1)*e.LineHeight
	}
	return e.Y
}

// LogoState describes what was drawn in the letterhead slot.
type LogoState string

const (
	LogoImage       LogoState = "image"
	LogoPlaceholder LogoState = "placeholder"
	LogoError       LogoState = "error"
)

// Band is one receipt copy on the page.
type Band struct {
	Label    string
	Top      float64
	Height   float64
	Elements []Element

	Logo LogoState

	// NotesTop and NotesHeight locate the wrapped general notes; both are
	// zero when there are no notes.
	NotesTop    float64
	NotesHeight float64

	// CursorY is where the next content line would start.
	CursorY float64

	// SignatureY is the y of the signature lines.
	SignatureY float64

	// Overflow is set when content runs past the signature lines.
	Overflow bool
}

// Page is a laid-out receipt.
type Page struct {
	Width, Height float64
	Bands         []Band

	// Cut holds the cut line and its label (two-band pages only).
	Cut []Element
}

// Measurer wraps text at the current font. *fpdf.Fpdf is adapted to it
// by the renderer.
type Measurer interface {
	SetFont(style string, size float64)
	SplitText(text string, width float64) []string
}

// =============================================================================
// LAYOUT
// =============================================================================

// Layout positions a receipt.
//
// PARAMETERS:
//   - m: Measures wrapped text.
//   - tx: The issued transaction.
//   - workshop: The resolved workshop.
//   - opts: Copy flag, letterhead image and institution details.
//
// RETURNS:
//   - The page. Only opts.IncludeCopy and opts.Logo change the geometry.
func Layout(m Measurer, tx types.ReceiptTransaction, workshop types.Workshop, opts Options) *Page {
	page := &Page{Width: pageWidth, Height: pageHeight}
	page.Bands = append(page.Bands, layoutBand(m, tx, workshop, opts, 0, LabelOriginal))

	if opts.IncludeCopy {
		page.Cut = []Element{
			{
				Kind: KindLine, X: margin / 2, Y: bandHeight, X2: pageWidth - margin/2, Y2: bandHeight,
				Gray: 100, LineWidth: 0.3, Dash: []float64{2, 2},
			},
			{
				Kind: KindText, X: pageWidth / 2, Y: bandHeight - 1, Text: CutLabel,
				Style: StyleRegular, Size: 8, Align: AlignCenter, Gray: 150,
			},
		}
		page.Bands = append(page.Bands, layoutBand(m, tx, workshop, opts, bandHeight, LabelCopy))
	}

	return page
}

// bandBuilder accumulates the elements of one band.
type bandBuilder struct {
	m     Measurer
	band  *Band
	style string
	size  float64
}

func (b *bandBuilder) font(style string, size float64) {
	b.style, b.size = style, size
	b.m.SetFont(style, size)
}

func (b *bandBuilder) text(x, y float64, s string, align Align) {
	b.band.Elements = append(b.band.Elements, Element{
		Kind: KindText, X: x, Y: y, Text: s,
		Style: b.style, Size: b.size, Align: align,
	})
}

// wrapped adds wrapped text and returns its measured height.
func (b *bandBuilder) wrapped(x, y, width float64, s string, gray int) float64 {
	lines := b.m.SplitText(s, width)
	if len(lines) == 0 {
		lines = []string{""}
	}
	b.band.Elements = append(b.band.Elements, Element{
		Kind: KindText, X: x, Y: y, Lines: lines,
		LineHeight: b.size * ptToMM * lineHeightFactor,
		Style:      b.style, Size: b.size, Gray: gray,
	})
	return TextHeight(len(lines), b.size)
}

func (b *bandBuilder) line(x1, y1, x2, y2 float64) {
	b.band.Elements = append(b.band.Elements, Element{
		Kind: KindLine, X: x1, Y: y1, X2: x2, Y2: y2, Gray: 150, LineWidth: 0.2,
	})
}

// layoutBand positions one receipt copy starting at yOffset.
func layoutBand(m Measurer, tx types.ReceiptTransaction, workshop types.Workshop, opts Options, yOffset float64, label string) Band {
	sectionTop := yOffset + margin/2
	sectionHeight := bandHeight - margin

	band := Band{Label: label, Top: sectionTop, Height: sectionHeight}
	b := &bandBuilder{m: m, band: &band}

	band.Elements = append(band.Elements, Element{
		Kind: KindRect, X: margin / 2, Y: sectionTop, W: pageWidth - margin, H: sectionHeight,
		Radius: 3, Gray: 150, LineWidth: 0.2,
	})

	// Letterhead.
	logoX := margin
	logoY := sectionTop + margin/2
	textX := logoX + logoMaxHeight + 5

	switch logo := opts.Logo; {
	case logo == nil:
		band.Logo = LogoPlaceholder
		b.font(StyleBold, 10)
		b.text(logoX, logoY+7.5, "[Logo]", AlignLeft)
		band.Elements[len(band.Elements)-1].Middle = true
	case logo.Broken != nil:
		band.Logo = LogoError
		b.font(StyleItalic, 8)
		b.text(logoX, logoY+7.5, "[Error Logo]", AlignLeft)
		band.Elements[len(band.Elements)-1].Middle = true
	default:
		band.Logo = LogoImage
		w, h := logo.displaySize()
		band.Elements = append(band.Elements, Element{Kind: KindImage, X: logoX, Y: logoY, W: w, H: h})
		textX = logoX + w + 5
	}

	inst := opts.Institution
	b.font(StyleBold, 10)
	b.text(textX, logoY+3, inst.Name, AlignLeft)
	b.font(StyleRegular, 8)
	b.text(textX, logoY+7, inst.AddressLine1, AlignLeft)
	b.text(textX, logoY+10, inst.AddressLine2, AlignLeft)
	b.text(textX, logoY+13, fmt.Sprintf("Email: %s / Tel: %s", inst.Email, inst.Phone), AlignLeft)

	b.font(StyleBold, 14)
	b.text(pageWidth/2, logoY+logoMaxHeight+10, "RECIBO DE PAGO", AlignCenter)

	b.font(StyleBold, 18)
	b.text(pageWidth-margin, logoY+5, label, AlignRight)

	// Payment data.
	y := logoY + logoMaxHeight + 20
	b.font(StyleRegular, 10)
	b.text(margin, y, fmt.Sprintf("Fecha: %s %s", locale.FormatDate(tx.Date), locale.FormatTime(tx.Date)), AlignLeft)
	b.text(pageWidth-margin, y, "Recibo Nro: "+tx.ReceiptNumber, AlignRight)
	y += 7

	b.text(margin, y, "Recibimos de: "+tx.PayerName, AlignLeft)
	y += 7
	b.text(margin, y, "Alumno/s: "+tx.StudentNames(), AlignLeft)
	y += 7
	b.text(margin, y, `Taller: "`+workshop.Name+`"`, AlignLeft)
	y += 7

	if len(tx.Lines) > 0 {
		b.font(StyleBold, 10)
		b.text(margin, y, "Desglose de Pagos Mensuales:", AlignLeft)
		y += 6
		b.font(StyleRegular, 9)

		for _, line := range tx.Lines {
			b.text(margin+2, y, fmt.Sprintf("Mes: %s - Monto: $ %s",
				locale.FormatMonthYear(line.Month), locale.FormatAmountString(line.Amount)), AlignLeft)
			y += 4.5

			if note := strings.TrimSpace(line.Note); note != "" {
				b.font(StyleRegular, 8)
				y += b.wrapped(margin+4, y, contentWidth-10, "  Nota: "+note, 80) + 1.5
				b.font(StyleRegular, 9)
			}
		}
		y += 3
	}

	b.font(StyleBold, 10)
	b.text(margin, y, "Monto Total Abonado: $ "+locale.FormatAmount(tx.Total()), AlignLeft)
	y += 7

	b.font(StyleRegular, 10)
	method := tx.PaymentMethod
	if method == "" {
		method = types.PaymentCash
	}
	b.text(margin, y, "Forma de Pago: "+string(method), AlignLeft)
	y += 7

	if notes := strings.TrimSpace(tx.Notes); notes != "" {
		b.text(margin, y, "Notas Generales:", AlignLeft)
		y += 5
		b.font(StyleRegular, 9)
		band.NotesTop = y
		band.NotesHeight = b.wrapped(margin, y, contentWidth, notes, 0)
		y += band.NotesHeight + 2
		b.font(StyleRegular, 10)
	}

	band.CursorY = y

	// Signature lines, anchored to the band bottom.
	sigY := sectionTop + sectionHeight - margin - 10
	band.SignatureY = sigY
	band.Overflow = y > sigY

	b.font(StyleRegular, 10)
	b.line(margin, sigY, pageWidth-margin-50, sigY)
	b.text(margin, sigY+5, "Firma Aclaración", AlignLeft)
	b.line(pageWidth-margin-45, sigY, pageWidth-margin, sigY)
	b.text(pageWidth-margin-45+10, sigY+5, "Sello", AlignLeft)

	return band
}

// =============================================================================
// WORD WRAPPING
// =============================================================================

// WrapText breaks text into lines no wider than width, as measured by
// measure. Explicit newlines are kept. Words wider than a line are split
// between characters.
func WrapText(text string, width float64, measure func(string) float64) []string {
	var lines []string
	for _, paragraph := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if measure(candidate) <= width {
				current = candidate
				continue
			}
			if current != "" {
				lines = append(lines, current)
			}
			// Split words that do not fit on a line of their own.
			current = ""
			for _, r := range word {
				next := current + string(r)
				if current != "" && measure(next) > width {
					lines = append(lines, current)
					next = string(r)
				}
				current = next
			}
		}
		lines = append(lines, current)
	}
	return lines
}
