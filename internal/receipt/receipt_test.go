package receipt

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/workshop-receipts/internal/types"
)

// linesMeasurer wraps every text into a fixed number of lines.
type linesMeasurer struct{ lines int }

func (m linesMeasurer) SetFont(string, float64) {}

func (m linesMeasurer) SplitText(text string, _ float64) []string {
	out := make([]string, m.lines)
	for i := range out {
		out[i] = text
	}
	return out
}

var testWorkshops = types.Workshops{{ID: "W1", Name: "Taller de Pintura"}}

func testTransaction() types.ReceiptTransaction {
	return types.ReceiptTransaction{
		WorkshopID:    "W1",
		PayerName:     "Laura Gómez",
		Students:      []string{"García, María"},
		PaymentMethod: types.PaymentTransfer,
		Date:          time.Date(2024, time.March, 15, 10, 30, 0, 0, time.UTC),
		ReceiptNumber: "RE-12345678",
		Lines: []types.MonthlyPaymentLine{
			{Month: "2024-03", Amount: "100"},
			{Month: "2024-04", Amount: "50.5", Note: "pago adelantado"},
		},
	}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.Black)
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	return buf.Bytes()
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestWrappedNotesPushContentDown(t *testing.T) {
	tx := testTransaction()
	plain := Layout(linesMeasurer{lines: 1}, tx, testWorkshops[0], DefaultOptions()).Bands[0]

	tx.Notes = "una nota larga que ocupa varias líneas"
	band := Layout(linesMeasurer{lines: 5}, tx, testWorkshops[0], DefaultOptions()).Bands[0]

	if !approx(band.SignatureY, plain.SignatureY) {
		t.Fatalf("signature moved: %v vs %v", band.SignatureY, plain.SignatureY)
	}
	if want := TextHeight(5, 9); !approx(band.NotesHeight, want) {
		t.Fatalf("NotesHeight = %v, want %v", band.NotesHeight, want)
	}
	if band.CursorY < band.NotesTop+band.NotesHeight {
		t.Fatalf("cursor %v is inside the notes block ending at %v", band.CursorY, band.NotesTop+band.NotesHeight)
	}
}

func TestItemNotesAdvanceCursor(t *testing.T) {
	tx := testTransaction()
	one := Layout(linesMeasurer{lines: 1}, tx, testWorkshops[0], DefaultOptions()).Bands[0]
	three := Layout(linesMeasurer{lines: 3}, tx, testWorkshops[0], DefaultOptions()).Bands[0]

	if got, want := three.CursorY-one.CursorY, TextHeight(2, 8); !approx(got, want) {
		t.Fatalf("cursor moved %v, want %v", got, want)
	}
}

func TestContentStaysAboveCursor(t *testing.T) {
	tx := testTransaction()
	tx.Notes = "notas"
	band := Layout(linesMeasurer{lines: 1}, tx, testWorkshops[0], DefaultOptions()).Bands[0]

	for _, e := range band.Elements {
		if e.Kind != KindText || e.Y >= band.SignatureY {
			continue
		}
		if e.Bottom() >= band.CursorY {
			t.Errorf("element %q at %v reaches the cursor %v", e.Text, e.Bottom(), band.CursorY)
		}
	}
	if band.Overflow {
		t.Error("short receipt should not overflow")
	}
}

func TestOverflowIsReported(t *testing.T) {
	tx := testTransaction()
	tx.Notes = "muchas notas"
	band := Layout(linesMeasurer{lines: 40}, tx, testWorkshops[0], DefaultOptions()).Bands[0]
	if !band.Overflow {
		t.Fatal("expected overflow with 40 wrapped lines")
	}
}

func TestLayoutCopy(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeCopy = true
	page := Layout(linesMeasurer{lines: 1}, testTransaction(), testWorkshops[0], opts)

	if len(page.Bands) != 2 {
		t.Fatalf("got %d bands, want 2", len(page.Bands))
	}
	if page.Bands[0].Label != LabelOriginal || page.Bands[1].Label != LabelCopy {
		t.Fatalf("labels = %s, %s", page.Bands[0].Label, page.Bands[1].Label)
	}
	if !approx(page.Bands[1].Top-page.Bands[0].Top, 148.5) {
		t.Fatalf("band offset = %v", page.Bands[1].Top-page.Bands[0].Top)
	}
	if len(page.Cut) != 2 || page.Cut[1].Text != CutLabel {
		t.Fatalf("cut = %+v", page.Cut)
	}
	if !reflect.DeepEqual(page.Cut[0].Dash, []float64{2, 2}) {
		t.Fatalf("cut line dash = %v", page.Cut[0].Dash)
	}

	single := Layout(linesMeasurer{lines: 1}, testTransaction(), testWorkshops[0], DefaultOptions())
	if len(single.Bands) != 1 || len(single.Cut) != 0 {
		t.Fatal("single receipt should have one band and no cut line")
	}
}

func TestLogoPlacement(t *testing.T) {
	wide, err := DecodeLogo(pngBytes(t, 50, 20))
	if err != nil {
		t.Fatalf("DecodeLogo: %v", err)
	}
	tall, err := DecodeLogo(pngBytes(t, 10, 40))
	if err != nil {
		t.Fatalf("DecodeLogo: %v", err)
	}

	tests := []struct {
		name  string
		logo  *Logo
		state LogoState
		w, h  float64
	}{
		{"none", nil, LogoPlaceholder, 0, 0},
		{"broken", &Logo{Broken: errors.New("bad")}, LogoError, 0, 0},
		{"wide", wide, LogoImage, 25, 10},
		{"tall", tall, LogoImage, 3.75, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Logo = tt.logo
			band := Layout(linesMeasurer{lines: 1}, testTransaction(), testWorkshops[0], opts).Bands[0]
			if band.Logo != tt.state {
				t.Fatalf("Logo = %s, want %s", band.Logo, tt.state)
			}
			if tt.state != LogoImage {
				return
			}
			for _, e := range band.Elements {
				if e.Kind == KindImage {
					if !approx(e.W, tt.w) || !approx(e.H, tt.h) {
						t.Fatalf("image = %vx%v, want %vx%v", e.W, e.H, tt.w, tt.h)
					}
					return
				}
			}
			t.Fatal("no image element")
		})
	}
}

func TestComposeUnknownWorkshop(t *testing.T) {
	tx := testTransaction()
	tx.WorkshopID = "missing"
	if _, err := Compose(tx, testWorkshops, false, nil); !errors.Is(err, ErrWorkshopNotFound) {
		t.Fatalf("err = %v, want ErrWorkshopNotFound", err)
	}
}

func TestComposeWritesPDF(t *testing.T) {
	logo, err := DecodeLogo(pngBytes(t, 30, 30))
	if err != nil {
		t.Fatalf("DecodeLogo: %v", err)
	}
	tx := testTransaction()
	tx.Notes = "Abonó en efectivo la cuota de marzo y abril, con descuento por hermanos."

	doc, err := Compose(tx, testWorkshops, true, logo)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !bytes.HasPrefix(doc.Bytes, []byte("%PDF-")) {
		t.Fatalf("output is not a PDF: %q", doc.Bytes[:min(8, len(doc.Bytes))])
	}
	if doc.LogoError != nil {
		t.Fatalf("LogoError = %v", doc.LogoError)
	}
	if len(doc.Page.Bands) != 2 || doc.Page.Bands[0].Logo != LogoImage {
		t.Fatalf("unexpected page: %d bands, logo %s", len(doc.Page.Bands), doc.Page.Bands[0].Logo)
	}
}

func TestDataURL(t *testing.T) {
	logo, err := DecodeLogo(pngBytes(t, 4, 2))
	if err != nil {
		t.Fatalf("DecodeLogo: %v", err)
	}
	url := logo.DataURL()
	if !strings.HasPrefix(url, "data:image/png;base64,") {
		t.Fatalf("DataURL = %q", url[:30])
	}

	back, err := ParseDataURL(url)
	if err != nil {
		t.Fatalf("ParseDataURL: %v", err)
	}
	if back.Width != 4 || back.Height != 2 || back.Format != "PNG" {
		t.Fatalf("parsed logo = %+v", back)
	}

	if got := LogoFromDataURL("data:image/png;base64,@@@"); got == nil || got.Broken == nil {
		t.Fatal("an undecodable stored logo should be Broken")
	}
	if LogoFromDataURL("") != nil {
		t.Fatal("empty stored logo should be nil")
	}
}

func TestDecodeLogoRejects(t *testing.T) {
	var gifBuf bytes.Buffer
	if err := gif.Encode(&gifBuf, image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White}), nil); err != nil {
		t.Fatalf("gif.Encode: %v", err)
	}

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"text", []byte("hello")},
		{"gif", gifBuf.Bytes()},
		{"too large", append(pngBytes(t, 2, 2), make([]byte, MaxLogoBytes)...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeLogo(tt.data); !errors.Is(err, ErrInvalidLogo) {
				t.Fatalf("err = %v, want ErrInvalidLogo", err)
			}
		})
	}
}

func TestWrapText(t *testing.T) {
	width := func(s string) float64 { return float64(len([]rune(s))) }

	tests := []struct {
		text string
		max  float64
		want []string
	}{
		{"uno dos tres", 7, []string{"uno dos", "tres"}},
		{"abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"a\n\nb", 10, []string{"a", "", "b"}},
		{"corto", 50, []string{"corto"}},
	}

	for _, tt := range tests {
		if got := WrapText(tt.text, tt.max, width); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("WrapText(%q, %v) = %q, want %q", tt.text, tt.max, got, tt.want)
		}
	}
}
