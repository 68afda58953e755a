package records

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/workshop-receipts/internal/schema"
	"github.com/ginjaninja78/workshop-receipts/internal/types"
	"github.com/ginjaninja78/workshop-receipts/internal/xlsxparser"
)

func TestDecodeWorkshopsDefaults(t *testing.T) {
	grid := [][]string{
		{"id_taller", "nombre_taller", "detalles_taller", "aranceles_taller"},
		{"001", "Pintura", "Martes", "$5000"},
		{"", "Cerámica", "", ""},
		{"003", "", "", ""},
		{"", "", "solo detalles", ""},
	}

	ws, report, err := DecodeWorkshops(grid)
	if err != nil {
		t.Fatalf("DecodeWorkshops: %v", err)
	}
	if len(ws) != 3 {
		t.Fatalf("got %d workshops, want 3", len(ws))
	}
	if report.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", report.Dropped)
	}
	if !strings.HasPrefix(ws[1].ID, "taller_") {
		t.Errorf("generated id = %q, want taller_ prefix", ws[1].ID)
	}
	if ws[2].Name != UnnamedWorkshop {
		t.Errorf("placeholder name = %q", ws[2].Name)
	}
}

func TestDecodeRosterFirstOccurrenceWins(t *testing.T) {
	grid := [][]string{
		{"id_taller", "nombre_alumno", "tags_alumno"},
		{"W1", "Ana", "x"},
		{"W1", "Ana", "y"},
		{"W1", "", "z"},
		{"W2", "Ana", "a, b,,a"},
	}

	roster, report, err := DecodeRoster(grid)
	if err != nil {
		t.Fatalf("DecodeRoster: %v", err)
	}
	if report.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", report.Dropped)
	}

	w1 := roster.Students("W1")
	want := []types.StudentRecord{{Name: "Ana", Tags: []string{"x"}}}
	if !reflect.DeepEqual(w1, want) {
		t.Errorf("W1 = %+v, want %+v", w1, want)
	}

	w2, ok := roster.Student("W2", "Ana")
	if !ok || !reflect.DeepEqual(w2.Tags, []string{"a", "b"}) {
		t.Errorf("W2 Ana tags = %v, want [a b]", w2.Tags)
	}
}

func TestDecodeRosterLegacy(t *testing.T) {
	grid := [][]string{
		{"id_taller", "nombre_alumno"},
		{"W1", "Ana"},
	}

	roster, report, err := DecodeRoster(grid)
	if err != nil {
		t.Fatalf("DecodeRoster: %v", err)
	}
	if report.Warning == "" {
		t.Error("expected a legacy warning")
	}
	s, ok := roster.Student("W1", "Ana")
	if !ok || len(s.Tags) != 0 {
		t.Errorf("student = %+v, %v; want Ana with no tags", s, ok)
	}
}

func TestDecodePaymentLogAliases(t *testing.T) {
	grid := [][]string{
		{"paymentDate", "studentNames", "workshopName", "amountPaid", "paymentMonth", "receiptNumber", "notes"},
		{"2023-03-01", "Ana", "Pintura", "100", "Marzo", "RE-1", "ok"},
		{"2023-03-02", "", "Pintura", "100", "Marzo", "RE-2", ""},
	}

	entries, report, err := DecodePaymentLog(grid)
	if err != nil {
		t.Fatalf("DecodePaymentLog: %v", err)
	}
	if report.Dropped != 1 {
		t.Errorf("Dropped = %d, want 1", report.Dropped)
	}

	want := []types.PaymentLogEntry{{
		Date:          "2023-03-01",
		StudentNames:  "Ana",
		WorkshopName:  "Pintura",
		Amount:        "100",
		MonthDetail:   "Marzo",
		ReceiptNumber: "RE-1",
		Notes:         "ok",
	}}
	if !reflect.DeepEqual(entries, want) {
		t.Fatalf("entries = %+v, want %+v", entries, want)
	}
}

func TestDecodePaymentLogMissingColumns(t *testing.T) {
	_, _, err := DecodePaymentLog([][]string{{"fecha_pago", "numero_recibo"}})
	var missing *schema.MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *schema.MissingColumnsError", err)
	}
}

func TestWorkshopsRoundTrip(t *testing.T) {
	ws := types.Workshops{
		{ID: "001", Name: "Taller de Pintura", Details: "Martes 18hs", Fees: "$5000"},
		{ID: "002", Name: "Cerámica", Details: "", Fees: ""},
	}

	data, err := WorkshopsWorkbook(ws, "")
	if err != nil {
		t.Fatalf("WorkshopsWorkbook: %v", err)
	}
	grid, err := xlsxparser.Acquire().Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, _, err := DecodeWorkshops(grid)
	if err != nil {
		t.Fatalf("DecodeWorkshops: %v", err)
	}
	if !reflect.DeepEqual(got, ws) {
		t.Fatalf("round trip = %+v, want %+v", got, ws)
	}
}

func TestEncodeRosterOrder(t *testing.T) {
	r := types.NewRoster()
	r.Add("W2", types.StudentRecord{Name: "Luis"})
	r.Add("W1", types.StudentRecord{Name: "Ana", Tags: []string{"beca", "mañana"}})

	header, rows := EncodeRoster(r)
	if !reflect.DeepEqual(header, schema.Roster.Columns) {
		t.Errorf("header = %v", header)
	}
	want := [][]string{
		{"W2", "Luis", ""},
		{"W1", "Ana", "beca,mañana"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("rows = %q, want %q", rows, want)
	}
}

func TestEmptyWorkbookIsHeaderOnly(t *testing.T) {
	data, err := EmptyWorkbook(schema.PaymentLog, SheetPaymentLog)
	if err != nil {
		t.Fatalf("EmptyWorkbook: %v", err)
	}
	grid, err := xlsxparser.Acquire().Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	entries, _, err := DecodePaymentLog(grid)
	if err != nil || len(entries) != 0 {
		t.Fatalf("entries = %v, err = %v; want empty log", entries, err)
	}
}

func TestNewWorkshopID(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	a, b := NewWorkshopID(now), NewWorkshopID(now)
	if a == b {
		t.Fatalf("ids should differ: %s", a)
	}
	if !strings.HasPrefix(a, "taller_1700000000000_") {
		t.Fatalf("id = %q", a)
	}
}
