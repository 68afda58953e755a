package schema

import (
	"errors"
	"reflect"
	"testing"
)

func TestReconcileIgnoresCaseAndOrder(t *testing.T) {
	grid := [][]string{
		{"Nombre_Taller", "ARANCELES_TALLER", "id_taller", "detalles_taller"},
		{"Pintura", "$5000", "001", "Martes 18hs"},
	}

	table, err := Reconcile(grid, Workshops)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if table.Variant != nil {
		t.Fatalf("unexpected legacy variant %q", table.Variant.Name)
	}
	if len(table.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(table.Records))
	}

	rec := table.Records[0]
	want := map[string]string{
		"id_taller":        "001",
		"nombre_taller":    "Pintura",
		"detalles_taller":  "Martes 18hs",
		"aranceles_taller": "$5000",
	}
	for col, v := range want {
		if got := rec.String(col); got != v {
			t.Errorf("%s = %q, want %q", col, got, v)
		}
	}
}

func TestReconcileMissingColumns(t *testing.T) {
	grid := [][]string{{"id_taller", "nombre_taller"}}

	_, err := Reconcile(grid, Workshops)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingColumnsError", err)
	}
	if want := []string{"detalles_taller", "aranceles_taller"}; !reflect.DeepEqual(missing.Missing, want) {
		t.Errorf("Missing = %v, want %v", missing.Missing, want)
	}
	if want := []string{"id_taller", "nombre_taller"}; !reflect.DeepEqual(missing.Found, want) {
		t.Errorf("Found = %v, want %v", missing.Found, want)
	}
}

func TestReconcileLegacyPaymentLog(t *testing.T) {
	grid := [][]string{
		{"paymentDate", "studentNames", "workshopName", "amountPaid", "paymentMonth", "receiptNumber", "notes"},
		{"2023-03-01", "Ana", "Pintura", "100", "Marzo", "RE-1", "ok"},
	}

	table, err := Reconcile(grid, PaymentLog)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if table.Variant != &LegacyPaymentLog {
		t.Fatalf("Variant = %v, want legacy payment log", table.Variant)
	}
	if table.Warning() == "" {
		t.Error("expected a downgrade warning")
	}

	rec := table.Records[0]
	for _, col := range PaymentLog.Columns {
		if _, ok := rec.Value(col); ok {
			t.Errorf("column %s should be absent", col)
		}
	}
	if got := rec.First("detalle_meses_pagados", "paymentMonth"); got != "Marzo" {
		t.Errorf("alias lookup = %q, want Marzo", got)
	}
}

func TestReconcilePaymentLogWithoutMarkerIsRejected(t *testing.T) {
	grid := [][]string{{"paymentDate", "studentNames"}}

	_, err := Reconcile(grid, PaymentLog)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingColumnsError", err)
	}
}

func TestReconcileLegacyRoster(t *testing.T) {
	tests := []struct {
		name    string
		header  []string
		wantErr bool
	}{
		{"tags missing", []string{"id_taller", "nombre_alumno"}, false},
		{"id also missing", []string{"nombre_alumno"}, true},
		{"complete", []string{"id_taller", "nombre_alumno", "tags_alumno"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grid := [][]string{tt.header, {"001", "Ana"}}
			table, err := Reconcile(grid, Roster)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if _, ok := table.Records[0].Value("tags_alumno"); ok == (len(tt.header) == 2) {
				t.Errorf("tags_alumno presence does not match header")
			}

			fields := table.Records[0].Fields()
			if len(fields) != 3 {
				t.Fatalf("Fields() has %d columns, want 3", len(fields))
			}
			if tags, exists := fields["tags_alumno"]; !exists || (tags == nil) != (len(tt.header) == 2) {
				t.Errorf("Fields()[tags_alumno] = %v, exists %v", tags, exists)
			}
			if name := fields["nombre_alumno"]; name == nil || *name != "Ana" {
				t.Errorf("Fields()[nombre_alumno] = %v", name)
			}

			delete(fields, "nombre_alumno")
			if table.Records[0].String("nombre_alumno") != "Ana" {
				t.Error("Fields() must return a copy")
			}
		})
	}
}

func TestReconcileSkipsEmptyRows(t *testing.T) {
	grid := [][]string{
		{"id_taller", "nombre_alumno", "tags_alumno"},
		{"", " ", ""},
		{"001", "Ana"},
		{},
	}

	table, err := Reconcile(grid, Roster)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(table.Records) != 1 {
		t.Fatalf("got %d records, want 1", len(table.Records))
	}
	rec := table.Records[0]
	if rec.Row != 3 {
		t.Errorf("Row = %d, want 3", rec.Row)
	}
	if v, ok := rec.Value("tags_alumno"); !ok || v != "" {
		t.Errorf("short row tags = %q, %v; want empty and present", v, ok)
	}
}

func TestReconcileEmptyGrid(t *testing.T) {
	table, err := Reconcile(nil, Workshops)
	if err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if len(table.Records) != 0 {
		t.Fatalf("got %d records, want 0", len(table.Records))
	}
}
