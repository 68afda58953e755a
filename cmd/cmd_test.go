package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ginjaninja78/workshop-receipts/internal/session"
)

func TestParseMonthFlags(t *testing.T) {
	lines, err := parseMonthFlags([]string{"2024-03=1500", " 2024-04 = 50.5 : nota: con dos puntos"})
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0].Month != "2024-03" || lines[0].Amount != "1500" || lines[0].Note != "" {
		t.Errorf("line 1 = %+v", lines[0])
	}
	if lines[1].Month != "2024-04" || lines[1].Amount != "50.5" || lines[1].Note != "nota: con dos puntos" {
		t.Errorf("line 2 = %+v", lines[1])
	}
	if lines[0].ID == "" || lines[0].ID == lines[1].ID {
		t.Error("lines need distinct ids")
	}

	if _, err := parseMonthFlags([]string{"2024-03"}); err == nil {
		t.Error("a value without '=' should fail")
	}
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := printer{w: &buf}
	p.Notify(session.Notice{Kind: session.NoticeSuccess, Message: "ok"})
	p.Notify(session.Notice{Kind: session.NoticeInfo, Message: "info"})
	p.Notify(session.Notice{Kind: session.NoticeError, Message: "mal"})

	want := "  ✓ ok\n  • info\n  ✗ mal\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs(args)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("recibos %s: %v\n%s", strings.Join(args, " "), err, buf.String())
	}
	return buf.String()
}

func TestCommandFlow(t *testing.T) {
	for _, key := range []string{"RECIBOS_WORK_FOLDER", "RECIBOS_DOWNLOADS_DIR", "RECIBOS_SETTINGS_DB", "RECIBOS_LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "receipts.yaml")
	cfg := "downloads_dir: " + filepath.Join(dir, "Descargas") + "\n" +
		"settings_db: " + filepath.Join(dir, "data", "recibos.db") + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0644); err != nil {
		t.Fatal(err)
	}
	work := filepath.Join(dir, "Talleres")

	out := run(t, "folder", "init", "--config", cfgPath, "--folder", work)
	if !strings.Contains(out, "Creados:     3") {
		t.Fatalf("folder init output:\n%s", out)
	}

	run(t, "workshops", "add", "--config", cfgPath, "--folder", work, "--id", "W1", "--name", "Taller de Pintura")

	out = run(t, "issue", "--config", cfgPath, "--folder", work,
		"--workshop", "W1", "--payer", "Laura Gómez",
		"--students", "García, María",
		"--month", "2024-03=1500", "--month", "2024-04=1500:adelantado",
		"--method", "transfer", "--copy")
	if !strings.Contains(out, "Total:       $3.000,00") {
		t.Fatalf("issue output:\n%s", out)
	}
	if !strings.Contains(out, "Registro de pagos actualizado en: Talleres/registro_pagos.xlsx") {
		t.Fatalf("payment log not saved:\n%s", out)
	}

	out = run(t, "log", "show", "--config", cfgPath, "--folder", work)
	if !strings.Contains(out, "García, María") || !strings.Contains(out, "Abril de 2024 ($1.500,00) [Nota: adelantado]") {
		t.Fatalf("log show output:\n%s", out)
	}

	pdfs, _ := filepath.Glob(filepath.Join(work, "Recibos", "*", "*", "Pintura", "MAR-GARCIA_Pintura_*.pdf"))
	if len(pdfs) != 1 {
		t.Fatalf("found %d receipts in the folder", len(pdfs))
	}
}
