package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOpenFolder(t *testing.T) {
	if _, err := OpenFolder("  "); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("empty path: err = %v, want ErrNoSelection", err)
	}

	dir := filepath.Join(t.TempDir(), "Talleres")
	f, err := OpenFolder(dir)
	if err != nil {
		t.Fatalf("OpenFolder: %v", err)
	}
	if f.Name() != "Talleres" || f.Path() != dir {
		t.Fatalf("folder = %s (%s)", f.Name(), f.Path())
	}

	file := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFolder(file); err == nil {
		t.Fatal("opening a regular file should fail")
	}
}

func TestLocalFolderReadWrite(t *testing.T) {
	f, err := OpenFolder(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.ReadFile("talleres.xlsx"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("missing file: err = %v, want fs.ErrNotExist", err)
	}

	if err := f.WriteFile("talleres.xlsx", []byte("one")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := f.WriteFile("talleres.xlsx", []byte("two")); err != nil {
		t.Fatalf("WriteFile overwrite: %v", err)
	}
	got, err := f.ReadFile("talleres.xlsx")
	if err != nil || string(got) != "two" {
		t.Fatalf("ReadFile = %q, %v", got, err)
	}

	entries, _ := os.ReadDir(f.Path())
	if len(entries) != 1 {
		t.Fatalf("folder has %d entries, want only the written file", len(entries))
	}

	for _, bad := range []string{"", "..", "a/b", `a\b`} {
		if err := f.WriteFile(bad, nil); err == nil {
			t.Errorf("WriteFile(%q) should fail", bad)
		}
	}
}

func TestSaveInFolder(t *testing.T) {
	root, err := OpenFolder(filepath.Join(t.TempDir(), "Talleres"))
	if err != nil {
		t.Fatal(err)
	}

	display, err := SaveInFolder(root, []string{"Recibos", "2024", "Marzo", "Pintura"}, "r.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("SaveInFolder: %v", err)
	}
	if want := "Talleres/Recibos/2024/Marzo/Pintura/r.pdf"; display != want {
		t.Fatalf("display = %q, want %q", display, want)
	}

	data, err := os.ReadFile(filepath.Join(root.Path(), "Recibos", "2024", "Marzo", "Pintura", "r.pdf"))
	if err != nil || string(data) != "%PDF" {
		t.Fatalf("saved file = %q, %v", data, err)
	}
}

func TestDownloadNeverOverwrites(t *testing.T) {
	d := NewDownloadDir(filepath.Join(t.TempDir(), "Descargas"))

	want := []string{"recibo.pdf", "recibo (1).pdf", "recibo (2).pdf"}
	for i, name := range want {
		path, err := d.Download("recibo.pdf", []byte{byte(i)})
		if err != nil {
			t.Fatalf("Download #%d: %v", i, err)
		}
		if filepath.Base(path) != name {
			t.Fatalf("Download #%d wrote %s, want %s", i, filepath.Base(path), name)
		}
	}

	first, _ := os.ReadFile(filepath.Join(d.Dir, "recibo.pdf"))
	if len(first) != 1 || first[0] != 0 {
		t.Fatalf("first download was overwritten: %v", first)
	}
}

func TestSaveInFolderSkipsEmptySegments(t *testing.T) {
	root, err := OpenFolder(filepath.Join(t.TempDir(), "Talleres"))
	if err != nil {
		t.Fatal(err)
	}

	display, err := SaveInFolder(root, []string{"Recibos", "2024", "Marzo", ""}, "r.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatalf("SaveInFolder: %v", err)
	}
	if want := "Talleres/Recibos/2024/Marzo/r.pdf"; display != want {
		t.Fatalf("display = %q, want %q", display, want)
	}
	if !FileExists(filepath.Join(root.Path(), "Recibos", "2024", "Marzo", "r.pdf")) {
		t.Fatal("file not written in the last non-empty folder")
	}
}

func TestDownloadRemovesPartialFile(t *testing.T) {
	orig := writeDownload
	t.Cleanup(func() { writeDownload = orig })
	writeDownload = func(f *os.File, data []byte) (int, error) {
		n, _ := f.Write(data[:1])
		return n, errors.New("disco lleno")
	}

	d := NewDownloadDir(filepath.Join(t.TempDir(), "Descargas"))
	if _, err := d.Download("recibo.pdf", []byte("%PDF-1.3")); err == nil {
		t.Fatal("Download should fail when the write fails")
	}

	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Fatalf("partial download left behind: %v", entries)
	}
}
