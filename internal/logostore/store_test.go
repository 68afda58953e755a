package logostore

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "settings", "recibos.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreGetSetDelete(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, ok, err := store.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) = ok %v, err %v", ok, err)
	}

	if err := store.Set(ctx, "k", "one"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, "k", "two"); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	v, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || v != "two" {
		t.Fatalf("Get = %q, %v, %v; want two", v, ok, err)
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatal("key still present after Delete")
	}
}

func TestReopenKeepsValues(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recibos.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	slot := NewLogoSlot(store)
	if err := slot.Save(ctx, "data:image/png;base64,AAAA"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()

	got, err := NewLogoSlot(store).Load(ctx)
	if err != nil || got != "data:image/png;base64,AAAA" {
		t.Fatalf("Load after reopen = %q, %v", got, err)
	}
}

func TestSlots(t *testing.T) {
	ctx := context.Background()
	slots := map[string]interface {
		Load(context.Context) (string, error)
		Save(context.Context, string) error
		Clear(context.Context) error
	}{
		"sqlite": NewLogoSlot(openTestStore(t)),
		"memory": &MemorySlot{},
	}

	for name, slot := range slots {
		t.Run(name, func(t *testing.T) {
			if v, err := slot.Load(ctx); err != nil || v != "" {
				t.Fatalf("empty Load = %q, %v", v, err)
			}
			if err := slot.Save(ctx, "x"); err != nil {
				t.Fatalf("Save: %v", err)
			}
			if v, _ := slot.Load(ctx); v != "x" {
				t.Fatalf("Load = %q, want x", v)
			}
			if err := slot.Clear(ctx); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			if v, _ := slot.Load(ctx); v != "" {
				t.Fatalf("Load after Clear = %q", v)
			}
		})
	}
}
