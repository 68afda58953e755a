package logostore

import (
	"context"
	"sync"
)

// LogoSlot is the single letterhead value kept in the settings store.
type LogoSlot struct {
	store *Store
	key   string
}

// NewLogoSlot returns the letterhead slot of a store.
func NewLogoSlot(store *Store) *LogoSlot {
	return &LogoSlot{store: store, key: LogoKey}
}

// Load returns the stored data URL, or "" when none is stored.
func (s *LogoSlot) Load(ctx context.Context) (string, error) {
	v, _, err := s.store.Get(ctx, s.key)
	return v, err
}

// Save stores a data URL.
func (s *LogoSlot) Save(ctx context.Context, dataURL string) error {
	return s.store.Set(ctx, s.key, dataURL)
}

// Clear removes the stored logo.
func (s *LogoSlot) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, s.key)
}

// MemorySlot keeps the letterhead in memory for the lifetime of the process.
// It is used when no settings database is available.
type MemorySlot struct {
	mu    sync.Mutex
	value string
}

// Load implements the slot interface.
func (s *MemorySlot) Load(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, nil
}

// Save implements the slot interface.
func (s *MemorySlot) Save(_ context.Context, dataURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = dataURL
	return nil
}

// Clear implements the slot interface.
func (s *MemorySlot) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	return nil
}
