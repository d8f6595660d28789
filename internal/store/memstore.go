package store

import "sync"

// MemStore is an in-memory SettingsStore for testing.
type MemStore struct {
	mu     sync.RWMutex
	prefs  AudioPrefs
	stored bool
	writes int
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

// Close is a no-op for MemStore.
func (s *MemStore) Close() error {
	return nil
}

func (s *MemStore) ReadAudioPrefs() (AudioPrefs, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.stored {
		return AudioPrefs{}, ErrNoPrefs
	}
	return s.prefs, nil
}

func (s *MemStore) WriteAudioPrefs(p AudioPrefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p.Clamped()
	s.stored = true
	s.writes++
	return nil
}

// Writes returns how many times prefs were written.
func (s *MemStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
