package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/hack-pad/hackpadfs"
)

// FSStore keeps prefs as a JSON file on any hackpadfs filesystem
// (mem in tests, IndexedDB in the browser, os on desktop).
type FSStore struct {
	FS   hackpadfs.FS
	Path string
	mu   sync.Mutex
}

// NewFSStore creates a store writing to p on fsys, creating parent
// directories as needed.
func NewFSStore(fsys hackpadfs.FS, p string) (*FSStore, error) {
	if dir := path.Dir(p); dir != "." {
		if err := hackpadfs.MkdirAll(fsys, dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create prefs dir: %w", err)
		}
	}
	return &FSStore{FS: fsys, Path: p}, nil
}

// Close is a no-op; the filesystem is owned by the caller.
func (s *FSStore) Close() error {
	return nil
}

func (s *FSStore) ReadAudioPrefs() (AudioPrefs, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := hackpadfs.ReadFile(s.FS, s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return AudioPrefs{}, ErrNoPrefs
	}
	if err != nil {
		return AudioPrefs{}, fmt.Errorf("failed to read prefs file: %w", err)
	}

	var p AudioPrefs
	if err := json.Unmarshal(content, &p); err != nil {
		return AudioPrefs{}, fmt.Errorf("failed to decode prefs: %w", err)
	}
	return p, nil
}

func (s *FSStore) WriteAudioPrefs(p AudioPrefs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(p.Clamped())
	if err != nil {
		return fmt.Errorf("failed to encode prefs: %w", err)
	}
	if err := hackpadfs.WriteFullFile(s.FS, s.Path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write prefs file: %w", err)
	}
	return nil
}
