package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
)

// SQLiteStore is the SQLite-backed settings store.
// Thread-safe for concurrent host callbacks.
type SQLiteStore struct {
	conn    *sqliteConn
	profile string
	closed  bool // guarded by conn.mu
}

// sqliteConn is the database shared by a store and its profile views. The
// last handle to Close closes it.
type sqliteConn struct {
	mu   sync.RWMutex
	db   *sql.DB
	refs int
}

// DefaultProfile is the row used when no profile is given.
const DefaultProfile = "default"

const schema = `
CREATE TABLE IF NOT EXISTS audio_prefs (
    profile TEXT PRIMARY KEY,
    music_volume REAL NOT NULL,
    sfx_volume REAL NOT NULL,
    enabled INTEGER NOT NULL DEFAULT 1,
    updated_at INTEGER NOT NULL
);
`

// NewSQLiteStore creates a new in-memory SQLite store.
func NewSQLiteStore() (*SQLiteStore, error) {
	return NewSQLiteStoreWithDSN(":memory:")
}

// NewSQLiteStoreWithDSN creates a store with a specific data source name.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteStoreWithDSN(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// :memory: databases are per connection
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{conn: &sqliteConn{db: db, refs: 1}, profile: DefaultProfile}, nil
}

// WithProfile returns a view of the same database keyed by another profile.
// The view must be closed like the store; the database stays open until
// every handle is closed.
func (s *SQLiteStore) WithProfile(profile string) *SQLiteStore {
	if profile == "" {
		profile = DefaultProfile
	}
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()
	s.conn.refs++
	return &SQLiteStore{conn: s.conn, profile: profile}
}

// Close releases this handle, closing the database with the last one.
func (s *SQLiteStore) Close() error {
	c := s.conn
	c.mu.Lock()
	defer c.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	c.refs--
	if c.refs > 0 {
		return nil
	}
	return c.db.Close()
}

func (s *SQLiteStore) ReadAudioPrefs() (AudioPrefs, error) {
	s.conn.mu.RLock()
	defer s.conn.mu.RUnlock()
	if s.closed {
		return AudioPrefs{}, ErrStoreClosed
	}

	var (
		p       AudioPrefs
		enabled int
	)
	err := s.conn.db.QueryRow(`
		SELECT music_volume, sfx_volume, enabled, updated_at
		FROM audio_prefs WHERE profile = ?`, s.profile,
	).Scan(&p.MusicVolume, &p.SFXVolume, &enabled, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return AudioPrefs{}, ErrNoPrefs
	}
	if err != nil {
		return AudioPrefs{}, fmt.Errorf("failed to read audio prefs: %w", err)
	}
	p.Enabled = enabled != 0
	return p, nil
}

func (s *SQLiteStore) WriteAudioPrefs(p AudioPrefs) error {
	s.conn.mu.Lock()
	defer s.conn.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	p = p.Clamped()
	_, err := s.conn.db.Exec(`
		INSERT INTO audio_prefs (profile, music_volume, sfx_volume, enabled, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(profile) DO UPDATE SET
			music_volume = excluded.music_volume,
			sfx_volume = excluded.sfx_volume,
			enabled = excluded.enabled,
			updated_at = excluded.updated_at`,
		s.profile, p.MusicVolume, p.SFXVolume, boolToInt(p.Enabled), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write audio prefs: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
