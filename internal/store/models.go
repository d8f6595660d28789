// Package store persists the audio preferences of SceneKitt hosts.
package store

import (
	"errors"
	"math"
)

// ErrNoPrefs is returned by ReadAudioPrefs when nothing has been written yet.
var ErrNoPrefs = errors.New("store: no audio prefs stored")

// ErrStoreClosed is returned by a SQLiteStore handle after Close.
var ErrStoreClosed = errors.New("store: closed")

// AudioPrefs are the user's volume settings.
type AudioPrefs struct {
	MusicVolume float64 `json:"musicVolume"`
	SFXVolume   float64 `json:"sfxVolume"`
	Enabled     bool    `json:"enabled"`
	UpdatedAt   int64   `json:"updatedAt"`
}

// DefaultAudioPrefs are used when no prefs are stored.
func DefaultAudioPrefs() AudioPrefs {
	return AudioPrefs{MusicVolume: 0.5, SFXVolume: 0.7, Enabled: true}
}

// Clamped returns p with both volumes limited to [0,1].
func (p AudioPrefs) Clamped() AudioPrefs {
	p.MusicVolume = clampVolume(p.MusicVolume)
	p.SFXVolume = clampVolume(p.SFXVolume)
	return p
}

func clampVolume(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	return math.Min(v, 1)
}

// SettingsStore reads and writes AudioPrefs.
// MemStore (testing), SQLiteStore (desktop) and FSStore (browser) implement it.
type SettingsStore interface {
	// ReadAudioPrefs returns ErrNoPrefs when nothing is stored.
	ReadAudioPrefs() (AudioPrefs, error)
	WriteAudioPrefs(p AudioPrefs) error
	Close() error
}

// LoadOrDefault reads prefs from s, falling back to DefaultAudioPrefs when
// none are stored.
func LoadOrDefault(s SettingsStore) (AudioPrefs, error) {
	p, err := s.ReadAudioPrefs()
	if errors.Is(err, ErrNoPrefs) {
		return DefaultAudioPrefs(), nil
	}
	if err != nil {
		return DefaultAudioPrefs(), err
	}
	return p.Clamped(), nil
}
