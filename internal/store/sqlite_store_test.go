package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorePersistsToFile(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "prefs.db")

	s, err := NewSQLiteStoreWithDSN(dsn)
	require.NoError(t, err)
	require.NoError(t, s.WriteAudioPrefs(AudioPrefs{MusicVolume: 0.6, SFXVolume: 0.3, Enabled: true, UpdatedAt: 7}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStoreWithDSN(dsn)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.ReadAudioPrefs()
	require.NoError(t, err)
	assert.Equal(t, AudioPrefs{MusicVolume: 0.6, SFXVolume: 0.3, Enabled: true, UpdatedAt: 7}, got)
}

func TestSQLiteStoreProfilesAreIndependent(t *testing.T) {
	s, err := NewSQLiteStore()
	require.NoError(t, err)
	defer s.Close()

	guest := s.WithProfile("guest")
	defer guest.Close()
	require.NoError(t, s.WriteAudioPrefs(AudioPrefs{MusicVolume: 0.9, Enabled: true}))

	_, err = guest.ReadAudioPrefs()
	assert.ErrorIs(t, err, ErrNoPrefs)

	require.NoError(t, guest.WriteAudioPrefs(AudioPrefs{MusicVolume: 0.1}))
	got, err := s.ReadAudioPrefs()
	require.NoError(t, err)
	assert.Equal(t, 0.9, got.MusicVolume)
}

func TestSQLiteStoreProfileViewCloseKeepsSharedDatabase(t *testing.T) {
	s, err := NewSQLiteStore()
	require.NoError(t, err)
	defer s.Close()

	guest := s.WithProfile("guest")
	require.NoError(t, guest.WriteAudioPrefs(AudioPrefs{MusicVolume: 0.2}))
	require.NoError(t, guest.Close())
	require.NoError(t, guest.Close())

	_, err = guest.ReadAudioPrefs()
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, guest.WriteAudioPrefs(AudioPrefs{}), ErrStoreClosed)

	// the owner still works and sees the view's row
	require.NoError(t, s.WriteAudioPrefs(AudioPrefs{MusicVolume: 0.8}))
	again := s.WithProfile("guest")
	defer again.Close()
	got, err := again.ReadAudioPrefs()
	require.NoError(t, err)
	assert.Equal(t, 0.2, got.MusicVolume)
}

func TestSQLiteStoreClosesDatabaseWithLastHandle(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "prefs.db")
	s, err := NewSQLiteStoreWithDSN(dsn)
	require.NoError(t, err)
	view := s.WithProfile("player1")

	require.NoError(t, s.Close())
	require.NoError(t, view.WriteAudioPrefs(AudioPrefs{MusicVolume: 0.4, Enabled: true}))
	require.NoError(t, view.Close())
	assert.Zero(t, s.conn.refs)

	reopened, err := NewSQLiteStoreWithDSN(dsn)
	require.NoError(t, err)
	defer reopened.Close()
	player := reopened.WithProfile("player1")
	defer player.Close()
	got, err := player.ReadAudioPrefs()
	require.NoError(t, err)
	assert.Equal(t, 0.4, got.MusicVolume)
}
