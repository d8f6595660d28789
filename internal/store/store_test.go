package store

import (
	"testing"
	"time"

	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Store Factory for Testing Every Implementation
// =============================================================================

type storeFactory func() (SettingsStore, error)

func memStoreFactory() (SettingsStore, error) {
	return NewMemStore(), nil
}

func sqliteStoreFactory() (SettingsStore, error) {
	return NewSQLiteStore()
}

func fsStoreFactory() (SettingsStore, error) {
	fs, err := mem.NewFS()
	if err != nil {
		return nil, err
	}
	return NewFSStore(fs, "scenekitt/audio_prefs.json")
}

// runTestsForAllStores runs a test function against every store implementation.
func runTestsForAllStores(t *testing.T, testName string, testFn func(t *testing.T, store SettingsStore)) {
	factories := map[string]storeFactory{
		"MemStore":    memStoreFactory,
		"SQLiteStore": sqliteStoreFactory,
		"FSStore":     fsStoreFactory,
	}

	for name, factory := range factories {
		t.Run(name+"/"+testName, func(t *testing.T) {
			store, err := factory()
			require.NoError(t, err, "Failed to create store")
			defer store.Close()
			testFn(t, store)
		})
	}
}

func TestReadBeforeWrite(t *testing.T) {
	runTestsForAllStores(t, "ReadBeforeWrite", func(t *testing.T, store SettingsStore) {
		_, err := store.ReadAudioPrefs()
		assert.ErrorIs(t, err, ErrNoPrefs)
	})
}

func TestWriteAndRead(t *testing.T) {
	runTestsForAllStores(t, "WriteAndRead", func(t *testing.T, store SettingsStore) {
		want := AudioPrefs{
			MusicVolume: 0.35,
			SFXVolume:   0.9,
			Enabled:     false,
			UpdatedAt:   time.Now().UnixMilli(),
		}
		require.NoError(t, store.WriteAudioPrefs(want))

		got, err := store.ReadAudioPrefs()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestOverwrite(t *testing.T) {
	runTestsForAllStores(t, "Overwrite", func(t *testing.T, store SettingsStore) {
		require.NoError(t, store.WriteAudioPrefs(AudioPrefs{MusicVolume: 0.1, SFXVolume: 0.2, Enabled: true}))
		require.NoError(t, store.WriteAudioPrefs(AudioPrefs{MusicVolume: 0.8, SFXVolume: 0.4, Enabled: false, UpdatedAt: 42}))

		got, err := store.ReadAudioPrefs()
		require.NoError(t, err)
		assert.Equal(t, 0.8, got.MusicVolume)
		assert.Equal(t, 0.4, got.SFXVolume)
		assert.False(t, got.Enabled)
		assert.Equal(t, int64(42), got.UpdatedAt)
	})
}

func TestWriteClampsVolumes(t *testing.T) {
	runTestsForAllStores(t, "WriteClampsVolumes", func(t *testing.T, store SettingsStore) {
		require.NoError(t, store.WriteAudioPrefs(AudioPrefs{MusicVolume: 3, SFXVolume: -1, Enabled: true}))

		got, err := store.ReadAudioPrefs()
		require.NoError(t, err)
		assert.Equal(t, 1.0, got.MusicVolume)
		assert.Equal(t, 0.0, got.SFXVolume)
	})
}

func TestLoadOrDefault(t *testing.T) {
	runTestsForAllStores(t, "LoadOrDefault", func(t *testing.T, store SettingsStore) {
		got, err := LoadOrDefault(store)
		require.NoError(t, err)
		assert.Equal(t, DefaultAudioPrefs(), got)

		require.NoError(t, store.WriteAudioPrefs(AudioPrefs{MusicVolume: 0.25, SFXVolume: 0.5}))
		got, err = LoadOrDefault(store)
		require.NoError(t, err)
		assert.Equal(t, 0.25, got.MusicVolume)
		assert.False(t, got.Enabled)
	})
}
