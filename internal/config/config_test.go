package config

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittclouds/scenekitt/pkg/scene"
)

type envTestConfig struct {
	Port int `env:"SCENEKITT_TEST_PORT" envDefault:"123"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig
	require.NoError(t, ParseEnv(&cfg))
	assert.Equal(t, 123, cfg.Port)
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("SCENEKITT_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "assets", cfg.TrackDir)
	assert.Equal(t, 44100, cfg.SampleRate)

	opts := cfg.TransportOptions()
	assert.Equal(t, 500*time.Millisecond, opts.FadeDuration)
	assert.Equal(t, 50*time.Millisecond, opts.FadeStep)
	assert.Equal(t, 200*time.Millisecond, opts.DebounceWindow)
	assert.Equal(t, 50*time.Millisecond, opts.BusyWait)
	assert.Equal(t, 5*time.Second, opts.LoadTimeout)
	assert.Equal(t, 10*time.Second, opts.OneShotMaxLifetime)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SCENEKITT_FADE_DURATION", "1s")
	t.Setenv("SCENEKITT_LOG_LEVEL", "debug")
	t.Setenv("SCENEKITT_CATALOG_FILE", "catalog.yaml")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, time.Second, cfg.TransportOptions().FadeDuration)
	assert.Equal(t, "debug", cfg.Logger().Level)
	assert.Equal(t, "catalog.yaml", cfg.CatalogFile)
}

func TestLoadRejectsSampleRate(t *testing.T) {
	t.Setenv("SCENEKITT_SAMPLE_RATE", "0")
	_, err := Load()
	assert.Error(t, err)
}

const catalogYAML = `
tracks:
  cave: music/dripping_cave.ogg
  open-field: music/meadow.ogg
sounds:
  - name: dice
    primary: sfx/dice.wav
  - name: click
    primary: sfx/click2.wav
    fallback: sfx/click2.mp3
`

func TestParseCatalogOverridesDefaults(t *testing.T) {
	c, err := ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	assert.Equal(t, "music/dripping_cave.ogg", c.Scenes.Track(scene.Cave))
	assert.Equal(t, "music/meadow.ogg", c.Scenes.Track(scene.OpenField))
	assert.Equal(t, scene.DefaultCatalog().Track(scene.City), c.Scenes.Track(scene.City))

	dice, ok := c.Sounds.Lookup("dice")
	require.True(t, ok)
	assert.Equal(t, "sfx/dice.wav", dice.Primary)

	click, ok := c.Sounds.Lookup("click")
	require.True(t, ok)
	assert.Equal(t, "sfx/click2.wav", click.Primary)

	_, ok = c.Sounds.Lookup("hover")
	assert.True(t, ok)
}

func TestParseCatalogErrors(t *testing.T) {
	_, err := ParseCatalog([]byte("tracks:\n  dungeon: music/dungeon.ogg\n"))
	assert.ErrorIs(t, err, scene.ErrUnknownScene)

	_, err = ParseCatalog([]byte("sounds:\n  - name: gong\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("tracks: [not, a, map]"))
	assert.Error(t, err)
}

func TestLoadCatalog(t *testing.T) {
	fsys := fstest.MapFS{"catalog.yaml": {Data: []byte(catalogYAML)}}

	c, err := LoadCatalog(fsys, "catalog.yaml")
	require.NoError(t, err)
	assert.Equal(t, "music/dripping_cave.ogg", c.Scenes.Track(scene.Cave))

	c, err = LoadCatalog(fsys, "")
	require.NoError(t, err)
	assert.Equal(t, scene.DefaultCatalog().Tracks(), c.Scenes.Tracks())

	_, err = LoadCatalog(fsys, "missing.yaml")
	assert.Error(t, err)
}

func TestWatchFileReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(catalogYAML), 0o644))

	w, err := WatchFile(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("tracks: {}\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, path, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for catalog write")
	}
}
