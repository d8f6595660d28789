package config

import (
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/kittclouds/scenekitt/pkg/scene"
	"github.com/kittclouds/scenekitt/pkg/transport"
)

// CatalogFile is the YAML layout of a track catalog:
//
//	tracks:
//	  cave: music/cave.ogg
//	sounds:
//	  - name: click
//	    primary: sfx/click.ogg
//	    fallback: sfx/click.mp3
type CatalogFile struct {
	Tracks map[string]string `yaml:"tracks"`
	Sounds []transport.Sound `yaml:"sounds"`
}

// Catalogs is a parsed catalog file.
type Catalogs struct {
	Scenes *scene.Catalog
	Sounds *transport.SoundBank
}

// DefaultCatalogs returns the built-in scene and sound catalogs.
func DefaultCatalogs() Catalogs {
	return Catalogs{Scenes: scene.DefaultCatalog(), Sounds: transport.DefaultSoundBank()}
}

// ParseCatalog decodes a catalog file. Scenes and sounds it does not name
// keep their defaults, so the result is always total.
func ParseCatalog(data []byte) (Catalogs, error) {
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Catalogs{}, fmt.Errorf("catalog: %w", err)
	}

	overrides := make(map[scene.Scene]string, len(file.Tracks))
	for name, track := range file.Tracks {
		s, err := scene.Parse(name)
		if err != nil {
			return Catalogs{}, fmt.Errorf("catalog: tracks: %w", err)
		}
		overrides[s] = track
	}
	scenes, err := scene.DefaultCatalog().With(overrides)
	if err != nil {
		return Catalogs{}, fmt.Errorf("catalog: %w", err)
	}

	sounds := append(transport.DefaultSoundBank().Sounds(), file.Sounds...)
	bank, err := transport.NewSoundBank(sounds)
	if err != nil {
		return Catalogs{}, fmt.Errorf("catalog: sounds: %w", err)
	}

	return Catalogs{Scenes: scenes, Sounds: bank}, nil
}

// LoadCatalog reads and parses name from fsys. An empty name yields the
// defaults.
func LoadCatalog(fsys fs.FS, name string) (Catalogs, error) {
	if name == "" {
		return DefaultCatalogs(), nil
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Catalogs{}, fmt.Errorf("catalog: %w", err)
	}
	return ParseCatalog(data)
}
