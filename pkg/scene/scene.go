// Package scene defines the playable audio backdrops, their track catalog and
// the resolver that turns narrative signals into a scene.
package scene

import (
	"errors"
	"fmt"
	"strings"
)

// Scene is a named audio backdrop.
type Scene uint8

const (
	MainMenu Scene = iota
	Menu
	CharacterCreation
	Campfire
	Cave
	City
	Combat
	Lake
	Mountains
	OpenField
	Ruins
	Sea
	Woods

	sceneCount
)

// ErrUnknownScene is returned by Parse for names that are not scenes.
var ErrUnknownScene = errors.New("scene: unknown scene")

var sceneNames = [sceneCount]string{
	MainMenu:          "main_menu",
	Menu:              "menu",
	CharacterCreation: "character_creation",
	Campfire:          "campfire",
	Cave:              "cave",
	City:              "city",
	Combat:            "combat",
	Lake:              "lake",
	Mountains:         "mountains",
	OpenField:         "open_field",
	Ruins:             "ruins",
	Sea:               "sea",
	Woods:             "woods",
}

// All returns every scene in declaration order.
func All() []Scene {
	out := make([]Scene, 0, sceneCount)
	for s := Scene(0); s < sceneCount; s++ {
		out = append(out, s)
	}
	return out
}

// Valid reports whether s is a declared scene.
func (s Scene) Valid() bool {
	return s < sceneCount
}

func (s Scene) String() string {
	if !s.Valid() {
		return fmt.Sprintf("scene(%d)", uint8(s))
	}
	return sceneNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Scene) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownScene, uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scene) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Parse parses a scene name. Matching ignores case, and dashes, spaces and
// underscores are interchangeable ("Main Menu", "main-menu", "MainMenu").
func Parse(name string) (Scene, error) {
	key := canonicalName(name)
	for s, n := range sceneNames {
		if canonicalName(n) == key {
			return Scene(s), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

func canonicalName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
