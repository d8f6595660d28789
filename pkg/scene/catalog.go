package scene

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteCatalog is returned when a catalog would leave a scene without a track.
var ErrIncompleteCatalog = errors.New("scene: catalog is missing tracks")

// Catalog is the total, immutable Scene → track mapping.
type Catalog struct {
	tracks [sceneCount]string
}

var defaultTracks = [sceneCount]string{
	MainMenu:          "music/main_menu.mp3",
	Menu:              "music/menu.mp3",
	CharacterCreation: "music/character_creation.mp3",
	Campfire:          "music/campfire.mp3",
	Cave:              "music/cave.mp3",
	City:              "music/city.mp3",
	Combat:            "music/combat.mp3",
	Lake:              "music/lake.mp3",
	Mountains:         "music/mountains.mp3",
	OpenField:         "music/open_field.mp3",
	Ruins:             "music/ruins.mp3",
	Sea:               "music/sea.mp3",
	Woods:             "music/woods.mp3",
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	return &Catalog{tracks: defaultTracks}
}

// NewCatalog builds a catalog that must name a track for every scene.
func NewCatalog(tracks map[Scene]string) (*Catalog, error) {
	c := &Catalog{}
	for s, track := range tracks {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownScene, uint8(s))
		}
		c.tracks[s] = strings.TrimSpace(track)
	}

	var missing []string
	for s, track := range c.tracks {
		if track == "" {
			missing = append(missing, Scene(s).String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncompleteCatalog, strings.Join(missing, ", "))
	}
	return c, nil
}

// With returns a new catalog with the given scenes overridden. Blank tracks
// keep the existing entry.
func (c *Catalog) With(overrides map[Scene]string) (*Catalog, error) {
	tracks := make(map[Scene]string, sceneCount)
	for s, track := range c.tracks {
		tracks[Scene(s)] = track
	}
	for s, track := range overrides {
		if strings.TrimSpace(track) == "" {
			continue
		}
		tracks[s] = track
	}
	return NewCatalog(tracks)
}

// Track returns the track identifier for s. Invalid scenes yield "".
func (c *Catalog) Track(s Scene) string {
	if !s.Valid() {
		return ""
	}
	return c.tracks[s]
}

// Tracks returns a copy of the mapping.
func (c *Catalog) Tracks() map[Scene]string {
	out := make(map[Scene]string, sceneCount)
	for s, track := range c.tracks {
		out[Scene(s)] = track
	}
	return out
}
