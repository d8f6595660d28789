package scene

import (
	"encoding/json"
	"testing"

	"github.com/kittclouds/scenekitt/pkg/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIsTotal(t *testing.T) {
	c := DefaultCatalog()
	seen := make(map[string]Scene)
	for _, s := range All() {
		track := c.Track(s)
		require.NotEmpty(t, track, s.String())
		if prev, dup := seen[track]; dup {
			t.Errorf("scenes %s and %s share track %q", prev, s, track)
		}
		seen[track] = s
	}
	assert.Len(t, All(), 13)
}

func TestNewCatalogRequiresEveryScene(t *testing.T) {
	_, err := NewCatalog(map[Scene]string{Combat: "combat.ogg"})
	assert.ErrorIs(t, err, ErrIncompleteCatalog)

	_, err = NewCatalog(map[Scene]string{Scene(200): "x"})
	assert.ErrorIs(t, err, ErrUnknownScene)
}

func TestCatalogWithOverrides(t *testing.T) {
	base := DefaultCatalog()
	c, err := base.With(map[Scene]string{Combat: "custom/battle.ogg", Cave: "  "})
	require.NoError(t, err)

	assert.Equal(t, "custom/battle.ogg", c.Track(Combat))
	assert.Equal(t, base.Track(Cave), c.Track(Cave))
	assert.Equal(t, "music/combat.mp3", base.Track(Combat), "base catalog stays untouched")

	tracks := c.Tracks()
	tracks[Combat] = "mutated"
	assert.Equal(t, "custom/battle.ogg", c.Track(Combat))
}

func TestParse(t *testing.T) {
	tests := map[string]Scene{
		"combat":             Combat,
		"Main Menu":          MainMenu,
		"main-menu":          MainMenu,
		"CharacterCreation":  CharacterCreation,
		"open_field":         OpenField,
		" WOODS ":            Woods,
		"character_creation": CharacterCreation,
	}
	for in, want := range tests {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := Parse("dungeon")
	assert.ErrorIs(t, err, ErrUnknownScene)
}

func TestSceneTextRoundTrip(t *testing.T) {
	b, err := json.Marshal(map[string]Scene{"scene": Lake})
	require.NoError(t, err)
	assert.JSONEq(t, `{"scene":"lake"}`, string(b))

	var out map[string]Scene
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, Lake, out["scene"])
}

func TestResolveCombatTakesPriority(t *testing.T) {
	r := NewResolver(nil)
	got := r.Resolve(Signals{InCombat: true, RecentText: "Ich gehe zum See"})
	assert.Equal(t, Combat, got)
}

func TestResolveLocationKeywords(t *testing.T) {
	r := NewResolver(nil)
	tests := []struct {
		name string
		sig  Signals
		want Scene
	}{
		{"german cave", Signals{RecentText: "Wir erkunden die Höhle"}, Cave},
		{"table order across hint and text", Signals{LocationHint: "Stadt der Diebe", RecentText: "Wir erkunden die Höhle"}, Cave},
		{"text rule beats later hint rule", Signals{LocationHint: "wald", RecentText: "höhle"}, Cave},
		{"hint rule beats later text rule", Signals{LocationHint: "Höhle", RecentText: "im Wald"}, Cave},
		{"hint alone", Signals{LocationHint: "Stadt"}, City},
		{"lake", Signals{RecentText: "Ich gehe zum See"}, Lake},
		{"mountain", Signals{LocationHint: "Misty Mountains"}, Mountains},
		{"ruins", Signals{RecentText: "ancient ruins ahead"}, Ruins},
		{"meer", Signals{RecentText: "Das Meer rauscht"}, Sea},
		{"forest", Signals{RecentText: "into the FOREST"}, Woods},
		{"lagerfeuer", Signals{RecentText: "am Lagerfeuer"}, Campfire},
		{"plain", Signals{RecentText: "the plains stretch on"}, OpenField},
		{"table order beats text order", Signals{RecentText: "from the city to the cave"}, Cave},
		{"lake before sea", Signals{RecentText: "the sea is a big lake"}, Lake},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := r.ResolveDetailed(tc.sig)
			assert.Equal(t, tc.want, res.Scene)
			assert.Equal(t, ReasonLocation, res.Reason)
			assert.NotEmpty(t, res.Matched)
		})
	}
}

func TestResolveFallsBackToClassifier(t *testing.T) {
	r := NewResolver(nil)
	tests := []struct {
		text string
		want Scene
	}{
		{"Der Kampf beginnt, ein Feind greift an", Combat},
		{"Der Händler will verhandeln", City},
		{"Ein Rätsel mit einem Hebel", Ruins},
		{"Wir rasten und entspannen", Campfire},
		{"", Campfire},
		{"xyzzy", Campfire},
	}
	for _, tc := range tests {
		res := r.ResolveDetailed(Signals{RecentText: tc.text})
		assert.Equal(t, tc.want, res.Scene, tc.text)
		assert.Equal(t, ReasonClassifier, res.Reason, tc.text)
		require.NotNil(t, res.Classify)
	}
}

func TestSceneForCategoryIsTotal(t *testing.T) {
	for _, c := range lexicon.Categories {
		assert.True(t, SceneForCategory(c).Valid(), c.String())
	}
	assert.Equal(t, OpenField, SceneForCategory(lexicon.Exploration))
}
