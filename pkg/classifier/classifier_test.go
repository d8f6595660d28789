package classifier

import (
	"testing"

	"github.com/kittclouds/scenekitt/pkg/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEmptyAndUnknownText(t *testing.T) {
	c := New(nil)
	for _, text := range []string{"", "xyzzy nonword"} {
		res := c.Classify(text)
		assert.Equal(t, lexicon.Downtime, res.Dominant, text)
		assert.Zero(t, res.Sentiment, text)
		for _, cat := range lexicon.Categories {
			assert.Zero(t, res.Scores[cat], text)
		}
	}
}

func TestClassifyCombatScene(t *testing.T) {
	res := New(nil).Classify("Der Kampf beginnt, ein Feind greift an")
	assert.Equal(t, lexicon.Combat, res.Dominant)
	assert.Less(t, res.Sentiment, 0.0)
	assert.InDelta(t, 2.5, res.Scores[lexicon.Combat], 1e-9)
}

func TestClassifyRestScene(t *testing.T) {
	res := New(nil).Classify("Wir rasten am Lagerfeuer und entspannen")
	assert.Equal(t, lexicon.Downtime, res.Dominant)
	assert.Greater(t, res.Sentiment, 0.0)
}

func TestClassifyIsDeterministic(t *testing.T) {
	c := New(nil)
	texts := []string{
		"The merchant greets us in the tavern",
		"Ein Rätsel mit Hebel und Runen",
		"we explore the map and then fight an enemy",
		"",
	}
	for _, text := range texts {
		assert.Equal(t, c.Classify(text), c.Classify(text), text)
	}
}

func TestDominantTieBreak(t *testing.T) {
	tests := []struct {
		name   string
		scores map[lexicon.Category]float64
		want   lexicon.Category
	}{
		{"all zero", map[lexicon.Category]float64{}, lexicon.Downtime},
		{"combat and social tie", map[lexicon.Category]float64{lexicon.Combat: 1, lexicon.Social: 1}, lexicon.Combat},
		{"social and puzzle tie", map[lexicon.Category]float64{lexicon.Social: 0.5, lexicon.Puzzle: 0.5}, lexicon.Social},
		{"puzzle beats downtime tie", map[lexicon.Category]float64{lexicon.Puzzle: 2, lexicon.Downtime: 2}, lexicon.Puzzle},
		{"strict max", map[lexicon.Category]float64{lexicon.Combat: 1, lexicon.Exploration: 1.5}, lexicon.Exploration},
		{"downtime only", map[lexicon.Category]float64{lexicon.Downtime: 0.4}, lexicon.Downtime},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Dominant(tc.scores))
		})
	}
}

func TestClassifyWithCustomLexicon(t *testing.T) {
	lex, err := lexicon.New([]lexicon.Keyword{
		{Word: "lever", KeywordEntry: lexicon.KeywordEntry{Category: lexicon.Puzzle, Weight: 0.5}},
		{Word: "talk", KeywordEntry: lexicon.KeywordEntry{Category: lexicon.Social, Weight: 0.5}},
	})
	require.NoError(t, err)
	defer lex.Close()

	res := New(lex).Classify("talk about the lever")
	assert.Equal(t, lexicon.Social, res.Dominant, "tie goes to the earlier category")
}

func TestClassifyLinesUsesTrailingWindow(t *testing.T) {
	c := New(nil).WithHistoryWindow(2)
	lines := []string{
		"Kampf! Feind! Angriff!",
		"Wir rasten",
		"und entspannen am Lagerfeuer",
	}
	res := c.ClassifyLines(lines)
	assert.Equal(t, lexicon.Downtime, res.Dominant)
	assert.Zero(t, res.Scores[lexicon.Combat])
}
