package scene

import (
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"

	"github.com/kittclouds/scenekitt/pkg/classifier"
	"github.com/kittclouds/scenekitt/pkg/lexicon"
)

// Signals are the inputs the surrounding application knows about.
type Signals struct {
	InCombat     bool   `json:"inCombat,omitempty"`
	LocationHint string `json:"locationHint,omitempty"`
	RecentText   string `json:"recentText,omitempty"`
}

// Reason records which rule picked the scene.
type Reason string

const (
	ReasonCombat     Reason = "combat"
	ReasonLocation   Reason = "location"
	ReasonClassifier Reason = "classifier"
	// ReasonExplicit: the caller named the scene.
	ReasonExplicit Reason = "explicit"
)

// Resolution is a resolved scene with the rule that produced it.
type Resolution struct {
	Scene    Scene              `json:"scene"`
	Reason   Reason             `json:"reason"`
	Matched  string             `json:"matched,omitempty"`  // location keyword, for ReasonLocation
	Classify *classifier.Result `json:"classify,omitempty"` // for ReasonClassifier
}

// locationRule maps substrings (lower-case) to a scene. Table order is the
// priority order.
type locationRule struct {
	scene    Scene
	keywords []string
}

var locationRules = []locationRule{
	{Cave, []string{"cave", "höhle"}},
	{City, []string{"city", "stadt"}},
	{Lake, []string{"lake", "see"}},
	{Mountains, []string{"mountain", "berg"}},
	{Ruins, []string{"ruin"}},
	{Sea, []string{"sea", "meer"}},
	{Woods, []string{"forest", "wald"}},
	{Campfire, []string{"camp", "lager"}},
	{OpenField, []string{"field", "plain"}},
}

// categoryScenes is the coarse fallback used when no location keyword matched.
var categoryScenes = map[lexicon.Category]Scene{
	lexicon.Combat:      Combat,
	lexicon.Social:      City,
	lexicon.Exploration: OpenField,
	lexicon.Puzzle:      Ruins,
	lexicon.Downtime:    Campfire,
}

// SceneForCategory maps a dominant category to its fallback scene.
func SceneForCategory(c lexicon.Category) Scene {
	if s, ok := categoryScenes[c]; ok {
		return s
	}
	return Campfire
}

// Resolver turns Signals into exactly one Scene. Safe for concurrent use.
type Resolver struct {
	classifier *classifier.Classifier

	ac          ahocorasick.AhoCorasick
	patterns    []string
	patternRule []int // pattern index -> rule index
}

// NewResolver creates a resolver. A nil classifier selects the built-in lexicon.
func NewResolver(c *classifier.Classifier) *Resolver {
	if c == nil {
		c = classifier.New(nil)
	}
	r := &Resolver{classifier: c}
	for i, rule := range locationRules {
		for _, kw := range rule.keywords {
			r.patterns = append(r.patterns, kw)
			r.patternRule = append(r.patternRule, i)
		}
	}

	b := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: false,                     // we lowercase already, including umlauts
		MatchOnlyWholeWords:  false,                     // substring semantics
		MatchKind:            ahocorasick.StandardMatch, // required for IterOverlapping
		DFA:                  false,
	})
	r.ac = b.Build(r.patterns)
	return r
}

// Resolve returns the scene for sig.
func (r *Resolver) Resolve(sig Signals) Scene {
	return r.ResolveDetailed(sig).Scene
}

// ResolveDetailed returns the scene for sig along with the rule that chose it.
// Priority: combat flag, then a location keyword in the hint or the recent
// text (earliest rule in table order across both), then the classifier's
// dominant category.
func (r *Resolver) ResolveDetailed(sig Signals) Resolution {
	if sig.InCombat {
		return Resolution{Scene: Combat, Reason: ReasonCombat}
	}

	// keywords contain no spaces, so nothing matches across the join
	if s, kw, ok := r.matchLocation(sig.LocationHint + " " + sig.RecentText); ok {
		return Resolution{Scene: s, Reason: ReasonLocation, Matched: kw}
	}

	res := r.classifier.Classify(sig.RecentText)
	return Resolution{
		Scene:    SceneForCategory(res.Dominant),
		Reason:   ReasonClassifier,
		Classify: &res,
	}
}

// matchLocation finds the earliest rule (in table order) with a keyword
// anywhere in text.
func (r *Resolver) matchLocation(text string) (Scene, string, bool) {
	if strings.TrimSpace(text) == "" {
		return 0, "", false
	}
	normalized := strings.ToLower(text)

	best := -1
	bestPattern := -1
	iter := r.ac.IterOverlapping(normalized)
	for {
		m := iter.Next()
		if m == nil {
			break
		}
		rule := r.patternRule[m.Pattern()]
		if best == -1 || rule < best {
			best, bestPattern = rule, m.Pattern()
		}
		if best == 0 {
			break
		}
	}
	if best == -1 {
		return 0, "", false
	}
	return locationRules[best].scene, r.patterns[bestPattern], true
}

// Classifier returns the classifier used for the fallback rule.
func (r *Resolver) Classifier() *classifier.Classifier {
	return r.classifier
}
