// Package lexicon provides the static word tables behind scene classification:
// a keyword lexicon (word → category, weight, sentiment) compiled into an FST,
// and an independent sentiment lexicon (word → signed score).
package lexicon

import "strings"

// Category is the narrative intent of a passage of text.
type Category uint8

// Declaration order is significant: the classifier walks categories in this
// order and keeps the earliest one on ties.
const (
	Combat Category = iota
	Social
	Exploration
	Puzzle
	Downtime
)

// Categories lists every category in declaration order.
var Categories = [...]Category{Combat, Social, Exploration, Puzzle, Downtime}

// String returns a readable name
func (c Category) String() string {
	switch c {
	case Combat:
		return "COMBAT"
	case Social:
		return "SOCIAL"
	case Exploration:
		return "EXPLORATION"
	case Puzzle:
		return "PUZZLE"
	case Downtime:
		return "DOWNTIME"
	default:
		return "UNKNOWN"
	}
}

// MarshalText lets categories key JSON objects by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c <= Downtime
}

// ParseCategory parses a category name, case-insensitive.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "COMBAT":
		return Combat, true
	case "SOCIAL":
		return Social, true
	case "EXPLORATION":
		return Exploration, true
	case "PUZZLE":
		return Puzzle, true
	case "DOWNTIME":
		return Downtime, true
	default:
		return Downtime, false
	}
}
