// Package classifier infers the dominant narrative category of a text and
// blends in its sentiment.
package classifier

import (
	"strings"

	"github.com/kittclouds/scenekitt/pkg/lexicon"
)

// DefaultHistoryWindow is how many trailing history lines ClassifyLines reads.
const DefaultHistoryWindow = 5

// Result is the outcome of classifying one text.
type Result struct {
	Scores    map[lexicon.Category]float64 `json:"scores"`
	Dominant  lexicon.Category             `json:"dominant"`
	Sentiment float64                      `json:"sentiment"`
}

// Classifier scores text against a keyword lexicon. It holds no mutable
// state and may be shared between goroutines.
type Classifier struct {
	lex    *lexicon.Lexicon
	window int
}

// New creates a classifier over lex. A nil lexicon selects the built-in one.
func New(lex *lexicon.Lexicon) *Classifier {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Classifier{lex: lex, window: DefaultHistoryWindow}
}

// WithHistoryWindow returns a copy reading the last n lines in ClassifyLines.
func (c *Classifier) WithHistoryWindow(n int) *Classifier {
	cp := *c
	if n > 0 {
		cp.window = n
	}
	return &cp
}

// Classify computes category scores, the dominant category and sentiment.
func (c *Classifier) Classify(text string) Result {
	scores := c.lex.ScoreCategories(text)
	return Result{
		Scores:    scores,
		Dominant:  Dominant(scores),
		Sentiment: lexicon.ScoreSentiment(text),
	}
}

// ClassifyLines classifies the trailing history window of lines as one text.
func (c *Classifier) ClassifyLines(lines []string) Result {
	if len(lines) > c.window {
		lines = lines[len(lines)-c.window:]
	}
	return c.Classify(strings.Join(lines, "\n"))
}

// Dominant picks the category with the strictly highest score. Categories are
// visited in declaration order so ties keep the earliest one; when nothing
// scored above zero the result is Downtime.
func Dominant(scores map[lexicon.Category]float64) lexicon.Category {
	best, bestScore := lexicon.Downtime, 0.0
	for _, cat := range lexicon.Categories {
		if s := scores[cat]; s > bestScore {
			best, bestScore = cat, s
		}
	}
	return best
}
