package lexicon

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/blevesearch/vellum"
)

var (
	// ErrDuplicateKeyword is returned when a word appears twice in a keyword table.
	ErrDuplicateKeyword = errors.New("lexicon: duplicate keyword")
	// ErrInvalidEntry is returned for out-of-range weights, sentiments or categories.
	ErrInvalidEntry = errors.New("lexicon: invalid keyword entry")
)

// KeywordEntry is what a single word contributes to classification.
type KeywordEntry struct {
	Category  Category
	Weight    float64 // (0,1]
	Sentiment float64 // [-1,1]
}

// Keyword is a word with its entry, the input form for New.
type Keyword struct {
	Word string
	KeywordEntry
}

// Lexicon maps normalized words to keyword entries. It is immutable once
// built and safe for concurrent use.
type Lexicon struct {
	fst *vellum.FST
}

// packEntry encodes a KeywordEntry into a uint64 FST value.
// Bits: [Category 8][Weight‰ 16][Sentiment‰+1000 16]
func packEntry(e KeywordEntry) uint64 {
	weight := uint64(math.Round(e.Weight * 1000))
	sentiment := uint64(math.Round(e.Sentiment*1000) + 1000)
	return (uint64(e.Category) << 32) | (weight << 16) | sentiment
}

// unpackEntry decodes a KeywordEntry from a uint64 FST value.
func unpackEntry(v uint64) KeywordEntry {
	return KeywordEntry{
		Category:  Category((v >> 32) & 0xFF),
		Weight:    float64((v>>16)&0xFFFF) / 1000,
		Sentiment: (float64(v&0xFFFF) - 1000) / 1000,
	}
}

func validate(k Keyword) error {
	if !k.Category.Valid() {
		return fmt.Errorf("%w: %q has category %d", ErrInvalidEntry, k.Word, k.Category)
	}
	if k.Weight <= 0 || k.Weight > 1 {
		return fmt.Errorf("%w: %q has weight %v", ErrInvalidEntry, k.Word, k.Weight)
	}
	if k.Sentiment < -1 || k.Sentiment > 1 {
		return fmt.Errorf("%w: %q has sentiment %v", ErrInvalidEntry, k.Word, k.Sentiment)
	}
	return nil
}

// New compiles a keyword table into a Lexicon. Words are normalized first;
// two words that normalize to the same key are rejected.
func New(words []Keyword) (*Lexicon, error) {
	sorted := make([]Keyword, 0, len(words))
	for _, k := range words {
		k.Word = Normalize(k.Word)
		if k.Word == "" {
			return nil, fmt.Errorf("%w: empty word", ErrInvalidEntry)
		}
		if err := validate(k); err != nil {
			return nil, err
		}
		sorted = append(sorted, k)
	}

	// Sort entries for FST (must be lexicographic)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Word < sorted[j].Word
	})

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, err
	}

	for i, k := range sorted {
		if i > 0 && sorted[i-1].Word == k.Word {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKeyword, k.Word)
		}
		if err := builder.Insert([]byte(k.Word), packEntry(k.KeywordEntry)); err != nil {
			return nil, fmt.Errorf("insert %q: %w", k.Word, err)
		}
	}

	if err := builder.Close(); err != nil {
		return nil, err
	}

	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return nil, err
	}
	return &Lexicon{fst: fst}, nil
}

var defaultLexicon = sync.OnceValue(func() *Lexicon {
	l, err := New(builtinKeywords)
	if err != nil {
		panic(fmt.Sprintf("lexicon: built-in keyword table: %v", err))
	}
	return l
})

// Default returns the shared built-in lexicon.
func Default() *Lexicon {
	return defaultLexicon()
}

// Lookup finds the entry for a single word.
func (l *Lexicon) Lookup(word string) (KeywordEntry, bool) {
	return l.lookupNormalized(Normalize(word))
}

func (l *Lexicon) lookupNormalized(key string) (KeywordEntry, bool) {
	if key == "" {
		return KeywordEntry{}, false
	}
	val, found, err := l.fst.Get([]byte(key))
	if err != nil || !found {
		return KeywordEntry{}, false
	}
	return unpackEntry(val), true
}

// ScoreCategories sums keyword weights per category over the tokens of text.
// Every category is present in the result, zero when nothing matched.
func (l *Lexicon) ScoreCategories(text string) map[Category]float64 {
	scores := make(map[Category]float64, len(Categories))
	for _, c := range Categories {
		scores[c] = 0
	}
	for _, tok := range Tokenize(text) {
		if e, ok := l.lookupNormalized(tok); ok {
			scores[e.Category] += e.Weight
		}
	}
	return scores
}

// Len returns the number of keywords.
func (l *Lexicon) Len() int {
	return l.fst.Len()
}

// Close releases resources
func (l *Lexicon) Close() error {
	return l.fst.Close()
}
