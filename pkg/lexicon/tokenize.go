package lexicon

import (
	"strings"
	"unicode"
)

// Tokenize lower-cases text and splits it on whitespace. Punctuation glued to
// either end of a token is dropped ("beginnt," → "beginnt"); no stemming.
func Tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))

	tokens := fields[:0]
	for _, f := range fields {
		// Curly apostrophe -> straight
		f = strings.ReplaceAll(f, "’", "'")
		f = strings.TrimFunc(f, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Normalize lower-cases a single word and trims surrounding punctuation.
// Lexicon keys are stored in this form.
func Normalize(word string) string {
	tokens := Tokenize(word)
	if len(tokens) != 1 {
		return strings.Join(tokens, " ")
	}
	return tokens[0]
}
