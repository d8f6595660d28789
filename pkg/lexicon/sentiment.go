package lexicon

// sentimentScores is an AFINN-style table: word → score in [-5, 5].
// It is keyed independently of the keyword table.
var sentimentScores = map[string]int{
	// negative
	"kampf":      -2,
	"feind":      -3,
	"feinde":     -3,
	"angriff":    -2,
	"angreift":   -2,
	"blut":       -3,
	"tod":        -4,
	"tot":        -3,
	"stirbt":     -4,
	"gefahr":     -2,
	"angst":      -2,
	"schmerz":    -3,
	"verwundet":  -2,
	"dunkel":     -1,
	"wütend":     -3,
	"verrat":     -4,
	"falle":      -2,
	"hinterhalt": -3,
	"schreit":    -2,
	"fight":      -2,
	"enemy":      -3,
	"attack":     -2,
	"blood":      -3,
	"death":      -4,
	"dead":       -3,
	"dies":       -4,
	"danger":     -2,
	"fear":       -2,
	"pain":       -3,
	"angry":      -3,
	"betrayal":   -4,
	"trap":       -2,
	"ambush":     -3,

	// positive
	"rasten":     1,
	"lagerfeuer": 1,
	"entspannen": 2,
	"ruhe":       2,
	"freund":     2,
	"freude":     3,
	"lacht":      2,
	"lachen":     2,
	"sicher":     2,
	"schön":      3,
	"warm":       1,
	"gemütlich":  2,
	"sieg":       3,
	"gewonnen":   3,
	"hilft":      2,
	"danke":      2,
	"glücklich":  3,
	"rest":       1,
	"relax":      2,
	"friend":     2,
	"joy":        3,
	"laughs":     2,
	"safe":       2,
	"beautiful":  3,
	"cozy":       2,
	"victory":    3,
	"won":        3,
	"helps":      2,
	"thanks":     2,
	"happy":      3,
}

// SentimentScore returns the signed score of a single word.
func SentimentScore(word string) (int, bool) {
	s, ok := sentimentScores[Normalize(word)]
	return s, ok
}

// ScoreSentiment returns the mean score of the sentiment words in text, or 0
// when none matched.
func ScoreSentiment(text string) float64 {
	sum, matched := 0, 0
	for _, tok := range Tokenize(text) {
		if s, ok := sentimentScores[tok]; ok {
			sum += s
			matched++
		}
	}
	if matched == 0 {
		return 0
	}
	return float64(sum) / float64(matched)
}
