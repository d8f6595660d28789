package lexicon

// builtinKeywords is the default keyword table (German and English narrative
// vocabulary). Keys must stay unique after normalization.
var builtinKeywords = []Keyword{
	// Combat
	{"kampf", KeywordEntry{Combat, 1.0, -0.6}},
	{"kämpfen", KeywordEntry{Combat, 1.0, -0.5}},
	{"kämpft", KeywordEntry{Combat, 0.9, -0.5}},
	{"feind", KeywordEntry{Combat, 0.9, -0.7}},
	{"feinde", KeywordEntry{Combat, 0.9, -0.7}},
	{"angriff", KeywordEntry{Combat, 1.0, -0.6}},
	{"angreift", KeywordEntry{Combat, 0.9, -0.6}},
	{"angreifen", KeywordEntry{Combat, 0.9, -0.6}},
	{"greift", KeywordEntry{Combat, 0.6, -0.4}},
	{"schlacht", KeywordEntry{Combat, 1.0, -0.6}},
	{"schwert", KeywordEntry{Combat, 0.6, -0.2}},
	{"waffe", KeywordEntry{Combat, 0.6, -0.3}},
	{"blut", KeywordEntry{Combat, 0.7, -0.7}},
	{"verwundet", KeywordEntry{Combat, 0.7, -0.7}},
	{"monster", KeywordEntry{Combat, 0.8, -0.5}},
	{"ork", KeywordEntry{Combat, 0.7, -0.4}},
	{"bogen", KeywordEntry{Combat, 0.4, -0.1}},
	{"pfeil", KeywordEntry{Combat, 0.5, -0.2}},
	{"hinterhalt", KeywordEntry{Combat, 0.9, -0.8}},
	{"fight", KeywordEntry{Combat, 1.0, -0.5}},
	{"battle", KeywordEntry{Combat, 1.0, -0.6}},
	{"attack", KeywordEntry{Combat, 1.0, -0.6}},
	{"attacks", KeywordEntry{Combat, 0.9, -0.6}},
	{"enemy", KeywordEntry{Combat, 0.9, -0.7}},
	{"enemies", KeywordEntry{Combat, 0.9, -0.7}},
	{"sword", KeywordEntry{Combat, 0.6, -0.2}},
	{"blood", KeywordEntry{Combat, 0.7, -0.7}},
	{"ambush", KeywordEntry{Combat, 0.9, -0.8}},

	// Social
	{"gespräch", KeywordEntry{Social, 1.0, 0.2}},
	{"reden", KeywordEntry{Social, 0.8, 0.1}},
	{"sprechen", KeywordEntry{Social, 0.8, 0.1}},
	{"spricht", KeywordEntry{Social, 0.7, 0.1}},
	{"fragt", KeywordEntry{Social, 0.5, 0.0}},
	{"antwortet", KeywordEntry{Social, 0.5, 0.0}},
	{"händler", KeywordEntry{Social, 0.8, 0.2}},
	{"taverne", KeywordEntry{Social, 0.7, 0.4}},
	{"wirt", KeywordEntry{Social, 0.6, 0.3}},
	{"verhandeln", KeywordEntry{Social, 1.0, 0.1}},
	{"handeln", KeywordEntry{Social, 0.7, 0.1}},
	{"freund", KeywordEntry{Social, 0.7, 0.6}},
	{"begrüßt", KeywordEntry{Social, 0.7, 0.5}},
	{"überzeugen", KeywordEntry{Social, 0.8, 0.2}},
	{"talk", KeywordEntry{Social, 0.8, 0.1}},
	{"speak", KeywordEntry{Social, 0.8, 0.1}},
	{"merchant", KeywordEntry{Social, 0.8, 0.2}},
	{"tavern", KeywordEntry{Social, 0.7, 0.4}},
	{"negotiate", KeywordEntry{Social, 1.0, 0.1}},
	{"bargain", KeywordEntry{Social, 0.8, 0.1}},
	{"friend", KeywordEntry{Social, 0.7, 0.6}},
	{"greets", KeywordEntry{Social, 0.7, 0.5}},
	{"persuade", KeywordEntry{Social, 0.8, 0.2}},

	// Exploration
	{"erkunden", KeywordEntry{Exploration, 1.0, 0.2}},
	{"erkundet", KeywordEntry{Exploration, 0.9, 0.2}},
	{"entdecken", KeywordEntry{Exploration, 0.9, 0.4}},
	{"entdeckt", KeywordEntry{Exploration, 0.8, 0.4}},
	{"reise", KeywordEntry{Exploration, 0.8, 0.2}},
	{"reisen", KeywordEntry{Exploration, 0.8, 0.2}},
	{"wandern", KeywordEntry{Exploration, 0.8, 0.3}},
	{"pfad", KeywordEntry{Exploration, 0.6, 0.0}},
	{"weg", KeywordEntry{Exploration, 0.4, 0.0}},
	{"karte", KeywordEntry{Exploration, 0.6, 0.1}},
	{"spuren", KeywordEntry{Exploration, 0.6, 0.0}},
	{"horizont", KeywordEntry{Exploration, 0.6, 0.3}},
	{"explore", KeywordEntry{Exploration, 1.0, 0.2}},
	{"discover", KeywordEntry{Exploration, 0.9, 0.4}},
	{"journey", KeywordEntry{Exploration, 0.8, 0.2}},
	{"travel", KeywordEntry{Exploration, 0.8, 0.2}},
	{"path", KeywordEntry{Exploration, 0.6, 0.0}},
	{"map", KeywordEntry{Exploration, 0.6, 0.1}},
	{"tracks", KeywordEntry{Exploration, 0.6, 0.0}},

	// Puzzle
	{"rätsel", KeywordEntry{Puzzle, 1.0, 0.0}},
	{"hebel", KeywordEntry{Puzzle, 0.8, 0.0}},
	{"mechanismus", KeywordEntry{Puzzle, 0.9, 0.0}},
	{"inschrift", KeywordEntry{Puzzle, 0.8, 0.0}},
	{"runen", KeywordEntry{Puzzle, 0.8, 0.0}},
	{"symbol", KeywordEntry{Puzzle, 0.6, 0.0}},
	{"symbole", KeywordEntry{Puzzle, 0.6, 0.0}},
	{"lösung", KeywordEntry{Puzzle, 0.8, 0.3}},
	{"schlüssel", KeywordEntry{Puzzle, 0.6, 0.1}},
	{"falle", KeywordEntry{Puzzle, 0.5, -0.4}},
	{"puzzle", KeywordEntry{Puzzle, 1.0, 0.0}},
	{"riddle", KeywordEntry{Puzzle, 1.0, 0.0}},
	{"lever", KeywordEntry{Puzzle, 0.8, 0.0}},
	{"mechanism", KeywordEntry{Puzzle, 0.9, 0.0}},
	{"inscription", KeywordEntry{Puzzle, 0.8, 0.0}},
	{"runes", KeywordEntry{Puzzle, 0.8, 0.0}},
	{"solution", KeywordEntry{Puzzle, 0.8, 0.3}},
	{"key", KeywordEntry{Puzzle, 0.6, 0.1}},

	// Downtime
	{"rasten", KeywordEntry{Downtime, 1.0, 0.4}},
	{"rast", KeywordEntry{Downtime, 0.9, 0.4}},
	{"ausruhen", KeywordEntry{Downtime, 1.0, 0.5}},
	{"lagerfeuer", KeywordEntry{Downtime, 0.9, 0.5}},
	{"entspannen", KeywordEntry{Downtime, 1.0, 0.6}},
	{"schlafen", KeywordEntry{Downtime, 0.8, 0.4}},
	{"essen", KeywordEntry{Downtime, 0.5, 0.3}},
	{"pause", KeywordEntry{Downtime, 0.7, 0.3}},
	{"ruhe", KeywordEntry{Downtime, 0.8, 0.5}},
	{"nacht", KeywordEntry{Downtime, 0.4, 0.0}},
	{"rest", KeywordEntry{Downtime, 1.0, 0.4}},
	{"relax", KeywordEntry{Downtime, 1.0, 0.6}},
	{"sleep", KeywordEntry{Downtime, 0.8, 0.4}},
	{"campfire", KeywordEntry{Downtime, 0.9, 0.5}},
	{"meal", KeywordEntry{Downtime, 0.5, 0.3}},
}
