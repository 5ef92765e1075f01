package canon

// TablesVersion is bumped whenever a rule table below changes, so stored
// canonical names can be re-derived when the vocabulary moves.
const TablesVersion = 3

// Correction rewrites a known misspelled phrase. From is matched
// case-insensitively on word boundaries; longer phrases come first so a
// shorter entry never pre-empts one that contains it.
type Correction struct {
	From string
	To   string
}

var typoTable = []Correction{
	{"opp passed completed", "Opp Passes Completed"},
	{"opp passed comp", "Opp Passes Comp"},
	{"passed completed", "Passes Completed"},
	{"passed comp", "Passes Comp"},
	{"posession", "Possession"},
	{"possesion", "Possession"},
	{"oppenent", "Opponent"},
	{"opponet", "Opponent"},
	{"shots on targer", "Shots On Target"},
	{"freekicks", "Free Kicks"},
	{"freekick", "Free Kick"},
}

// synonymTable is keyed by the lower-cased, fully processed name. A hit
// replaces the computed name outright.
var synonymTable = map[string]string{
	"opponent":      "Opponent",
	"opponentname":  "Opponent",
	"opponent name": "Opponent",
	"opp name":      "Opponent",
	"opposition":    "Opponent",

	"date":       "Date",
	"matchdate":  "Date",
	"match date": "Date",
	"gamedate":   "Date",
	"game date":  "Date",

	"team":      "Team",
	"teamname":  "Team",
	"team name": "Team",

	"teamid":  "Team ID",
	"team id": "Team ID",

	"homeaway":     "Home/Away",
	"home away":    "Home/Away",
	"home/away":    "Home/Away",
	"home or away": "Home/Away",

	"season":      "Season",
	"season year": "Season",

	"opp conv rate": "Opp Conv Rate",
}

// preservedTokens keep their exact spelling through title-casing.
var preservedTokens = map[string]bool{
	"xG":  true,
	"xGA": true,
	"xA":  true,
	"ID":  true,
}

// Typos returns a copy of the typo-correction table in evaluation order.
func Typos() []Correction {
	out := make([]Correction, len(typoTable))
	copy(out, typoTable)
	return out
}

// Synonyms returns a copy of the terminal synonym table.
func Synonyms() map[string]string {
	out := make(map[string]string, len(synonymTable))
	for k, v := range synonymTable {
		out[k] = v
	}
	return out
}
