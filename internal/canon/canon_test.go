package canon

import "testing"

// corpus mixes spreadsheet headers, vision labels, and form keys seen in
// real uploads. Every entry must be a fixed point after one pass.
var corpus = []string{
	"", "   ", "a", "x", "xG", "Half", "1st Half", "(1st half)",
	"shotsAgainst1stHalf", "Shots Against (1st Half)", "shots_against",
	"Shots Against", "Shots For1st Half", "goals second half", "firsthalf shots",
	"Corners (2nd Half)", "SHOTS_AGAINST_2ND_HALF", "Shots (opp) 1st half",
	"passed comp", "opp passed completed", "passedComp", "Opp passed comp",
	"opponent conversion rate", "opp conv. rate", "Opponent Conv Rate",
	"oppConversionRate", "opponentName", "OPPONENT NAME", "opponent_name",
	"matchDate", "match date", "MatchDate", "teamId", "teamID", "homeAway",
	"home_away", "Home/away", "Pass Strings 4+", "passStrings4+",
	"Opp xG", "possession", "posession mins", "__x__", "weird)(paren",
	"ééAbc", "iPhone", "Shots-against", "Possess % (Def)", "pass % by zone",
	"Free Kicks (1st Half)", "freekicks", "Season", "season_year",
	"Shots 1st Half 2nd Half", "first half second half", "Shots (2nd) 1st half",
	"corners (1ST)", "(1st)", "goals_2nd_half_(1st)",
}

func TestCanonicalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{"  Shots   For  ", "Shots For"},
		{"shotsAgainst1stHalf", "Shots Against (1st)"},
		{"Shots Against (1st Half)", "Shots Against (1st)"},
		{"Shots Against (1st)", "Shots Against (1st)"},
		{"Shots For1st Half", "Shots For (1st)"},
		{"goals second half", "Goals (2nd)"},
		{"Corners (2nd Half)", "Corners (2nd)"},
		{"firsthalf shots", "Shots (1st)"},
		{"shots_against_1st_half", "Shots Against (1st)"},
		{"shots_against", "Shots Against"},
		{"Shots against", "Shots Against"},
		{"passed comp", "Passes Comp"},
		{"opp passed completed", "Opp Passes Completed"},
		{"passedComp", "Passes Comp"},
		{"posession mins", "Possession Mins"},
		{"opp conversion rate", "Opp Conv Rate"},
		{"opponent conversion rate", "Opp Conv Rate"},
		{"opponent conv rate", "Opp Conv Rate"},
		{"opp conv. rate", "Opp Conv Rate"},
		{"oppConversionRate", "Opp Conv Rate"},
		{"opponent", "Opponent"},
		{"opponentName", "Opponent"},
		{"opponent name", "Opponent"},
		{"OPPONENT NAME", "Opponent"},
		{"Opponent Name", "Opponent"},
		{"matchdate", "Date"},
		{"matchDate", "Date"},
		{"match date", "Date"},
		{"teamid", "Team ID"},
		{"teamId", "Team ID"},
		{"team id", "Team ID"},
		{"homeaway", "Home/Away"},
		{"homeAway", "Home/Away"},
		{"home away", "Home/Away"},
		{"possession", "Possession"},
		{"Pass Strings 4+", "Pass Strings 4+"},
		{"Opp xG", "Opp xG"},
		{"Free Kicks (1st Half)", "Free Kicks (1st)"},
		{"Shots 1st Half 2nd Half", "Shots (1st)"},
		{"Shots 2nd Half 1st Half", "Shots (2nd)"},
		{"first half second half", "(1st)"},
		{"Shots (2nd) 1st half", "Shots (2nd)"},
		{"corners (1ST)", "Corners (1st)"},
	}
	for _, tc := range cases {
		if got := Canonicalize(tc.in); got != tc.want {
			t.Errorf("Canonicalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalize_HalfFoldingAgrees(t *testing.T) {
	a := Canonicalize("shotsAgainst1stHalf")
	b := Canonicalize("Shots Against (1st Half)")
	if a != b || a != "Shots Against (1st)" {
		t.Errorf("half folding disagrees: %q vs %q", a, b)
	}
}

func TestCanonicalize_PassStringLengthsUntouched(t *testing.T) {
	for _, in := range []string{"Pass Strings 3", "Pass Strings 4+", "Pass Strings 10"} {
		if got := Canonicalize(in); got != in {
			t.Errorf("Canonicalize(%q) = %q, want unchanged", in, got)
		}
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	for _, in := range corpus {
		once := Canonicalize(in)
		twice := Canonicalize(once)
		if once != twice {
			t.Errorf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func FuzzCanonicalize(f *testing.F) {
	for _, in := range corpus {
		f.Add(in)
	}
	f.Fuzz(func(t *testing.T, in string) {
		once := Canonicalize(in)
		if twice := Canonicalize(once); twice != once {
			t.Errorf("not idempotent for %q: %q -> %q", in, once, twice)
		}
	})
}

func TestCanonicalize_Deterministic(t *testing.T) {
	for _, in := range corpus {
		first := Canonicalize(in)
		for i := 0; i < 3; i++ {
			if got := Canonicalize(in); got != first {
				t.Fatalf("Canonicalize(%q) changed between calls: %q vs %q", in, first, got)
			}
		}
	}
}

func TestSynonymTableValuesAreFixedPoints(t *testing.T) {
	for k, v := range Synonyms() {
		if got := Canonicalize(v); got != v {
			t.Errorf("synonym %q -> %q is not canonical (got %q)", k, v, got)
		}
	}
}

func TestTablesAreCopies(t *testing.T) {
	typos := Typos()
	typos[0].To = "mutated"
	if Typos()[0].To == "mutated" {
		t.Error("Typos() exposed the backing table")
	}
	syn := Synonyms()
	syn["opponent"] = "mutated"
	if Synonyms()["opponent"] != "Opponent" {
		t.Error("Synonyms() exposed the backing table")
	}
}
