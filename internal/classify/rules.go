package classify

import (
	"regexp"
	"strings"

	"github.com/pable/clubstats/internal/model"
)

// gameInfoKeywords match as whole words anywhere in the name.
var gameInfoKeywords = []string{
	"date", "competition", "season", "result", "venue", "referee", "notes", "home/away",
}

// gameInfoExact only match the whole name, so "Opponent Shots" stays a stat.
var gameInfoExact = []string{
	"team", "team id", "team name", "opponent", "opponent name",
}

var (
	firstHalfRe  = regexp.MustCompile(`(?i)\(1st\)|\b(?:1st|first)[\s_]*half`)
	secondHalfRe = regexp.MustCompile(`(?i)\(2nd\)|\b(?:2nd|second)[\s_]*half`)

	passStringRe       = regexp.MustCompile(`(?i)pass[\s_-]*strings?`)
	passWordRe         = regexp.MustCompile(`(?i)pass`)
	stringLengthRe     = regexp.MustCompile(`(?:^|[^0-9])(?:[3-9]|10)\+?(?:[^0-9]|$)`)
	passStringAggRe    = regexp.MustCompile(`(?i)\b(?:total|avg|average|longest|max|mean)\b.*pass[\s_-]*strings?|pass[\s_-]*strings?.*\b(?:total|avg|average|length|rate|per)\b`)
	convRateRe         = regexp.MustCompile(`(?i)conv(?:ersion|\.)?[\s_]*rate`)
	xgRe               = regexp.MustCompile(`(?i)\bxga?\b`)
	boxRe              = regexp.MustCompile(`(?i)\b(?:inside|outside)\b.*\bbox\b`)
	percentRe          = regexp.MustCompile(`(?i)%|\bpct\b|\bpercent(?:age)?\b`)
	possessionLocRe    = regexp.MustCompile(`(?i)\bpossess(?:ion)?\s*%\s*\(\s*(?:def|mid|att)\s*\)`)
	passLocationRe     = regexp.MustCompile(`(?i)\bpass(?:es)?\s*%\s*(?:by\s+)?zone`)
	setPieceRe         = regexp.MustCompile(`(?i)\bcorners?\b|\bfree[\s_-]*kicks?\b|\bpenalt(?:y|ies)\b|\bthrow[\s_-]*ins?\b|\bset[\s_-]*pieces?\b`)
	opponentSubstrings = []string{"opp", "opponent", "(opp)", "(opponent)", "against"}
)

// Rule is one ordered classification step.
type Rule struct {
	Name     string
	Match    func(name string) bool
	Category model.Category
}

// rules are evaluated top to bottom; the first match wins. Keyword sets
// overlap, so the order is part of the behaviour.
var rules = []Rule{
	{"game-info", isGameInfo, model.CategoryGameInfo},
	{"half-pass-strings", func(n string) bool { return hasHalf(n) && isPassStringPhrase(n) }, model.CategoryPassStrings},
	{"half-shots-map", func(n string) bool { return hasHalf(n) && isShotsMapPhrase(n) }, model.CategoryShotsMap},
	{"first-half", firstHalfRe.MatchString, model.CategoryBasicFirstHalf},
	{"second-half", secondHalfRe.MatchString, model.CategoryBasicSecondHalf},
	{"pass-string-aggregate", passStringAggRe.MatchString, model.CategoryOther},
	{"pass-strings", isPassString, model.CategoryPassStrings},
	{"shots-map", isShotsMapPhrase, model.CategoryShotsMap},
	{"possession-location", possessionLocRe.MatchString, model.CategoryPossessionLocation},
	{"pass-location", passLocationRe.MatchString, model.CategoryPassLocation},
	{"set-pieces", setPieceRe.MatchString, model.CategorySetPieces},
}

// Rules returns a copy of the ordered rule list.
func Rules() []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	return out
}

func isGameInfo(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, k := range gameInfoExact {
		if lower == k {
			return true
		}
	}
	for _, k := range gameInfoKeywords {
		if containsWord(lower, k) {
			return true
		}
	}
	return false
}

// containsWord reports whether word occurs in s bounded by non-letters.
func containsWord(s, word string) bool {
	for from := 0; ; {
		idx := strings.Index(s[from:], word)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(word)
		if (start == 0 || !isLetter(s[start-1])) && (end == len(s) || !isLetter(s[end])) {
			return true
		}
		from = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func hasHalf(name string) bool {
	return firstHalfRe.MatchString(name) || secondHalfRe.MatchString(name)
}

func isPassStringPhrase(name string) bool {
	return passStringRe.MatchString(name)
}

func isPassString(name string) bool {
	if isPassStringPhrase(name) {
		return true
	}
	return passWordRe.MatchString(name) && stringLengthRe.MatchString(name)
}

func isShotsMapPhrase(name string) bool {
	if convRateRe.MatchString(name) || xgRe.MatchString(name) {
		return true
	}
	return boxRe.MatchString(name) && percentRe.MatchString(name)
}
