// Package classify sorts canonical field names into display categories and
// decides which fields are editable and which belong to the opponent.
package classify

import (
	"regexp"
	"sort"
	"strings"

	"github.com/pable/clubstats/internal/model"
)

// Classify returns the display category for a canonical or raw field name.
// Unknown names fall through to Other.
func Classify(name string) model.Category {
	for _, r := range rules {
		if r.Match(name) {
			return r.Category
		}
	}
	return model.CategoryOther
}

// MatchedRule returns the name of the rule that decides name's category, or
// "default" when none does.
func MatchedRule(name string) string {
	for _, r := range rules {
		if r.Match(name) {
			return r.Name
		}
	}
	return "default"
}

// ---- Opponent split ----

// IsOpponentField reports whether the field describes the opposing side.
func IsOpponentField(name string) bool {
	lower := strings.ToLower(name)
	for _, s := range opponentSubstrings {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// SplitByOpponent partitions names into team and opponent columns, keeping
// input order within each side.
func SplitByOpponent(names []string) (team, opponent []string) {
	for _, n := range names {
		if IsOpponentField(n) {
			opponent = append(opponent, n)
		} else {
			team = append(team, n)
		}
	}
	return team, opponent
}

// Group is one category's fields split into two display columns.
type Group struct {
	Category model.Category
	Team     []string
	Opponent []string
}

// Len is the number of fields in the group.
func (g Group) Len() int { return len(g.Team) + len(g.Opponent) }

// GroupByCategory buckets names by category in display order. Empty
// categories are dropped, except Other which is always present.
func GroupByCategory(names []string) []Group {
	return GroupSides(SplitByOpponent(names))
}

// GroupSides buckets names already split into team and opponent sides,
// as produced by a stat-sheet extraction. Each side is sorted.
func GroupSides(team, opponent []string) []Group {
	byCat := make(map[model.Category]*Group)
	add := func(n string, opp bool) {
		c := Classify(n)
		g, ok := byCat[c]
		if !ok {
			g = &Group{Category: c}
			byCat[c] = g
		}
		if opp {
			g.Opponent = append(g.Opponent, n)
		} else {
			g.Team = append(g.Team, n)
		}
	}
	for _, n := range team {
		add(n, false)
	}
	for _, n := range opponent {
		add(n, true)
	}

	var out []Group
	for _, c := range model.Categories {
		g, ok := byCat[c]
		if !ok {
			if c != model.CategoryOther {
				continue
			}
			g = &Group{Category: c}
		}
		sort.Strings(g.Team)
		sort.Strings(g.Opponent)
		out = append(out, *g)
	}
	return out
}

// ---- Computed-field exclusion ----

var (
	// Derived on the server from other columns regardless of half.
	derivedRe = regexp.MustCompile(`(?i)conv(?:ersion|\.)?[\s_]*rate|\bratio\b|\brate\b|\bper[\s_]*(?:min(?:ute)?s?|90)\b|\bindex\b|\baccuracy\b`)

	// Whole-name match only, so "Possession Mins" stays editable.
	possessionDerivedRe = regexp.MustCompile(`(?i)^(?:opp\s+)?possession(?:\s*%|\s+pct|\s+percentage)?(?:\s*\((?:1st|2nd)\))?$`)

	// Match totals summed from the half-scoped counts.
	setPieceTotalRe = regexp.MustCompile(`(?i)^(?:opp\s+)?(?:corners?|free\s*kicks?|penalties|penalty\s*kicks?)(?:\s+(?:for|against|won|conceded))?$`)
)

// IsComputedField reports whether a field is server-derived and therefore
// hidden from edit and upload forms.
func IsComputedField(name string) bool {
	n := strings.TrimSpace(name)
	if derivedRe.MatchString(n) || passStringAggRe.MatchString(n) {
		return true
	}
	if possessionDerivedRe.MatchString(n) {
		return true
	}
	if !hasHalf(n) && setPieceTotalRe.MatchString(n) {
		return true
	}
	return false
}

// EditableFields drops computed fields, keeping order.
func EditableFields(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !IsComputedField(n) {
			out = append(out, n)
		}
	}
	return out
}
