// Package dedupe collapses a raw record's keys onto canonical names and
// merges repeated observations of the same field.
package dedupe

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/pable/clubstats/internal/canon"
	"github.com/pable/clubstats/internal/model"
)

// verboseAliases lists raw spellings that never override a value already
// held under their canonical key; the short canonical key is authoritative.
var verboseAliases = map[string][]string{
	"Date":     {"match date", "matchdate"},
	"Opponent": {"opponent name", "opponentname"},
}

var titleCaseKeyRe = regexp.MustCompile(titleCaseKeyPattern())

func titleCaseKeyPattern() string {
	part := `(?:[A-Z][a-z0-9%+.'&-]*|[A-Z0-9]+|[0-9][0-9a-z%+]*)`
	word := part + `(?:/` + part + `)*`
	return `^` + word + `(?: ` + word + `)*(?: \([^()]*\))?$`
}

// Slot is the value currently held for a canonical key together with the
// raw key that supplied it.
type Slot struct {
	Key   string
	Value any
}

// Deduplicate canonicalizes every key of rec and merges collisions. Fields
// whose value is nil are skipped entirely.
func Deduplicate(rec model.RawRecord) model.CanonicalRecord {
	out := make(model.CanonicalRecord, len(rec))
	sources := make(map[string]string, len(rec))

	for _, f := range rec {
		if f.Value == nil {
			continue
		}
		key := canon.Canonicalize(f.Key)
		cur, seen := out[key]
		if !seen {
			out[key] = f.Value
			sources[key] = f.Key
			continue
		}
		if Merge(key, Slot{Key: sources[key], Value: cur}, Slot{Key: f.Key, Value: f.Value}) {
			out[key] = f.Value
			sources[key] = f.Key
		}
	}
	return out
}

// Merge reports whether incoming should replace current in the slot for the
// canonical key. The rules, in order:
//   - an empty incoming value never replaces anything;
//   - a verbose alias ("match date") never replaces an existing value, and a
//     value that came from one yields to the short key;
//   - a non-empty value replaces an empty placeholder;
//   - between two different non-empty values, one whose raw key is already
//     Title-Case replaces one from a camelCase/snake_case key;
//   - otherwise the first value seen stays.
func Merge(canonical string, current, incoming Slot) bool {
	if model.IsEmptyPlaceholder(incoming.Value) {
		return false
	}
	if isVerboseAlias(canonical, incoming.Key) {
		return false
	}
	if isVerboseAlias(canonical, current.Key) {
		return true
	}
	if model.IsEmptyPlaceholder(current.Value) {
		return true
	}
	if sameValue(current.Value, incoming.Value) {
		return false
	}
	return IsTitleCaseKey(incoming.Key) && !IsTitleCaseKey(current.Key)
}

// IsTitleCaseKey reports whether a raw key is already in Title-Case words
// separated by single spaces, with an optional parenthesized suffix.
func IsTitleCaseKey(key string) bool {
	return titleCaseKeyRe.MatchString(key)
}

func isVerboseAlias(canonical, rawKey string) bool {
	aliases, ok := verboseAliases[canonical]
	if !ok {
		return false
	}
	norm := strings.Join(strings.Fields(strings.ToLower(strings.ReplaceAll(rawKey, "_", " "))), " ")
	for _, a := range aliases {
		if norm == a {
			return true
		}
	}
	return false
}

func sameValue(a, b any) bool {
	if model.IsNumber(a) && model.IsNumber(b) {
		fa, _ := model.Numeric(a)
		fb, _ := model.Numeric(b)
		return fa == fb
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

// DeduplicateAll applies Deduplicate to each record.
func DeduplicateAll(records []model.RawRecord) []model.CanonicalRecord {
	out := make([]model.CanonicalRecord, len(records))
	for i, r := range records {
		out[i] = Deduplicate(r)
	}
	return out
}

// DeduplicateColumns returns the sorted union of canonical keys across all
// records, for building dynamic forms and column sets.
func DeduplicateColumns(records []model.RawRecord) []string {
	set := make(map[string]struct{})
	for _, r := range records {
		for k := range Deduplicate(r) {
			set[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(set))
	for k := range set {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// ToRaw converts a canonical record back into a raw record with sorted keys.
func ToRaw(rec model.CanonicalRecord) model.RawRecord {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(model.RawRecord, len(keys))
	for i, k := range keys {
		out[i] = model.Field{Key: k, Value: rec[k]}
	}
	return out
}
