// Package canon maps free-form stat field names (spreadsheet headers, vision
// labels, form keys) onto one canonical display name per concept.
//
// Canonicalize is pure and idempotent: Canonicalize(Canonicalize(s)) ==
// Canonicalize(s) for every s.
package canon

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	firstHalfSuffix  = "(1st)"
	secondHalfSuffix = "(2nd)"
)

var (
	// A half indicator glued to a preceding lowercase letter ("For1st Half").
	halfBoundaryRe = regexp.MustCompile(`([a-z])((?:1st|2nd|[Ff]irst|[Ss]econd)[\s_]*(?i:half))`)
	firstHalfRe    = regexp.MustCompile(`(?i)[\s_]*\(?[\s_]*(?:1st|first)[\s_]*half[\s_]*\)?`)
	secondHalfRe   = regexp.MustCompile(`(?i)[\s_]*\(?[\s_]*(?:2nd|second)[\s_]*half[\s_]*\)?`)
	firstSuffixRe  = regexp.MustCompile(`(?i)[\s_]*\(1st\)`)
	secondSuffixRe = regexp.MustCompile(`(?i)[\s_]*\(2nd\)`)

	// Every spelling of a half indicator. All are stripped; the earliest
	// one in the name picks the suffix.
	halfIndicators = []struct {
		re     *regexp.Regexp
		suffix string
	}{
		{firstHalfRe, firstHalfSuffix},
		{secondHalfRe, secondHalfSuffix},
		{firstSuffixRe, firstHalfSuffix},
		{secondSuffixRe, secondHalfSuffix},
	}

	oppConvRateRe = regexp.MustCompile(`(?i)\b(?:opp|opponent)\.?[\s_]+conv(?:ersion|\.)?[\s_]+rate\b`)

	typoRules = compileTypos(typoTable)
)

type phraseRule struct {
	re   *regexp.Regexp
	repl string
}

func compileTypos(table []Correction) []phraseRule {
	rules := make([]phraseRule, 0, len(table))
	for _, c := range table {
		words := strings.Fields(c.From)
		for i, w := range words {
			words[i] = regexp.QuoteMeta(w)
		}
		pattern := `(?i)\b` + strings.Join(words, `[\s_]+`) + `\b`
		rules = append(rules, phraseRule{re: regexp.MustCompile(pattern), repl: c.To})
	}
	return rules
}

// Canonicalize returns the canonical display name for name. Blank input
// yields "".
func Canonicalize(name string) string {
	s := collapseSpace(name)
	if s == "" {
		return ""
	}

	s = foldHalf(s)
	s = applyPhraseRules(s)

	if isCanonicalShape(s) {
		if v, ok := synonymTable[strings.ToLower(s)]; ok {
			return v
		}
		return s
	}

	// Title-casing every split word also covers a lone lowercase token.
	s = splitWords(s)

	// Splitting can expose phrases that were glued together ("passedComp").
	s = applyPhraseRules(s)

	if v, ok := synonymTable[strings.ToLower(s)]; ok {
		return v
	}
	return format(s)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// foldHalf rewrites every half indicator into one trailing "(1st)" or
// "(2nd)". A name carrying several indicators keeps the first one.
func foldHalf(s string) string {
	s = halfBoundaryRe.ReplaceAllString(s, "$1 $2")

	suffix, at := "", -1
	for _, h := range halfIndicators {
		if loc := h.re.FindStringIndex(s); loc != nil && (at < 0 || loc[0] < at) {
			suffix, at = h.suffix, loc[0]
		}
	}
	if suffix == "" {
		return s
	}
	for _, h := range halfIndicators {
		s = h.re.ReplaceAllString(s, " ")
	}

	s = strings.Trim(collapseSpace(s), " _-")
	if s == "" {
		return suffix
	}
	return s + " " + suffix
}

func applyPhraseRules(s string) string {
	for _, r := range typoRules {
		s = r.re.ReplaceAllString(s, r.repl)
	}
	return oppConvRateRe.ReplaceAllString(s, "Opp Conv Rate")
}

// isCanonicalShape reports whether s is already Title-Case words optionally
// followed by one parenthesized suffix.
func isCanonicalShape(s string) bool {
	base, suffix := splitSuffix(s)
	if base == "" || strings.ContainsAny(base, "()_") {
		return false
	}
	if suffix != "" && (strings.Count(suffix, "(") != 1 || strings.Count(suffix, ")") != 1) {
		return false
	}
	for _, tok := range strings.Split(base, " ") {
		if tok == "" {
			return false
		}
		if preservedTokens[tok] {
			continue
		}
		r, _ := utf8.DecodeRuneInString(tok)
		if unicode.IsLower(r) {
			return false
		}
		if splitCamel(tok) != tok {
			return false
		}
	}
	return true
}

func splitSuffix(s string) (base, suffix string) {
	if !strings.HasSuffix(s, ")") {
		return s, ""
	}
	idx := strings.LastIndex(s, " (")
	if idx < 0 {
		return "", s
	}
	return s[:idx], s[idx+1:]
}

// splitWords breaks camelCase and snake_case into title-cased words.
func splitWords(s string) string {
	s = splitCamel(s)
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// splitCamel inserts a space at each lowercase-to-uppercase boundary. A
// single leading lowercase letter stays attached ("xG").
func splitCamel(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range runes {
		if i >= 2 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) && unicode.IsLetter(runes[i-2]) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// format re-splits on whitespace and title-cases every token that is not
// part of a parenthesized suffix.
func format(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	if preservedTokens[w] || strings.ContainsAny(w, "()") {
		return w
	}
	parts := strings.Split(w, "/")
	for i, p := range parts {
		parts[i] = upperFirst(p)
	}
	return strings.Join(parts, "/")
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
