// Package teamname reconciles the team naming vocabularies of the two
// upstream feeds. Both sides run their raw names through Normalize before
// any join, so a matchup key built from either feed lands on the same string.
package teamname

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripAccents folds accented letters to their base form (san josé -> san jose).
var stripAccents = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

var punctuationStripper = strings.NewReplacer(".", "", "'", "", "’", "")

// Normalize maps a raw display name to its canonical form. The stage order is
// load-bearing: exact aliases fire before prefix expansion, suffix rules run
// before the post-alias table. Normalize never fails; unknown names come back
// cleaned but otherwise unchanged, and Normalize(Normalize(x)) == Normalize(x).
func Normalize(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(stripAccents, s); err == nil {
		s = folded
	}

	// Punctuation and symbols. "&" becomes a bare "and" so "a&m" collapses
	// to "aandm", matching how both feeds spell the A&M schools.
	s = strings.ReplaceAll(s, "&", "and")
	s = strings.ReplaceAll(s, "-", " ")
	s = punctuationStripper.Replace(s)
	s = collapseSpaces(s)

	if canonical, ok := exactAliases[s]; ok {
		return canonical
	}

	// Expand abbreviations at the start of the name. First match wins, no
	// chaining ("w michigan" expands once and stops).
	for _, p := range prefixExpansions {
		if strings.HasPrefix(s, p.short) {
			s = p.full + s[len(p.short):]
			break
		}
	}

	// Trailing "... st" means State here. Leading "st" names (st johns,
	// st marys) never end in " st", so they are untouched.
	if strings.HasSuffix(s, " st") {
		s = s[:len(s)-2] + "state"
	}

	if s == "u" || strings.HasSuffix(s, " u") {
		s = s[:len(s)-1] + "university"
	}

	s = collapseSpaces(s)

	if canonical, ok := postAliases[s]; ok {
		return canonical
	}
	return s
}

// MatchupKey builds the join key for one game. Positional: away and home are
// not interchangeable.
func MatchupKey(away, home string) string {
	return Normalize(away) + " @ " + Normalize(home)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
