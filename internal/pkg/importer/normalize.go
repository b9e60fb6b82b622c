package importer

import (
	"strings"
	"unicode"
)

// Abbreviations kept fully upper-case when canonicalizing team names
var nameAbbreviations = map[string]struct{}{
	"FC":  {},
	"AFC": {},
	"CF":  {},
	"SC":  {},
	"AC":  {},
	"FK":  {},
	"CD":  {},
	"UTD": {},
	"XI":  {},
}

// CanonicalName normalizes a display name to title case, keeping known
// club abbreviations upper-case ("team fc" becomes "Team FC").
// Whitespace is collapsed; the function is idempotent.
func CanonicalName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		if _, ok := nameAbbreviations[strings.ToUpper(w)]; ok {
			words[i] = strings.ToUpper(w)
			continue
		}
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	runes := []rune(strings.ToLower(w))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// MatchKey is the lower-cased canonical form used for entity matching
func MatchKey(name string) string {
	return strings.ToLower(CanonicalName(name))
}
