package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FuzzyPair is one entry of an ordered alias table: a pattern and the
// canonical value it resolves to.
type FuzzyPair struct {
	Pattern string
	Value   string
}

// ContainsEitherWay reports whether a contains b or b contains a, ignoring case.
// An empty operand is contained in everything.
func ContainsEitherWay(a, b string) bool {
	aLower := strings.ToLower(a)
	bLower := strings.ToLower(b)
	return strings.Contains(aLower, bLower) || strings.Contains(bLower, aLower)
}

// FirstFuzzyMatch walks the table in order and returns the value of the first
// pattern that fuzzy matches the term. Ties are resolved by table order only.
func FirstFuzzyMatch(term string, table []FuzzyPair) (string, bool) {
	for _, pair := range table {
		if ContainsEitherWay(pair.Pattern, term) {
			return pair.Value, true
		}
	}
	return "", false
}

// TitleCase trims the text and upper-cases the first letter of every word.
func TitleCase(s string) string {
	// cases.Caser keeps state, so each call gets its own
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}
