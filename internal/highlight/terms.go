// Package highlight overlays live, accent-insensitive search markers on
// rendered chapter markup and scores how well the search terms co-occur
// within the document hierarchy (subposition, block, chapter).
package highlight

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// minTermLength is the shortest word kept from a multi-word query.
const minTermLength = 3

// diacriticStripper removes combining marks after canonical decomposition,
// so "centrífuga" folds to "centrifuga".
var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func stripDiacritics(s string) string {
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeQuery lower-cases and de-accents the query, replaces
// punctuation with spaces, splits on whitespace, drops words shorter than
// three runes (unless the entire query is that short) and deduplicates,
// preserving first-appearance order.
func NormalizeQuery(query string) []string {
	q := stripDiacritics(strings.ToLower(strings.TrimSpace(query)))
	wholeShort := len([]rune(q)) <= 2

	q = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, q)

	seen := make(map[string]bool)
	var terms []string
	for _, word := range strings.Fields(q) {
		if !wholeShort && len([]rune(word)) < minTermLength {
			continue
		}
		if seen[word] {
			continue
		}
		seen[word] = true
		terms = append(terms, word)
	}
	return terms
}

// accentVariants maps each base letter to the accented forms it must also
// match, so a stripped term like "centrif" still finds literal "centríf"
// in the live text.
var accentVariants = map[rune]string{
	'a': "aáàâãäå",
	'e': "eéèêë",
	'i': "iíìîï",
	'o': "oóòôõö",
	'u': "uúùûü",
	'c': "cç",
	'n': "nñ",
}

// buildTermPattern compiles a case- and accent-insensitive pattern for one
// normalized term. A malformed term yields an error; the caller skips that
// term only.
func buildTermPattern(term string) (*regexp.Regexp, error) {
	if strings.TrimSpace(term) == "" {
		return nil, fmt.Errorf("highlight: empty term")
	}
	var b strings.Builder
	b.WriteString("(?i)")
	for _, r := range term {
		if variants, ok := accentVariants[r]; ok {
			b.WriteString("[")
			b.WriteString(variants)
			b.WriteString("]")
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("highlight: pattern for %q: %w", term, err)
	}
	return re, nil
}
