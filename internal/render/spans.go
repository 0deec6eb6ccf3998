package render

import (
	"sort"
	"strings"
	"unicode"
)

// classedTerms pairs a term table with the highlight span class it emits.
type classedTerms struct {
	Terms []string
	Class string
}

// termSpan is one matched occurrence of a configured term, in rune offsets.
type termSpan struct {
	start, end int
	class      string
}

// wrapTermClasses wraps every whole-word, case-insensitive occurrence of
// the configured terms in a span carrying that category's class. It runs
// on plain text segments only (the caller routes it through
// injectOutsideTags), so it can never split an existing tag or attribute
// value. All categories are resolved in a single pass; when candidates
// overlap, longer terms win.
func wrapTermClasses(text string, categories []classedTerms) string {
	if text == "" {
		return text
	}

	runes := []rune(text)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	var spans []termSpan
	for _, cat := range categories {
		for _, term := range cat.Terms {
			t := []rune(strings.ToLower(term))
			if len(t) == 0 {
				continue
			}
			for i := 0; i+len(t) <= len(lower); i++ {
				if !runesEqual(lower[i:i+len(t)], t) {
					continue
				}
				if !wordBounded(lower, i, i+len(t)) {
					continue
				}
				spans = append(spans, termSpan{i, i + len(t), cat.Class})
				i += len(t) - 1
			}
		}
	}
	if len(spans) == 0 {
		return text
	}

	// Earliest start first; on a tie the longer span wins. Anything
	// overlapping a kept span is dropped.
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	kept := spans[:0]
	lastEnd := 0
	for _, sp := range spans {
		if sp.start < lastEnd {
			continue
		}
		kept = append(kept, sp)
		lastEnd = sp.end
	}

	var b strings.Builder
	prev := 0
	for _, sp := range kept {
		b.WriteString(string(runes[prev:sp.start]))
		b.WriteString(`<span class="`)
		b.WriteString(sp.class)
		b.WriteString(`">`)
		b.WriteString(string(runes[sp.start:sp.end]))
		b.WriteString(`</span>`)
		prev = sp.end
	}
	b.WriteString(string(runes[prev:]))
	return b.String()
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// wordBounded reports whether [s,e) is not glued to a letter or digit.
func wordBounded(runes []rune, s, e int) bool {
	if s > 0 && isWordRune(runes[s-1]) {
		return false
	}
	if e < len(runes) && isWordRune(runes[e]) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
