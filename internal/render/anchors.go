package render

import "strings"

// PositionAnchor derives the anchor id for a classification code:
// "84.13" -> "pos-84-13". Unsafe characters are stripped before the
// dot-to-dash substitution. Feeding an already-derived anchor back in
// returns it unchanged, so anchor generation is idempotent.
func PositionAnchor(code string) string {
	code = strings.TrimSpace(code)
	if anchorShaped.Re.MatchString(code) {
		return code
	}
	var b strings.Builder
	for _, r := range code {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-':
			b.WriteRune('-')
		}
	}
	return "pos-" + b.String()
}

// SectionAnchor derives the anchor id for a chapter notes section:
// SectionAnchor("84", "notas") -> "chapter-84-notas".
func SectionAnchor(chapter, section string) string {
	return "chapter-" + chapter + "-" + section
}
