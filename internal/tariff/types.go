// Package tariff defines the NCM classification domain types shared by the
// renderer, highlighter, store and server.
package tariff

import (
	"sort"
	"strconv"
	"strings"
)

// Chapter is one two-digit NCM classification chapter with its legal notes.
// Immutable once loaded.
type Chapter struct {
	Number       string           `json:"number"`
	RawContent   string           `json:"content"`
	GeneralNotes string           `json:"general_notes,omitempty"`
	Sections     *ChapterSections `json:"sections,omitempty"`
	Positions    []Position       `json:"positions,omitempty"`
}

// ChapterSections holds the structured legal-note sections of a chapter.
// Empty fields are simply not rendered.
type ChapterSections struct {
	Title          string `json:"title,omitempty"`
	Notes          string `json:"notes,omitempty"`
	Considerations string `json:"considerations,omitempty"`
	Definitions    string `json:"definitions,omitempty"`
}

// Position is one classification code nested under a chapter
// (4-, 5-, 6- or 8-digit dotted forms).
type Position struct {
	Code        string `json:"code"`
	Description string `json:"description"`
	AnchorID    string `json:"anchor_id,omitempty"`
	Level       int    `json:"level,omitempty"`
	Rate        string `json:"rate,omitempty"`
}

// NormalizeCode strips separators from a dotted classification code,
// leaving digits only: "8413.11.00" -> "84131100".
func NormalizeCode(code string) string {
	var b strings.Builder
	for _, r := range code {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SortChapterNumbers orders chapter numbers by numeric value ascending,
// not lexicographically: "02" sorts before "10". Non-numeric keys sort
// after all numeric ones, alphabetically among themselves.
func SortChapterNumbers(numbers []string) []string {
	sorted := make([]string, len(numbers))
	copy(sorted, numbers)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, aerr := strconv.Atoi(strings.TrimSpace(sorted[i]))
		b, berr := strconv.Atoi(strings.TrimSpace(sorted[j]))
		switch {
		case aerr == nil && berr == nil:
			return a < b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		default:
			return sorted[i] < sorted[j]
		}
	})
	return sorted
}
