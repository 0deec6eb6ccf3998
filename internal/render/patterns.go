package render

import "regexp"

// pattern is one named regular expression. The tables below group every
// regex the renderer uses by purpose (cleanup, structural, list, inline)
// so each can be unit-tested against match/no-match pairs instead of
// living as literals inside the pipeline.
type pattern struct {
	Name string
	Re   *regexp.Regexp
}

// cleanupPatterns match whole lines that are noise: page markers left by
// PDF extraction, stray OCR codes, orphan bullet glyphs and separator runs.
// Matching lines are dropped before structural parsing.
var cleanupPatterns = []pattern{
	{"page-marker", regexp.MustCompile(`^\s*[-–—=_]*\s*[Pp]ágina\s+\d+.*$`)},
	{"ocr-artifact", regexp.MustCompile(`^\s*[A-Z0-9]{10,}\s*$`)},
	{"orphan-bullet", regexp.MustCompile(`^\s*[-–—•*]\s*$`)},
	{"separator-run", regexp.MustCompile(`^\s*[-–—=_.]{4,}\s*$`)},
}

// Structural heading patterns, tiered from most to least specific. The
// order matters: a subposition line ("84.13.11") would also satisfy the
// position pattern, so it must be tried first.
var (
	subpositionHeading = pattern{"subposition", regexp.MustCompile(`^(\d{2}\.\d{2}\.\d{2})\s*[-–—.:]?\s*(.*)$`)}
	shortSubposition   = pattern{"short-subposition", regexp.MustCompile(`^(\d{4}\.\d\d?)\s*[-–—.:]?\s*(.*)$`)}
	positionHeading    = pattern{"position", regexp.MustCompile(`^(\d{2}\.\d{2})\s*[-–—.:]?\s*(.*)$`)}
	chapterHeading     = pattern{"chapter", regexp.MustCompile(`(?i)^cap[íi]tulo\s+(\d{1,2})\b\s*[-–—.:]?\s*(.*)$`)}
	sectionHeading     = pattern{"section", regexp.MustCompile(`^\s*(T[ÍI]TULO|NOTAS?(?:\s+DE\s+SUBPOSI[ÇC][ÃA]O)?|CONSIDERA[ÇC][ÕO]ES(?:\s+GERAIS)?|DEFINI[ÇC][ÕO]ES)\s*[.:]?\s*$`)}
)

// List item patterns. Contiguous runs of matching lines collapse into a
// single ordered or unordered list block.
var (
	orderedItem   = pattern{"ordered-item", regexp.MustCompile(`^\s*([a-zA-Z])\)\s+(.+)$`)}
	unorderedItem = pattern{"unordered-item", regexp.MustCompile(`^\s*[-–—•]\s+(.+)$`)}
)

// Inline patterns applied to already-assembled markup (outside tags only).
var (
	// emphasisMark converts the legal-text double-asterisk bold convention.
	emphasisMark = pattern{"emphasis", regexp.MustCompile(`\*\*([^*]+?)\*\*`)}

	// noteReference matches "Nota 3" and "Nota 3 do Capítulo 84" style
	// cross references.
	noteReference = pattern{"note-reference", regexp.MustCompile(`\b[Nn]otas?\s+(\d+)(?:\s+do\s+[Cc]ap[íi]tulo\s+(\d{1,2}))?`)}

	// dottedRun finds every dotted digit run; candidates are then shape-
	// and boundary-checked before becoming smart links. A bare digit run
	// without separators ("8517") never reaches this stage.
	dottedRun = pattern{"dotted-run", regexp.MustCompile(`\d+(?:\.\d+)+`)}

	// anchorShaped recognizes an already-generated anchor id, keeping
	// anchor derivation idempotent.
	anchorShaped = pattern{"anchor-shaped", regexp.MustCompile(`^pos-[0-9]+(?:-[0-9]+)*$`)}
)

// linkableShapes are the accepted digit-group layouts for smart links,
// longest first: DDDD.DD.DD, DDDD.DD, DDDD.D and the bare heading DD.DD.
// The heading shape knowingly accepts decimal-looking values such as
// "12.50"; a single digit before the decimal part ("2.50") is rejected.
var linkableShapes = [][]int{
	{4, 2, 2},
	{4, 2},
	{4, 1},
	{2, 2},
}
