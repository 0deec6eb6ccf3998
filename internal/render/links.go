package render

import (
	"strings"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/tariff"
)

// injectSmartLinks wraps every classification-code reference in a text
// segment with a smart link carrying the digits-only code. Candidates are
// dotted digit runs whose digit-group layout matches one of the accepted
// shapes and whose neighbours pass the boundary check; everything else
// (bare "8517", decimals like "2.50") is left alone.
func injectSmartLinks(text string) string {
	locs := dottedRun.Re.FindAllStringIndex(text, -1)
	if locs == nil {
		return text
	}

	var b strings.Builder
	last := 0
	for _, loc := range locs {
		s, e := loc[0], loc[1]
		run := text[s:e]
		if !boundedAt(text, s, e) || !linkableShape(run) {
			continue
		}
		b.WriteString(text[last:s])
		b.WriteString(`<a href="#" class="smart-link" data-ncm="`)
		b.WriteString(tariff.NormalizeCode(run))
		b.WriteString(`">`)
		b.WriteString(run)
		b.WriteString(`</a>`)
		last = e
	}
	b.WriteString(text[last:])
	return b.String()
}

// boundedAt reports whether the [s,e) span sits on its own: not glued to a
// letter, digit or extra dot on either side. This keeps "438.01" and
// attribute-like neighbours from producing links inside words.
func boundedAt(text string, s, e int) bool {
	if s > 0 {
		p := text[s-1]
		if isAlnum(p) || p == '.' {
			return false
		}
	}
	if e < len(text) && isAlnum(text[e]) {
		return false
	}
	return true
}

func isAlnum(b byte) bool {
	return b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// linkableShape checks the digit-group layout of a dotted run against the
// accepted smart-link shapes.
func linkableShape(run string) bool {
	groups := strings.Split(run, ".")
	for _, shape := range linkableShapes {
		if len(groups) != len(shape) {
			continue
		}
		ok := true
		for i, want := range shape {
			if len(groups[i]) != want {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// injectNoteRefs wraps "Nota N" / "Nota N do Capítulo C" cross references
// in a span carrying the note number and, when named, the chapter number.
// This pass runs before smart links, so an overlapping span is always
// claimed by the note reference.
func injectNoteRefs(text string) string {
	return noteReference.Re.ReplaceAllStringFunc(text, func(m string) string {
		sub := noteReference.Re.FindStringSubmatch(m)
		var b strings.Builder
		b.WriteString(`<span class="note-ref" data-note="`)
		b.WriteString(sub[1])
		b.WriteString(`"`)
		if sub[2] != "" {
			b.WriteString(` data-chapter="`)
			b.WriteString(sub[2])
			b.WriteString(`"`)
		}
		b.WriteString(`>`)
		b.WriteString(m)
		b.WriteString(`</span>`)
		return b.String()
	})
}
