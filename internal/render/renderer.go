// Package render turns raw NCM chapter text into structurally annotated
// markup: anchored headings, smart classification-code links, note cross
// references and exclusion/unit highlight spans. Rendering is pure and
// deterministic; the live search highlighting on top of this markup lives
// in internal/highlight.
package render

import (
	"strconv"
	"strings"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/tariff"
)

// Options configures the term tables used by the highlight spans pass.
type Options struct {
	// ExclusionTerms are negation/exception phrases wrapped in
	// highlight-exclusion spans.
	ExclusionTerms []string
	// UnitTerms are measurement-unit tokens wrapped in highlight-unit spans.
	UnitTerms []string
}

// DefaultOptions returns the built-in Portuguese term tables.
func DefaultOptions() Options {
	return Options{
		ExclusionTerms: []string{
			"exceto",
			"não compreende",
			"não se aplica",
			"não abrange",
			"excluem-se",
			"exclui-se",
			"não classificam",
		},
		UnitTerms: []string{
			"kg", "g", "mg", "toneladas",
			"litros", "ml",
			"m²", "m³", "cm", "mm", "metros",
			"°C", "kPa", "kW", "W", "V",
		},
	}
}

// Renderer converts chapters into annotated markup.
type Renderer struct {
	opts Options
}

// New creates a Renderer with the given options.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Element sets the injection passes skip to keep markup intact: links are
// never split and spans already injected are never re-processed.
var (
	skipLinks     = map[string]bool{"a": true, "mark": true}
	skipLinkSpans = map[string]bool{"a": true, "mark": true, "span": true}
)

// RenderChapter transforms one chapter into markup. A chapter without
// content renders to an empty string rather than an error.
func (r *Renderer) RenderChapter(ch *tariff.Chapter) string {
	if ch == nil || strings.TrimSpace(ch.RawContent) == "" {
		return ""
	}

	w := &chapterWriter{seen: make(map[string]bool)}
	w.writeContent(ch, cleanContent(ch.RawContent))
	w.writeSections(ch)
	w.writePositions(ch)

	markup := w.b.String()
	markup = injectOutsideTags(markup, nil, convertEmphasis)
	markup = injectOutsideTags(markup, skipLinks, injectNoteRefs)
	markup = injectOutsideTags(markup, skipLinkSpans, injectSmartLinks)
	markup = injectOutsideTags(markup, skipLinks, r.highlightTerms)
	return markup
}

func convertEmphasis(text string) string {
	return emphasisMark.Re.ReplaceAllString(text, "<strong>$1</strong>")
}

func (r *Renderer) highlightTerms(text string) string {
	return wrapTermClasses(text, []classedTerms{
		{Terms: r.opts.ExclusionTerms, Class: "highlight-exclusion"},
		{Terms: r.opts.UnitTerms, Class: "highlight-unit"},
	})
}

// chapterWriter assembles one chapter's structural markup, tracking
// emitted anchor ids so they stay unique within the chapter.
type chapterWriter struct {
	b    strings.Builder
	seen map[string]bool
}

// anchor claims an id, returning the id attribute or nothing when the id
// was already emitted.
func (w *chapterWriter) anchor(id string) string {
	if id == "" || w.seen[id] {
		return ""
	}
	w.seen[id] = true
	return ` id="` + id + `"`
}

func (w *chapterWriter) heading(tag, class, id, text string) {
	w.b.WriteString("<" + tag + ` class="` + class + `"` + w.anchor(id) + ">")
	w.b.WriteString(escapeText(text))
	w.b.WriteString("</" + tag + ">")
}

// writeContent runs the tiered structural detection over the cleaned
// lines: subposition before position before chapter, list runs collapsed
// into one block, everything else a paragraph.
func (w *chapterWriter) writeContent(ch *tariff.Chapter, lines []string) {
	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			i++
			continue
		}

		if orderedItem.Re.MatchString(line) {
			i = w.writeList(lines, i, orderedItem, "ol", "ordered-items")
			continue
		}
		if unorderedItem.Re.MatchString(line) {
			i = w.writeList(lines, i, unorderedItem, "ul", "dash-items")
			continue
		}

		switch {
		case subpositionHeading.Re.MatchString(line):
			m := subpositionHeading.Re.FindStringSubmatch(line)
			w.heading("h4", "subposition-heading", PositionAnchor(m[1]), line)
		case shortSubposition.Re.MatchString(line):
			m := shortSubposition.Re.FindStringSubmatch(line)
			w.heading("h4", "subposition-heading", PositionAnchor(m[1]), line)
		case positionHeading.Re.MatchString(line):
			m := positionHeading.Re.FindStringSubmatch(line)
			w.heading("h3", "position-heading", PositionAnchor(m[1]), line)
		case chapterHeading.Re.MatchString(line):
			m := chapterHeading.Re.FindStringSubmatch(line)
			w.heading("h2", "chapter-title", "chapter-"+m[1], line)
		case ch.Sections == nil && sectionHeading.Re.MatchString(line):
			m := sectionHeading.Re.FindStringSubmatch(line)
			w.heading("h3", "section-heading", SectionAnchor(ch.Number, sectionType(m[1])), line)
		default:
			w.b.WriteString("<p>")
			w.b.WriteString(escapeText(line))
			w.b.WriteString("</p>")
		}
		i++
	}
}

// writeList consumes the contiguous run of list items starting at index i
// and emits them as a single classed list block. Item text keeps its
// original marker so the rendered text matches the source.
func (w *chapterWriter) writeList(lines []string, i int, item pattern, tag, class string) int {
	w.b.WriteString("<" + tag + ` class="` + class + `">`)
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		if !item.Re.MatchString(line) {
			break
		}
		w.b.WriteString("<li>")
		w.b.WriteString(escapeText(line))
		w.b.WriteString("</li>")
		i++
	}
	w.b.WriteString("</" + tag + ">")
	return i
}

// writeSections emits one anchored block per populated structured section,
// in fixed order. Without structured sections, a legacy free-text general
// notes field becomes the anchored notas block.
func (w *chapterWriter) writeSections(ch *tariff.Chapter) {
	if ch.Sections != nil {
		w.section(ch.Number, "titulo", "Título", ch.Sections.Title)
		w.section(ch.Number, "notas", "Notas", ch.Sections.Notes)
		w.section(ch.Number, "consideracoes", "Considerações Gerais", ch.Sections.Considerations)
		w.section(ch.Number, "definicoes", "Definições", ch.Sections.Definitions)
		return
	}
	if strings.TrimSpace(ch.GeneralNotes) != "" {
		w.section(ch.Number, "notas", "Notas", ch.GeneralNotes)
	}
}

func (w *chapterWriter) section(num, section, label, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	w.b.WriteString(`<div class="chapter-section"` + w.anchor(SectionAnchor(num, section)) + `>`)
	w.b.WriteString(`<h3 class="section-heading">` + label + `</h3>`)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w.b.WriteString("<p>")
		w.b.WriteString(escapeText(line))
		w.b.WriteString("</p>")
	}
	w.b.WriteString("</div>")
}

// writePositions emits the chapter's position table. Each row carries its
// own pos- anchor, which is also what the highlighter's subposition
// resolver keys on.
func (w *chapterWriter) writePositions(ch *tariff.Chapter) {
	if len(ch.Positions) == 0 {
		return
	}
	w.b.WriteString(`<table class="positions-table"><tbody>`)
	for _, p := range ch.Positions {
		id := p.AnchorID
		if id == "" {
			id = PositionAnchor(p.Code)
		}
		w.b.WriteString(`<tr class="position-row" data-level="` + strconv.Itoa(p.Level) + `"` + w.anchor(id) + `>`)
		w.b.WriteString(`<td class="position-code">` + escapeText(p.Code) + `</td>`)
		w.b.WriteString(`<td class="position-description">` + escapeText(p.Description) + `</td>`)
		w.b.WriteString(`<td class="position-rate">` + escapeText(p.Rate) + `</td>`)
		w.b.WriteString(`</tr>`)
	}
	w.b.WriteString(`</tbody></table>`)
}

// sectionType maps a detected section heading to its anchor suffix.
func sectionType(heading string) string {
	h := strings.ToUpper(strings.TrimSpace(heading))
	switch {
	case strings.HasPrefix(h, "T"):
		return "titulo"
	case strings.HasPrefix(h, "N"):
		return "notas"
	case strings.HasPrefix(h, "C"):
		return "consideracoes"
	default:
		return "definicoes"
	}
}
