package render

import (
	"strings"
	"testing"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/tariff"
)

func testRenderer() *Renderer {
	return New(DefaultOptions())
}

func TestRenderChapterEmpty(t *testing.T) {
	r := testRenderer()
	if got := r.RenderChapter(nil); got != "" {
		t.Errorf("nil chapter rendered %q, want empty", got)
	}
	if got := r.RenderChapter(&tariff.Chapter{Number: "84", RawContent: "   \n  "}); got != "" {
		t.Errorf("blank chapter rendered %q, want empty", got)
	}
}

func TestRenderChapterHeadings(t *testing.T) {
	ch := &tariff.Chapter{
		Number: "84",
		RawContent: "Capítulo 84 - Reatores nucleares\n" +
			"84.13 - Bombas para líquidos\n" +
			"8413.11 - Bombas dosadoras\n" +
			"84.13.11 - Detalhe de bomba\n" +
			"Texto corrido do capítulo.",
	}
	out := testRenderer().RenderChapter(ch)

	checks := []string{
		`<h2 class="chapter-title" id="chapter-84">`,
		`<h3 class="position-heading" id="pos-84-13">`,
		`<h4 class="subposition-heading" id="pos-8413-11">`,
		`<h4 class="subposition-heading" id="pos-84-13-11">`,
		"<p>Texto corrido do capítulo.</p>",
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderChapterDuplicateAnchorsSuppressed(t *testing.T) {
	ch := &tariff.Chapter{
		Number:     "84",
		RawContent: "84.13 - Bombas\n84.13 - Bombas repetidas",
	}
	out := testRenderer().RenderChapter(ch)
	if n := strings.Count(out, `id="pos-84-13"`); n != 1 {
		t.Errorf("anchor pos-84-13 emitted %d times, want 1:\n%s", n, out)
	}
}

func TestRenderChapterLists(t *testing.T) {
	ch := &tariff.Chapter{
		Number: "84",
		RawContent: "a) primeiro item\n" +
			"b) segundo item\n" +
			"Parágrafo intermediário\n" +
			"- item com traço\n" +
			"- outro item",
	}
	out := testRenderer().RenderChapter(ch)

	if n := strings.Count(out, `<ol class="ordered-items">`); n != 1 {
		t.Errorf("ordered list blocks = %d, want 1:\n%s", n, out)
	}
	if n := strings.Count(out, "<li>"); n != 4 {
		t.Errorf("list items = %d, want 4:\n%s", n, out)
	}
	if !strings.Contains(out, `<ul class="dash-items">`) {
		t.Errorf("missing unordered list in:\n%s", out)
	}
	if !strings.Contains(out, "<li>a) primeiro item</li>") {
		t.Errorf("item marker was stripped in:\n%s", out)
	}
}

func TestRenderChapterSections(t *testing.T) {
	ch := &tariff.Chapter{
		Number:     "39",
		RawContent: "Capítulo 39 - Plásticos",
		Sections: &tariff.ChapterSections{
			Title: "Plásticos e suas obras",
			Notes: "1. A presente Nota 1 aplica-se.\n\n2. Segunda linha.",
		},
	}
	out := testRenderer().RenderChapter(ch)

	if !strings.Contains(out, `id="chapter-39-titulo"`) {
		t.Errorf("missing titulo anchor in:\n%s", out)
	}
	if !strings.Contains(out, `id="chapter-39-notas"`) {
		t.Errorf("missing notas anchor in:\n%s", out)
	}
	if strings.Contains(out, "chapter-39-consideracoes") || strings.Contains(out, "chapter-39-definicoes") {
		t.Errorf("empty sections were rendered:\n%s", out)
	}
	// The notes text goes through the inline passes like everything else.
	if !strings.Contains(out, `<span class="note-ref" data-note="1">Nota 1</span>`) {
		t.Errorf("note ref missing inside section in:\n%s", out)
	}
}

func TestRenderChapterLegacyGeneralNotes(t *testing.T) {
	ch := &tariff.Chapter{
		Number:       "02",
		RawContent:   "Capítulo 2 - Carnes",
		GeneralNotes: "O presente Capítulo abrange as carnes.",
	}
	out := testRenderer().RenderChapter(ch)
	if !strings.Contains(out, `id="chapter-02-notas"`) {
		t.Errorf("legacy general notes lost their anchor in:\n%s", out)
	}
}

func TestRenderChapterPositionsTable(t *testing.T) {
	ch := &tariff.Chapter{
		Number:     "84",
		RawContent: "Capítulo 84",
		Positions: []tariff.Position{
			{Code: "84.13", Description: "Bombas para líquidos", Level: 0, Rate: "14%"},
			{Code: "8413.11.00", Description: "Bombas dosadoras", Level: 2},
		},
	}
	out := testRenderer().RenderChapter(ch)

	checks := []string{
		`<table class="positions-table">`,
		`<tr class="position-row" data-level="0" id="pos-84-13">`,
		`<tr class="position-row" data-level="2" id="pos-8413-11-00">`,
		`<td class="position-rate">14%</td>`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderChapterEscapesRawText(t *testing.T) {
	ch := &tariff.Chapter{
		Number:     "84",
		RawContent: `Taxa < 5% & "especial"`,
	}
	out := testRenderer().RenderChapter(ch)
	if !strings.Contains(out, "Taxa &lt; 5% &amp; &quot;especial&quot;") {
		t.Errorf("raw text not escaped in:\n%s", out)
	}
}

func TestRenderChapterEmphasis(t *testing.T) {
	ch := &tariff.Chapter{
		Number:     "84",
		RawContent: "Aplica-se **somente** às bombas.",
	}
	out := testRenderer().RenderChapter(ch)
	if !strings.Contains(out, "<strong>somente</strong>") {
		t.Errorf("emphasis not converted in:\n%s", out)
	}
}

func TestRenderChapterInlineAnnotations(t *testing.T) {
	ch := &tariff.Chapter{
		Number:     "84",
		RawContent: "Ver a posição 8413.11.00, exceto bombas acima de 100 kg.",
	}
	out := testRenderer().RenderChapter(ch)

	checks := []string{
		`<a href="#" class="smart-link" data-ncm="84131100">8413.11.00</a>`,
		`<span class="highlight-exclusion">exceto</span>`,
		`<span class="highlight-unit">kg</span>`,
	}
	for _, want := range checks {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestSectionType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TÍTULO", "titulo"},
		{"NOTAS", "notas"},
		{"Nota", "notas"},
		{"CONSIDERAÇÕES GERAIS", "consideracoes"},
		{"DEFINIÇÕES", "definicoes"},
	}
	for _, tt := range tests {
		if got := sectionType(tt.in); got != tt.want {
			t.Errorf("sectionType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
