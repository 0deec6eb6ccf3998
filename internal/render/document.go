package render

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/tariff"
)

// RenderDocument assembles many chapters into one document, ordered by
// numeric chapter value ascending ("02" before "10"). Each chapter renders
// independently: a failure in one produces an inline error block for that
// chapter and is logged, while the remaining chapters render normally.
func (r *Renderer) RenderDocument(chapters map[string]*tariff.Chapter, log *zap.Logger) string {
	if log == nil {
		log = zap.NewNop()
	}

	numbers := make([]string, 0, len(chapters))
	for n := range chapters {
		numbers = append(numbers, n)
	}
	numbers = tariff.SortChapterNumbers(numbers)

	var b strings.Builder
	for _, n := range numbers {
		markup, err := r.renderChapterSafe(chapters[n])
		if err != nil {
			log.Error("chapter render failed",
				zap.String("chapter", n),
				zap.Error(err))
			b.WriteString(chapterErrorBlock(n))
			continue
		}
		if markup == "" {
			continue
		}
		b.WriteString(`<div class="chapter" data-chapter="`)
		b.WriteString(escapeText(n))
		b.WriteString(`">`)
		b.WriteString(markup)
		b.WriteString(`</div>`)
	}
	return b.String()
}

// renderChapterSafe isolates one chapter's render, converting a panic in
// the structural parsing into an error at this boundary only.
func (r *Renderer) renderChapterSafe(ch *tariff.Chapter) (string, error) {
	return recoverRender(func() string { return r.RenderChapter(ch) })
}

func recoverRender(fn func() string) (markup string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render: chapter panicked: %v", rec)
		}
	}()
	return fn(), nil
}

// chapterErrorBlock is the inline substitute for a chapter that failed to
// render, naming the chapter so the rest of the document stays readable.
func chapterErrorBlock(n string) string {
	var b strings.Builder
	b.WriteString(`<div class="chapter-error" data-chapter="`)
	b.WriteString(escapeText(n))
	b.WriteString(`">&#9888; Erro ao renderizar o Capítulo `)
	b.WriteString(escapeText(n))
	b.WriteString(`</div>`)
	return b.String()
}
