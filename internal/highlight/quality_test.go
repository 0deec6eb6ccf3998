package highlight

import "testing"

func sessionQuality(t *testing.T, markup, query string) Quality {
	t.Helper()
	s := newTestSession(t, markup, query)
	return s.Quality()
}

func TestQualitySingleTermIsNone(t *testing.T) {
	q := sessionQuality(t, chapterMarkup, "bomba")
	if q.Level != QualityNone {
		t.Errorf("single-term quality = %q, want %q", q.Level, QualityNone)
	}
}

func TestQualityHighSubposition(t *testing.T) {
	// Both terms resolve to the pos-84-13 anchor: the h3 ancestor for the
	// heading match, the nearest preceding anchor for the paragraph matches.
	q := sessionQuality(t, chapterMarkup, "bomba filtro")
	if q.Level != QualityHigh {
		t.Fatalf("quality = %q, want %q", q.Level, QualityHigh)
	}
	if q.Scope != "subposition" {
		t.Errorf("scope = %q, want subposition", q.Scope)
	}
	if q.Count != 1 {
		t.Errorf("covering subpositions = %d, want 1", q.Count)
	}
}

func TestQualityHighCountsEverySubposition(t *testing.T) {
	markup := `<div class="chapter" data-chapter="84">` +
		`<h3 id="pos-84-13">bomba e filtro</h3>` +
		`<h3 id="pos-84-21">outra bomba com filtro</h3>` +
		`</div>`
	q := sessionQuality(t, markup, "bomba filtro")
	if q.Level != QualityHigh || q.Count != 2 {
		t.Errorf("quality = %+v, want ALTO with count 2", q)
	}
}

func TestQualityBlockFallbackWithoutAnchors(t *testing.T) {
	markup := `<p>bomba com filtro integrado</p><p>bomba isolada</p>`
	q := sessionQuality(t, markup, "bomba filtro")
	if q.Level != QualityHigh {
		t.Fatalf("quality = %q, want %q", q.Level, QualityHigh)
	}
	if q.Scope != "block" {
		t.Errorf("scope = %q, want block", q.Scope)
	}
}

func TestQualityNoBlockFallbackWhenSubpositionsResolve(t *testing.T) {
	// Terms share a block but sit under different subpositions; with
	// anchors resolvable the block scope must not rescue the score.
	markup := `<div class="chapter" data-chapter="84">` +
		`<h3 id="pos-84-13">Bombas</h3>` +
		`<p>bomba centrífuga</p>` +
		`<h3 id="pos-84-21">Filtros</h3>` +
		`<p>filtro de ar</p>` +
		`</div>`
	q := sessionQuality(t, markup, "bomba filtro")
	if q.Level != QualityLow {
		t.Errorf("quality = %q, want %q (chapter scope only)", q.Level, QualityLow)
	}
}

func TestQualityNoneAcrossChapters(t *testing.T) {
	markup := `<div class="chapter" data-chapter="84"><p>bomba centrífuga</p></div>` +
		`<div class="chapter" data-chapter="85"><p>filtro de ar</p></div>`
	q := sessionQuality(t, markup, "bomba filtro")
	if q.Level != QualityNone {
		t.Errorf("quality = %q, want %q", q.Level, QualityNone)
	}
}

func TestQualityRecomputedOnRescan(t *testing.T) {
	s := newTestSession(t, chapterMarkup, "bomba filtro")
	if got := s.Quality().Level; got != QualityHigh {
		t.Fatalf("initial quality = %q, want %q", got, QualityHigh)
	}
	s.SetQuery("bomba")
	if got := s.Quality().Level; got != QualityNone {
		t.Errorf("quality after single-term re-scan = %q, want %q", got, QualityNone)
	}
}
