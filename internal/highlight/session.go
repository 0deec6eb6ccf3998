package highlight

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"go.uber.org/zap"
)

// State is the session lifecycle phase.
type State string

const (
	// StateIdle: no query, or content not ready; no markers in the tree.
	StateIdle State = "idle"
	// StateAnnotated: markers are in the tree and matches, active term
	// and quality are computed.
	StateAnnotated State = "annotated"
)

// wrapperTag encloses the parsed markup so a fragment with several
// top-level elements still has a single root.
const wrapperTag = "sh-root"

// Match is one located occurrence of a term inside the rendered tree.
// Index is its 0-based rank among occurrences of the same term in
// document order.
type Match struct {
	Marker *etree.Element `json:"-"`
	Term   string         `json:"term"`
	Index  int            `json:"index"`
}

// Session owns one live rendered tree and the highlight state layered on
// top of it. A scan runs only once both the content and a non-empty query
// are present; setting either half while the other is already in place
// triggers the scan. Every scan begins by restoring the previous scan's
// markers, so re-scanning is never cumulative.
type Session struct {
	mu  sync.Mutex
	log *zap.Logger

	doc   *etree.Document
	root  *etree.Element
	ready bool
	query string

	state     State
	terms     []string
	matches   map[string][]*Match
	active    string
	activeIdx map[string]int
	visible   bool
	quality   Quality
	index     *docIndex
}

// NewSession creates an idle session.
func NewSession(log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		log:       log,
		state:     StateIdle,
		activeIdx: make(map[string]int),
		quality:   Quality{Level: QualityNone},
	}
}

// SetContent parses rendered markup as the live tree and flags the content
// ready. The previous tree (and its markers) is discarded. On a parse
// error the session keeps its prior content untouched.
func (s *Session) SetContent(markup string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := etree.NewDocument()
	doc.ReadSettings.Permissive = true
	if err := doc.ReadFromString("<" + wrapperTag + ">" + markup + "</" + wrapperTag + ">"); err != nil {
		return fmt.Errorf("highlight: parsing content: %w", err)
	}
	root := doc.SelectElement(wrapperTag)
	if root == nil {
		return fmt.Errorf("highlight: content has no root")
	}

	s.doc = doc
	s.root = root
	s.ready = true
	s.scan()
	return nil
}

// SetQuery stores the search query. The scan is deferred until the
// content is ready.
func (s *Session) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
	s.scan()
}

// restore is the single idempotent cleanup: it unwinds every injected
// marker and resets match bookkeeping. Invoked at the start of each scan
// and on Close.
func (s *Session) restore() {
	if s.root != nil {
		unwrapAll(s.root)
	}
	s.state = StateIdle
	s.terms = nil
	s.matches = nil
	s.index = nil
	s.visible = false
	s.quality = Quality{Level: QualityNone}
}

// scan runs the cleanup-then-rebuild pass. Callers hold s.mu, so two scans
// can never overlap on the same container.
func (s *Session) scan() {
	s.restore()
	if !s.ready || strings.TrimSpace(s.query) == "" {
		return
	}

	terms := NormalizeQuery(s.query)
	if len(terms) == 0 {
		return
	}

	patterns := make(map[string]*regexp.Regexp, len(terms))
	for _, term := range terms {
		re, err := buildTermPattern(term)
		if err != nil {
			// Skip this term only; the others still produce markers.
			s.log.Warn("skipping term", zap.String("term", term), zap.Error(err))
			continue
		}
		patterns[term] = re
	}
	if len(patterns) == 0 {
		return
	}

	// Read-only pass first, then mutate in reverse document order so
	// pending leaf references stay valid, then restore forward order.
	leaves := collectLeaves(s.root)
	perLeaf := make([][]*Match, len(leaves))
	for i := len(leaves) - 1; i >= 0; i-- {
		perLeaf[i] = annotateLeaf(leaves[i], patterns, terms)
	}

	matches := make(map[string][]*Match)
	for _, leafMatches := range perLeaf {
		for _, m := range leafMatches {
			m.Index = len(matches[m.Term])
			matches[m.Term] = append(matches[m.Term], m)
		}
	}

	total := 0
	for _, ms := range matches {
		total += len(ms)
	}
	if total == 0 {
		return
	}

	s.terms = terms
	s.matches = matches
	s.index = buildDocIndex(s.root)
	s.quality = computeQuality(s.index, terms, matches)
	s.visible = true
	s.state = StateAnnotated

	s.pickActiveTerm()
}

// pickActiveTerm keeps the previously active term when it still has
// matches, otherwise takes the first term with at least one.
func (s *Session) pickActiveTerm() {
	if s.active != "" && len(s.matches[s.active]) > 0 {
		s.applyActive()
		return
	}
	s.active = ""
	for _, term := range s.terms {
		if len(s.matches[term]) > 0 {
			s.active = term
			break
		}
	}
	s.applyActive()
}

// applyActive clamps the active index and moves the active visual state
// onto the corresponding marker.
func (s *Session) applyActive() {
	if s.active == "" {
		return
	}
	ms := s.matches[s.active]
	if len(ms) == 0 {
		return
	}
	if s.activeIdx[s.active] >= len(ms) {
		s.activeIdx[s.active] = 0
	}
	s.setMarkerActive(ms[s.activeIdx[s.active]].Marker)
}

func (s *Session) setMarkerActive(marker *etree.Element) {
	for _, ms := range s.matches {
		for _, m := range ms {
			if m.Marker == marker {
				m.Marker.CreateAttr("class", activeClass)
			} else if m.Marker.SelectAttrValue("class", "") == activeClass {
				m.Marker.CreateAttr("class", markClass)
			}
		}
	}
}

// State reports the lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Terms returns the normalized query terms of the last scan.
func (s *Session) Terms() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.terms...)
}

// MatchCounts returns the number of markers per term.
func (s *Session) MatchCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int, len(s.matches))
	for term, ms := range s.matches {
		counts[term] = len(ms)
	}
	return counts
}

// Quality returns the co-occurrence score of the last scan.
func (s *Session) Quality() Quality {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quality
}

// ActiveTerm returns the currently active term.
func (s *Session) ActiveTerm() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// SetActiveTerm switches the active term; it reports false when the term
// has no matches, leaving the current term active.
func (s *Session) SetActiveTerm(term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.matches[term]) == 0 {
		return false
	}
	s.active = term
	s.applyActive()
	return true
}

// ActiveMatch returns the active term's current match and its total count.
func (s *Session) ActiveMatch() (Match, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.matches[s.active]
	if len(ms) == 0 {
		return Match{}, 0, false
	}
	return *ms[s.activeIdx[s.active]], len(ms), true
}

// Next advances the active term's occurrence cyclically and moves the
// active visual state to the new marker.
func (s *Session) Next() (Match, bool) { return s.step(1) }

// Prev moves to the previous occurrence cyclically.
func (s *Session) Prev() (Match, bool) { return s.step(-1) }

func (s *Session) step(delta int) (Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ms := s.matches[s.active]
	if len(ms) == 0 {
		return Match{}, false
	}
	idx := (s.activeIdx[s.active] + delta + len(ms)) % len(ms)
	s.activeIdx[s.active] = idx
	s.setMarkerActive(ms[idx].Marker)
	return *ms[idx], true
}

// Visible reports whether highlights are shown.
func (s *Session) Visible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visible
}

// Hide clears visibility without unwrapping the tree; markers are removed
// on the next scan or on Close.
func (s *Session) Hide() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visible = false
}

// Markup serializes the annotated tree.
func (s *Session) Markup() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return "", nil
	}
	out, err := s.doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("highlight: serializing: %w", err)
	}
	return stripWrapper(out), nil
}

// stripWrapper removes the synthetic root element from serialized output.
func stripWrapper(out string) string {
	out = strings.TrimSpace(out)
	opening := "<" + wrapperTag + ">"
	closing := "</" + wrapperTag + ">"
	if strings.HasPrefix(out, opening) && strings.HasSuffix(out, closing) {
		return out[len(opening) : len(out)-len(closing)]
	}
	// Empty content serializes self-closed.
	if out == "<"+wrapperTag+"/>" {
		return ""
	}
	return out
}

// Close restores the tree and detaches the session. Safe to call more
// than once.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restore()
	s.ready = false
	s.query = ""
	s.visible = false
}
