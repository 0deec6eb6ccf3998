package highlight

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// QualityLevel classifies how strongly the search terms co-occur.
type QualityLevel string

const (
	// QualityHigh: some subposition (or block, when no subposition is
	// resolvable anywhere) contains every distinct term.
	QualityHigh QualityLevel = "ALTO"
	// QualityLow: the terms only meet at chapter scope.
	QualityLow QualityLevel = "PEQUENO"
	// QualityNone: fewer than two distinct terms, or no shared scope.
	QualityNone QualityLevel = "NENHUM"
)

// Quality is the co-occurrence score recomputed after every scan.
type Quality struct {
	Level QualityLevel `json:"level"`
	Count int          `json:"count"`
	Scope string       `json:"scope,omitempty"` // "subposition" or "block" for ALTO
}

// resolver maps a match to a grouping key, or reports that it cannot.
// Resolvers are tried in order and the first one that resolves wins.
type resolver func(m *Match) (key string, ok bool)

// docIndex caches document-order bookkeeping for one scanned tree: the
// flattened element sequence and each element's position in it.
type docIndex struct {
	order []*etree.Element
	seq   map[*etree.Element]int
}

func buildDocIndex(root *etree.Element) *docIndex {
	idx := &docIndex{seq: make(map[*etree.Element]int)}
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		idx.seq[e] = len(idx.order)
		idx.order = append(idx.order, e)
		for _, child := range e.Child {
			if el, ok := child.(*etree.Element); ok {
				walk(el)
			}
		}
	}
	walk(root)
	return idx
}

// blockTags are the block-level elements used as the fallback grouping key.
var blockTags = map[string]bool{
	"p": true, "li": true, "td": true, "th": true, "tr": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// subpositionKey resolves the nearest enclosing classification-subposition
// identifier: an ancestor carrying a pos- anchor (such as a position-table
// row), or failing that the nearest preceding pos- anchored element in
// document order within the same chapter container.
func (idx *docIndex) subpositionKey(m *Match) (string, bool) {
	for e := m.Marker; e != nil; e = e.Parent() {
		if id := e.SelectAttrValue("id", ""); strings.HasPrefix(id, "pos-") {
			return id, true
		}
	}

	chapter := chapterContainer(m.Marker)
	pos, ok := idx.seq[m.Marker]
	if !ok {
		return "", false
	}
	for i := pos - 1; i >= 0; i-- {
		e := idx.order[i]
		if id := e.SelectAttrValue("id", ""); strings.HasPrefix(id, "pos-") {
			if chapterContainer(e) == chapter {
				return id, true
			}
		}
	}
	return "", false
}

// blockKey resolves the nearest enclosing block-level element.
func (idx *docIndex) blockKey(m *Match) (string, bool) {
	for e := m.Marker; e != nil; e = e.Parent() {
		if blockTags[strings.ToLower(e.Tag)] {
			if seq, ok := idx.seq[e]; ok {
				return "block-" + strconv.Itoa(seq), true
			}
			return "", false
		}
	}
	return "", false
}

// chapterKey resolves the enclosing chapter container; a tree rendered
// without per-chapter containers collapses into a single document scope.
func (idx *docIndex) chapterKey(m *Match) (string, bool) {
	if ch := chapterContainer(m.Marker); ch != nil {
		return "chapter-" + ch.SelectAttrValue("data-chapter", "?"), true
	}
	return "document", true
}

func chapterContainer(e *etree.Element) *etree.Element {
	for ; e != nil; e = e.Parent() {
		if e.Tag == "div" && e.SelectAttrValue("data-chapter", "") != "" {
			if strings.Contains(e.SelectAttrValue("class", ""), "chapter") {
				return e
			}
		}
	}
	return nil
}

// computeQuality walks all matches and classifies co-occurrence strength.
// ALTO needs one grouping key covering every distinct term, preferring
// subposition scope and falling back to block scope only when no
// subposition resolves anywhere in the document. PEQUENO needs all terms
// under one chapter container. Resolution failures never raise errors;
// they degrade toward NENHUM.
func computeQuality(idx *docIndex, terms []string, matches map[string][]*Match) Quality {
	if len(terms) < 2 {
		return Quality{Level: QualityNone}
	}

	termsByKey := func(resolve resolver) (map[string]map[string]bool, bool) {
		groups := make(map[string]map[string]bool)
		resolvedAny := false
		for term, ms := range matches {
			for _, m := range ms {
				key, ok := resolve(m)
				if !ok {
					continue
				}
				resolvedAny = true
				if groups[key] == nil {
					groups[key] = make(map[string]bool)
				}
				groups[key][term] = true
			}
		}
		return groups, resolvedAny
	}

	coveringCount := func(groups map[string]map[string]bool) int {
		count := 0
		for _, found := range groups {
			if len(found) == len(terms) {
				count++
			}
		}
		return count
	}

	subGroups, subResolved := termsByKey(idx.subpositionKey)
	if subResolved {
		if n := coveringCount(subGroups); n > 0 {
			return Quality{Level: QualityHigh, Count: n, Scope: "subposition"}
		}
	} else {
		blockGroups, _ := termsByKey(idx.blockKey)
		if n := coveringCount(blockGroups); n > 0 {
			return Quality{Level: QualityHigh, Count: n, Scope: "block"}
		}
	}

	chapterGroups, _ := termsByKey(idx.chapterKey)
	if coveringCount(chapterGroups) > 0 {
		return Quality{Level: QualityLow}
	}
	return Quality{Level: QualityNone}
}
