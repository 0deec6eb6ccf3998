package highlight

import (
	"regexp"
	"sort"
	"strings"

	"github.com/beevik/etree"
)

// Marker element constants. The wrapper span exists solely so restore can
// unwrap a previous scan in one step; the mark element is the public
// markup contract.
const (
	wrapAttr    = "data-sh-wrap"
	termAttr    = "data-sh-term"
	markClass   = "search-highlight search-highlight-partial"
	activeClass = "search-highlight search-highlight-partial search-highlight-active"
)

// skipElements are subtrees never scanned for matches.
var skipElements = map[string]bool{"script": true, "style": true}

// leafRef locates one text node: its parent element and the child index
// the node occupied when collected.
type leafRef struct {
	parent *etree.Element
	index  int
}

// collectLeaves returns every non-blank text leaf under root in document
// order, skipping script/style subtrees and already-marked wrappers.
func collectLeaves(root *etree.Element) []leafRef {
	var leaves []leafRef
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if skipElements[strings.ToLower(e.Tag)] {
			return
		}
		if isWrapper(e) {
			return
		}
		for i, child := range e.Child {
			switch c := child.(type) {
			case *etree.CharData:
				if strings.TrimSpace(c.Data) != "" {
					leaves = append(leaves, leafRef{parent: e, index: i})
				}
			case *etree.Element:
				walk(c)
			}
		}
	}
	walk(root)
	return leaves
}

func isWrapper(e *etree.Element) bool {
	return e.Tag == "span" && e.SelectAttrValue(wrapAttr, "") != ""
}

func isMarker(e *etree.Element) bool {
	return e.Tag == "mark" && e.SelectAttrValue(termAttr, "") != ""
}

// matchSpan is one term occurrence inside a single text leaf, in byte
// offsets.
type matchSpan struct {
	start, end int
	term       string
}

// annotateLeaf replaces the text node at leaf with a wrapper containing a
// mark element around every term occurrence. It returns the markers
// created for this leaf in forward text order, or nil when nothing in the
// leaf matched.
func annotateLeaf(leaf leafRef, patterns map[string]*regexp.Regexp, termOrder []string) []*Match {
	cd, ok := leaf.parent.Child[leaf.index].(*etree.CharData)
	if !ok {
		return nil
	}
	text := cd.Data

	var spans []matchSpan
	for _, term := range termOrder {
		re, ok := patterns[term]
		if !ok {
			continue
		}
		for _, loc := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, matchSpan{start: loc[0], end: loc[1], term: term})
		}
	}
	if len(spans) == 0 {
		return nil
	}

	// Earliest first; drop anything overlapping an already-kept span.
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end > spans[j].end
	})
	kept := spans[:0]
	lastEnd := 0
	for _, sp := range spans {
		if sp.start < lastEnd {
			continue
		}
		kept = append(kept, sp)
		lastEnd = sp.end
	}

	wrap := etree.NewElement("span")
	wrap.CreateAttr(wrapAttr, "1")

	var out []*Match
	prev := 0
	for _, sp := range kept {
		if sp.start > prev {
			wrap.AddChild(etree.NewText(text[prev:sp.start]))
		}
		mark := etree.NewElement("mark")
		mark.CreateAttr(termAttr, sp.term)
		mark.CreateAttr("class", markClass)
		mark.AddChild(etree.NewText(text[sp.start:sp.end]))
		wrap.AddChild(mark)
		out = append(out, &Match{Marker: mark, Term: sp.term})
		prev = sp.end
	}
	if prev < len(text) {
		wrap.AddChild(etree.NewText(text[prev:]))
	}

	leaf.parent.RemoveChildAt(leaf.index)
	leaf.parent.InsertChildAt(leaf.index, wrap)
	return out
}

// unwrapAll removes every marker wrapper under e, restoring the plain text
// it replaced and merging adjacent text nodes. Running it on an untouched
// tree is a no-op, which keeps restore idempotent.
func unwrapAll(e *etree.Element) {
	for i := 0; i < len(e.Child); i++ {
		el, ok := e.Child[i].(*etree.Element)
		if !ok {
			continue
		}
		if isWrapper(el) {
			text := subtreeText(el)
			e.RemoveChildAt(i)
			e.InsertChildAt(i, etree.NewText(text))
			continue
		}
		unwrapAll(el)
	}
	mergeAdjacentText(e)
}

func subtreeText(e *etree.Element) string {
	var b strings.Builder
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.Child {
			switch c := child.(type) {
			case *etree.CharData:
				b.WriteString(c.Data)
			case *etree.Element:
				walk(c)
			}
		}
	}
	walk(e)
	return b.String()
}

func mergeAdjacentText(e *etree.Element) {
	for i := 0; i < len(e.Child)-1; {
		a, aok := e.Child[i].(*etree.CharData)
		b, bok := e.Child[i+1].(*etree.CharData)
		if aok && bok {
			a.Data += b.Data
			e.RemoveChildAt(i + 1)
			continue
		}
		i++
	}
}
