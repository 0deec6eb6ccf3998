package render

import "strings"

// voidTags never carry a closing tag.
var voidTags = map[string]bool{"br": true, "hr": true, "img": true}

// injectOutsideTags rewrites the text segments of markup through fn while
// leaving every tag untouched. Text inside an element whose name appears
// in skip (at any nesting depth) is also left untouched, which is how the
// injection passes avoid splitting a link's visible text or re-processing
// an attribute value.
func injectOutsideTags(markup string, skip map[string]bool, fn func(string) string) string {
	var b strings.Builder
	b.Grow(len(markup))

	skipDepth := 0
	i := 0
	for i < len(markup) {
		lt := strings.IndexByte(markup[i:], '<')
		if lt == -1 {
			b.WriteString(applyText(markup[i:], skipDepth, fn))
			break
		}
		lt += i
		b.WriteString(applyText(markup[i:lt], skipDepth, fn))

		gt := strings.IndexByte(markup[lt:], '>')
		if gt == -1 {
			// Unterminated bracket; emit verbatim.
			b.WriteString(markup[lt:])
			break
		}
		gt += lt
		tag := markup[lt : gt+1]
		b.WriteString(tag)

		name, closing, selfClosing := parseTag(tag)
		if skip[name] && !voidTags[name] && !selfClosing {
			if closing {
				if skipDepth > 0 {
					skipDepth--
				}
			} else {
				skipDepth++
			}
		}
		i = gt + 1
	}
	return b.String()
}

func applyText(text string, skipDepth int, fn func(string) string) string {
	if text == "" || skipDepth > 0 {
		return text
	}
	return fn(text)
}

// parseTag extracts the lower-cased element name from a raw "<...>" token
// and reports whether it is a closing or self-closing tag.
func parseTag(tag string) (name string, closing, selfClosing bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(tag, "<"), ">")
	if strings.HasSuffix(inner, "/") {
		selfClosing = true
		inner = strings.TrimSuffix(inner, "/")
	}
	inner = strings.TrimSpace(inner)
	if strings.HasPrefix(inner, "/") {
		closing = true
		inner = strings.TrimPrefix(inner, "/")
	}
	end := len(inner)
	for j := 0; j < len(inner); j++ {
		if inner[j] == ' ' || inner[j] == '\t' || inner[j] == '\n' {
			end = j
			break
		}
	}
	return strings.ToLower(inner[:end]), closing, selfClosing
}

// escapeText makes raw legal text safe for markup assembly. It runs before
// any injection pass, so injected tags themselves are never escaped.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func escapeText(text string) string {
	return textEscaper.Replace(text)
}
