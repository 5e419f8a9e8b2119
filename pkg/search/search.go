// Package search implements content search over conversation nodes and
// a pure highlighting helper for rendering matches. It holds no engine
// state; the engine's search methods delegate here.
package search

import (
	"strings"

	"github.com/traek/traek-go/pkg/domain"
)

// Nodes returns the IDs of all nodes whose content contains query,
// case-insensitively, in collection order. Nodes without content
// (custom-rendered nodes) never match. An empty or whitespace-only
// query matches nothing.
func Nodes(nodes []*domain.Node, query string) []string {
	lowerQuery := strings.ToLower(strings.TrimSpace(query))
	if lowerQuery == "" {
		return nil
	}
	var matches []string
	for _, node := range nodes {
		if node.Content == "" {
			continue
		}
		if strings.Contains(strings.ToLower(node.Content), lowerQuery) {
			matches = append(matches, node.ID)
		}
	}
	return matches
}

// Range is a half-open [Start, End) byte span within a text.
type Range struct {
	Start int
	End   int
}

// Ranges locates all non-overlapping occurrences of query in text,
// case-insensitively. The trimmed, lowercased query is matched against
// the lowercased text.
func Ranges(text, query string) []Range {
	lowerQuery := strings.ToLower(strings.TrimSpace(query))
	if lowerQuery == "" {
		return nil
	}
	lowerText := strings.ToLower(text)
	var spans []Range
	pos := 0
	for pos < len(lowerText) {
		idx := strings.Index(lowerText[pos:], lowerQuery)
		if idx == -1 {
			break
		}
		start := pos + idx
		end := start + len(lowerQuery)
		spans = append(spans, Range{Start: start, End: end})
		pos = end
	}
	return spans
}

// Highlight wraps every occurrence of query in text in
// <mark class="search-highlight"> tags. All literal text is
// HTML-escaped, so the result is safe to render as markup.
func Highlight(text, query string) string {
	spans := Ranges(text, query)
	if len(spans) == 0 {
		return escapeHTML(text)
	}
	var sb strings.Builder
	lastEnd := 0
	for _, span := range spans {
		sb.WriteString(escapeHTML(text[lastEnd:span.Start]))
		sb.WriteString(`<mark class="search-highlight">`)
		sb.WriteString(escapeHTML(text[span.Start:span.End]))
		sb.WriteString(`</mark>`)
		lastEnd = span.End
	}
	sb.WriteString(escapeHTML(text[lastEnd:]))
	return sb.String()
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeHTML(text string) string {
	return htmlEscaper.Replace(text)
}
