package tui

import (
	"strings"

	"github.com/muesli/termenv"

	"github.com/traek/traek-go/pkg/search"
)

// HighlightMatches emphasizes every occurrence of query in text for
// terminal output. Falls back to the unmodified text when the query
// does not occur.
func HighlightMatches(text, query string) string {
	ranges := search.Ranges(text, query)
	if len(ranges) == 0 {
		return text
	}
	p := termenv.ColorProfile()
	var sb strings.Builder
	prev := 0
	for _, r := range ranges {
		sb.WriteString(text[prev:r.Start])
		sb.WriteString(termenv.String(text[r.Start:r.End]).
			Foreground(p.Color("#000000")).
			Background(p.Color("#ffeb3b")).
			String())
		prev = r.End
	}
	sb.WriteString(text[prev:])
	return sb.String()
}
