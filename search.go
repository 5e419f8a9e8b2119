package traek

import (
	"strings"

	"github.com/traek/traek-go/pkg/search"
)

// Search runs a case-insensitive substring search over node content.
// Matching node IDs land in SearchMatches in collection order, the
// current index resets to 0, collapsed ancestors of matches are
// expanded so every match is visible, and the first match raises the
// focus signal. A whitespace-only query clears the result set.
func (e *Engine) Search(query string) {
	e.searchQuery = strings.TrimSpace(query)

	if e.searchQuery == "" {
		e.searchMatches = nil
		e.currentSearchIndex = 0
		e.notify()
		return
	}

	matches := search.Nodes(e.nodes, e.searchQuery)
	e.searchMatches = matches
	e.currentSearchIndex = 0

	for _, matchID := range matches {
		e.expandAncestorsIfCollapsed(matchID)
	}

	if len(matches) > 0 {
		e.pendingFocusNodeID = matches[0]
	}

	e.notify()
}

// NextSearchMatch advances to the next match, wrapping at the end, and
// raises the focus signal for it. No-op without matches.
func (e *Engine) NextSearchMatch() {
	if len(e.searchMatches) == 0 {
		return
	}
	e.currentSearchIndex = (e.currentSearchIndex + 1) % len(e.searchMatches)
	e.pendingFocusNodeID = e.searchMatches[e.currentSearchIndex]
	e.notify()
}

// PreviousSearchMatch steps back to the previous match, wrapping at the
// start.
func (e *Engine) PreviousSearchMatch() {
	if len(e.searchMatches) == 0 {
		return
	}
	n := len(e.searchMatches)
	e.currentSearchIndex = (e.currentSearchIndex - 1 + n) % n
	e.pendingFocusNodeID = e.searchMatches[e.currentSearchIndex]
	e.notify()
}

// ClearSearch resets query, matches and index. Collapse state expanded
// by a previous search stays expanded.
func (e *Engine) ClearSearch() {
	e.searchQuery = ""
	e.searchMatches = nil
	e.currentSearchIndex = 0
	e.notify()
}

// expandAncestorsIfCollapsed uncollapses every primary ancestor of a
// match so it is not hidden. Part of Search's single mutation; no
// separate notification.
func (e *Engine) expandAncestorsIfCollapsed(id string) {
	current := e.Node(id)
	visited := make(map[string]struct{})
	for current != nil {
		if _, seen := visited[current.ID]; seen {
			break
		}
		visited[current.ID] = struct{}{}
		primary := current.PrimaryParentID()
		if primary == "" {
			break
		}
		delete(e.collapsed, primary)
		current = e.Node(primary)
	}
}
