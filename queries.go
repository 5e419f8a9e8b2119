package traek

import (
	"github.com/traek/traek-go/pkg/domain"
)

// ContextPath returns the linear ancestor chain from a root to the
// active node, following the primary parent at each step. Empty when no
// node is active.
//
// This walk is deliberately unguarded: AddConnection refuses cycles, so
// a cycle here means the invariant was broken externally (e.g. by
// mutating ParentIDs directly).
func (e *Engine) ContextPath() []*domain.Node {
	if e.activeNodeID == "" {
		return nil
	}
	var path []*domain.Node
	current := e.Node(e.activeNodeID)
	for current != nil {
		path = append(path, current)
		primary := current.PrimaryParentID()
		if primary == "" {
			break
		}
		current = e.Node(primary)
	}
	// Walked leaf-to-root; callers want root-first.
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Parent returns a node's primary parent, or nil for roots and unknown
// IDs.
func (e *Engine) Parent(id string) *domain.Node {
	node := e.Node(id)
	if node == nil {
		return nil
	}
	primary := node.PrimaryParentID()
	if primary == "" {
		return nil
	}
	return e.Node(primary)
}

// Siblings returns the non-thought children of a node's primary parent,
// including the node itself.
func (e *Engine) Siblings(id string) []*domain.Node {
	node := e.Node(id)
	if node == nil {
		return nil
	}
	return e.visibleChildren(node.PrimaryParentID())
}

// SiblingIndex returns a node's 0-based position among its siblings and
// the sibling count. index is -1 when the node has no siblings (unknown
// ID or a thought node, which Siblings filters out).
func (e *Engine) SiblingIndex(id string) (index, total int) {
	siblings := e.Siblings(id)
	if len(siblings) == 0 {
		return -1, 0
	}
	index = -1
	for i, s := range siblings {
		if s.ID == id {
			index = i
			break
		}
	}
	return index, len(siblings)
}

// Depth returns the number of primary-parent hops from the node to its
// root, or -1 for unknown IDs. A cycle is logged and the depth walked
// so far returned.
func (e *Engine) Depth(id string) int {
	current := e.Node(id)
	if current == nil {
		return -1
	}
	depth := 0
	visited := make(map[string]struct{})
	for current != nil {
		if _, seen := visited[current.ID]; seen {
			e.logger.Warn("cycle detected in depth walk", "nodeId", id)
			return depth
		}
		visited[current.ID] = struct{}{}
		primary := current.PrimaryParentID()
		if primary == "" {
			return depth
		}
		current = e.Node(primary)
		depth++
	}
	return depth
}

// MaxDepth returns the depth of the deepest non-thought leaf, or -1 for
// an empty engine.
func (e *Engine) MaxDepth() int {
	if len(e.nodes) == 0 {
		return -1
	}
	max := 0
	for _, node := range e.nodes {
		if node.IsThought() {
			continue
		}
		if len(e.visibleChildren(node.ID)) != 0 {
			continue
		}
		if d := e.Depth(node.ID); d > max {
			max = d
		}
	}
	return max
}

// ActiveLeaf descends from a node to a leaf, at each step taking the
// child recorded in lastVisited (keyed by parent ID) when it is still
// present, otherwise the first non-thought child. Returns nil for
// unknown IDs; on a cycle it logs and returns the repeated node.
func (e *Engine) ActiveLeaf(id string, lastVisited map[string]string) *domain.Node {
	current := e.Node(id)
	if current == nil {
		return nil
	}
	visited := make(map[string]struct{})
	for {
		if _, seen := visited[current.ID]; seen {
			e.logger.Warn("cycle detected in leaf walk", "nodeId", id)
			return current
		}
		visited[current.ID] = struct{}{}
		kids := e.visibleChildren(current.ID)
		if len(kids) == 0 {
			return current
		}
		next := kids[0]
		if hintID, ok := lastVisited[current.ID]; ok {
			for _, k := range kids {
				if k.ID == hintID {
					next = k
					break
				}
			}
		}
		current = next
	}
}

// AncestorPath returns the IDs of every node reachable from id through
// any parent edge (primary or secondary), id itself included, in
// discovery order.
func (e *Engine) AncestorPath(id string) []string {
	visited := make(map[string]struct{})
	var order []string
	stack := []string{id}
	for len(stack) > 0 {
		currentID := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[currentID]; seen {
			continue
		}
		visited[currentID] = struct{}{}
		order = append(order, currentID)
		if node := e.Node(currentID); node != nil {
			stack = append(stack, node.ParentIDs...)
		}
	}
	return order
}

// DescendantCount counts the non-thought nodes below id (primary-child
// BFS, traversing through thought nodes without counting them).
func (e *Engine) DescendantCount(id string) int {
	return len(e.Descendants(id))
}

// Descendants returns the non-thought nodes below id in BFS order.
// Thought nodes are traversed but not reported.
func (e *Engine) Descendants(id string) []*domain.Node {
	var result []*domain.Node
	visited := make(map[string]struct{})
	queue := []string{id}
	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]
		for _, child := range e.Children(currentID) {
			if _, seen := visited[child.ID]; seen {
				continue
			}
			visited[child.ID] = struct{}{}
			if !child.IsThought() {
				result = append(result, child)
			}
			queue = append(queue, child.ID)
		}
	}
	return result
}

// ─── Collapse ────────────────────────────────────────────────────────

// ToggleCollapse flips a node's collapsed flag. Collapse is pure
// presentation state: descendants stay in the collection and in layout.
func (e *Engine) ToggleCollapse(id string) {
	if _, ok := e.collapsed[id]; ok {
		delete(e.collapsed, id)
	} else {
		e.collapsed[id] = struct{}{}
	}
	e.notify()
}

// IsCollapsed reports whether a node is collapsed.
func (e *Engine) IsCollapsed(id string) bool {
	_, ok := e.collapsed[id]
	return ok
}

// CollapsedNodes returns the set of collapsed node IDs (live
// reference).
func (e *Engine) CollapsedNodes() map[string]struct{} {
	return e.collapsed
}

// HiddenDescendantCount returns how many non-thought nodes a collapsed
// node hides. Counts regardless of actual collapse state.
func (e *Engine) HiddenDescendantCount(id string) int {
	return e.DescendantCount(id)
}

// IsInCollapsedSubtree reports whether any primary ancestor of the node
// is collapsed, i.e. whether a renderer should hide it.
func (e *Engine) IsInCollapsedSubtree(id string) bool {
	current := e.Node(id)
	visited := make(map[string]struct{})
	for current != nil {
		if _, seen := visited[current.ID]; seen {
			return false
		}
		visited[current.ID] = struct{}{}
		primary := current.PrimaryParentID()
		if primary == "" {
			return false
		}
		if _, collapsed := e.collapsed[primary]; collapsed {
			return true
		}
		current = e.Node(primary)
	}
	return false
}

// ─── Focus / navigation ──────────────────────────────────────────────

// FocusOnNode raises the one-shot focus signal for an existing node so
// the consumer centers its viewport on it.
func (e *Engine) FocusOnNode(id string) {
	if _, ok := e.nodeIndex[id]; ok {
		e.pendingFocusNodeID = id
		e.notify()
	}
}

// ClearPendingFocus acknowledges the focus signal. Consumers call this
// after centering.
func (e *Engine) ClearPendingFocus() {
	e.pendingFocusNodeID = ""
	e.notify()
}

// BranchFrom makes an arbitrary node the active one, so the next
// AddNode without explicit parents starts a new branch there. The ID is
// not validated; matching the permissive navigation semantics of
// hosts that track selection themselves.
func (e *Engine) BranchFrom(id string) {
	e.activeNodeID = id
	e.notify()
}
