package traek

import (
	"github.com/traek/traek-go/pkg/domain"
)

// WouldCreateCycle reports whether adding an edge parentID → childID to
// the given collection would create a cycle, by walking backward from
// parentID through every parent edge looking for childID. A self-edge
// is always a cycle.
func WouldCreateCycle(nodes []*domain.Node, parentID, childID string) bool {
	if parentID == childID {
		return true
	}
	byID := make(map[string]*domain.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}
	visited := make(map[string]struct{})
	stack := []string{parentID}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if current == childID {
			return true
		}
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}
		if node := byID[current]; node != nil {
			stack = append(stack, node.ParentIDs...)
		}
	}
	return false
}

// AddConnection appends parentID to childID's parent list, turning the
// tree into a DAG. Rejected (returning false, without notifying) when
// either node is missing, the edge already exists, or it would create a
// cycle. Secondary edges have no layout effect, but a full layout pass
// still runs for hosts that render them.
func (e *Engine) AddConnection(parentID, childID string) bool {
	child := e.Node(childID)
	parent := e.Node(parentID)
	if child == nil || parent == nil {
		return false
	}
	if child.HasParent(parentID) {
		return false
	}
	if WouldCreateCycle(e.nodes, parentID, childID) {
		return false
	}
	oldPrimary := child.PrimaryParentID()
	child.ParentIDs = append(child.ParentIDs, parentID)
	if newPrimary := child.PrimaryParentID(); newPrimary != oldPrimary {
		// Only happens when the child was a root: the new edge becomes
		// its primary parent.
		e.removeFromChildrenIDs(childID, oldPrimary)
		e.addToChildrenIDs(childID, newPrimary)
	}
	e.FlushLayoutFromRoot()
	e.notify()
	return true
}

// RemoveConnection deletes the parentID entry from childID's parent
// list. Removing the primary edge promotes the next parent to primary,
// which reparents the child for layout and traversal. Returns false
// when the edge does not exist.
func (e *Engine) RemoveConnection(parentID, childID string) bool {
	child := e.Node(childID)
	if child == nil {
		return false
	}
	if !child.HasParent(parentID) {
		return false
	}
	oldPrimary := child.PrimaryParentID()
	filtered := child.ParentIDs[:0:0]
	for _, pid := range child.ParentIDs {
		if pid != parentID {
			filtered = append(filtered, pid)
		}
	}
	child.ParentIDs = filtered
	if newPrimary := child.PrimaryParentID(); newPrimary != oldPrimary {
		e.removeFromChildrenIDs(childID, oldPrimary)
		e.addToChildrenIDs(childID, newPrimary)
	}
	e.FlushLayoutFromRoot()
	e.notify()
	return true
}
