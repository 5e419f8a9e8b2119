package traek

import (
	"time"

	"github.com/traek/traek-go/pkg/domain"
)

const undoWindow = 30 * time.Second

// deletedBuffer is the single-slot undo buffer. A new deletion always
// replaces it; RestoreDeleted consumes it. Expiry is checked lazily
// against the engine clock, so no timer goroutine is needed.
type deletedBuffer struct {
	nodes        []*domain.Node
	activeNodeID string
	storedAt     time.Time
}

func (e *Engine) storeDeletedBuffer(nodes []*domain.Node) {
	clones := make([]*domain.Node, len(nodes))
	for i, n := range nodes {
		clones[i] = cloneNode(n)
	}
	e.lastDeleted = &deletedBuffer{
		nodes:        clones,
		activeNodeID: e.activeNodeID,
		storedAt:     e.now(),
	}
}

// cloneNode deep-copies a node so later mutations of the live graph
// cannot reach into the undo buffer. Component stays a shared
// reference; it is host-owned and opaque.
func cloneNode(n *domain.Node) *domain.Node {
	clone := *n
	clone.ParentIDs = append([]string(nil), n.ParentIDs...)
	clone.Metadata.Tags = append([]string(nil), n.Metadata.Tags...)
	if n.Metadata.Extra != nil {
		clone.Metadata.Extra = make(map[string]any, len(n.Metadata.Extra))
		for k, v := range n.Metadata.Extra {
			clone.Metadata.Extra[k] = deepCopyValue(v)
		}
	}
	if n.Props != nil {
		clone.Props = make(map[string]any, len(n.Props))
		for k, v := range n.Props {
			clone.Props[k] = v
		}
	}
	clone.Data = deepCopyValue(n.Data)
	return &clone
}

// deepCopyValue copies the JSON-shaped subset of values (maps, slices,
// scalars). Other types are returned as-is; hosts storing live pointers
// in Data own their aliasing.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = deepCopyValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return v
	}
}

// DeleteNode removes a single node. References from other nodes'
// ParentIDs are left in place: children of the deleted node keep their
// dangling parent entry and are treated as roots by primary-parent
// traversal. Use DeleteNodeAndDescendants to remove a whole subtree
// cleanly.
func (e *Engine) DeleteNode(id string) {
	index, ok := e.nodeIndex[id]
	if !ok {
		return
	}
	node := e.nodes[index]
	if e.hooks.OnNodeDeleting != nil {
		e.hooks.OnNodeDeleting(node)
	}
	e.storeDeletedBuffer([]*domain.Node{node})

	primaryParentID := node.PrimaryParentID()
	e.nodes = append(e.nodes[:index], e.nodes[index+1:]...)
	e.removeFromChildrenIDs(id, primaryParentID)
	e.rebuildNodeIndex()
	if e.activeNodeID == id {
		e.activeNodeID = ""
	}
	if e.hooks.OnNodeDeleted != nil {
		e.hooks.OnNodeDeleted(1, e.RestoreDeleted)
	}
	e.notify()
}

// DeleteNodeAndDescendants removes a node and everything reachable from
// it through any parent edge (primary or secondary). Survivors' parent
// lists are scrubbed of deleted IDs, and the active node moves to the
// deleted node's former primary parent when that parent survives.
func (e *Engine) DeleteNodeAndDescendants(id string) {
	if _, ok := e.nodeIndex[id]; !ok {
		return
	}

	toDelete := map[string]struct{}{id: {}}
	queue := []string{id}
	for len(queue) > 0 {
		currentID := queue[0]
		queue = queue[1:]
		for _, n := range e.nodes {
			if _, marked := toDelete[n.ID]; marked {
				continue
			}
			if n.HasParent(currentID) {
				toDelete[n.ID] = struct{}{}
				queue = append(queue, n.ID)
			}
		}
	}

	deleted := make([]*domain.Node, 0, len(toDelete))
	for _, n := range e.nodes {
		if _, marked := toDelete[n.ID]; marked {
			deleted = append(deleted, n)
		}
	}
	e.storeDeletedBuffer(deleted)

	if e.hooks.OnNodeDeleting != nil {
		for _, n := range deleted {
			e.hooks.OnNodeDeleting(n)
		}
	}

	firstParentID := e.Node(id).PrimaryParentID()

	kept := make([]*domain.Node, 0, len(e.nodes)-len(toDelete))
	for _, n := range e.nodes {
		if _, marked := toDelete[n.ID]; marked {
			continue
		}
		filtered := n.ParentIDs[:0:0]
		for _, pid := range n.ParentIDs {
			if _, gone := toDelete[pid]; !gone {
				filtered = append(filtered, pid)
			}
		}
		if len(filtered) != len(n.ParentIDs) {
			n.ParentIDs = filtered
		}
		kept = append(kept, n)
	}
	e.nodes = kept
	e.rebuildMaps()

	if _, gone := toDelete[e.activeNodeID]; gone && e.activeNodeID != "" {
		if _, survives := e.nodeIndex[firstParentID]; survives && firstParentID != "" {
			e.activeNodeID = firstParentID
		} else {
			e.activeNodeID = ""
		}
	}

	e.FlushLayoutFromRoot()

	if e.hooks.OnNodeDeleted != nil {
		e.hooks.OnNodeDeleted(len(toDelete), e.RestoreDeleted)
	}
	e.notify()
}

// RestoreDeleted re-appends the last deleted buffer if it is still
// within the 30-second undo window, restoring the active node recorded
// at deletion time when it resolves. Returns whether anything was
// restored; the buffer is consumed either way once inspected past
// expiry.
func (e *Engine) RestoreDeleted() bool {
	if e.lastDeleted == nil {
		return false
	}
	if e.now().Sub(e.lastDeleted.storedAt) > undoWindow {
		e.lastDeleted = nil
		return false
	}

	restored := e.lastDeleted.nodes
	activeNodeID := e.lastDeleted.activeNodeID
	e.lastDeleted = nil

	e.nodes = append(e.nodes, restored...)
	e.rebuildMaps()

	if activeNodeID != "" {
		if _, ok := e.nodeIndex[activeNodeID]; ok {
			e.activeNodeID = activeNodeID
		}
	}

	e.FlushLayoutFromRoot()
	e.notify()
	return true
}
