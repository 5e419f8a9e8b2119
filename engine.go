package traek

import (
	"log/slog"
	"time"

	"github.com/traek/traek-go/pkg/domain"
)

// Engine manages a conversation tree: nodes, spatial layout,
// navigation, search, tags and undo. Each conversation gets its own
// Engine; there is no ambient global instance.
//
// All mutation methods run to completion synchronously and finish by
// notifying subscribers, so "subscribe, mutate, read" within one call
// stack always observes a fully consistent post-mutation state. The
// engine holds no locks and expects single-writer usage.
type Engine struct {
	config domain.EngineConfig

	nodes        []*domain.Node
	activeNodeID string
	collapsed    map[string]struct{}

	searchQuery        string
	searchMatches      []string
	currentSearchIndex int

	// pendingFocusNodeID is a one-shot signal for consumers to center
	// the viewport on a node; cleared via ClearPendingFocus.
	pendingFocusNodeID string

	// Derived indices. Pure caches over nodes: always recomputable, and
	// rebuilt wholesale on any bulk structural change to avoid drift.
	nodeIndex   map[string]int
	childrenIDs map[string][]string // primary parent ID ("" = roots) -> child IDs

	hooks domain.LifecycleHooks

	lastDeleted *deletedBuffer

	scheduler           Scheduler
	heightLayoutPending bool

	subscribers []*listener
	notifyDepth int

	now    func() time.Time
	logger *slog.Logger
}

type listener struct {
	fn      func()
	removed bool
}

// New creates an empty engine with the default configuration, modified
// by the given options.
func New(opts ...Option) *Engine {
	e := &Engine{
		config:      domain.DefaultEngineConfig(),
		collapsed:   make(map[string]struct{}),
		nodeIndex:   make(map[string]int),
		childrenIDs: make(map[string][]string),
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() domain.EngineConfig {
	return e.config
}

// SetLifecycleHooks replaces the engine's lifecycle hooks. Collaborators
// (e.g. a canvas with a node-type registry) wire these after
// construction.
func (e *Engine) SetLifecycleHooks(hooks domain.LifecycleHooks) {
	e.hooks = hooks
}

// ─── Subscription ────────────────────────────────────────────────────

// Subscribe registers fn for state-change notification. fn is called
// synchronously and immediately, then again after every successful
// mutation. The returned function unsubscribes; other listeners are
// unaffected.
func (e *Engine) Subscribe(fn func()) (unsubscribe func()) {
	sub := &listener{fn: fn}
	e.subscribers = append(e.subscribers, sub)
	fn()
	return func() {
		// Flag only. A listener may unsubscribe (itself or a peer) from
		// inside its own callback while notify is mid-iteration, so the
		// slice must not be compacted here.
		sub.removed = true
	}
}

// State is a flat read of the engine's reactive fields at one point in
// time. Slices and maps are live references, not deep copies; treat
// them as read-only.
type State struct {
	Nodes              []*domain.Node
	ActiveNodeID       string
	CollapsedNodes     map[string]struct{}
	SearchQuery        string
	SearchMatches      []string
	CurrentSearchIndex int
	PendingFocusNodeID string
}

// Snapshot returns the current reactive state. Useful for consumers
// that need a comparable reference per notification.
func (e *Engine) Snapshot() State {
	return State{
		Nodes:              e.nodes,
		ActiveNodeID:       e.activeNodeID,
		CollapsedNodes:     e.collapsed,
		SearchQuery:        e.searchQuery,
		SearchMatches:      e.searchMatches,
		CurrentSearchIndex: e.currentSearchIndex,
		PendingFocusNodeID: e.pendingFocusNodeID,
	}
}

func (e *Engine) notify() {
	e.notifyDepth++
	for _, sub := range e.subscribers {
		if !sub.removed {
			sub.fn()
		}
	}
	e.notifyDepth--
	if e.notifyDepth == 0 {
		e.compactSubscribers()
	}
}

// compactSubscribers drops removed listeners. Must not run while a
// notification pass is iterating the slice; notify defers it until the
// outermost pass finishes.
func (e *Engine) compactSubscribers() {
	kept := e.subscribers[:0]
	for _, sub := range e.subscribers {
		if !sub.removed {
			kept = append(kept, sub)
		}
	}
	for i := len(kept); i < len(e.subscribers); i++ {
		e.subscribers[i] = nil
	}
	e.subscribers = kept
}

// ─── Accessors ───────────────────────────────────────────────────────

// Nodes returns the node collection in insertion order. The slice is a
// live read-only view.
func (e *Engine) Nodes() []*domain.Node {
	return e.nodes
}

// Len returns the number of nodes.
func (e *Engine) Len() int {
	return len(e.nodes)
}

// ActiveNodeID returns the currently focused node ID, or "" when none.
func (e *Engine) ActiveNodeID() string {
	return e.activeNodeID
}

// PendingFocusNodeID returns the one-shot focus signal, or "".
func (e *Engine) PendingFocusNodeID() string {
	return e.pendingFocusNodeID
}

// SearchQuery returns the current (trimmed) search query.
func (e *Engine) SearchQuery() string {
	return e.searchQuery
}

// SearchMatches returns matching node IDs for the current search, in
// collection order.
func (e *Engine) SearchMatches() []string {
	return e.searchMatches
}

// CurrentSearchIndex returns the 0-based index into SearchMatches.
func (e *Engine) CurrentSearchIndex() int {
	return e.currentSearchIndex
}

// Node returns the node with the given ID, or nil. O(1).
func (e *Engine) Node(id string) *domain.Node {
	idx, ok := e.nodeIndex[id]
	if !ok {
		return nil
	}
	return e.nodes[idx]
}

// Children returns the nodes whose primary parent is parentID, in
// insertion order. parentID "" returns the roots.
func (e *Engine) Children(parentID string) []*domain.Node {
	ids := e.childrenIDs[parentID]
	if len(ids) == 0 {
		return nil
	}
	result := make([]*domain.Node, 0, len(ids))
	for _, id := range ids {
		if idx, ok := e.nodeIndex[id]; ok {
			result = append(result, e.nodes[idx])
		}
	}
	return result
}

// Roots returns the nodes with no parents.
func (e *Engine) Roots() []*domain.Node {
	return e.Children("")
}

// ─── Derived index maintenance ───────────────────────────────────────

func (e *Engine) rebuildNodeIndex() {
	clear(e.nodeIndex)
	for i, n := range e.nodes {
		e.nodeIndex[n.ID] = i
	}
}

func (e *Engine) rebuildChildrenIDs() {
	clear(e.childrenIDs)
	for _, n := range e.nodes {
		e.addToChildrenIDs(n.ID, n.PrimaryParentID())
	}
}

func (e *Engine) addToChildrenIDs(nodeID, primaryParentID string) {
	e.childrenIDs[primaryParentID] = append(e.childrenIDs[primaryParentID], nodeID)
}

func (e *Engine) removeFromChildrenIDs(nodeID, primaryParentID string) {
	list := e.childrenIDs[primaryParentID]
	for i, id := range list {
		if id == nodeID {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(e.childrenIDs, primaryParentID)
	} else {
		e.childrenIDs[primaryParentID] = list
	}
}

func (e *Engine) syncMapsAfterAppend(node *domain.Node) {
	e.nodeIndex[node.ID] = len(e.nodes) - 1
	e.addToChildrenIDs(node.ID, node.PrimaryParentID())
}

func (e *Engine) rebuildMaps() {
	e.rebuildNodeIndex()
	e.rebuildChildrenIDs()
}
