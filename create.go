package traek

import (
	"github.com/google/uuid"

	"github.com/traek/traek-go/pkg/domain"
)

type addOptions struct {
	nodeType    string
	parentIDs   []string
	parentsSet  bool
	autofocus   bool
	x, y        float64
	hasPosition bool
	data        any
	deferLayout bool
}

// AddOption configures a single AddNode/AddCustomNode call.
type AddOption func(*addOptions)

// WithParents sets the new node's parents explicitly. The first ID is
// the primary parent; calling WithParents() with no IDs creates an
// explicit root. When omitted, the node chains off the active node.
func WithParents(ids ...string) AddOption {
	return func(o *addOptions) {
		o.parentIDs = ids
		o.parentsSet = true
	}
}

// WithNodeType sets the node type (defaults to domain.NodeTypeText).
func WithNodeType(nodeType string) AddOption {
	return func(o *addOptions) {
		o.nodeType = nodeType
	}
}

// AtPosition places the node at an explicit grid position and flags it
// ManualPosition so layout will not move it.
func AtPosition(x, y float64) AddOption {
	return func(o *addOptions) {
		o.x, o.y = x, y
		o.hasPosition = true
	}
}

// WithAutofocus schedules a focus signal for the new node on the next
// animation frame (no-op without a Scheduler).
func WithAutofocus() AddOption {
	return func(o *addOptions) {
		o.autofocus = true
	}
}

// WithData attaches an opaque payload to the node.
func WithData(data any) AddOption {
	return func(o *addOptions) {
		o.data = data
	}
}

// WithDeferLayout skips the layout pass for this add; call
// FlushLayoutFromRoot after the batch.
func WithDeferLayout() AddOption {
	return func(o *addOptions) {
		o.deferLayout = true
	}
}

// AddNode creates a message node and appends it to the collection.
// Unless WithParents is given, the node's primary parent is the active
// node; non-thought nodes then become active themselves. Subscribers
// are notified once, synchronously.
func (e *Engine) AddNode(content string, role domain.Role, opts ...AddOption) *domain.Node {
	o := collectAddOptions(opts)
	node := e.buildNode(role, o)
	node.Content = content
	e.insertNode(node, o)
	return node
}

// AddCustomNode creates a node rendered by a host-framework component.
// The component and props are opaque to the engine: stored, returned,
// never inspected, and excluded from serialization.
func (e *Engine) AddCustomNode(component any, props map[string]any, role domain.Role, opts ...AddOption) *domain.Node {
	o := collectAddOptions(opts)
	node := e.buildNode(role, o)
	node.Component = component
	node.Props = props
	e.insertNode(node, o)
	return node
}

func collectAddOptions(opts []AddOption) addOptions {
	var o addOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (e *Engine) buildNode(role domain.Role, o addOptions) *domain.Node {
	parentIDs := o.parentIDs
	if !o.parentsSet && e.activeNodeID != "" {
		parentIDs = []string{e.activeNodeID}
	}
	nodeType := o.nodeType
	if nodeType == "" {
		nodeType = domain.NodeTypeText
	}
	return &domain.Node{
		ID:        uuid.NewString(),
		ParentIDs: parentIDs,
		Role:      role,
		Type:      nodeType,
		CreatedAt: e.now().UnixMilli(),
		Metadata: domain.Metadata{
			X:              o.x,
			Y:              o.y,
			Height:         e.config.NodeHeightDefault,
			ManualPosition: o.hasPosition,
		},
		Data: o.data,
	}
}

func (e *Engine) insertNode(node *domain.Node, o addOptions) {
	e.nodes = append(e.nodes, node)
	e.syncMapsAfterAppend(node)
	if !node.IsThought() {
		e.activeNodeID = node.ID
	}

	if primary := node.PrimaryParentID(); primary != "" && !o.deferLayout {
		e.layoutChildren(primary)
	}

	if e.hooks.OnNodeCreated != nil {
		e.hooks.OnNodeCreated(node)
	}

	if o.autofocus && e.scheduler != nil {
		e.scheduler.Schedule(func() {
			e.pendingFocusNodeID = node.ID
			e.notify()
		})
	}

	e.notify()
}

// AddNodes creates many nodes at once (e.g. loading a saved
// conversation) with a single layout pass and notification.
//
// Payload order is normalized so parents are processed before children:
// repeated stable passes append every payload whose parents are already
// present. If a pass resolves nothing, the remaining payloads
// (unresolvable, cyclic or referencing missing parents) are appended
// verbatim in original order so the batch always terminates with total
// coverage.
func (e *Engine) AddNodes(payloads []domain.NodePayload) []*domain.Node {
	if len(payloads) == 0 {
		return nil
	}

	withIDs := make([]domain.NodePayload, len(payloads))
	copy(withIDs, payloads)
	for i := range withIDs {
		if withIDs[i].ID == "" {
			withIDs[i].ID = uuid.NewString()
		}
	}

	added := make(map[string]struct{}, len(e.nodes)+len(withIDs))
	for _, n := range e.nodes {
		added[n.ID] = struct{}{}
	}
	sorted := make([]domain.NodePayload, 0, len(withIDs))
	for len(sorted) < len(withIDs) {
		prevSize := len(sorted)
		for _, p := range withIDs {
			if _, done := added[p.ID]; done {
				continue
			}
			allParentsIn := true
			for _, pid := range p.ParentIDs {
				if _, ok := added[pid]; !ok {
					allParentsIn = false
					break
				}
			}
			if allParentsIn {
				sorted = append(sorted, p)
				added[p.ID] = struct{}{}
			}
		}
		if len(sorted) == prevSize {
			for _, p := range withIDs {
				if _, done := added[p.ID]; !done {
					sorted = append(sorted, p)
					added[p.ID] = struct{}{}
				}
			}
			break
		}
	}

	newNodes := make([]*domain.Node, 0, len(sorted))
	for _, p := range sorted {
		newNodes = append(newNodes, e.buildFromPayload(p))
	}

	e.nodes = append(e.nodes, newNodes...)
	e.rebuildMaps()
	if e.hooks.OnNodeCreated != nil {
		for _, n := range newNodes {
			e.hooks.OnNodeCreated(n)
		}
	}
	for _, n := range newNodes {
		if len(n.ParentIDs) == 0 {
			e.activeNodeID = n.ID
			break
		}
	}

	e.FlushLayoutFromRoot()
	e.notify()
	return newNodes
}

func (e *Engine) buildFromPayload(p domain.NodePayload) *domain.Node {
	nodeType := p.Type
	if nodeType == "" {
		nodeType = domain.NodeTypeText
	}
	createdAt := p.CreatedAt
	if createdAt == 0 {
		createdAt = e.now().UnixMilli()
	}
	meta := domain.Metadata{Height: e.config.NodeHeightDefault}
	if pm := p.Metadata; pm != nil {
		if pm.X != nil {
			meta.X = *pm.X
		}
		if pm.Y != nil {
			meta.Y = *pm.Y
		}
		if pm.Height != nil {
			meta.Height = *pm.Height
		}
		if len(pm.Tags) > 0 {
			meta.Tags = append([]string(nil), pm.Tags...)
		}
		if len(pm.Extra) > 0 {
			meta.Extra = make(map[string]any, len(pm.Extra))
			for k, v := range pm.Extra {
				meta.Extra[k] = v
			}
		}
		meta.ManualPosition = pm.HasExplicitPosition()
	}
	return &domain.Node{
		ID:           p.ID,
		ParentIDs:    p.ParentIDs,
		Role:         p.Role,
		Type:         nodeType,
		Status:       p.Status,
		ErrorMessage: p.ErrorMessage,
		CreatedAt:    createdAt,
		Content:      p.Content,
		Metadata:     meta,
		Data:         p.Data,
	}
}

// DuplicateNode clones a node's role, type, parents and data into a new
// node one layout gap to the right of the source on the same row. The
// clone re-enters automatic layout (no inherited manual-position flag).
// Returns nil for an unknown ID.
func (e *Engine) DuplicateNode(id string) *domain.Node {
	source := e.Node(id)
	if source == nil {
		return nil
	}

	offsetGrid := e.config.LayoutGapX / e.config.GridStep
	sourceX := source.Metadata.X
	sourceY := source.Metadata.Y
	parents := append([]string(nil), source.ParentIDs...)

	if source.Component == nil {
		clone := e.AddNode(source.Content, source.Role,
			WithNodeType(source.Type),
			WithParents(parents...),
			AtPosition(sourceX+offsetGrid, sourceY),
			WithData(deepCopyValue(source.Data)),
		)
		clone.Metadata.ManualPosition = false
		if primary := source.PrimaryParentID(); primary != "" {
			e.layoutChildren(primary)
		}
		e.notify()
		return clone
	}

	clone := &domain.Node{
		ID:        uuid.NewString(),
		ParentIDs: parents,
		Role:      source.Role,
		Type:      source.Type,
		CreatedAt: e.now().UnixMilli(),
		Component: source.Component,
		Props:     source.Props,
		Metadata: domain.Metadata{
			X:      sourceX + offsetGrid,
			Y:      sourceY,
			Height: e.heightOf(source),
		},
		Data: deepCopyValue(source.Data),
	}
	e.nodes = append(e.nodes, clone)
	e.syncMapsAfterAppend(clone)
	e.activeNodeID = clone.ID
	if e.hooks.OnNodeCreated != nil {
		e.hooks.OnNodeCreated(clone)
	}
	if primary := source.PrimaryParentID(); primary != "" {
		e.layoutChildren(primary)
	}
	e.notify()
	return clone
}
