package traek

import (
	"math"

	"github.com/traek/traek-go/pkg/domain"
)

// NodeUpdate is a partial node mutation: nil fields keep the node's
// current value.
type NodeUpdate struct {
	Content      *string
	Role         *domain.Role
	Type         *string
	Status       *domain.Status
	ErrorMessage *string
	Data         any
	SetData      bool
}

// UpdateNode merges a partial update into a node (streaming content,
// status flips). Unknown IDs are ignored. Notifies on success.
func (e *Engine) UpdateNode(id string, update NodeUpdate) {
	node := e.Node(id)
	if node == nil {
		return
	}
	if update.Content != nil {
		node.Content = *update.Content
	}
	if update.Role != nil {
		node.Role = *update.Role
	}
	if update.Type != nil {
		node.Type = *update.Type
	}
	if update.Status != nil {
		node.Status = *update.Status
	}
	if update.ErrorMessage != nil {
		node.ErrorMessage = *update.ErrorMessage
	}
	if update.SetData {
		node.Data = update.Data
	}
	e.notify()
}

// UpdateNodeHeight records a measured render height in pixels. Changes
// below HeightChangeThreshold are dropped to keep streaming text from
// thrashing layout. The resulting relayout is coalesced onto the next
// animation frame when a Scheduler is present, otherwise it runs
// synchronously.
//
// A height of 0 is Metadata.Height's "unset" sentinel: storing it makes
// the node read back as NodeHeightDefault rather than as zero pixels.
func (e *Engine) UpdateNodeHeight(id string, height float64) {
	node := e.Node(id)
	if node == nil {
		return
	}
	current := e.heightOf(node)
	if math.Abs(current-height) < e.config.HeightChangeThreshold {
		return
	}
	node.Metadata.Height = height

	if e.scheduler == nil {
		e.FlushLayoutFromRoot()
		e.notify()
		return
	}
	if e.heightLayoutPending {
		return
	}
	e.heightLayoutPending = true
	e.scheduler.Schedule(func() {
		e.heightLayoutPending = false
		e.FlushLayoutFromRoot()
		e.notify()
	})
}

// ─── Positioning ─────────────────────────────────────────────────────

// MoveNodeAndDescendants shifts a node by a pixel delta, pins it with
// ManualPosition, and relays out its subtree so automatic children
// follow.
func (e *Engine) MoveNodeAndDescendants(id string, dxPx, dyPx float64) {
	node := e.Node(id)
	if node == nil {
		return
	}
	step := e.config.GridStep
	node.Metadata.X += dxPx / step
	node.Metadata.Y += dyPx / step
	node.Metadata.ManualPosition = true
	e.layoutChildren(id)
	e.notify()
}

// SetNodePosition places a node at an absolute pixel position,
// optionally snapping to the nearest whole grid line when within
// snapThresholdPx. Pins the node with ManualPosition.
func (e *Engine) SetNodePosition(id string, xPx, yPx, snapThresholdPx float64) {
	node := e.Node(id)
	if node == nil {
		return
	}
	step := e.config.GridStep
	xGrid := xPx / step
	yGrid := yPx / step
	if snapThresholdPx > 0 {
		thresholdGrid := snapThresholdPx / step
		snapX := math.Round(xGrid)
		snapY := math.Round(yGrid)
		if math.Abs(xGrid-snapX) <= thresholdGrid {
			xGrid = snapX
		}
		if math.Abs(yGrid-snapY) <= thresholdGrid {
			yGrid = snapY
		}
	}
	node.Metadata.X = xGrid
	node.Metadata.Y = yGrid
	node.Metadata.ManualPosition = true
	e.layoutChildren(id)
	e.notify()
}

// SnapNodeToGrid rounds a node's position to whole grid units without
// pinning it.
func (e *Engine) SnapNodeToGrid(id string) {
	node := e.Node(id)
	if node == nil {
		return
	}
	node.Metadata.X = math.Round(node.Metadata.X)
	node.Metadata.Y = math.Round(node.Metadata.Y)
	e.layoutChildren(id)
	e.notify()
}
