package traek

import (
	"math"

	"github.com/traek/traek-go/pkg/domain"
)

// Layout works in grid units (pixels / GridStep). Children are centered
// under their parent's horizontal center, one row of LayoutGapY below
// it. Thought nodes are invisible to layout: they reserve no slot and
// their subtrees are not positioned. Nodes flagged ManualPosition keep
// their coordinates, but layout still recurses into their children.

func (e *Engine) heightOf(node *domain.Node) float64 {
	if node.Metadata.Height != 0 {
		return node.Metadata.Height
	}
	return e.config.NodeHeightDefault
}

func (e *Engine) visibleChildren(parentID string) []*domain.Node {
	children := e.Children(parentID)
	visible := children[:0:0]
	for _, c := range children {
		if !c.IsThought() {
			visible = append(visible, c)
		}
	}
	return visible
}

// subtreeLayoutWidth returns the horizontal space the node's subtree
// occupies, in grid units.
func (e *Engine) subtreeLayoutWidth(nodeID string) float64 {
	if _, ok := e.nodeIndex[nodeID]; !ok {
		return 0
	}
	step := e.config.GridStep
	nodeWidthGrid := e.config.NodeWidth / step
	children := e.visibleChildren(nodeID)
	if len(children) == 0 {
		return nodeWidthGrid
	}
	gapXGrid := e.config.LayoutGapX / step
	total := -gapXGrid
	for _, c := range children {
		total += e.subtreeLayoutWidth(c.ID) + gapXGrid
	}
	return total
}

// subtreeLayoutHeight returns the vertical span of the node's subtree
// in grid units: the node's own height plus a gap and the tallest
// child subtree.
func (e *Engine) subtreeLayoutHeight(nodeID string) float64 {
	node := e.Node(nodeID)
	if node == nil {
		return 0
	}
	step := e.config.GridStep
	gapYGrid := e.config.LayoutGapY / step
	nodeHGrid := e.heightOf(node) / step
	children := e.visibleChildren(nodeID)
	if len(children) == 0 {
		return nodeHGrid
	}
	maxChild := 0.0
	for _, c := range children {
		if h := e.subtreeLayoutHeight(c.ID); h > maxChild {
			maxChild = h
		}
	}
	return nodeHGrid + gapYGrid + maxChild
}

// layoutChildren positions parentID's children (and, recursively, their
// subtrees) centered under the parent. Coordinates are rounded to whole
// grid units.
func (e *Engine) layoutChildren(parentID string) {
	parent := e.Node(parentID)
	if parent == nil {
		return
	}
	children := e.visibleChildren(parentID)
	if len(children) == 0 {
		return
	}

	step := e.config.GridStep
	gapXGrid := e.config.LayoutGapX / step
	gapYGrid := e.config.LayoutGapY / step
	nodeWidthGrid := e.config.NodeWidth / step
	parentHeightGrid := e.heightOf(parent) / step

	totalRowWidth := -gapXGrid
	for _, child := range children {
		totalRowWidth += e.subtreeLayoutWidth(child.ID) + gapXGrid
	}
	parentCenterX := parent.Metadata.X + nodeWidthGrid/2
	childY := parent.Metadata.Y + parentHeightGrid + gapYGrid
	currentX := parentCenterX - totalRowWidth/2

	for _, child := range children {
		childSubtreeW := e.subtreeLayoutWidth(child.ID)
		offsetInSlot := (childSubtreeW - nodeWidthGrid) / 2
		if !child.Metadata.ManualPosition {
			child.Metadata.X = math.Round(currentX + offsetInSlot)
			child.Metadata.Y = math.Round(childY)
		}
		e.layoutChildren(child.ID)
		currentX += childSubtreeW + gapXGrid
	}
}

// FlushLayoutFromRoot runs layout from every root. Use after a batch of
// WithDeferLayout adds. Subtree extents are precomputed bottom-up so
// the full pass stays linear in the node count.
func (e *Engine) FlushLayoutFromRoot() {
	roots := e.Children("")
	widthCache := make(map[string]float64, len(e.nodes))
	for _, root := range roots {
		e.fillSubtreeWidthCache(root.ID, widthCache)
	}
	for _, root := range roots {
		e.layoutChildrenCached(root.ID, widthCache)
	}
}

func (e *Engine) fillSubtreeWidthCache(nodeID string, cache map[string]float64) {
	children := e.visibleChildren(nodeID)
	for _, c := range children {
		e.fillSubtreeWidthCache(c.ID, cache)
	}
	node := e.Node(nodeID)
	if node == nil {
		return
	}
	step := e.config.GridStep
	nodeWidthGrid := e.config.NodeWidth / step
	if len(children) == 0 {
		cache[nodeID] = nodeWidthGrid
		return
	}
	gapXGrid := e.config.LayoutGapX / step
	total := -gapXGrid
	for _, c := range children {
		total += cache[c.ID] + gapXGrid
	}
	cache[nodeID] = total
}

func (e *Engine) layoutChildrenCached(parentID string, widthCache map[string]float64) {
	parent := e.Node(parentID)
	if parent == nil {
		return
	}
	children := e.visibleChildren(parentID)
	if len(children) == 0 {
		return
	}
	step := e.config.GridStep
	gapXGrid := e.config.LayoutGapX / step
	gapYGrid := e.config.LayoutGapY / step
	nodeWidthGrid := e.config.NodeWidth / step
	parentHeightGrid := e.heightOf(parent) / step

	totalRowWidth := -gapXGrid
	for _, child := range children {
		totalRowWidth += widthCache[child.ID] + gapXGrid
	}
	parentCenterX := parent.Metadata.X + nodeWidthGrid/2
	childY := parent.Metadata.Y + parentHeightGrid + gapYGrid
	currentX := parentCenterX - totalRowWidth/2

	for _, child := range children {
		childSubtreeW := widthCache[child.ID]
		offsetInSlot := (childSubtreeW - nodeWidthGrid) / 2
		if !child.Metadata.ManualPosition {
			child.Metadata.X = math.Round(currentX + offsetInSlot)
			child.Metadata.Y = math.Round(childY)
		}
		e.layoutChildrenCached(child.ID, widthCache)
		currentX += childSubtreeW + gapXGrid
	}
}
