package traek_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	traek "github.com/traek/traek-go"
	"github.com/traek/traek-go/pkg/domain"
)

// linearChain builds root -> a -> b and returns the engine plus the
// three nodes.
func linearChain(t *testing.T) (*traek.Engine, *domain.Node, *domain.Node, *domain.Node) {
	t.Helper()
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	a := engine.AddNode("a", domain.RoleAssistant)
	b := engine.AddNode("b", domain.RoleUser)
	return engine, root, a, b
}

func TestContextPathFollowsPrimaryChain(t *testing.T) {
	engine, root, a, b := linearChain(t)

	path := engine.ContextPath()
	require.Len(t, path, 3)
	assert.Equal(t, root.ID, path[0].ID)
	assert.Equal(t, a.ID, path[1].ID)
	assert.Equal(t, b.ID, path[2].ID)
}

func TestContextPathIgnoresSecondaryParents(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	side := engine.AddNode("side", domain.RoleAssistant, traek.WithParents(root.ID))
	leaf := engine.AddNode("leaf", domain.RoleUser, traek.WithParents(root.ID))
	require.True(t, engine.AddConnection(side.ID, leaf.ID))
	engine.BranchFrom(leaf.ID)

	path := engine.ContextPath()
	require.Len(t, path, 2)
	assert.Equal(t, root.ID, path[0].ID)
	assert.Equal(t, leaf.ID, path[1].ID)
}

func TestParentAndSiblings(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	a := engine.AddNode("a", domain.RoleAssistant)
	b := engine.AddNode("b", domain.RoleAssistant, traek.WithParents(root.ID))
	engine.AddNode("hm", domain.RoleAssistant,
		traek.WithParents(root.ID), traek.WithNodeType(domain.NodeTypeThought))

	assert.Equal(t, root.ID, engine.Parent(a.ID).ID)
	assert.Nil(t, engine.Parent(root.ID))

	siblings := engine.Siblings(a.ID)
	require.Len(t, siblings, 2, "thought siblings are filtered out")
	assert.Equal(t, a.ID, siblings[0].ID)
	assert.Equal(t, b.ID, siblings[1].ID)

	index, total := engine.SiblingIndex(b.ID)
	assert.Equal(t, 1, index)
	assert.Equal(t, 2, total)

	index, total = engine.SiblingIndex("missing")
	assert.Equal(t, -1, index)
	assert.Zero(t, total)
}

func TestDepth(t *testing.T) {
	engine, root, a, b := linearChain(t)

	assert.Equal(t, 0, engine.Depth(root.ID))
	assert.Equal(t, 1, engine.Depth(a.ID))
	assert.Equal(t, 2, engine.Depth(b.ID))
	assert.Equal(t, -1, engine.Depth("missing"))
}

func TestMaxDepth(t *testing.T) {
	t.Run("empty engine", func(t *testing.T) {
		assert.Equal(t, -1, traek.New().MaxDepth())
	})

	t.Run("deepest visible leaf", func(t *testing.T) {
		engine, _, a, _ := linearChain(t)
		// A shallow side branch must not win.
		engine.AddNode("side", domain.RoleUser, traek.WithParents(a.ID))
		assert.Equal(t, 2, engine.MaxDepth())
	})

	t.Run("thought leaves are ignored", func(t *testing.T) {
		engine := traek.New()
		root := engine.AddNode("root", domain.RoleUser)
		engine.AddNode("hm", domain.RoleAssistant,
			traek.WithParents(root.ID), traek.WithNodeType(domain.NodeTypeThought))
		assert.Equal(t, 0, engine.MaxDepth())
	})
}

func TestActiveLeaf(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	engine.AddNode("first", domain.RoleAssistant)
	engine.AddNode("first-leaf", domain.RoleUser)
	second := engine.AddNode("second", domain.RoleAssistant, traek.WithParents(root.ID))
	secondLeaf := engine.AddNode("second-leaf", domain.RoleUser, traek.WithParents(second.ID))

	t.Run("defaults to the first child branch", func(t *testing.T) {
		leaf := engine.ActiveLeaf(root.ID, nil)
		require.NotNil(t, leaf)
		assert.Equal(t, "first-leaf", leaf.Content)
	})

	t.Run("lastVisited hint steers the descent", func(t *testing.T) {
		leaf := engine.ActiveLeaf(root.ID, map[string]string{root.ID: second.ID})
		require.NotNil(t, leaf)
		assert.Equal(t, secondLeaf.ID, leaf.ID)
	})

	t.Run("stale hint falls back to the first child", func(t *testing.T) {
		leaf := engine.ActiveLeaf(root.ID, map[string]string{root.ID: "gone"})
		require.NotNil(t, leaf)
		assert.Equal(t, "first-leaf", leaf.Content)
	})

	t.Run("leaf returns itself", func(t *testing.T) {
		assert.Equal(t, secondLeaf.ID, engine.ActiveLeaf(secondLeaf.ID, nil).ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		assert.Nil(t, engine.ActiveLeaf("missing", nil))
	})
}

func TestAncestorPathCoversAllParentEdges(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	left := engine.AddNode("left", domain.RoleAssistant)
	right := engine.AddNode("right", domain.RoleAssistant, traek.WithParents(root.ID))
	merged := engine.AddNode("merged", domain.RoleUser, traek.WithParents(left.ID))
	require.True(t, engine.AddConnection(right.ID, merged.ID))

	path := engine.AncestorPath(merged.ID)
	assert.ElementsMatch(t, []string{merged.ID, left.ID, right.ID, root.ID}, path)
	assert.Equal(t, merged.ID, path[0], "starts at the node itself")
}

func TestDescendants(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	branch := engine.AddNode("branch", domain.RoleAssistant)
	thought := engine.AddNode("hm", domain.RoleAssistant,
		traek.WithParents(branch.ID), traek.WithNodeType(domain.NodeTypeThought))
	underThought := engine.AddNode("under thought", domain.RoleUser,
		traek.WithParents(thought.ID))
	leaf := engine.AddNode("leaf", domain.RoleUser, traek.WithParents(branch.ID))

	got := engine.Descendants(root.ID)
	ids := make([]string, len(got))
	for i, n := range got {
		ids[i] = n.ID
	}
	// The thought is traversed (its child shows up) but not reported.
	assert.ElementsMatch(t, []string{branch.ID, underThought.ID, leaf.ID}, ids)
	assert.Equal(t, 3, engine.DescendantCount(root.ID))
	assert.Zero(t, engine.DescendantCount(leaf.ID))
}

func TestCollapse(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	mid := engine.AddNode("mid", domain.RoleAssistant)
	leaf := engine.AddNode("leaf", domain.RoleUser)

	engine.ToggleCollapse(mid.ID)
	assert.True(t, engine.IsCollapsed(mid.ID))
	assert.Contains(t, engine.CollapsedNodes(), mid.ID)

	assert.Equal(t, 1, engine.HiddenDescendantCount(mid.ID))
	assert.True(t, engine.IsInCollapsedSubtree(leaf.ID))
	assert.False(t, engine.IsInCollapsedSubtree(mid.ID), "the collapsed node itself stays visible")
	assert.False(t, engine.IsInCollapsedSubtree(root.ID))

	// Collapse hides nothing from the data model.
	assert.Equal(t, 3, engine.Len())
	assert.Len(t, engine.ContextPath(), 3)

	engine.ToggleCollapse(mid.ID)
	assert.False(t, engine.IsCollapsed(mid.ID))
	assert.False(t, engine.IsInCollapsedSubtree(leaf.ID))
}

func TestFocusOnNode(t *testing.T) {
	engine := traek.New()
	node := engine.AddNode("x", domain.RoleUser)

	engine.FocusOnNode("missing")
	assert.Empty(t, engine.PendingFocusNodeID())

	engine.FocusOnNode(node.ID)
	assert.Equal(t, node.ID, engine.PendingFocusNodeID())
}
