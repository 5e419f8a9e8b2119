package traek_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	traek "github.com/traek/traek-go"
	"github.com/traek/traek-go/pkg/domain"
)

func TestDeleteNodeClearsActiveNode(t *testing.T) {
	engine := traek.New()
	node := engine.AddNode("x", domain.RoleUser)

	engine.DeleteNode(node.ID)
	assert.Zero(t, engine.Len())
	assert.Empty(t, engine.ActiveNodeID())
}

func TestDeleteNodeUnknownIDIsNoOp(t *testing.T) {
	engine := traek.New()
	engine.AddNode("x", domain.RoleUser)
	notified := 0
	engine.Subscribe(func() { notified++ })

	engine.DeleteNode("missing")
	assert.Equal(t, 1, engine.Len())
	assert.Equal(t, 1, notified, "only the immediate subscribe call")
}

func TestDeleteNodeLeavesChildrenAsRoots(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	child := engine.AddNode("child", domain.RoleAssistant)

	engine.DeleteNode(root.ID)

	// The child keeps its dangling parent entry but traversal treats it
	// as a root: its parent resolves to nothing.
	assert.Equal(t, []string{root.ID}, child.ParentIDs)
	assert.Nil(t, engine.Parent(child.ID))
	assert.Equal(t, 1, engine.Len())
}

func TestDeleteNodeAndDescendants(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	branch := engine.AddNode("branch", domain.RoleAssistant)
	engine.AddNode("leaf-1", domain.RoleUser)
	engine.AddNode("leaf-2", domain.RoleUser, traek.WithParents(branch.ID))
	keeper := engine.AddNode("keeper", domain.RoleAssistant, traek.WithParents(root.ID))

	engine.DeleteNodeAndDescendants(branch.ID)

	assert.Equal(t, 2, engine.Len())
	assert.Nil(t, engine.Node(branch.ID))
	assert.NotNil(t, engine.Node(root.ID))
	assert.NotNil(t, engine.Node(keeper.ID))
}

func TestDeleteSubtreeFollowsSecondaryEdges(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	branch := engine.AddNode("branch", domain.RoleAssistant)
	other := engine.AddNode("other", domain.RoleAssistant, traek.WithParents(root.ID))
	merged := engine.AddNode("merged", domain.RoleUser, traek.WithParents(other.ID))
	require.True(t, engine.AddConnection(branch.ID, merged.ID))

	engine.DeleteNodeAndDescendants(branch.ID)

	// merged is reachable from branch through the secondary edge, so it
	// goes too; other survives with its parent list intact.
	assert.Nil(t, engine.Node(merged.ID))
	assert.NotNil(t, engine.Node(other.ID))
	assert.Equal(t, []string{root.ID}, engine.Node(other.ID).ParentIDs)
}

func TestDeleteSubtreeReassignsActiveToParent(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	branch := engine.AddNode("branch", domain.RoleAssistant)
	engine.AddNode("leaf", domain.RoleUser)

	engine.DeleteNodeAndDescendants(branch.ID)
	assert.Equal(t, root.ID, engine.ActiveNodeID())
}

func TestDeleteSubtreeOfRootClearsActive(t *testing.T) {
	engine := traek.New()
	root := engine.AddNode("root", domain.RoleUser)
	engine.AddNode("leaf", domain.RoleUser)

	engine.DeleteNodeAndDescendants(root.ID)
	assert.Zero(t, engine.Len())
	assert.Empty(t, engine.ActiveNodeID())
}

func TestRestoreDeletedWithinWindow(t *testing.T) {
	clock := &fixedClock{t: time.UnixMilli(1_700_000_000_000)}
	engine := traek.New(traek.WithClock(clock.Now))
	root := engine.AddNode("root", domain.RoleUser)
	branch := engine.AddNode("branch", domain.RoleAssistant)
	engine.AddNode("leaf", domain.RoleUser)

	engine.DeleteNodeAndDescendants(branch.ID)
	require.Equal(t, 1, engine.Len())

	clock.Advance(29 * time.Second)
	assert.True(t, engine.RestoreDeleted())
	assert.Equal(t, 3, engine.Len())
	assert.NotNil(t, engine.Node(branch.ID))
	assert.Equal(t, root.ID, engine.Children(root.ID)[0].ParentIDs[0])
}

func TestRestoreDeletedRestoresActiveNode(t *testing.T) {
	engine := traek.New()
	engine.AddNode("root", domain.RoleUser)
	leaf := engine.AddNode("leaf", domain.RoleAssistant)
	require.Equal(t, leaf.ID, engine.ActiveNodeID())

	engine.DeleteNodeAndDescendants(leaf.ID)
	require.NotEqual(t, leaf.ID, engine.ActiveNodeID())

	require.True(t, engine.RestoreDeleted())
	assert.Equal(t, leaf.ID, engine.ActiveNodeID())
}

func TestRestoreDeletedExpires(t *testing.T) {
	clock := &fixedClock{t: time.UnixMilli(1_700_000_000_000)}
	engine := traek.New(traek.WithClock(clock.Now))
	node := engine.AddNode("x", domain.RoleUser)

	engine.DeleteNode(node.ID)
	clock.Advance(31 * time.Second)

	assert.False(t, engine.RestoreDeleted())
	assert.Zero(t, engine.Len())
	assert.False(t, engine.RestoreDeleted(), "expired buffer is consumed")
}

func TestRestoreDeletedSingleSlot(t *testing.T) {
	engine := traek.New()
	a := engine.AddNode("a", domain.RoleUser, traek.WithParents())
	b := engine.AddNode("b", domain.RoleUser, traek.WithParents())

	engine.DeleteNode(a.ID)
	engine.DeleteNode(b.ID)

	// Only the most recent deletion is restorable, and only once.
	assert.True(t, engine.RestoreDeleted())
	assert.NotNil(t, engine.Node(b.ID))
	assert.Nil(t, engine.Node(a.ID))
	assert.False(t, engine.RestoreDeleted())
}

func TestRestoreDeletedBufferIsIsolated(t *testing.T) {
	engine := traek.New()
	node := engine.AddNode("original", domain.RoleUser,
		traek.WithData(map[string]any{"k": "v"}))

	engine.DeleteNode(node.ID)
	// Mutating the caller's pointer after deletion must not leak into
	// the undo buffer.
	node.Content = "tampered"
	node.Data.(map[string]any)["k"] = "tampered"

	require.True(t, engine.RestoreDeleted())
	restored := engine.Nodes()[0]
	assert.Equal(t, "original", restored.Content)
	assert.Equal(t, "v", restored.Data.(map[string]any)["k"])
}

func TestRestoreDeletedEmptyBuffer(t *testing.T) {
	engine := traek.New()
	assert.False(t, engine.RestoreDeleted())
}
