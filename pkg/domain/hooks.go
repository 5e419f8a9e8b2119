package domain

// LifecycleHooks defines optional callbacks for engine observability.
// Any field may be nil.
type LifecycleHooks struct {
	// OnNodeCreated fires after a node is added to the collection.
	OnNodeCreated func(node *Node)
	// OnNodeDeleting fires before a node is removed, while its data is
	// still reachable through the engine.
	OnNodeDeleting func(node *Node)
	// OnNodeDeleted fires after removal with the number of nodes deleted
	// and a zero-argument function that performs the undo.
	OnNodeDeleted func(count int, restore func() bool)
}
