/*
Package traek is the framework-agnostic core engine for Træk: a spatial,
branching conversation tree for chat-style UIs (multiple AI-agent
response branches on a 2D canvas).

The engine owns the node collection, its derived indices, the
incremental layout algorithm, search, collapse state, a single-slot
undo buffer and versioned serialization. Rendering, pointer handling
and persistence backends are external collaborators that consume the
engine only through its public contract.

# Reactivity

Subscribe to state changes via Engine.Subscribe. The engine follows the
store contract used by the reusable primitives in pkg/store: the
listener is called synchronously and immediately on subscribe, and
again after every successful mutation. Listeners pull current state via
accessor methods; no value is passed.

	engine := traek.New()
	unsubscribe := engine.Subscribe(func() {
		state := engine.Snapshot()
		// push state into the host framework's reactive system
	})
	defer unsubscribe()

	node := engine.AddNode("Hello", domain.RoleUser)

# Structure

The graph is a tree along each node's primary parent (the first entry
of ParentIDs); AddConnection may add secondary parent edges, turning it
into a DAG. Layout and ancestor-chain traversal follow primary edges
only; secondary edges are a presentation-agnostic relationship with no
layout effect.

# Hosting

The engine is single-threaded and synchronous. The only asynchrony is
cosmetic: an optional Scheduler defers focus signals and coalesces
height-driven layout onto the host's next animation frame. Without a
scheduler (headless hosts, tests) those paths run synchronously or are
skipped, mirroring a window-less environment.
*/
package traek

// Version is the library version string.
var Version = "0.4.0"
