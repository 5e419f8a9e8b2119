/*
Package domain contains the core data model of the Træk engine.

It defines the fundamental entities of the conversation graph: Nodes,
their spatial Metadata, the engine configuration, the snapshot wire
format and lifecycle hooks. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal
Architecture principles.

# Key Entities

  - Node: a vertex in the conversation graph (message or custom-rendered).
  - Metadata: grid-unit position, measured height, tags, open extras.
  - ConversationSnapshot: the versioned plain-data serialization.
  - LifecycleHooks: optional creation/deletion callbacks for collaborators.
*/
package domain
