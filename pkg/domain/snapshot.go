package domain

// SnapshotVersion is the current snapshot wire format version.
const SnapshotVersion = 1

// ConversationSnapshot is the versioned, plain-data serialization of an
// engine's node collection, used for persistence and interchange.
// Component/Props handles are never serialized.
type ConversationSnapshot struct {
	Version   int    `json:"version" mapstructure:"version"`
	CreatedAt int64  `json:"createdAt" mapstructure:"createdAt"`
	Title     string `json:"title,omitempty" mapstructure:"title"`
	// ActiveNodeID is a pointer so JSON null round-trips.
	ActiveNodeID *string        `json:"activeNodeId" mapstructure:"activeNodeId"`
	Config       *EngineConfig  `json:"config,omitempty" mapstructure:"config"`
	Nodes        []SnapshotNode `json:"nodes" mapstructure:"nodes"`
}

// SnapshotNode is the reduced wire form of a Node.
type SnapshotNode struct {
	ID        string   `json:"id" mapstructure:"id"`
	ParentIDs []string `json:"parentIds" mapstructure:"parentIds"`
	Content   string   `json:"content" mapstructure:"content"`
	Role      Role     `json:"role" mapstructure:"role"`
	Type      string   `json:"type" mapstructure:"type"`
	Status    Status   `json:"status,omitempty" mapstructure:"status"`
	CreatedAt int64    `json:"createdAt" mapstructure:"createdAt"`
	Metadata  Metadata `json:"metadata" mapstructure:"metadata"`
	Data      any      `json:"data,omitempty" mapstructure:"data"`
}

// NodePayload is the input shape for bulk creation. ID is optional
// (generated when empty). Metadata uses pointer fields so an explicit
// position can be told apart from an absent one; nodes created with an
// explicit position are flagged ManualPosition and skipped by layout.
type NodePayload struct {
	ID           string
	ParentIDs    []string
	Content      string
	Role         Role
	Type         string
	Status       Status
	ErrorMessage string
	// CreatedAt in Unix milliseconds; 0 means "stamp now".
	CreatedAt int64
	Metadata  *PayloadMetadata
	Data      any
}

// PayloadMetadata is the partial metadata accepted by bulk creation.
type PayloadMetadata struct {
	X      *float64
	Y      *float64
	Height *float64
	Tags   []string
	Extra  map[string]any
}

// HasExplicitPosition reports whether the payload pins its own x or y.
func (m *PayloadMetadata) HasExplicitPosition() bool {
	return m != nil && (m.X != nil || m.Y != nil)
}
