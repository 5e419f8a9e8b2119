package domain

// Role identifies the author of a message node.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}

// Status tracks the delivery state of a node's content.
type Status string

const (
	StatusStreaming Status = "streaming"
	StatusDone      Status = "done"
	StatusError     Status = "error"
)

// Built-in node types. Type is an open string tag; renderers may
// register additional values.
const (
	// NodeTypeText is the default message node.
	NodeTypeText = "text"
	// NodeTypeCode renders its content as a code block.
	NodeTypeCode = "code"
	// NodeTypeThought is auxiliary/background content. Thought nodes are
	// excluded from layout sizing, sibling listings, descendant counts
	// and depth computation, and never become the active node.
	NodeTypeThought = "thought"
)

// Node is a vertex in the conversation graph. The graph is a tree along
// the primary parent chain (ParentIDs[0]); any further entries are
// secondary DAG edges with no layout effect.
//
// A single struct covers both variants of the original model: message
// nodes carry Content, custom-rendered nodes carry Component/Props. The
// engine treats them uniformly except when reading Content.
type Node struct {
	ID        string   `json:"id"`
	ParentIDs []string `json:"parentIds"`
	Role      Role     `json:"role"`
	Type      string   `json:"type"`
	Status    Status   `json:"status,omitempty"`
	// ErrorMessage describes a Status == StatusError condition.
	ErrorMessage string `json:"errorMessage,omitempty"`
	// CreatedAt is a Unix-millisecond timestamp.
	CreatedAt int64 `json:"createdAt"`

	// Content is the message text. Empty for custom-rendered nodes.
	Content string `json:"content"`

	// Component and Props are an opaque renderer handle owned by the UI
	// layer. The engine stores and returns them, never inspects them,
	// and drops them from serialized snapshots.
	Component any            `json:"-"`
	Props     map[string]any `json:"-"`

	Metadata Metadata `json:"metadata"`

	// Data is an opaque payload (e.g. custom-renderer state).
	Data any `json:"data,omitempty"`
}

// IsThought reports whether the node is excluded from layout accounting.
func (n *Node) IsThought() bool {
	return n.Type == NodeTypeThought
}

// PrimaryParentID returns ParentIDs[0], or "" for a root.
func (n *Node) PrimaryParentID() string {
	if len(n.ParentIDs) == 0 {
		return ""
	}
	return n.ParentIDs[0]
}

// HasParent reports whether id appears anywhere in ParentIDs.
func (n *Node) HasParent(id string) bool {
	for _, pid := range n.ParentIDs {
		if pid == id {
			return true
		}
	}
	return false
}
