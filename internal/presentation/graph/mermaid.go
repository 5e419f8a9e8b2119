package graph

import (
	"fmt"
	"strings"

	"github.com/traek/traek-go/pkg/domain"
)

// Overlay contains dynamic conversation state to visualize on the
// graph.
type Overlay struct {
	ActiveNode     string
	CollapsedNodes []string
	SearchMatches  []string
}

// GenerateMermaid produces a Mermaid flowchart from a conversation
// tree. It applies semantic styling:
// - user: [/Parallelogram/]
// - assistant: [Rectangle]
// - system: ((Circle))
// - thought nodes: dashed label prefix
// Primary parent edges draw solid, secondary edges dotted. Overlay
// styles mark the active node, collapsed subtree roots and search
// matches.
func GenerateMermaid(nodes []*domain.Node, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range nodes {
		safeID := sanitizeMermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Role {
		case domain.RoleUser:
			opener, closer = "[/", "/]"
		case domain.RoleSystem:
			opener, closer = "((", "))"
		}

		label := nodeLabel(node)
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for i, parentID := range node.ParentIDs {
			safeFrom := sanitizeMermaidID(parentID)
			arrow := "-->"
			if i > 0 {
				arrow = "-.->"
			}
			sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeFrom, arrow, safeID))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text for high contrast regardless of theme.
		sb.WriteString("    classDef active fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		sb.WriteString("    classDef collapsed fill:#eceff1,stroke:#607d8b,stroke-dasharray:4,color:#000;\n")
		sb.WriteString("    classDef match fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")

		seen := make(map[string]bool)
		for _, id := range overlay.SearchMatches {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s match;\n", safeID))
			}
		}
		for _, id := range overlay.CollapsedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" {
				sb.WriteString(fmt.Sprintf("    class %s collapsed;\n", safeID))
			}
		}
		if overlay.ActiveNode != "" {
			sb.WriteString(fmt.Sprintf("    class %s active;\n", sanitizeMermaidID(overlay.ActiveNode)))
		}
	}

	return sb.String()
}

const labelMaxLen = 40

func nodeLabel(node *domain.Node) string {
	text := strings.TrimSpace(node.Content)
	if text == "" {
		text = node.Type
	}
	text = strings.ReplaceAll(text, "\"", "'")
	text = strings.ReplaceAll(text, "\n", " ")
	if runes := []rune(text); len(runes) > labelMaxLen {
		text = string(runes[:labelMaxLen]) + "…"
	}
	if node.IsThought() {
		return "💭 " + text
	}
	return fmt.Sprintf("%s: %s", node.Role, text)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
