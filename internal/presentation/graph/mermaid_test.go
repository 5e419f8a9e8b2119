package graph_test

import (
	"strings"
	"testing"

	"github.com/traek/traek-go/internal/presentation/graph"
	"github.com/traek/traek-go/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		nodes    []*domain.Node
		overlay  *graph.Overlay
		contains []string
	}{
		{
			name: "Role Shapes",
			nodes: []*domain.Node{
				{ID: "u1", Role: domain.RoleUser, Content: "hi"},
				{ID: "a1", Role: domain.RoleAssistant, Content: "hello"},
				{ID: "s1", Role: domain.RoleSystem, Content: "sys"},
			},
			contains: []string{
				`u1[/"user: hi"/]`,
				`a1["assistant: hello"]`,
				`s1(("system: sys"))`,
			},
		},
		{
			name: "Primary And Secondary Edges",
			nodes: []*domain.Node{
				{ID: "root", Role: domain.RoleUser, Content: "root"},
				{ID: "alt", Role: domain.RoleAssistant, Content: "alt"},
				{ID: "child", Role: domain.RoleAssistant, Content: "child", ParentIDs: []string{"root", "alt"}},
			},
			contains: []string{
				"root --> child",
				"alt -.-> child",
			},
		},
		{
			name: "ID Sanitization",
			nodes: []*domain.Node{
				{ID: "a-b.c/d", Role: domain.RoleUser, Content: "x"},
			},
			contains: []string{
				`a_b_c_d[/"user: x"/]`,
			},
		},
		{
			name: "Label Escaping",
			nodes: []*domain.Node{
				{ID: "n", Role: domain.RoleAssistant, Content: "say \"yes\"\nplease"},
			},
			contains: []string{
				`n["assistant: say 'yes' please"]`,
			},
		},
		{
			name: "Thought Marker",
			nodes: []*domain.Node{
				{ID: "t", Role: domain.RoleAssistant, Type: domain.NodeTypeThought, Content: "mull"},
			},
			contains: []string{
				"💭 mull",
			},
		},
		{
			name: "Overlay Classes",
			nodes: []*domain.Node{
				{ID: "a", Role: domain.RoleUser, Content: "a"},
				{ID: "b", Role: domain.RoleAssistant, Content: "b", ParentIDs: []string{"a"}},
			},
			overlay: &graph.Overlay{
				ActiveNode:     "b",
				CollapsedNodes: []string{"a"},
				SearchMatches:  []string{"b", "b"},
			},
			contains: []string{
				"class b active;",
				"class a collapsed;",
				"class b match;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.nodes, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaidDeduplicatesMatches(t *testing.T) {
	nodes := []*domain.Node{{ID: "x", Role: domain.RoleUser, Content: "x"}}
	got := graph.GenerateMermaid(nodes, &graph.Overlay{SearchMatches: []string{"x", "x"}})
	if strings.Count(got, "class x match;") != 1 {
		t.Errorf("expected one match class line, got:\n%v", got)
	}
}
