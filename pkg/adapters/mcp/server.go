package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	traek "github.com/traek/traek-go"
	"github.com/traek/traek-go/pkg/domain"
)

// NodeResult is the structured output of node-returning tools.
type NodeResult struct {
	Success bool         `json:"success" jsonschema_description:"Whether the operation succeeded"`
	Node    *domain.Node `json:"node,omitempty" jsonschema_description:"The affected node"`
}

// TreeResult is the structured output of get_tree.
type TreeResult struct {
	Nodes        []*domain.Node `json:"nodes" jsonschema_description:"All nodes in insertion order"`
	Count        int            `json:"count" jsonschema_description:"Number of nodes"`
	ActiveNodeID string         `json:"activeNodeId,omitempty" jsonschema_description:"Currently active node ID"`
}

// SearchResult is the structured output of search_conversation.
type SearchResult struct {
	Query   string   `json:"query" jsonschema_description:"The trimmed query"`
	Matches []string `json:"matches" jsonschema_description:"Matching node IDs in collection order"`
	Count   int      `json:"count" jsonschema_description:"Number of matches"`
}

// DeleteResult is the structured output of delete_node.
type DeleteResult struct {
	Success bool `json:"success" jsonschema_description:"Whether the operation succeeded"`
	Deleted int  `json:"deleted" jsonschema_description:"Number of nodes removed"`
}

// ClearResult is the structured output of clear_conversation.
type ClearResult struct {
	Success      bool `json:"success" jsonschema_description:"Whether the operation succeeded"`
	ClearedNodes int  `json:"clearedNodes" jsonschema_description:"Number of nodes removed"`
}

// Server wraps a conversation engine and exposes it as an MCP server,
// letting AI agents grow and inspect the tree as tools. The engine is
// single-writer; one mutex serializes tool handlers.
type Server struct {
	mu        sync.Mutex
	engine    *traek.Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance around the engine.
func NewServer(engine *traek.Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("traek-mcp", strings.TrimSpace(traek.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	addTool := mcp.NewTool("add_node",
		mcp.WithDescription("Add a new message node to the conversation tree."),
		mcp.WithString("role", mcp.Required(), mcp.Description("Role of the message sender: user, assistant or system")),
		mcp.WithString("content", mcp.Required(), mcp.Description("The message content")),
		mcp.WithString("parentId", mcp.Description("Parent node ID. If omitted, creates a root node")),
		mcp.WithOutputSchema[NodeResult](),
	)
	s.mcpServer.AddTool(addTool, mcp.NewStructuredToolHandler(s.handleAddNode))

	branchTool := mcp.NewTool("branch_from",
		mcp.WithDescription("Create a new branch from an existing node with a new message."),
		mcp.WithString("nodeId", mcp.Required(), mcp.Description("The node ID to branch from")),
		mcp.WithString("role", mcp.Required(), mcp.Description("Role of the new branch node")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content of the new branch node")),
		mcp.WithOutputSchema[NodeResult](),
	)
	s.mcpServer.AddTool(branchTool, mcp.NewStructuredToolHandler(s.handleBranchFrom))

	treeTool := mcp.NewTool("get_tree",
		mcp.WithDescription("Get the full conversation tree as a structured JSON object."),
		mcp.WithOutputSchema[TreeResult](),
	)
	s.mcpServer.AddTool(treeTool, mcp.NewStructuredToolHandler(s.handleGetTree))

	getTool := mcp.NewTool("get_node",
		mcp.WithDescription("Get a specific node by ID."),
		mcp.WithString("nodeId", mcp.Required(), mcp.Description("The node ID to retrieve")),
		mcp.WithOutputSchema[NodeResult](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetNode))

	searchTool := mcp.NewTool("search_conversation",
		mcp.WithDescription("Search node content (case-insensitive substring) and return matching node IDs."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for")),
		mcp.WithOutputSchema[SearchResult](),
	)
	s.mcpServer.AddTool(searchTool, mcp.NewStructuredToolHandler(s.handleSearch))

	deleteTool := mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node, optionally with all its descendants. The deletion can be undone for 30 seconds."),
		mcp.WithString("nodeId", mcp.Required(), mcp.Description("The node ID to delete")),
		mcp.WithBoolean("recursive", mcp.Description("Also delete every descendant (default false)")),
		mcp.WithOutputSchema[DeleteResult](),
	)
	s.mcpServer.AddTool(deleteTool, mcp.NewStructuredToolHandler(s.handleDeleteNode))

	clearTool := mcp.NewTool("clear_conversation",
		mcp.WithDescription("Clear all nodes from the current conversation."),
		mcp.WithOutputSchema[ClearResult](),
	)
	s.mcpServer.AddTool(clearTool, mcp.NewStructuredToolHandler(s.handleClear))
}

// Handler methods for structured tools

func (s *Server) handleAddNode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NodeResult, error) {
	roleStr, _ := args["role"].(string)
	content, _ := args["content"].(string)
	parentID, _ := args["parentId"].(string)

	role := domain.Role(roleStr)
	if !domain.ValidRole(role) {
		return NodeResult{}, fmt.Errorf("invalid role %q", roleStr)
	}
	if content == "" {
		return NodeResult{}, fmt.Errorf("content must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var opts []traek.AddOption
	if parentID != "" {
		if s.engine.Node(parentID) == nil {
			return NodeResult{}, fmt.Errorf("node %s not found", parentID)
		}
		opts = append(opts, traek.WithParents(parentID))
	} else {
		opts = append(opts, traek.WithParents())
	}
	node := s.engine.AddNode(content, role, opts...)
	return NodeResult{Success: true, Node: node}, nil
}

func (s *Server) handleBranchFrom(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NodeResult, error) {
	nodeID, _ := args["nodeId"].(string)
	roleStr, _ := args["role"].(string)
	content, _ := args["content"].(string)

	role := domain.Role(roleStr)
	if !domain.ValidRole(role) {
		return NodeResult{}, fmt.Errorf("invalid role %q", roleStr)
	}
	if content == "" {
		return NodeResult{}, fmt.Errorf("content must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.Node(nodeID) == nil {
		return NodeResult{}, fmt.Errorf("node %s not found", nodeID)
	}
	node := s.engine.AddNode(content, role, traek.WithParents(nodeID))
	return NodeResult{Success: true, Node: node}, nil
}

func (s *Server) handleGetTree(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TreeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	nodes := s.engine.Nodes()
	return TreeResult{
		Nodes:        nodes,
		Count:        len(nodes),
		ActiveNodeID: s.engine.ActiveNodeID(),
	}, nil
}

func (s *Server) handleGetNode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NodeResult, error) {
	nodeID, _ := args["nodeId"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	node := s.engine.Node(nodeID)
	if node == nil {
		return NodeResult{}, fmt.Errorf("node %s not found", nodeID)
	}
	return NodeResult{Success: true, Node: node}, nil
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SearchResult, error) {
	query, _ := args["query"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Search(query)
	matches := s.engine.SearchMatches()
	return SearchResult{
		Query:   s.engine.SearchQuery(),
		Matches: matches,
		Count:   len(matches),
	}, nil
}

func (s *Server) handleDeleteNode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DeleteResult, error) {
	nodeID, _ := args["nodeId"].(string)
	recursive, _ := args["recursive"].(bool)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine.Node(nodeID) == nil {
		return DeleteResult{}, fmt.Errorf("node %s not found", nodeID)
	}
	before := s.engine.Len()
	if recursive {
		s.engine.DeleteNodeAndDescendants(nodeID)
	} else {
		s.engine.DeleteNode(nodeID)
	}
	return DeleteResult{Success: true, Deleted: before - s.engine.Len()}, nil
}

func (s *Server) handleClear(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ClearResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.engine.Len()
	// Deleting root subtrees until empty reuses the normal deletion
	// path; the last batch stays undoable.
	for s.engine.Len() > 0 {
		roots := s.engine.Roots()
		if len(roots) == 0 {
			// Only nodes with dangling parent refs remain.
			s.engine.DeleteNodeAndDescendants(s.engine.Nodes()[0].ID)
			continue
		}
		s.engine.DeleteNodeAndDescendants(roots[0].ID)
	}
	return ClearResult{Success: true, ClearedNodes: count}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: traek://conversation
	s.mcpServer.AddResource(mcp.NewResource("traek://conversation", "Current Conversation Tree",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s.mu.Lock()
		snap := s.engine.Serialize("")
		s.mu.Unlock()
		jsonBytes, err := json.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal conversation: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "traek://conversation",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
