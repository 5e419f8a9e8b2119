package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	traek "github.com/traek/traek-go"
	"github.com/traek/traek-go/internal/presentation/graph"
	"github.com/traek/traek-go/pkg/domain"
)

// Server exposes a conversation engine over HTTP for inspection and
// scripted mutation. The engine is single-writer, so every engine
// access goes through one mutex; handlers are short and synchronous.
type Server struct {
	mu      sync.Mutex
	engine  *traek.Engine
	streams *StreamManager
	metrics *metrics
}

type metrics struct {
	registry      *prometheus.Registry
	nodeCount     prometheus.Gauge
	notifications prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{registry: prometheus.NewRegistry()}
	m.nodeCount = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "traek_nodes",
		Help: "Current number of nodes in the conversation tree.",
	})
	m.notifications = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "traek_notifications_total",
		Help: "Total engine state-change notifications observed.",
	})
	m.registry.MustRegister(m.nodeCount, m.notifications)
	return m
}

// NewHandler creates an HTTP handler around the engine. It subscribes
// to the engine: every state change refreshes the metrics and fans out
// an SSE event to connected clients.
func NewHandler(engine *traek.Engine) http.Handler {
	s := &Server{
		engine:  engine,
		streams: NewStreamManager(),
		metrics: newMetrics(),
	}

	first := true
	engine.Subscribe(func() {
		s.metrics.nodeCount.Set(float64(engine.Len()))
		if first {
			// Subscribe's immediate call is not a mutation.
			first = false
			return
		}
		s.metrics.notifications.Inc()
		s.streams.Broadcast("update")
	})

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/snapshot", s.GetSnapshot)
	r.Get("/nodes", s.ListNodes)
	r.Post("/nodes", s.AddNode)
	r.Get("/nodes/{id}", s.GetNode)
	r.Delete("/nodes/{id}", s.DeleteNode)
	r.Post("/restore", s.Restore)
	r.Get("/search", s.Search)
	r.Get("/path", s.GetContextPath)
	r.Get("/graph", s.GetGraph)
	r.Get("/events", s.SubscribeEvents)
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "err", err)
	}
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "traek-http",
		"version": strings.TrimSpace(traek.Version),
	})
}

// GetSnapshot handles the GET /snapshot request, returning the
// versioned wire form of the conversation.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.engine.Serialize(r.URL.Query().Get("title"))
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

// ListNodes handles the GET /nodes request.
func (s *Server) ListNodes(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	nodes := s.engine.Nodes()
	active := s.engine.ActiveNodeID()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"nodes":        nodes,
		"count":        len(nodes),
		"activeNodeId": active,
	})
}

// AddNodeRequest is the POST /nodes body.
type AddNodeRequest struct {
	Content   string   `json:"content"`
	Role      string   `json:"role"`
	Type      string   `json:"type,omitempty"`
	ParentIDs []string `json:"parentIds,omitempty"`
	Data      any      `json:"data,omitempty"`
}

// AddNode handles the POST /nodes request.
func (s *Server) AddNode(w http.ResponseWriter, r *http.Request) {
	var body AddNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("AddNode: invalid request body", "err", err)
		return
	}
	role := domain.Role(body.Role)
	if !domain.ValidRole(role) {
		http.Error(w, fmt.Sprintf("Invalid role %q", body.Role), http.StatusBadRequest)
		return
	}

	opts := []traek.AddOption{}
	if body.ParentIDs != nil {
		opts = append(opts, traek.WithParents(body.ParentIDs...))
	}
	if body.Type != "" {
		opts = append(opts, traek.WithNodeType(body.Type))
	}
	if body.Data != nil {
		opts = append(opts, traek.WithData(body.Data))
	}

	s.mu.Lock()
	node := s.engine.AddNode(body.Content, role, opts...)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, node)
}

// GetNode handles the GET /nodes/{id} request.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	node := s.engine.Node(id)
	s.mu.Unlock()
	if node == nil {
		http.Error(w, fmt.Sprintf("Node %q not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// DeleteNode handles the DELETE /nodes/{id} request. With
// ?recursive=true the whole subtree goes; either way the deletion lands
// in the undo buffer, consumable via POST /restore.
func (s *Server) DeleteNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	recursive := r.URL.Query().Get("recursive") == "true"

	s.mu.Lock()
	exists := s.engine.Node(id) != nil
	var removed int
	if exists {
		before := s.engine.Len()
		if recursive {
			s.engine.DeleteNodeAndDescendants(id)
		} else {
			s.engine.DeleteNode(id)
		}
		removed = before - s.engine.Len()
	}
	s.mu.Unlock()

	if !exists {
		http.Error(w, fmt.Sprintf("Node %q not found", id), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": removed})
}

// Restore handles the POST /restore request (single-slot undo).
func (s *Server) Restore(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	restored := s.engine.RestoreDeleted()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]bool{"restored": restored})
}

// Search handles the GET /search?q= request.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	s.mu.Lock()
	s.engine.Search(query)
	matches := s.engine.SearchMatches()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"query":   strings.TrimSpace(query),
		"matches": matches,
		"count":   len(matches),
	})
}

// GetContextPath handles the GET /path request: the root-to-active
// primary-parent chain.
func (s *Server) GetContextPath(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	path := s.engine.ContextPath()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"path":  path,
		"count": len(path),
	})
}

// GetGraph handles the GET /graph request, returning a Mermaid diagram
// of the conversation tree.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	overlay := &graph.Overlay{
		ActiveNode:    s.engine.ActiveNodeID(),
		SearchMatches: s.engine.SearchMatches(),
	}
	for id := range s.engine.CollapsedNodes() {
		overlay.CollapsedNodes = append(overlay.CollapsedNodes, id)
	}
	out := graph.GenerateMermaid(s.engine.Nodes(), overlay)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, out)
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan<- string]struct{}
}

func NewStreamManager() *StreamManager {
	return &StreamManager{subscribers: make(map[chan<- string]struct{})}
}

func (sm *StreamManager) Subscribe() (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

func (sm *StreamManager) Broadcast(msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	for ch := range sm.subscribers {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client).
			slog.Warn("SSE: client buffer full, dropping message")
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE). Each engine
// mutation produces one "update" event; clients re-fetch state through
// the read endpoints.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		slog.Error("SubscribeEvents: streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			slog.Info("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
