package traek

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/traek/traek-go/pkg/domain"
	"github.com/traek/traek-go/pkg/schema"
)

// Serialize reduces the engine to its versioned wire shape. Node
// metadata is cut down to x, y, height (when set) and tags (when
// non-empty); ManualPosition, open-ended extras, Component and Props
// are not persisted. Config is not embedded; pass one at load time
// instead.
func (e *Engine) Serialize(title string) *domain.ConversationSnapshot {
	var activeNodeID *string
	if e.activeNodeID != "" {
		id := e.activeNodeID
		activeNodeID = &id
	}
	nodes := make([]domain.SnapshotNode, len(e.nodes))
	for i, n := range e.nodes {
		meta := domain.Metadata{
			X: n.Metadata.X,
			Y: n.Metadata.Y,
		}
		if n.Metadata.Height != 0 {
			meta.Height = n.Metadata.Height
		}
		if len(n.Metadata.Tags) > 0 {
			meta.Tags = append([]string(nil), n.Metadata.Tags...)
		}
		createdAt := n.CreatedAt
		if createdAt == 0 {
			createdAt = e.now().UnixMilli()
		}
		nodes[i] = domain.SnapshotNode{
			ID:        n.ID,
			ParentIDs: n.ParentIDs,
			Content:   n.Content,
			Role:      n.Role,
			Type:      n.Type,
			Status:    n.Status,
			CreatedAt: createdAt,
			Metadata:  meta,
			Data:      n.Data,
		}
	}
	return &domain.ConversationSnapshot{
		Version:      domain.SnapshotVersion,
		CreatedAt:    e.now().UnixMilli(),
		Title:        title,
		ActiveNodeID: activeNodeID,
		Nodes:        nodes,
	}
}

// Snapshot wire schema. Validation collects every failing field path
// into one aggregated error so corrupted or foreign documents are
// diagnosable in a single pass.

var snapshotMetadataSchema = schema.Schema{
	"x":              schema.Number(),
	"y":              schema.Number(),
	"height":         schema.Optional(schema.Number()),
	"tags":           schema.Optional(schema.Slice(schema.String())),
	"manualPosition": schema.Optional(schema.Bool()),
}

var snapshotNodeSchema = schema.Schema{
	"id":        schema.String(),
	"parentIds": schema.Slice(schema.String()),
	"content":   schema.String(),
	"role":      schema.Enum("role", "user", "assistant", "system"),
	"type":      schema.String(),
	"status":    schema.Optional(schema.Enum("status", "streaming", "done", "error")),
	"createdAt": schema.Number(),
	"metadata":  schema.Object(snapshotMetadataSchema),
	"data":      schema.Optional(schema.Any()),
}

var snapshotConfigSchema = schema.Schema{
	"focusDurationMs":       schema.Optional(schema.Number()),
	"zoomSpeed":             schema.Optional(schema.Number()),
	"zoomLineModeBoost":     schema.Optional(schema.Number()),
	"scaleMin":              schema.Optional(schema.Number()),
	"scaleMax":              schema.Optional(schema.Number()),
	"nodeWidth":             schema.Optional(schema.Number()),
	"nodeHeightDefault":     schema.Optional(schema.Number()),
	"streamIntervalMs":      schema.Optional(schema.Number()),
	"rootNodeOffsetX":       schema.Optional(schema.Number()),
	"rootNodeOffsetY":       schema.Optional(schema.Number()),
	"layoutGapX":            schema.Optional(schema.Number()),
	"layoutGapY":            schema.Optional(schema.Number()),
	"heightChangeThreshold": schema.Optional(schema.Number()),
	"gridStep":              schema.Optional(schema.Number()),
}

var snapshotSchema = schema.Schema{
	"version":      schema.Literal(domain.SnapshotVersion),
	"createdAt":    schema.Number(),
	"title":        schema.Optional(schema.String()),
	"activeNodeId": schema.Optional(schema.String()),
	"config":       schema.Optional(schema.Object(snapshotConfigSchema)),
	"nodes":        schema.Slice(schema.Object(snapshotNodeSchema)),
}

// ParseSnapshot validates raw snapshot JSON against the wire schema and
// decodes it into the typed form. A malformed document never partially
// parses: the returned error wraps domain.ErrInvalidSnapshot and, for
// schema failures, a schema.AggregateError naming every offending field
// path.
func ParseSnapshot(data []byte) (*domain.ConversationSnapshot, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	if err := schema.Validate(snapshotSchema, raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidSnapshot, err)
	}
	var snap domain.ConversationSnapshot
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &snap,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	return &snap, nil
}

// FromSnapshot builds a fresh engine from a typed snapshot. The
// snapshot's embedded config (if any) is merged over the defaults, then
// the caller's options are applied on top, so caller overrides win.
// Nodes enter through the bulk-creation path, inheriting its
// topological ordering guarantee; every loaded node keeps its stored
// position (ManualPosition). A resolvable activeNodeId becomes active
// and raises the focus signal.
func FromSnapshot(snap *domain.ConversationSnapshot, opts ...Option) (*Engine, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", domain.ErrInvalidSnapshot)
	}
	if snap.Version != domain.SnapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", domain.ErrInvalidSnapshot, snap.Version)
	}

	engineOpts := make([]Option, 0, len(opts)+1)
	if snap.Config != nil {
		engineOpts = append(engineOpts, WithConfig(*snap.Config))
	}
	engineOpts = append(engineOpts, opts...)
	e := New(engineOpts...)

	if len(snap.Nodes) > 0 {
		payloads := make([]domain.NodePayload, len(snap.Nodes))
		for i, n := range snap.Nodes {
			payloads[i] = payloadFromSnapshotNode(n)
		}
		e.AddNodes(payloads)
	}

	if snap.ActiveNodeID != nil && e.Node(*snap.ActiveNodeID) != nil {
		e.activeNodeID = *snap.ActiveNodeID
		e.pendingFocusNodeID = *snap.ActiveNodeID
		e.notify()
	}
	return e, nil
}

// LoadSnapshot parses, validates and loads snapshot JSON in one step.
func LoadSnapshot(data []byte, opts ...Option) (*Engine, error) {
	snap, err := ParseSnapshot(data)
	if err != nil {
		return nil, err
	}
	return FromSnapshot(snap, opts...)
}

func payloadFromSnapshotNode(n domain.SnapshotNode) domain.NodePayload {
	x, y := n.Metadata.X, n.Metadata.Y
	meta := &domain.PayloadMetadata{
		X:     &x,
		Y:     &y,
		Tags:  n.Metadata.Tags,
		Extra: n.Metadata.Extra,
	}
	if n.Metadata.Height != 0 {
		h := n.Metadata.Height
		meta.Height = &h
	}
	return domain.NodePayload{
		ID:        n.ID,
		ParentIDs: n.ParentIDs,
		Content:   n.Content,
		Role:      n.Role,
		Type:      n.Type,
		Status:    n.Status,
		CreatedAt: n.CreatedAt,
		Metadata:  meta,
		Data:      n.Data,
	}
}
