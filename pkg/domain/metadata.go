package domain

import "encoding/json"

// Metadata holds the spatial and presentational attributes of a node.
// X and Y are abstract grid units; pixel position = grid * gridStep.
// Open-ended extra keys survive JSON round-trips via Extra.
type Metadata struct {
	X float64
	Y float64
	// Height in pixels. 0 is the "unset" sentinel and reads back as the
	// configured default height; an explicit height of 0 cannot be
	// stored.
	Height float64
	// ManualPosition marks a node the layout algorithm must not move.
	ManualPosition bool
	Tags           []string
	// Extra carries any metadata keys the engine does not interpret.
	Extra map[string]any `mapstructure:",remain"`
}

// metadata JSON is a flat object: known keys plus whatever Extra holds.

func (m Metadata) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(m.Extra)+5)
	for k, v := range m.Extra {
		out[k] = v
	}
	out["x"] = m.X
	out["y"] = m.Y
	if m.Height != 0 {
		out["height"] = m.Height
	}
	if m.ManualPosition {
		out["manualPosition"] = true
	}
	if len(m.Tags) > 0 {
		out["tags"] = m.Tags
	}
	return json.Marshal(out)
}

func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Metadata{}
	for key, value := range raw {
		switch key {
		case "x":
			if f, ok := asFloat(value); ok {
				m.X = f
				continue
			}
		case "y":
			if f, ok := asFloat(value); ok {
				m.Y = f
				continue
			}
		case "height":
			if f, ok := asFloat(value); ok {
				m.Height = f
				continue
			}
		case "manualPosition":
			if b, ok := value.(bool); ok {
				m.ManualPosition = b
				continue
			}
		case "tags":
			if tags, ok := asStringSlice(value); ok {
				m.Tags = tags
				continue
			}
		}
		if m.Extra == nil {
			m.Extra = make(map[string]any)
		}
		m.Extra[key] = value
	}
	return nil
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asStringSlice(v any) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	}
	return nil, false
}
