package domain

// EngineConfig tunes the engine's layout math plus a set of fields the
// engine stores for UI layers but never interprets itself (focus and
// zoom timing, streaming cadence, root offsets).
type EngineConfig struct {
	FocusDurationMs   int     `json:"focusDurationMs,omitempty" yaml:"focusDurationMs" mapstructure:"focusDurationMs"`
	ZoomSpeed         float64 `json:"zoomSpeed,omitempty" yaml:"zoomSpeed" mapstructure:"zoomSpeed"`
	ZoomLineModeBoost float64 `json:"zoomLineModeBoost,omitempty" yaml:"zoomLineModeBoost" mapstructure:"zoomLineModeBoost"`
	ScaleMin          float64 `json:"scaleMin,omitempty" yaml:"scaleMin" mapstructure:"scaleMin"`
	ScaleMax          float64 `json:"scaleMax,omitempty" yaml:"scaleMax" mapstructure:"scaleMax"`
	// NodeWidth is the fixed node width in pixels.
	NodeWidth float64 `json:"nodeWidth,omitempty" yaml:"nodeWidth" mapstructure:"nodeWidth"`
	// NodeHeightDefault is the height assumed for nodes that have not
	// reported a measured height, in pixels.
	NodeHeightDefault float64 `json:"nodeHeightDefault,omitempty" yaml:"nodeHeightDefault" mapstructure:"nodeHeightDefault"`
	StreamIntervalMs  int     `json:"streamIntervalMs,omitempty" yaml:"streamIntervalMs" mapstructure:"streamIntervalMs"`
	RootNodeOffsetX   float64 `json:"rootNodeOffsetX,omitempty" yaml:"rootNodeOffsetX" mapstructure:"rootNodeOffsetX"`
	RootNodeOffsetY   float64 `json:"rootNodeOffsetY,omitempty" yaml:"rootNodeOffsetY" mapstructure:"rootNodeOffsetY"`
	// LayoutGapX and LayoutGapY are the horizontal/vertical gaps between
	// laid-out nodes, in pixels.
	LayoutGapX float64 `json:"layoutGapX,omitempty" yaml:"layoutGapX" mapstructure:"layoutGapX"`
	LayoutGapY float64 `json:"layoutGapY,omitempty" yaml:"layoutGapY" mapstructure:"layoutGapY"`
	// HeightChangeThreshold suppresses layout passes for height updates
	// smaller than this many pixels (measurement jitter).
	HeightChangeThreshold float64 `json:"heightChangeThreshold,omitempty" yaml:"heightChangeThreshold" mapstructure:"heightChangeThreshold"`
	// GridStep is pixels per grid unit; Metadata.X/Y are in grid units.
	GridStep float64 `json:"gridStep,omitempty" yaml:"gridStep" mapstructure:"gridStep"`
}

// DefaultEngineConfig returns the stock configuration.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		FocusDurationMs:       280,
		ZoomSpeed:             0.004,
		ZoomLineModeBoost:     20,
		ScaleMin:              0.05,
		ScaleMax:              8,
		NodeWidth:             350,
		NodeHeightDefault:     100,
		StreamIntervalMs:      30,
		RootNodeOffsetX:       -175,
		RootNodeOffsetY:       -50,
		LayoutGapX:            35,
		LayoutGapY:            50,
		HeightChangeThreshold: 5,
		GridStep:              20,
	}
}

// Merge returns base with every non-zero field of override applied.
// Callers supply partial overrides; zero values keep the base setting.
func (base EngineConfig) Merge(override EngineConfig) EngineConfig {
	merged := base
	if override.FocusDurationMs != 0 {
		merged.FocusDurationMs = override.FocusDurationMs
	}
	if override.ZoomSpeed != 0 {
		merged.ZoomSpeed = override.ZoomSpeed
	}
	if override.ZoomLineModeBoost != 0 {
		merged.ZoomLineModeBoost = override.ZoomLineModeBoost
	}
	if override.ScaleMin != 0 {
		merged.ScaleMin = override.ScaleMin
	}
	if override.ScaleMax != 0 {
		merged.ScaleMax = override.ScaleMax
	}
	if override.NodeWidth != 0 {
		merged.NodeWidth = override.NodeWidth
	}
	if override.NodeHeightDefault != 0 {
		merged.NodeHeightDefault = override.NodeHeightDefault
	}
	if override.StreamIntervalMs != 0 {
		merged.StreamIntervalMs = override.StreamIntervalMs
	}
	if override.RootNodeOffsetX != 0 {
		merged.RootNodeOffsetX = override.RootNodeOffsetX
	}
	if override.RootNodeOffsetY != 0 {
		merged.RootNodeOffsetY = override.RootNodeOffsetY
	}
	if override.LayoutGapX != 0 {
		merged.LayoutGapX = override.LayoutGapX
	}
	if override.LayoutGapY != 0 {
		merged.LayoutGapY = override.LayoutGapY
	}
	if override.HeightChangeThreshold != 0 {
		merged.HeightChangeThreshold = override.HeightChangeThreshold
	}
	if override.GridStep != 0 {
		merged.GridStep = override.GridStep
	}
	return merged
}
