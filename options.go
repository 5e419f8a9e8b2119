package traek

import (
	"log/slog"
	"time"

	"github.com/traek/traek-go/pkg/domain"
)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithConfig merges a partial configuration over the current one.
// Zero-valued fields keep their existing setting.
func WithConfig(cfg domain.EngineConfig) Option {
	return func(e *Engine) {
		e.config = e.config.Merge(cfg)
	}
}

// WithLifecycleHooks registers creation/deletion observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithScheduler injects the host's animation-frame scheduler. Without
// one the engine behaves like a window-less host: focus scheduling is
// skipped and height-driven layout runs synchronously.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		e.scheduler = s
	}
}

// WithClock overrides the engine's time source. Used by tests to drive
// the undo-buffer expiry deterministically.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLogger configures the structured logger used for degraded-mode
// warnings (cycle guards in traversal queries).
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}
