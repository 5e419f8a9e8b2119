package cli

import (
	"encoding/json"
	"fmt"
	"os"

	traek "github.com/traek/traek-go"
	"github.com/traek/traek-go/pkg/domain"
)

// ReadSnapshot parses and validates a snapshot file without building an
// engine from it.
func ReadSnapshot(path string) (*domain.ConversationSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return traek.ParseSnapshot(data)
}

// LoadEngine builds an engine from a snapshot file, applying any extra
// options (e.g. a config file override) on top of the snapshot's own
// config.
func LoadEngine(path string, opts ...traek.Option) (*traek.Engine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	return traek.LoadSnapshot(data, opts...)
}

// WriteSnapshot serializes an engine to an indented snapshot file.
func WriteSnapshot(engine *traek.Engine, path, title string) error {
	data, err := json.MarshalIndent(engine.Serialize(title), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}
