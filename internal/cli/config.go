package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/traek/traek-go/pkg/domain"
)

// LoadConfig reads a partial engine configuration from a YAML file.
// Missing fields stay zero so the engine merge keeps its defaults.
func LoadConfig(path string) (domain.EngineConfig, error) {
	var cfg domain.EngineConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
