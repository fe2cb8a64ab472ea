package fluidsim

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultScenarioYAML []byte

// LoadConfig loads a SimulationConfig, starting from the embedded resting
// scenario and overlaying path if it is non-empty. Fields absent from path
// keep their embedded default, so a scenario file only needs to name the
// settings it changes.
func LoadConfig(path string) (SimulationConfig, error) {
	cfg := SimulationConfig{}
	if err := yaml.Unmarshal(defaultScenarioYAML, &cfg); err != nil {
		return SimulationConfig{}, fmt.Errorf("parsing embedded scenario defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return SimulationConfig{}, fmt.Errorf("reading scenario file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return SimulationConfig{}, fmt.Errorf("parsing scenario file %s: %w", path, err)
		}
	}

	// WindowSize is excluded from YAML (it tracks the live window, not the
	// scenario) and so never comes back populated from either unmarshal.
	if cfg.Settings.WindowSize == (mgl32.Vec2{}) {
		cfg.Settings.WindowSize = DefaultSettings().WindowSize
	}

	return cfg, nil
}

// SaveConfig writes cfg to path as YAML in the form LoadConfig reads
// back.
func SaveConfig(path string, cfg SimulationConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling scenario config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing scenario file %s: %w", path, err)
	}
	return nil
}
