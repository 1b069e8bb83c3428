// Package config handles loading and saving lineview configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/lineview/config.yaml
//   - State:   ~/.local/state/lineview/ (layout databases)
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/tracelens/lineview/pkg/perf"
	"github.com/tracelens/lineview/pkg/render"
)

// EngineConfig holds the recomputation tunables.
type EngineConfig struct {
	ClusterDistance  float64           `yaml:"cluster_distance,omitempty"`
	MaxVisible       int               `yaml:"max_visible,omitempty"`
	MarginPx         float64           `yaml:"margin_px,omitempty"`
	ClusterWeighting *bool             `yaml:"cluster_weighting,omitempty"`
	LOD              render.Breakpoints `yaml:"lod,omitempty"`
}

// MinimapConfig holds the overview box dimensions.
type MinimapConfig struct {
	Width   int     `yaml:"width,omitempty"`
	Height  int     `yaml:"height,omitempty"`
	Padding float64 `yaml:"padding,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	FPSBadge bool `yaml:"fps_badge,omitempty"` // Show the live FPS estimate
}

// Config is the top-level configuration for lineview.
type Config struct {
	Engine  EngineConfig    `yaml:"engine,omitempty"`
	Perf    perf.Thresholds `yaml:"perf,omitempty"`
	Minimap MinimapConfig   `yaml:"minimap,omitempty"`
	UI      UIConfig        `yaml:"ui,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	opts := render.DefaultOptions()
	return Config{
		Engine: EngineConfig{
			ClusterDistance: opts.ClusterDistance,
			MaxVisible:      opts.MaxVisible,
			MarginPx:        opts.MarginPx,
			LOD:             opts.LOD,
		},
		Perf: perf.DefaultThresholds,
		Minimap: MinimapConfig{
			Width:   200,
			Height:  150,
			Padding: 40,
		},
		UI: UIConfig{FPSBadge: true},
	}
}

// RenderOptions converts the engine section into per-pass options.
// Clustering on/off is decided per pass by the host (recommendation or
// override), not by configuration.
func (c Config) RenderOptions(clusterEnabled bool) render.Options {
	opts := render.DefaultOptions()
	opts.ClusterEnabled = clusterEnabled
	if c.Engine.ClusterDistance > 0 {
		opts.ClusterDistance = c.Engine.ClusterDistance
	}
	if c.Engine.MaxVisible > 0 {
		opts.MaxVisible = c.Engine.MaxVisible
	}
	if c.Engine.MarginPx > 0 {
		opts.MarginPx = c.Engine.MarginPx
	}
	if c.Engine.LOD.Valid() {
		opts.LOD = c.Engine.LOD
	}
	if c.Engine.ClusterWeighting != nil {
		opts.ClusterWeighting = *c.Engine.ClusterWeighting
	}
	return opts
}

// ConfigDir returns the XDG config directory for lineview.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "lineview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "lineview")
}

// StateDir returns the XDG state directory for lineview.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "lineview")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", "lineview")
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
