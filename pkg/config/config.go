// Package config handles loading and saving orbital configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/orbital/config.yaml
//   - Data:    ~/.local/share/orbital/ (exported snapshots by default)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Stack is a registered data source in the config: a JSON stack file
// or a SQLite database.
type Stack struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// LayoutConfig overrides the ring geometry. Zero values fall back to
// the layout package defaults.
type LayoutConfig struct {
	BaseRadius      float64 `yaml:"base_radius,omitempty"`
	RingStep        float64 `yaml:"ring_step,omitempty"`
	JitterAmplitude float64 `yaml:"jitter_amplitude,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	FrameRate     int    `yaml:"frame_rate,omitempty"`     // Target ticks per second (default 30)
	StartTier     string `yaml:"start_tier,omitempty"`     // low, medium, high
	ShowOverlay   bool   `yaml:"show_overlay,omitempty"`   // Debug overlay with fps and tier
	SnapshotDir   string `yaml:"snapshot_dir,omitempty"`   // Where 's' writes exports
	DisableWobble bool   `yaml:"disable_wobble,omitempty"` // Stops the hover animation
}

// WatchConfig controls live reload of the data source.
type WatchConfig struct {
	Enabled    bool `yaml:"enabled,omitempty"`
	DebounceMs int  `yaml:"debounce_ms,omitempty"` // Default 200
}

// Config is the top-level configuration for orbital.
type Config struct {
	Stacks []Stack      `yaml:"stacks,omitempty"`
	Layout LayoutConfig `yaml:"layout,omitempty"`
	UI     UIConfig     `yaml:"ui,omitempty"`
	Watch  WatchConfig  `yaml:"watch,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		UI: UIConfig{
			FrameRate: 30,
			StartTier: "high",
		},
		Watch: WatchConfig{
			Enabled:    true,
			DebounceMs: 200,
		},
	}
}

// ConfigDir returns the XDG config directory for orbital.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "orbital")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "orbital")
}

// DataDir returns the XDG data directory for orbital.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "orbital")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "orbital")
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

	if cfg.UI.FrameRate <= 0 {
		cfg.UI.FrameRate = 30
	}
	if cfg.Watch.DebounceMs <= 0 {
		cfg.Watch.DebounceMs = 200
	}

	// Expand ~ in stack and snapshot paths
	for i := range cfg.Stacks {
		cfg.Stacks[i].Path = expandHome(cfg.Stacks[i].Path)
	}
	cfg.UI.SnapshotDir = expandHome(cfg.UI.SnapshotDir)

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

// FindStack returns the stack with the given name, or nil.
func (c Config) FindStack(name string) *Stack {
	for i := range c.Stacks {
		if strings.EqualFold(c.Stacks[i].Name, name) {
			return &c.Stacks[i]
		}
	}
	return nil
}

// ResolvedPath returns the stack path with ~ expanded.
func (s Stack) ResolvedPath() string {
	return expandHome(s.Path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
