// Package config handles the user configuration file.
package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Re-confirmation policies for profile loads.
const (
	// ReconfirmChanged prompts only when the profile checksum differs from
	// the last recorded load.
	ReconfirmChanged = "changed"
	// ReconfirmAlways prompts on every load.
	ReconfirmAlways = "always"
)

// SnapshotConfig bounds the auto-snapshot history.
type SnapshotConfig struct {
	Limit int `yaml:"limit"`
}

// ProfileConfig controls profile-load confirmation policy.
type ProfileConfig struct {
	Reconfirm string `yaml:"reconfirm"` // "changed" | "always"
}

// Config is the root user configuration.
type Config struct {
	Snapshots SnapshotConfig `yaml:"snapshots"`
	Profile   ProfileConfig  `yaml:"profile"`
	Color     string         `yaml:"color"` // "auto" | "never"
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		Snapshots: SnapshotConfig{Limit: 10},
		Profile:   ProfileConfig{Reconfirm: ReconfirmChanged},
		Color:     "auto",
	}
}

// Path returns the default config file location.
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "envision", "config.yaml")
}

// Load reads a config.yaml from path. If the file does not exist it
// returns Default() with no error. Missing keys retain their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	// Unmarshal into a plain map so only present keys override defaults.
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if snaps, ok := raw["snapshots"].(map[string]any); ok {
		if v, ok := snaps["limit"].(int); ok && v >= 0 {
			cfg.Snapshots.Limit = v
		}
	}
	if prof, ok := raw["profile"].(map[string]any); ok {
		if v, ok := prof["reconfirm"].(string); ok && (v == ReconfirmChanged || v == ReconfirmAlways) {
			cfg.Profile.Reconfirm = v
		}
	}
	if v, ok := raw["color"].(string); ok && (v == "auto" || v == "never") {
		cfg.Color = v
	}

	return cfg, nil
}
