// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/vidmark/pkg/adapters/ffmpeg"
	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/orchestrator"
	"github.com/user/vidmark/pkg/store"
)

// Config represents the full configuration for vidmark.
type Config struct {
	// Session
	Variant    string   `yaml:"variant"`
	TickMs     int      `yaml:"tick_ms"`
	Extensions []string `yaml:"extensions"`

	// Sidecar
	HistoryPolicy string `yaml:"history_policy"`

	// Transcoding
	FFmpegPath string `yaml:"ffmpeg_path"`
	CRF        int    `yaml:"crf"`

	// Display
	PreviewPath string `yaml:"preview_path"`
	SnapshotDir string `yaml:"snapshot_dir"`
	FontPath    string `yaml:"font_path"` // TrueType font for the status bar; empty uses the built-in face

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	// Keymap maps a command name such as "mark-1" to the key tokens bound to it.
	// Commands not listed keep their default keys.
	Keymap map[string][]string `yaml:"keymap"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Variant:    string(checkpoint.VariantKeyed),
		TickMs:     33,
		Extensions: []string{".mp4", ".webm"},

		HistoryPolicy: string(store.HistoryAppend),

		CRF: ffmpeg.DefaultCRF,

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// LoadFromFile loads configuration from a YAML file. Keys missing from the file keep
// their default values.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks every value and returns the first problem found.
func (c Config) Validate() error {
	if _, err := checkpoint.ParseVariant(c.Variant); err != nil {
		return err
	}
	if c.TickMs < 1 || c.TickMs > 1000 {
		return fmt.Errorf("tick_ms must be between 1 and 1000, got %d", c.TickMs)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("extensions must not be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return fmt.Errorf("extension %q must start with a dot", ext)
		}
	}
	if _, err := store.ParseHistoryPolicy(c.HistoryPolicy); err != nil {
		return err
	}
	if c.CRF < 0 || c.CRF > 51 {
		return fmt.Errorf("crf must be between 0 and 51, got %d", c.CRF)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error", "quiet":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log_format %q (want console or json)", c.LogFormat)
	}
	return nil
}

// Tick returns the playback interval.
func (c Config) Tick() time.Duration {
	return time.Duration(c.TickMs) * time.Millisecond
}

// ToOrchestratorConfig converts Config to orchestrator.Config for input.
// Validate must have succeeded.
func (c Config) ToOrchestratorConfig(input string) orchestrator.Config {
	variant, _ := checkpoint.ParseVariant(c.Variant)
	return orchestrator.Config{
		Input:      input,
		Extensions: c.Extensions,
		Variant:    variant,
		Tick:       c.Tick(),
	}
}
