// Package config holds ptrkit's CLI configuration: logging, leak tracking
// and demo output settings.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ptrkit/pkg/ptr"
)

// Config holds all ptrkit configuration.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Tracker TrackerConfig `yaml:"tracker"`
	Demo    DemoConfig    `yaml:"demo"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json"`
}

// TrackerConfig configures the allocation tracker.
type TrackerConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DemoConfig configures walkthrough output.
type DemoConfig struct {
	// Color is optional so an absent key and an explicit false can be
	// told apart; absent means on.
	Color *bool `yaml:"color"`
}

// ColorEnabled resolves the optional color setting.
func (d DemoConfig) ColorEnabled() bool {
	return ptr.DerefOr(d.Color, true)
}

// Default returns the configuration used when no file is present: info
// logging, tracker off, colored demo output.
func Default() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Tracker: TrackerConfig{Enabled: false},
		Demo:    DemoConfig{Color: ptr.Of(true)},
	}
}

// Load reads a YAML config file, layering it over Default and applying
// environment overrides. A missing path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				cfg.applyEnv()
				return cfg, nil
			}
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects unusable settings.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
}

// PTRKIT_LOG_LEVEL overrides the configured log level.
func (c *Config) applyEnv() {
	if lvl := os.Getenv("PTRKIT_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}
