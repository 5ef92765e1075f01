// Package config loads clubstats settings from defaults, an optional YAML
// file, and CLUBSTATS_* environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/pable/clubstats/internal/model"
)

const envPrefix = "CLUBSTATS_"

// Config contains process configuration.
type Config struct {
	// DBPath is the SQLite database file.
	DBPath string `koanf:"db_path"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// VisionModel and VisionMaxTokens configure screenshot extraction.
	VisionModel     string `koanf:"vision_model"`
	VisionMaxTokens int    `koanf:"vision_max_tokens"`

	// DefaultAggregation fills series specs that leave aggregation empty.
	DefaultAggregation string `koanf:"default_aggregation"`

	// Output selects chart output: table or json.
	Output string `koanf:"output"`
}

// New returns a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		DBPath:             filepath.Join(userHome(), ".clubstats", "clubstats.db"),
		LogLevel:           "info",
		VisionModel:        "claude-haiku-4-5-20251001",
		VisionMaxTokens:    2048,
		DefaultAggregation: string(model.AggregationAvg),
		Output:             "table",
	}
}

// Load builds a Config by layering, low to high precedence:
//  1. defaults (New)
//  2. YAML file at path, or at $CLUBSTATS_CONFIG when path is empty
//  3. env (CLUBSTATS_DB_PATH, CLUBSTATS_LOG_LEVEL, ...)
func Load(ctx context.Context, path string) (*Config, error) {
	base := New(ctx)
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv(envPrefix + "CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// CLUBSTATS_DB_PATH -> db_path; underscores are kept to match the tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db_path must not be empty")
	}
	switch model.Aggregation(c.DefaultAggregation) {
	case model.AggregationAvg, model.AggregationSum, model.AggregationNone:
	default:
		return fmt.Errorf("default_aggregation: unknown value %q", c.DefaultAggregation)
	}
	switch c.Output {
	case "table", "json":
	default:
		return fmt.Errorf("output: unknown value %q", c.Output)
	}
	if c.VisionMaxTokens <= 0 {
		return errors.New("vision_max_tokens must be positive")
	}
	return nil
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
