// Package config loads and validates goplan's YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gitrdm/goplan/pkg/planner"
)

// Config holds all goplan configuration.
type Config struct {
	Search  SearchConfig  `yaml:"search"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// SearchConfig configures each AStar run.
type SearchConfig struct {
	Heuristic string `yaml:"heuristic" validate:"heuristic"`
	Power     int    `yaml:"power" validate:"gte=0"`
	NodeLimit int    `yaml:"node_limit" validate:"gte=0"`
	Timeout   string `yaml:"timeout" validate:"omitempty,timeout"`
	Trace     bool   `yaml:"trace"`
}

// BatchConfig configures how many problems are solved side by side.
type BatchConfig struct {
	Jobs      int `yaml:"jobs" validate:"gte=1,lte=256"`
	QueueSize int `yaml:"queue_size" validate:"gte=1"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level    string `yaml:"level" validate:"oneof=debug info warn error"`
	Encoding string `yaml:"encoding" validate:"oneof=json console"`
}

// MetricsConfig configures the Prometheus text file written after a run.
type MetricsConfig struct {
	Namespace  string `yaml:"namespace" validate:"required_with=OutputPath"`
	OutputPath string `yaml:"output_path"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Heuristic: "delete-relaxation",
			Power:     1,
		},
		Batch: BatchConfig{
			Jobs:      4,
			QueueSize: 64,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
		Metrics: MetricsConfig{
			Namespace: "goplan",
		},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("heuristic", validateHeuristic)
	_ = validate.RegisterValidation("timeout", validateTimeout)
}

func validateHeuristic(fl validator.FieldLevel) bool {
	_, err := planner.ParseHeuristic(fl.Field().String(), 1)
	return err == nil
}

func validateTimeout(fl validator.FieldLevel) bool {
	d, err := time.ParseDuration(fl.Field().String())
	return err == nil && d >= 0
}

// Load reads a YAML file over the defaults. A missing file yields the
// defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies GOPLAN_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GOPLAN_HEURISTIC"); v != "" {
		c.Search.Heuristic = v
	}
	if v := os.Getenv("GOPLAN_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v, err := strconv.Atoi(os.Getenv("GOPLAN_JOBS")); err == nil {
		c.Batch.Jobs = v
	}
}

// Validate checks every field constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Heuristic resolves the configured heuristic.
func (c *Config) Heuristic() (planner.Heuristic, error) {
	return planner.ParseHeuristic(c.Search.Heuristic, c.Search.Power)
}

// Timeout returns the per-search time limit; zero means none.
func (c *Config) Timeout() time.Duration {
	if c.Search.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Search.Timeout)
	return d
}

// SolveOptions converts the search settings into planner options.
func (c *Config) SolveOptions() []planner.SolveOption {
	opts := []planner.SolveOption{planner.WithTrace(c.Search.Trace)}
	if c.Search.NodeLimit > 0 {
		opts = append(opts, planner.WithNodeLimit(c.Search.NodeLimit))
	}
	if d := c.Timeout(); d > 0 {
		opts = append(opts, planner.WithTimeLimit(d))
	}
	return opts
}
