// Package config holds the run configuration for hearthvoice. A Config is
// a single immutable value passed into every entry point, never ambient
// global state, so optimization runs can be composed and compared side by
// side.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"hearthvoice/internal/metrics"
)

// Config is the full run configuration.
type Config struct {
	Interpreter InterpreterConfig `yaml:"interpreter"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Optimizer   OptimizerConfig   `yaml:"optimizer"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// InterpreterConfig configures the simulated model.
type InterpreterConfig struct {
	Accuracy float64 `yaml:"accuracy"`
	Seed     int64   `yaml:"seed"`
}

// PipelineConfig selects the orchestration mode and batch parallelism.
type PipelineConfig struct {
	Mode    string `yaml:"mode"` // two_step or direct
	Workers int    `yaml:"workers"`
}

// MetricsConfig carries the scoring policy.
type MetricsConfig struct {
	Weights             metrics.Weights `yaml:"weights"`
	FuzzyThreshold      float64         `yaml:"fuzzy_threshold"`
	ErrorScoreThreshold float64         `yaml:"error_score_threshold"`
	ErrorListCap        int             `yaml:"error_list_cap"`
}

// OptimizerConfig carries the demonstration selection policy.
type OptimizerConfig struct {
	K                int     `yaml:"k"`
	TargetMetric     string  `yaml:"target_metric"`
	SuccessThreshold float64 `yaml:"success_threshold"`
}

// LoggingConfig toggles verbose output.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// Default returns the standard configuration.
func Default() Config {
	mopts := metrics.DefaultOptions()
	return Config{
		Interpreter: InterpreterConfig{Accuracy: 0.85, Seed: 42},
		Pipeline:    PipelineConfig{Mode: "two_step", Workers: 4},
		Metrics: MetricsConfig{
			Weights:             mopts.Weights,
			FuzzyThreshold:      mopts.FuzzyThreshold,
			ErrorScoreThreshold: mopts.ErrorScoreThreshold,
			ErrorListCap:        mopts.ErrorListCap,
		},
		Optimizer: OptimizerConfig{K: 4, TargetMetric: "overall_accuracy", SuccessThreshold: 0.9},
	}
}

// Load reads a YAML config file over the defaults and applies environment
// overrides. An empty path yields defaults plus overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnvOverrides lets the environment pin the knobs that vary between
// experiment runs without editing the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("HEARTHVOICE_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Interpreter.Seed = seed
		}
	}
	if v := os.Getenv("HEARTHVOICE_ACCURACY"); v != "" {
		if acc, err := strconv.ParseFloat(v, 64); err == nil {
			c.Interpreter.Accuracy = acc
		}
	}
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Interpreter.Accuracy < 0 || c.Interpreter.Accuracy > 1 {
		return fmt.Errorf("config: interpreter.accuracy must be in [0,1], got %v", c.Interpreter.Accuracy)
	}
	if c.Optimizer.K < 0 {
		return fmt.Errorf("config: optimizer.k must be non-negative, got %d", c.Optimizer.K)
	}
	if c.Pipeline.Mode != "" && c.Pipeline.Mode != "two_step" && c.Pipeline.Mode != "direct" {
		return fmt.Errorf("config: pipeline.mode must be two_step or direct, got %q", c.Pipeline.Mode)
	}
	w := c.Metrics.Weights
	if sum := w.Intent + w.Parameters + w.Completeness; math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("config: metrics.weights must sum to 1, got %v", sum)
	}
	if c.Metrics.FuzzyThreshold < 0 || c.Metrics.FuzzyThreshold > 1 {
		return fmt.Errorf("config: metrics.fuzzy_threshold must be in [0,1], got %v", c.Metrics.FuzzyThreshold)
	}
	if c.Optimizer.TargetMetric != "" && !knownMetric(c.Optimizer.TargetMetric) {
		return fmt.Errorf("config: optimizer.target_metric must be one of %v, got %q",
			metrics.MetricNames(), c.Optimizer.TargetMetric)
	}
	return nil
}

func knownMetric(name string) bool {
	for _, m := range metrics.MetricNames() {
		if m == name {
			return true
		}
	}
	return false
}

// MetricOptions converts the config view into the metrics package options.
func (c Config) MetricOptions() metrics.Options {
	return metrics.Options{
		Weights:             c.Metrics.Weights,
		FuzzyThreshold:      c.Metrics.FuzzyThreshold,
		ErrorScoreThreshold: c.Metrics.ErrorScoreThreshold,
		ErrorListCap:        c.Metrics.ErrorListCap,
	}
}
