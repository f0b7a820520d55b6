// SPDX-License-Identifier: MIT

// Package config loads lvkernel CLI settings from YAML and the environment.
// Precedence is defaults, then the YAML file, then LVKERNEL_* variables;
// command-line flags are applied last by the caller.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/katalvlaran/lvkernel/atomkernel"
	"github.com/katalvlaran/lvkernel/internal/logging"
	"github.com/katalvlaran/lvkernel/kernel"
	"gopkg.in/yaml.v3"
)

// Config is the full CLI configuration.
type Config struct {
	Kernel  KernelConfig  `json:"kernel" yaml:"kernel"`
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Cache   CacheConfig   `json:"cache" yaml:"cache"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// KernelConfig holds defaults for kernel evaluations.
type KernelConfig struct {
	// Metric is "laplacian" or "gaussian".
	Metric string `json:"metric" yaml:"metric"`
	// Sigma is the width used by the dense command.
	Sigma float64 `json:"sigma" yaml:"sigma"`
	// Sigmas are the widths used by the atomic command.
	Sigmas []float64 `json:"sigmas" yaml:"sigmas"`
	// Reduction is "sum" or "mean".
	Reduction string `json:"reduction" yaml:"reduction"`
	// ValidateFinite rejects NaN/Inf descriptors before evaluation.
	ValidateFinite bool `json:"validate_finite" yaml:"validate_finite"`
	// SymmetryShortcut evaluates only the upper triangle of self kernels.
	SymmetryShortcut bool `json:"symmetry_shortcut" yaml:"symmetry_shortcut"`
}

// EngineConfig sizes the evaluation.
type EngineConfig struct {
	// Workers is the pool size; 0 means GOMAXPROCS.
	Workers int `json:"workers" yaml:"workers"`
	// MaxBytes caps the bytes a single call may allocate.
	MaxBytes int64 `json:"max_bytes" yaml:"max_bytes"`
}

// CacheConfig enables the result cache when Dir is set.
type CacheConfig struct {
	Dir string        `json:"dir,omitempty" yaml:"dir,omitempty"`
	TTL time.Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
}

// LoggingConfig configures stderr logging.
type LoggingConfig struct {
	// Level is "error", "warn", "info" (default), "debug" or "trace".
	Level string `json:"level" yaml:"level"`
	// JSON switches the log format from text to JSON.
	JSON bool `json:"json" yaml:"json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Kernel: KernelConfig{
			Metric:           kernel.MetricGaussian.String(),
			Sigma:            1,
			Sigmas:           []float64{1},
			Reduction:        atomkernel.Sum.String(),
			ValidateFinite:   true,
			SymmetryShortcut: true,
		},
		Engine: EngineConfig{
			Workers:  0,
			MaxBytes: kernel.DefaultMaxBytes,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load builds a configuration from defaults, the optional YAML file at path
// and environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads a YAML file on top of Default. Unknown keys are rejected.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	cfg.Cache.Dir = expandEnvVars(cfg.Cache.Dir)

	return cfg, nil
}

// Validate checks every field against what the engines accept.
func (c *Config) Validate() error {
	if _, err := kernel.ParseMetric(c.Kernel.Metric); err != nil {
		return fmt.Errorf("kernel.metric: %w", err)
	}
	if err := kernel.ValidateSigma(c.Kernel.Sigma); err != nil {
		return fmt.Errorf("kernel.sigma: %w", err)
	}
	if len(c.Kernel.Sigmas) == 0 {
		return fmt.Errorf("kernel.sigmas: %w", atomkernel.ErrNoSigmas)
	}
	if err := kernel.ValidateSigmas(c.Kernel.Sigmas); err != nil {
		return fmt.Errorf("kernel.sigmas: %w", err)
	}
	if _, err := atomkernel.ParseReduction(c.Kernel.Reduction); err != nil {
		return fmt.Errorf("kernel.reduction: %w", err)
	}
	if c.Engine.Workers < 0 {
		return fmt.Errorf("engine.workers must be non-negative, got %d", c.Engine.Workers)
	}
	if c.Engine.MaxBytes <= 0 {
		return fmt.Errorf("engine.max_bytes must be positive, got %d", c.Engine.MaxBytes)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative, got %v", c.Cache.TTL)
	}
	if c.Logging.Level != "" && !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid log level: %s (valid: error, warn, info, debug, trace)", c.Logging.Level)
	}

	return nil
}

// Metric returns the parsed metric. Call Validate first.
func (c *Config) Metric() kernel.Metric {
	m, _ := kernel.ParseMetric(c.Kernel.Metric)
	return m
}

// Reduction returns the parsed reduction. Call Validate first.
func (c *Config) Reduction() atomkernel.Reduction {
	r, _ := atomkernel.ParseReduction(c.Kernel.Reduction)
	return r
}

// KernelOptions translates the configuration into dense-engine options.
func (c *Config) KernelOptions() []kernel.Option {
	opts := []kernel.Option{
		kernel.WithWorkers(c.Engine.Workers),
		kernel.WithMaxBytes(c.Engine.MaxBytes),
		kernel.WithValidateFinite(c.Kernel.ValidateFinite),
	}
	if !c.Kernel.SymmetryShortcut {
		opts = append(opts, kernel.WithNoSymmetryShortcut())
	}
	return opts
}

// AtomicOptions translates the configuration into atomic-engine options.
func (c *Config) AtomicOptions() []atomkernel.Option {
	opts := []atomkernel.Option{
		atomkernel.WithWorkers(c.Engine.Workers),
		atomkernel.WithMaxBytes(c.Engine.MaxBytes),
		atomkernel.WithValidateFinite(c.Kernel.ValidateFinite),
		atomkernel.WithReduction(c.Reduction()),
	}
	if !c.Kernel.SymmetryShortcut {
		opts = append(opts, atomkernel.WithNoSymmetryShortcut())
	}
	return opts
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LVKERNEL_METRIC"); v != "" {
		cfg.Kernel.Metric = v
	}
	if v := os.Getenv("LVKERNEL_SIGMA"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("LVKERNEL_SIGMA: %w", err)
		}
		cfg.Kernel.Sigma = f
	}
	if v := os.Getenv("LVKERNEL_SIGMAS"); v != "" {
		sigmas, err := ParseFloatList(v)
		if err != nil {
			return fmt.Errorf("LVKERNEL_SIGMAS: %w", err)
		}
		cfg.Kernel.Sigmas = sigmas
	}
	if v := os.Getenv("LVKERNEL_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LVKERNEL_WORKERS: %w", err)
		}
		cfg.Engine.Workers = n
	}
	if v := os.Getenv("LVKERNEL_CACHE_DIR"); v != "" {
		cfg.Cache.Dir = v
	}
	if v := os.Getenv("LVKERNEL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	return nil
}

// ParseFloatList parses "1,2.5, 4" into a slice. Empty items are rejected.
func ParseFloatList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", p, err)
		}
		out = append(out, f)
	}
	return out, nil
}

func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
