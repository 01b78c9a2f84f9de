// Package config loads marketsim settings from an optional YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"marketsim/report"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MARKETSIM_"

// ErrInvalid is returned when a loaded configuration fails validation.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the session settings. Precedence is defaults, then the YAML
// file, then the environment. Command-line flags are applied by the caller.
type Config struct {
	Log struct {
		Level  string `yaml:"level" env:"LEVEL"`
		Format string `yaml:"format" env:"FORMAT"`
	} `yaml:"log" envPrefix:"LOG_"`

	Output struct {
		Verbose       bool `yaml:"verbose" env:"VERBOSE"`
		Median        bool `yaml:"median" env:"MEDIAN"`
		TraderInfo    bool `yaml:"trader_info" env:"TRADER_INFO"`
		TimeTravelers bool `yaml:"time_travelers" env:"TIME_TRAVELERS"`
	} `yaml:"output" envPrefix:"OUTPUT_"`

	// Input is the feed path; empty or "-" reads stdin.
	Input string `yaml:"input" env:"INPUT"`

	// MetricsFile receives a Prometheus textfile at the end of a session.
	MetricsFile string `yaml:"metrics_file" env:"METRICS_FILE"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// Load builds the configuration. path may be empty to skip the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.Log.Format)
	}
	return nil
}

// ReportOptions maps the output section onto reporter options.
func (c *Config) ReportOptions() report.Options {
	return report.Options{
		Verbose:       c.Output.Verbose,
		Median:        c.Output.Median,
		TraderInfo:    c.Output.TraderInfo,
		TimeTravelers: c.Output.TimeTravelers,
	}
}
