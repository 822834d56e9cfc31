// Package config provides configuration loading and management for ontocheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/ontocheck/format"
)

// DefaultOntologyFile is the file checked when no target is given.
const DefaultOntologyFile = "ontology.ttl"

// Config represents the complete ontocheck configuration
type Config struct {
	Ontology OntologyConfig `yaml:"ontology"`
	Output   OutputConfig   `yaml:"output"`
	Log      LogConfig      `yaml:"log"`
	Watch    WatchConfig    `yaml:"watch"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// OntologyConfig selects the file to check
type OntologyConfig struct {
	// Path is the ontology file. Relative paths in a config file resolve
	// against that file's directory.
	Path string `yaml:"path"`
	// Format forces a serialization (turtle, ntriples, rdfxml); empty detects from the extension
	Format string `yaml:"format"`
}

// OutputConfig configures the report
type OutputConfig struct {
	// Format is "text" or "json"
	Format string `yaml:"format"`
}

// LogConfig configures diagnostic logging on stderr
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
}

// WatchConfig configures --watch
type WatchConfig struct {
	// Debounce is how long to wait for more writes before re-checking
	Debounce time.Duration `yaml:"debounce"`
}

// MetricsConfig configures the Prometheus textfile
type MetricsConfig struct {
	// File receives the metrics after each round (empty = disabled)
	File string `yaml:"file"`
}

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Ontology: OntologyConfig{
			Path:   DefaultOntologyFile,
			Format: "", // Detect
		},
		Output: OutputConfig{
			Format: OutputText,
		},
		Log: LogConfig{
			Level: "warn",
		},
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
		Metrics: MetricsConfig{
			File: "", // Disabled
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Ontology.Path == "" {
		return fmt.Errorf("ontology.path is required")
	}
	if c.Ontology.Format != "" {
		if _, err := format.Parse(c.Ontology.Format); err != nil {
			return fmt.Errorf("ontology.format: %w", err)
		}
	}
	switch c.Output.Format {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("output.format must be %q or %q, got %q", OutputText, OutputJSON, c.Output.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}

// OntologyFormat returns the configured format, or "" when it should be detected.
func (c *Config) OntologyFormat() format.Format {
	if c.Ontology.Format == "" {
		return ""
	}
	f, err := format.Parse(c.Ontology.Format)
	if err != nil {
		return ""
	}
	return f
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	fileConfig, err := readFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	config.Merge(fileConfig)
	return config, nil
}

// readFile parses a config file without applying defaults.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &Config{}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if p := config.Ontology.Path; p != "" && !filepath.IsAbs(p) {
		config.Ontology.Path = filepath.Join(filepath.Dir(path), p)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Ontology
	if other.Ontology.Path != "" {
		c.Ontology.Path = other.Ontology.Path
	}
	if other.Ontology.Format != "" {
		c.Ontology.Format = other.Ontology.Format
	}

	// Output
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	// Watch
	if other.Watch.Debounce != 0 {
		c.Watch.Debounce = other.Watch.Debounce
	}

	// Metrics
	if other.Metrics.File != "" {
		c.Metrics.File = other.Metrics.File
	}
}
