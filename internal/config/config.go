// Package config loads the subio configuration file.
//
// Config file locations (priority order):
//  1. the path given on the command line
//  2. $SUBIO_CONFIG
//  3. ./subio.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"subio/internal/node"
	"subio/internal/provider"
)

const (
	// EnvConfigPath names the environment variable holding the config path.
	EnvConfigPath = "SUBIO_CONFIG"

	// ConfigFileName is the config file looked up in the working directory.
	ConfigFileName = "subio.yaml"

	// TypeCustom marks a provider whose nodes are written in the config.
	TypeCustom = "custom"
)

// Output formats.
const (
	OutputYAML = "yaml"
	OutputJSON = "json"
)

// Log formats.
const (
	LogText = "text"
	LogJSON = "json"
)

// Config is the root of the configuration file.
type Config struct {
	LogLevel    string           `yaml:"log-level"`
	LogFormat   string           `yaml:"log-format"`
	Output      string           `yaml:"output"`
	MappingFile string           `yaml:"mapping-file,omitempty"`
	Concurrency int              `yaml:"concurrency,omitempty"`
	Providers   []ProviderConfig `yaml:"provider"`

	// dir is the directory relative paths are resolved against.
	dir string
}

// ProviderConfig is one provider entry. File is read for every type except
// custom, whose nodes are given inline.
type ProviderConfig struct {
	Name  string         `yaml:"name"`
	Type  string         `yaml:"type"`
	File  string         `yaml:"file,omitempty"`
	Nodes []*node.Record `yaml:"nodes,omitempty"`
}

// IsCustom returns true for providers with inline nodes.
func (p ProviderConfig) IsCustom() bool {
	return p.Type == TypeCustom
}

// Load finds and loads the config file. An explicit path takes priority over
// the lookup order; with no file found the defaults are returned.
func Load(explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = FindConfigPath()
	}

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path.
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}

	cfg.dir = filepath.Dir(path)

	return cfg, path, nil
}

// Parse decodes config YAML and applies defaults. Relative paths resolve
// against the working directory.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()

	return cfg
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	if c.LogFormat == "" {
		c.LogFormat = LogText
	}

	if c.Output == "" {
		c.Output = OutputYAML
	}
}

// Resolve returns path relative to the config file's directory. Absolute
// and empty paths are returned unchanged.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.dir == "" {
		return path
	}

	return filepath.Join(c.dir, path)
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	switch c.Output {
	case OutputYAML, OutputJSON:
	default:
		errs = append(errs, fmt.Errorf("output %q: must be %s or %s", c.Output, OutputYAML, OutputJSON))
	}

	switch c.LogFormat {
	case LogText, LogJSON:
	default:
		errs = append(errs, fmt.Errorf("log-format %q: must be %s or %s", c.LogFormat, LogText, LogJSON))
	}

	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency %d: must not be negative", c.Concurrency))
	}

	if c.MappingFile != "" && !fileExists(c.Resolve(c.MappingFile)) {
		errs = append(errs, fmt.Errorf("mapping-file %q: file not found", c.MappingFile))
	}

	seen := make(map[string]struct{}, len(c.Providers))

	for i, p := range c.Providers {
		if p.Name == "" {
			errs = append(errs, fmt.Errorf("provider #%d: name is required", i+1))
		} else if _, dup := seen[p.Name]; dup {
			errs = append(errs, fmt.Errorf("provider %q: duplicate name", p.Name))
		}

		seen[p.Name] = struct{}{}

		if err := c.validateProvider(p); err != nil {
			errs = append(errs, fmt.Errorf("provider %q: %w", p.Name, err))
		}
	}

	return errors.Join(errs...)
}

func (c *Config) validateProvider(p ProviderConfig) error {
	if p.IsCustom() {
		if p.File != "" {
			return errors.New("custom providers take nodes, not a file")
		}

		return nil
	}

	if _, ok := provider.Lookup(p.Type); !ok {
		return fmt.Errorf("unsupported type %q (supported: %v, %s)", p.Type, provider.IDs(), TypeCustom)
	}

	if p.File == "" {
		return errors.New("file is required")
	}

	if !fileExists(c.Resolve(p.File)) {
		return fmt.Errorf("file %q not found", p.File)
	}

	return nil
}

// FindConfigPath searches for a config file in standard locations.
// Returns empty string if no config file is found.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		if fileExists(path) {
			return path
		}
	}

	if fileExists(ConfigFileName) {
		if abs, err := filepath.Abs(ConfigFileName); err == nil {
			return abs
		}

		return ConfigFileName
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
