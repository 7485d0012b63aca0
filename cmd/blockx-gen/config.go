package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/hengadev/errsx"
	"gopkg.in/yaml.v3"

	"github.com/hengadev/blockx/internal/codegen"
)

// Config represents the configuration for the code generator
type Config struct {
	Version        string                   `yaml:"version"`
	OutputFile     string                   `yaml:"output_file"`
	SkipUnexported bool                     `yaml:"skip_unexported"`
	Packages       map[string]PackageConfig `yaml:"packages"`
}

// PackageConfig holds per-directory overrides
type PackageConfig struct {
	Skip bool `yaml:"skip"`
}

// LoadConfig loads configuration from a YAML file. Keys missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if config.Packages == nil {
		config.Packages = make(map[string]PackageConfig)
	}

	return config, nil
}

// LoadConfigOrDefault loads path, falling back to the defaults when the file
// does not exist.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:    "1",
		OutputFile: codegen.DefaultOutputFile,
		Packages:   make(map[string]PackageConfig),
	}
}

// Validate checks if the configuration is valid. All problems are reported
// at once as an errsx.Map keyed by setting.
func (c *Config) Validate() error {
	var errs errsx.Map

	// Version is optional - default to "1" if not set
	if c.Version == "" {
		c.Version = "1"
	}
	if c.Version != "1" {
		errs.Set("version", fmt.Sprintf("unsupported version %q", c.Version))
	}

	if err := codegen.ValidateOutputFile(c.OutputFile); err != nil {
		errs.Set("output_file", err)
	}

	for dir := range c.Packages {
		if strings.TrimSpace(dir) == "" {
			errs.Set("packages", "package directory cannot be empty")
		}
	}

	return errs.AsError()
}

// Skipped reports whether dir is marked to skip.
func (c *Config) Skipped(dir string) bool {
	if pkg, ok := c.Packages[dir]; ok && pkg.Skip {
		return true
	}
	cleaned := cleanDir(dir)
	for key, pkg := range c.Packages {
		if pkg.Skip && cleanDir(key) == cleaned {
			return true
		}
	}
	return false
}
