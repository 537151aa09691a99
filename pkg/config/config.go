package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cli/go-gh/v2/pkg/repository"
	"gopkg.in/yaml.v3"
)

const ConfigFileName = ".gh-issue-batch.yml"

// Backends that can create issues
const (
	BackendCLI = "cli"
	BackendAPI = "api"
)

// Config represents the batch configuration
type Config struct {
	Input      string        `yaml:"input"`
	Repository string        `yaml:"repository,omitempty"`
	Backend    string        `yaml:"backend"`
	Delay      time.Duration `yaml:"delay"`
	Timeout    time.Duration `yaml:"timeout"`
	Output     string        `yaml:"output"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Input:   "issues.csv",
		Backend: BackendCLI,
		Delay:   3 * time.Second,
		Timeout: 30 * time.Second,
		Output:  "table",
	}
}

// Load loads configuration from the nearest config file, falling back to defaults
func Load() (*Config, error) {
	configPath := findConfigFile()
	if configPath == "" {
		return DefaultConfig(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from path; keys missing from the file keep their defaults
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in current and parent directories
func findConfigFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// Exists checks if configuration file exists
func Exists() bool {
	return findConfigFile() != ""
}

// FindConfigPath returns the path to the configuration file
func FindConfigPath() string {
	return findConfigFile()
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Input == "" {
		return fmt.Errorf("input file is required")
	}

	switch c.Backend {
	case BackendCLI, BackendAPI:
	default:
		return fmt.Errorf("invalid backend '%s': must be '%s' or '%s'", c.Backend, BackendCLI, BackendAPI)
	}

	switch c.Output {
	case "table", "json":
	default:
		return fmt.Errorf("invalid output format '%s': must be 'table' or 'json'", c.Output)
	}

	if c.Delay < 0 {
		return fmt.Errorf("delay must not be negative")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.Repository != "" {
		if _, err := c.Repo(); err != nil {
			return err
		}
	}

	return nil
}

// Repo parses the configured repository
func (c *Config) Repo() (repository.Repository, error) {
	repo, err := repository.Parse(c.Repository)
	if err != nil {
		return repository.Repository{}, fmt.Errorf("invalid repository format '%s': must be 'owner/repo'", c.Repository)
	}
	return repo, nil
}
