// Package config loads and validates reposcribe configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the reposcribe service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Clone      CloneConfig      `yaml:"clone"`
	Walker     WalkerConfig     `yaml:"walker"`
	Generation GenerationConfig `yaml:"generation"`
	Store      StoreConfig      `yaml:"store"`
	NATS       NATSConfig       `yaml:"nats"`
	Janitor    JanitorConfig    `yaml:"janitor"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port      int `yaml:"port"`
	AdminPort int `yaml:"admin_port"`
}

// CloneConfig controls workspace allocation and repository fetching.
type CloneConfig struct {
	BaseDir        string `yaml:"base_dir"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// WalkerConfig controls source tree enumeration.
type WalkerConfig struct {
	// Ignore lists directory names skipped at any depth. Empty means defaults.
	Ignore       []string `yaml:"ignore"`
	MaxFileBytes int64    `yaml:"max_file_bytes"`
}

// GenerationConfig controls the text-completion provider.
type GenerationConfig struct {
	Model          string `yaml:"model"`
	MaxTokens      int    `yaml:"max_tokens"`
	BatchSize      int    `yaml:"batch_size"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// StoreConfig controls the optional documentation persistence layer.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NATSConfig controls optional job lifecycle event publishing.
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// JanitorConfig controls the orphaned-workspace sweeper.
type JanitorConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalMinutes int  `yaml:"interval_minutes"`
	MaxAgeMinutes   int  `yaml:"max_age_minutes"`
}

// APIKeyEnv is the environment variable holding the generation provider credential.
// The key is never read from YAML so config files stay safe to commit.
const APIKeyEnv = "GEMINI_API_KEY"

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from a YAML file. A missing file is not an error:
// defaults are returned so the service can run with zero local setup. Every
// path through Load applies defaults and validates.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3001
	}
	if c.Server.AdminPort == 0 {
		c.Server.AdminPort = 9091
	}
	if c.Clone.BaseDir == "" {
		c.Clone.BaseDir = filepath.Join(os.TempDir(), "reposcribe", "repos")
	}
	if c.Clone.TimeoutSeconds == 0 {
		c.Clone.TimeoutSeconds = 120
	}
	if c.Walker.MaxFileBytes == 0 {
		c.Walker.MaxFileBytes = 512 * 1024
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gemini-1.5-flash"
	}
	if c.Generation.MaxTokens == 0 {
		c.Generation.MaxTokens = 2048
	}
	if c.Generation.BatchSize == 0 {
		c.Generation.BatchSize = 5
	}
	if c.Generation.TimeoutSeconds == 0 {
		c.Generation.TimeoutSeconds = 90
	}
	if c.Store.Path == "" {
		c.Store.Path = "reposcribe.db"
	}
	if c.NATS.URL == "" {
		c.NATS.URL = "nats://127.0.0.1:4222"
	}
	if c.NATS.Subject == "" {
		c.NATS.Subject = "reposcribe.jobs"
	}
	if c.Janitor.IntervalMinutes == 0 {
		c.Janitor.IntervalMinutes = 30
	}
	if c.Janitor.MaxAgeMinutes == 0 {
		c.Janitor.MaxAgeMinutes = 120
	}
}

// Validate checks configuration invariants not expressible as defaults.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Generation.BatchSize < 1 {
		return fmt.Errorf("generation.batch_size must be at least 1, got %d", c.Generation.BatchSize)
	}
	if c.Generation.MaxTokens < 1 {
		return fmt.Errorf("generation.max_tokens must be at least 1, got %d", c.Generation.MaxTokens)
	}
	if c.Walker.MaxFileBytes < 0 {
		return fmt.Errorf("walker.max_file_bytes must not be negative, got %d", c.Walker.MaxFileBytes)
	}
	return nil
}

// APIKey resolves the generation provider credential from the environment.
func (c *Config) APIKey() string {
	return os.Getenv(APIKeyEnv)
}
