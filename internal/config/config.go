package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Automation AutomationConfig `yaml:"automation"`
	Storage    StorageConfig    `yaml:"storage"`
	Admission  AdmissionConfig  `yaml:"admission"`
	Pool       PoolConfig       `yaml:"pool"`
	Admin      AdminConfig      `yaml:"admin"`
	Journal    JournalConfig    `yaml:"journal"`
}

type ServerConfig struct {
	// Addr the HTTP server listens on.
	Addr string `yaml:"addr"`
}

// AutomationConfig selects and configures the browser-automation
// collaborator.
type AutomationConfig struct {
	Name   string         `yaml:"name"`
	Type   string         `yaml:"type"`    // e.g., "command", "stub"
	Config map[string]any `yaml:",inline"` // Capture remaining fields
}

type StorageConfig struct {
	Type string `yaml:"type"` // e.g., "memory", "sqlite"
	Path string `yaml:"path"`
}

type AdmissionConfig struct {
	// RequestsPerMinute is the sustained extraction-request budget per
	// caller; this throttles requests, not runs.
	RequestsPerMinute float64 `yaml:"requests_per_minute"`

	// Burst allows short spikes above the sustained rate.
	Burst int `yaml:"burst"`

	// IdleTTL evicts per-caller buckets after inactivity.
	IdleTTL time.Duration `yaml:"idle_ttl"`
}

type PoolConfig struct {
	// Size bounds concurrent blocking automation work.
	Size int64 `yaml:"size"`

	// WaitTimeout caps how long a request blocks on a running extraction.
	WaitTimeout time.Duration `yaml:"wait_timeout"`
}

type AdminConfig struct {
	// SigningKey verifies admin JWTs on the /v1/admin routes.
	SigningKey string `yaml:"signing_key"`
}

type JournalConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load reads and parses the configuration file at the given path.
// It returns a Config struct or an error if loading/parsing/validation fails.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Automation.Type == "" {
		c.Automation.Type = "stub"
	}
	if c.Automation.Name == "" {
		c.Automation.Name = c.Automation.Type
	}
	if c.Storage.Type == "" {
		c.Storage.Type = "memory"
	}
	if c.Admission.RequestsPerMinute <= 0 {
		c.Admission.RequestsPerMinute = 5
	}
	if c.Admission.Burst <= 0 {
		c.Admission.Burst = 2
	}
	if c.Admission.IdleTTL <= 0 {
		c.Admission.IdleTTL = 10 * time.Minute
	}
	if c.Pool.Size <= 0 {
		c.Pool.Size = 1
	}
	if c.Pool.WaitTimeout <= 0 {
		c.Pool.WaitTimeout = 2 * time.Minute
	}
}

func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for sqlite storage")
		}
	default:
		return fmt.Errorf("unknown storage type %q", c.Storage.Type)
	}

	switch c.Automation.Type {
	case "stub", "command":
	default:
		return fmt.Errorf("unknown automation type %q", c.Automation.Type)
	}

	if c.Journal.Enabled && c.Journal.Path == "" {
		return fmt.Errorf("journal.path is required when the journal is enabled")
	}

	return nil
}
