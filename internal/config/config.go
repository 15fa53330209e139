// Package config loads the pursuit configuration file.
package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Config is the persistent application configuration.
type Config struct {
	ServerURL        string `yaml:"server_url"`
	RequestTimeout   string `yaml:"request_timeout"`
	TopAgencies      int    `yaml:"top_agencies,omitempty"`
	KeepStaleOnError *bool  `yaml:"keep_stale_on_error,omitempty"`
	LogEvents        *bool  `yaml:"log_events,omitempty"`
}

// Timeout returns the parsed request timeout, defaulting to 30s.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// AgencyBars returns the agency chart bar budget, defaulting to 5.
func (c *Config) AgencyBars() int {
	if c.TopAgencies <= 0 {
		return 5
	}
	return c.TopAgencies
}

// KeepStale reports whether a failed refetch keeps prior items visible.
// Defaults to true.
func (c *Config) KeepStale() bool {
	if c.KeepStaleOnError == nil {
		return true
	}
	return *c.KeepStaleOnError
}

// EventsEnabled reports whether the JSONL event log is written.
// Defaults to true.
func (c *Config) EventsEnabled() bool {
	if c.LogEvents == nil {
		return true
	}
	return *c.LogEvents
}

// DefaultConfigPath is where the config file lives.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "pursuit", "config.yaml")
}

// CachePath is where the catalog cache database lives.
func CachePath() string {
	return filepath.Join(xdg.CacheHome, "pursuit", "catalog.db")
}

// EventLogPath is where the JSONL event log lives.
func EventLogPath() string {
	return filepath.Join(xdg.StateHome, "pursuit", "events.jsonl")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path, falling back to embedded defaults when
// the file does not exist (and writing them out for the next run). An
// empty path means DefaultConfigPath().
func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to the config path on first run.
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults.
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.ServerURL == "" {
		return fmt.Errorf("server_url is required")
	}
	u, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server_url scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.RequestTimeout != "" {
		if _, err := time.ParseDuration(cfg.RequestTimeout); err != nil {
			return fmt.Errorf("invalid request_timeout %q: %w", cfg.RequestTimeout, err)
		}
	}
	return nil
}
