package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the global ~/.aifront/config.toml.
type Config struct {
	DefaultProfile string                   `toml:"default_profile"`
	Profiles       map[string]ProfileConfig `toml:"profiles"`
}

// ProfileConfig holds the per-profile backend and observability settings.
// Zero values fall back to the defaults applied by Resolve.
type ProfileConfig struct {
	APIURL      string        `toml:"api_url"`
	Timeout     Duration      `toml:"timeout"`
	LogLevel    string        `toml:"log_level"`
	MetricsAddr string        `toml:"metrics_addr"`
	Tracing     TracingConfig `toml:"tracing"`
}

// TracingConfig controls the OTLP trace exporter.
type TracingConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

// Profile returns the named profile, or the zero profile when absent.
func (c *Config) Profile(name string) ProfileConfig {
	if c == nil || c.Profiles == nil {
		return ProfileConfig{}
	}
	return c.Profiles[name]
}

// SetProfile stores p under name, allocating the map on first use.
func (c *Config) SetProfile(name string, p ProfileConfig) {
	if c.Profiles == nil {
		c.Profiles = make(map[string]ProfileConfig)
	}
	c.Profiles[name] = p
}

// Load reads config from the given path. Returns zero config and error if file missing.
func Load(path string) (*Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}
