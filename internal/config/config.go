// Package config handles the YAML client configuration with environment
// overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the client settings.
type Config struct {
	// BaseURL is the Solr root, e.g. http://localhost:8983/solr.
	BaseURL string `yaml:"base_url"`
	// Core is the default core for commands that take one.
	Core    string        `yaml:"core"`
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL: "http://localhost:8983/solr",
		Timeout: 30 * time.Second,
	}
}

// DefaultPath returns $HOME/.config/solradmin/config.yaml, or "" when the
// home directory cannot be determined.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "solradmin", "config.yaml")
}

// Load reads a YAML config file at path. If the file does not exist,
// defaults are returned without error. Invalid YAML or unknown fields are an
// error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return &cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// ApplyEnv applies environment variable overrides.
// Supported variables: SOLRADMIN_URL, SOLRADMIN_CORE, SOLRADMIN_TIMEOUT.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("SOLRADMIN_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("SOLRADMIN_CORE"); v != "" {
		c.Core = v
	}
	if v := os.Getenv("SOLRADMIN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: invalid SOLRADMIN_TIMEOUT %q: %w", v, err)
		}
		c.Timeout = d
	}
	return nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base_url cannot be empty")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("config: invalid base_url %q: %w", c.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: base_url must be an absolute http(s) URL, got %q", c.BaseURL)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %v", c.Timeout)
	}
	return nil
}
