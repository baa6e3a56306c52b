package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config is the persistent application configuration
type Config struct {
	// Remote API
	API APIConfig `json:"api"`

	// Search behaviour
	Search SearchConfig `json:"search"`

	// Log level for the human log: debug, info, warn, error
	LogLevel string `json:"log_level"`

	// Preference DB; empty means ~/.pokesearch/prefs.db
	PrefsFile string `json:"prefs_file,omitempty"`
}

// APIConfig holds GraphQL endpoint settings
type APIConfig struct {
	Endpoint       string `json:"endpoint"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	RateLimitMs    int    `json:"rate_limit_ms"` // 0 disables client-side limiting
	RateLimitBurst int    `json:"rate_limit_burst"`
}

// SearchConfig holds controller tuning
type SearchConfig struct {
	PageSize   int `json:"page_size"`
	DebounceMs int `json:"debounce_ms"`
}

// Environment overrides, applied after the file is read.
const (
	EnvEndpoint   = "POKESEARCH_ENDPOINT"
	EnvPageSize   = "POKESEARCH_PAGE_SIZE"
	EnvDebounceMs = "POKESEARCH_DEBOUNCE_MS"
)

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:       "https://beta.pokeapi.co/graphql/v1beta",
			TimeoutSeconds: 30,
			RateLimitMs:    250,
			RateLimitBurst: 2,
		},
		Search: SearchConfig{
			PageSize:   20,
			DebounceMs: 400,
		},
		LogLevel: "info",
	}
}

// Dir returns ~/.pokesearch, where config, logs, events and prefs live.
func Dir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pokesearch")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(Dir(), "config.json")
}

// EventsPath returns the JSONL event log path.
func EventsPath() string {
	return filepath.Join(Dir(), "pokesearch.events.jsonl")
}

// PrefsPath returns the preference DB path.
func (c *Config) PrefsPath() string {
	if c.PrefsFile != "" {
		return c.PrefsFile
	}
	return filepath.Join(Dir(), "prefs.db")
}

// Load reads ConfigPath, falling back to defaults, then applies env overrides.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads config from path. A missing file yields defaults; fields
// absent from the file keep their default values.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays POKESEARCH_* environment variables.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvEndpoint); v != "" {
		c.API.Endpoint = v
	}
	if v := os.Getenv(EnvPageSize); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPageSize, err)
		}
		c.Search.PageSize = n
	}
	if v := os.Getenv(EnvDebounceMs); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebounceMs, err)
		}
		c.Search.DebounceMs = n
	}
	return nil
}

// Validate rejects settings the controller and client cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.API.Endpoint == "" {
		errs = append(errs, errors.New("api.endpoint is empty"))
	}
	if c.API.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout_seconds must be positive, got %d", c.API.TimeoutSeconds))
	}
	if c.API.RateLimitMs < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit_ms must not be negative, got %d", c.API.RateLimitMs))
	}
	if c.Search.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("search.page_size must be positive, got %d", c.Search.PageSize))
	}
	if c.Search.DebounceMs <= 0 {
		errs = append(errs, fmt.Errorf("search.debounce_ms must be positive, got %d", c.Search.DebounceMs))
	}
	return errors.Join(errs...)
}

// Timeout is the per-request HTTP timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

// Debounce is the search-as-you-type quiet period.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.Search.DebounceMs) * time.Millisecond
}

// RateLimit is the minimum spacing between API requests.
func (c *Config) RateLimit() time.Duration {
	return time.Duration(c.API.RateLimitMs) * time.Millisecond
}

// Save writes config to disk
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config as indented JSON to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}
