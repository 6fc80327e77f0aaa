package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/bobmcallan/fivetran-mcp/internal/common"
)

// Config represents the application configuration.
type Config struct {
	Server   ServerConfig         `toml:"server"`
	Fivetran FivetranConfig       `toml:"fivetran"`
	Logging  common.LoggingConfig `toml:"logging"`
}

// ServerConfig contains MCP server settings.
type ServerConfig struct {
	Name string `toml:"name"`
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// FivetranConfig contains upstream API settings.
type FivetranConfig struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	APISecret      string `toml:"api_secret"`
	AllowWrites    bool   `toml:"allow_writes"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	PageSize       int    `toml:"page_size"`
	MaxPages       int    `toml:"max_pages"`
	UserAgent      string `toml:"user_agent"`
}

// Timeout returns the per-request HTTP timeout. Zero disables it.
func (f FivetranConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// LookupFunc resolves an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Environment variables read by applyEnvOverrides. Each credential accepts
// two spellings; the first one set wins.
var (
	envAPIKey      = []string{"FIVETRAN_API_KEY", "FIVETRAN_APIKEY"}
	envAPISecret   = []string{"FIVETRAN_API_SECRET", "FIVETRAN_APISECRET"}
	envAllowWrites = []string{"FIVETRAN_ALLOW_WRITES"}
	envBaseURL     = []string{"FIVETRAN_BASE_URL"}
	envPort        = []string{"FIVETRAN_MCP_PORT"}
	envLogLevel    = []string{"FIVETRAN_LOG_LEVEL"}
)

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files.
func LoadFromFiles(paths ...string) (*Config, error) {
	return LoadWithLookup(os.LookupEnv, paths...)
}

// LoadWithLookup is LoadFromFiles with an explicit environment source.
func LoadWithLookup(lookup LookupFunc, paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		err = toml.Unmarshal(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config, lookup)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies FIVETRAN_* environment variable overrides to config.
func applyEnvOverrides(config *Config, lookup LookupFunc) {
	if v, ok := firstSet(lookup, envAPIKey); ok {
		config.Fivetran.APIKey = v
	}
	if v, ok := firstSet(lookup, envAPISecret); ok {
		config.Fivetran.APISecret = v
	}
	if v, ok := firstSet(lookup, envAllowWrites); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			config.Fivetran.AllowWrites = b
		}
	}
	if v, ok := firstSet(lookup, envBaseURL); ok {
		config.Fivetran.BaseURL = v
	}
	if v, ok := firstSet(lookup, envPort); ok {
		if p, err := strconv.Atoi(v); err == nil {
			config.Server.Port = p
		}
	}
	if v, ok := firstSet(lookup, envLogLevel); ok {
		config.Logging.Level = v
	}
}

// firstSet returns the value of the first non-empty variable in keys.
func firstSet(lookup LookupFunc, keys []string) (string, bool) {
	for _, key := range keys {
		if v, ok := lookup(key); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// ApplyFlagOverrides applies command-line flag overrides to config.
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks the values that cannot be defaulted silently.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Fivetran.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid fivetran.base_url %q", c.Fivetran.BaseURL)
	}
	if c.Fivetran.PageSize < 1 || c.Fivetran.PageSize > MaxPageSize {
		return fmt.Errorf("fivetran.page_size must be between 1 and %d, got %d", MaxPageSize, c.Fivetran.PageSize)
	}
	if c.Fivetran.MaxPages < 1 {
		return fmt.Errorf("fivetran.max_pages must be at least 1, got %d", c.Fivetran.MaxPages)
	}
	if c.Fivetran.TimeoutSeconds < 0 {
		return fmt.Errorf("fivetran.timeout_seconds must not be negative, got %d", c.Fivetran.TimeoutSeconds)
	}
	return nil
}
