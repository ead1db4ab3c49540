// Package common provides shared utilities for yfinance-mcp
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Supported MCP transports
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

// DefaultCharacterLimit is the hard cap on a single tool response
const DefaultCharacterLimit = 25000

// Config holds all configuration for yfinance-mcp
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Clients     ClientsConfig  `toml:"clients"`
	Response    ResponseConfig `toml:"response"`
	Tools       ToolsConfig    `toml:"tools"`
	Logging     LoggingConfig  `toml:"logging"`
}

// ServerConfig holds MCP transport configuration.
// Host and Port only apply to the sse and streamable-http transports.
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	Transport string `toml:"transport"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo YahooConfig `toml:"yahoo"`
}

// YahooConfig holds Yahoo Finance endpoint configuration
type YahooConfig struct {
	BaseURL   string `toml:"base_url"`
	CrumbURL  string `toml:"crumb_url"`
	CookieURL string `toml:"cookie_url"`
	UserAgent string `toml:"user_agent"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ResponseConfig controls tool output shaping
type ResponseConfig struct {
	CharacterLimit int    `toml:"character_limit"`
	DefaultFormat  string `toml:"default_format"` // "markdown" or "json"
}

// ToolsConfig holds per-tool limits
type ToolsConfig struct {
	MaxQuoteTickers  int `toml:"max_quote_tickers"`
	QuoteConcurrency int `toml:"quote_concurrency"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "console" or "json"
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8000,
			Transport: TransportStdio,
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:   "https://query2.finance.yahoo.com",
				CrumbURL:  "https://query1.finance.yahoo.com/v1/test/getcrumb",
				CookieURL: "https://fc.yahoo.com",
				UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
				RateLimit: 5,
				Timeout:   "30s",
			},
		},
		Response: ResponseConfig{
			CharacterLimit: DefaultCharacterLimit,
			DefaultFormat:  "markdown",
		},
		Tools: ToolsConfig{
			MaxQuoteTickers:  20,
			QuoteConcurrency: 4,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("YFMCP_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("YFMCP_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("YFMCP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// MCP_TRANSPORT is the name used by the wider MCP tooling; ours wins when both are set
	if t := os.Getenv("MCP_TRANSPORT"); t != "" {
		config.Server.Transport = t
	}
	if t := os.Getenv("YFMCP_TRANSPORT"); t != "" {
		config.Server.Transport = t
	}

	if level := os.Getenv("YFMCP_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if format := os.Getenv("YFMCP_LOG_FORMAT"); format != "" {
		config.Logging.Format = format
	}

	if v := os.Getenv("YFMCP_YAHOO_BASE_URL"); v != "" {
		config.Clients.Yahoo.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("YFMCP_YAHOO_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Clients.Yahoo.RateLimit = n
		}
	}
	if v := os.Getenv("YFMCP_YAHOO_TIMEOUT"); v != "" {
		config.Clients.Yahoo.Timeout = v
	}

	if v := os.Getenv("YFMCP_CHARACTER_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Response.CharacterLimit = n
		}
	}
	if v := os.Getenv("YFMCP_QUOTE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Tools.QuoteConcurrency = n
		}
	}
}

// Validate checks the values that would otherwise fail at first use
func (c *Config) Validate() error {
	c.Server.Transport = strings.ToLower(strings.TrimSpace(c.Server.Transport))
	switch c.Server.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		return fmt.Errorf("invalid server.transport %q: use stdio, sse or streamable-http", c.Server.Transport)
	}

	c.Response.DefaultFormat = strings.ToLower(strings.TrimSpace(c.Response.DefaultFormat))
	if c.Response.DefaultFormat != "markdown" && c.Response.DefaultFormat != "json" {
		return fmt.Errorf("invalid response.default_format %q: use markdown or json", c.Response.DefaultFormat)
	}

	if c.Response.CharacterLimit <= 0 {
		return fmt.Errorf("response.character_limit must be positive, got %d", c.Response.CharacterLimit)
	}
	if c.Tools.MaxQuoteTickers <= 0 {
		return fmt.Errorf("tools.max_quote_tickers must be positive, got %d", c.Tools.MaxQuoteTickers)
	}
	if c.Tools.QuoteConcurrency <= 0 {
		c.Tools.QuoteConcurrency = 1
	}
	if c.Clients.Yahoo.RateLimit <= 0 {
		return fmt.Errorf("clients.yahoo.rate_limit must be positive, got %d", c.Clients.Yahoo.RateLimit)
	}
	if c.Server.Transport != TransportStdio && (c.Server.Port <= 0 || c.Server.Port > 65535) {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	return nil
}

// IsHTTPTransport reports whether the server listens on a TCP port
func (c *Config) IsHTTPTransport() bool {
	return c.Server.Transport == TransportSSE || c.Server.Transport == TransportStreamableHTTP
}
