// Package common provides shared utilities for stockdesk
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for stockdesk
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// ClientsConfig holds market data provider configurations
type ClientsConfig struct {
	EODHD        EODHDConfig        `toml:"eodhd"`
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
}

// EODHDConfig holds EODHD API configuration (real-time quotes)
type EODHDConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"` // requests per second
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *EODHDConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 30*time.Second)
}

// AlphaVantageConfig holds Alpha Vantage API configuration (daily series)
type AlphaVantageConfig struct {
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	RateLimit  int    `toml:"rate_limit"` // requests per minute
	Timeout    string `toml:"timeout"`
	OutputSize string `toml:"output_size"` // "full" or "compact"
}

// GetTimeout parses and returns the timeout duration
func (c *AlphaVantageConfig) GetTimeout() time.Duration {
	return parseTimeout(c.Timeout, 60*time.Second)
}

func parseTimeout(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" for console output, anything else for JSON
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Clients: ClientsConfig{
			EODHD: EODHDConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
			AlphaVantage: AlphaVantageConfig{
				BaseURL:    "https://www.alphavantage.co",
				RateLimit:  5,
				Timeout:    "60s",
				OutputSize: "full",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
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

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKDESK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("STOCKDESK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("STOCKDESK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("STOCKDESK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if key := ResolveAPIKey("eodhd_api_key", config.Clients.EODHD.APIKey); key != "" {
		config.Clients.EODHD.APIKey = key
	}
	if key := ResolveAPIKey("alphavantage_api_key", config.Clients.AlphaVantage.APIKey); key != "" {
		config.Clients.AlphaVantage.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ValidateRequired returns the names of required settings that are unset
func (c *Config) ValidateRequired() []string {
	var missing []string
	if c.Clients.EODHD.APIKey == "" {
		missing = append(missing, "clients.eodhd.api_key")
	}
	if c.Clients.AlphaVantage.APIKey == "" {
		missing = append(missing, "clients.alphavantage.api_key")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		missing = append(missing, "server.port")
	}
	return missing
}

// ResolveAPIKey resolves an API key from the environment, falling back to
// the configured value. Returns "" when neither is set.
func ResolveAPIKey(name string, fallback string) string {
	keyToEnvMapping := map[string][]string{
		"eodhd_api_key":        {"EODHD_API_KEY", "STOCKDESK_EODHD_API_KEY"},
		"alphavantage_api_key": {"ALPHAVANTAGE_API_KEY", "STOCKDESK_ALPHAVANTAGE_API_KEY"},
	}

	for _, envVarName := range keyToEnvMapping[name] {
		if envValue := os.Getenv(envVarName); envValue != "" {
			return envValue
		}
	}

	return fallback
}
