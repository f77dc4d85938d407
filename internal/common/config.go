// Package common provides shared utilities for stockdeck
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for stockdeck
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Market      MarketConfig  `toml:"market"`
	Auth        AuthConfig    `toml:"auth"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds paths for the two storage areas.
type StorageConfig struct {
	User      AreaConfig `toml:"user"`      // User accounts + portfolios (BadgerHold)
	Watchlist AreaConfig `toml:"watchlist"` // Flat JSON watchlist file
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Yahoo YahooConfig `toml:"yahoo"`
}

// YahooConfig holds Yahoo Finance API configuration
type YahooConfig struct {
	BaseURL       string `toml:"base_url"`
	RateLimit     int    `toml:"rate_limit"`
	Timeout       string `toml:"timeout"`
	BatchDelayMin string `toml:"batch_delay_min"` // inter-symbol throttle on the core batch path
	BatchDelayMax string `toml:"batch_delay_max"`
}

// GetTimeout parses and returns the timeout duration
func (c *YahooConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetBatchDelay parses and returns the inter-symbol delay bounds.
func (c *YahooConfig) GetBatchDelay() (min, max time.Duration) {
	min, err := time.ParseDuration(c.BatchDelayMin)
	if err != nil {
		min = 1 * time.Second
	}
	max, err = time.ParseDuration(c.BatchDelayMax)
	if err != nil {
		max = 2 * time.Second
	}
	if max < min {
		max = min
	}
	return min, max
}

// MarketConfig holds the application-defined ticker sets and news settings.
type MarketConfig struct {
	IndexSymbols   []string `toml:"index_symbols"`   // market indices shown on every view
	DefaultTickers []string `toml:"default_tickers"` // flagship tickers shown absent personalization
	MaxNews        int      `toml:"max_news"`
	NewsProvider   string   `toml:"news_provider"` // "yahoo" or "static"
}

// CoreSymbols returns indices + default tickers, the fixed set fetched as one batch.
func (c *MarketConfig) CoreSymbols() []string {
	out := make([]string, 0, len(c.IndexSymbols)+len(c.DefaultTickers))
	out = append(out, c.IndexSymbols...)
	out = append(out, c.DefaultTickers...)
	return out
}

// AuthConfig holds JWT authentication configuration.
type AuthConfig struct {
	JWTSecret   string `toml:"jwt_secret"`
	TokenExpiry string `toml:"token_expiry"` // duration string, default "24h"
}

// GetTokenExpiry parses and returns the token expiry duration.
func (c *AuthConfig) GetTokenExpiry() time.Duration {
	d, err := time.ParseDuration(c.TokenExpiry)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			User:      AreaConfig{Path: "data/user"},
			Watchlist: AreaConfig{Path: "data/watchlist.json"},
		},
		Clients: ClientsConfig{
			Yahoo: YahooConfig{
				BaseURL:       "https://query1.finance.yahoo.com",
				RateLimit:     5,
				Timeout:       "30s",
				BatchDelayMin: "1s",
				BatchDelayMax: "2s",
			},
		},
		Market: MarketConfig{
			IndexSymbols:   []string{"^GSPC", "^DJI", "^IXIC"},
			DefaultTickers: []string{"AAPL", "MSFT", "GOOGL", "AMZN", "TSLA"},
			MaxNews:        5,
			NewsProvider:   "static",
		},
		Auth: AuthConfig{
			JWTSecret:   "dev-jwt-secret-change-in-production",
			TokenExpiry: "24h",
		},
		Logging: LoggingConfig{
			Level: "info",
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

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("STOCKDECK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("STOCKDECK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("STOCKDECK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("STOCKDECK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("STOCKDECK_DATA_PATH"); path != "" {
		config.Storage.User.Path = filepath.Join(path, "user")
		config.Storage.Watchlist.Path = filepath.Join(path, "watchlist.json")
	}

	if v := os.Getenv("STOCKDECK_AUTH_JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("STOCKDECK_AUTH_TOKEN_EXPIRY"); v != "" {
		config.Auth.TokenExpiry = v
	}

	if v := os.Getenv("STOCKDECK_DEFAULT_TICKERS"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.ToUpper(strings.TrimSpace(parts[i]))
		}
		config.Market.DefaultTickers = parts
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
