// Package common provides shared utilities for finbot
package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for finbot
type Config struct {
	Environment string        `toml:"environment"`
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Catalog     CatalogConfig `toml:"catalog"`
	Clients     ClientsConfig `toml:"clients"`
	Logging     LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig selects the profile storage backend.
type StorageConfig struct {
	Backend string `toml:"backend"` // "memory" (default) or "badger"
	Path    string `toml:"path"`    // badger directory
}

// CatalogConfig maps languages to catalog files.
type CatalogConfig struct {
	DefaultLanguage string            `toml:"default_language"`
	Sources         map[string]string `toml:"sources"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Gemini GeminiConfig `toml:"gemini"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey    string `toml:"api_key"`
	Model     string `toml:"model"`
	Timeout   string `toml:"timeout"`
	RateLimit int    `toml:"rate_limit"` // requests per second
	Retries   int    `toml:"retries"`
}

// GetTimeout parses and returns the timeout duration
func (c *GeminiConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
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
			Backend: "memory",
			Path:    "data/profiles",
		},
		Catalog: CatalogConfig{
			DefaultLanguage: "en",
			Sources: map[string]string{
				"en": "data/financial_content.json",
				"hi": "data/financial_content_hi.json",
			},
		},
		Clients: ClientsConfig{
			Gemini: GeminiConfig{
				Model:     "gemini-2.5-flash-lite",
				Timeout:   "60s",
				RateLimit: 5,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/finbot.log",
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
	normalize(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FINBOT_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FINBOT_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FINBOT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FINBOT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if backend := os.Getenv("FINBOT_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = backend
	}

	if path := os.Getenv("FINBOT_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Join(path, "profiles")
	}

	if model := os.Getenv("FINBOT_GEMINI_MODEL"); model != "" {
		config.Clients.Gemini.Model = model
	}

	if config.Catalog.Sources == nil {
		config.Catalog.Sources = map[string]string{}
	}
	if v := os.Getenv("FINBOT_CATALOG_EN"); v != "" {
		config.Catalog.Sources["en"] = v
	}
	if v := os.Getenv("FINBOT_CATALOG_HI"); v != "" {
		config.Catalog.Sources["hi"] = v
	}
}

// normalize lower-cases enum-like values and fills blanks with defaults.
func normalize(config *Config) {
	config.Storage.Backend = strings.ToLower(strings.TrimSpace(config.Storage.Backend))
	if config.Storage.Backend == "" {
		config.Storage.Backend = "memory"
	}

	lang := strings.ToLower(strings.TrimSpace(config.Catalog.DefaultLanguage))
	if lang == "" {
		lang = "en"
	}
	config.Catalog.DefaultLanguage = lang

	sources := make(map[string]string, len(config.Catalog.Sources))
	for k, v := range config.Catalog.Sources {
		sources[strings.ToLower(strings.TrimSpace(k))] = v
	}
	config.Catalog.Sources = sources
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// ResolveAPIKey resolves an API key from environment or the config fallback
func ResolveAPIKey(_ context.Context, name string, fallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"GOOGLE_API_KEY", "GEMINI_API_KEY", "FINBOT_GEMINI_API_KEY"},
	}

	// Environment variables first
	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}
