package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Pairings  PairingsConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds upstream wine catalog configuration
type CatalogConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	TTL          time.Duration `mapstructure:"ttl"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// DatabaseConfig holds the relational store configuration
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// AuthConfig holds JWT configuration
type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// PairingsConfig holds the static pairing dataset paths
type PairingsConfig struct {
	BasicPath   string `mapstructure:"basic_path"`
	GourmetPath string `mapstructure:"gourmet_path"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/vinoteca/")

	// Environment variable settings: VINOTECA_AUTH_JWT_SECRET -> auth.jwt_secret
	v.SetEnvPrefix("VINOTECA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://api.sampleapis.com/wines")
	v.SetDefault("catalog.ttl", "5m")
	v.SetDefault("catalog.fetch_timeout", "10s")

	// Database has no usable default, but the key must exist for env-only
	// values to survive Unmarshal.
	v.SetDefault("database.url", "")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "1h")

	// Pairing dataset defaults
	v.SetDefault("pairings.basic_path", "./data/pairings-basic.json")
	v.SetDefault("pairings.gourmet_path", "./data/pairings-gourmet.json")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required (set VINOTECA_AUTH_JWT_SECRET)")
	}

	if config.Database.URL == "" {
		return fmt.Errorf("database URL is required (set VINOTECA_DATABASE_URL)")
	}

	if config.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog base URL must not be empty")
	}

	if config.Catalog.TTL <= 0 {
		return fmt.Errorf("catalog TTL must be positive, got: %s", config.Catalog.TTL)
	}

	return nil
}
