// Package config loads the server configuration from a YAML file with
// environment variable overrides for deployment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no config path is supplied.
const DefaultConfigPath = "config.yaml"

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Listen string `yaml:"listen"` // Listen address, e.g. ":8317".
}

// DatabaseConfig holds the database connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // PostgreSQL or SQLite DSN; the dialect is auto-detected.
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret      string `yaml:"secret"`       // HMAC signing secret.
	ExpiryHours int    `yaml:"expiry-hours"` // Token lifetime in hours; 24 when unset.
}

// Expiry returns the configured token lifetime.
func (c JWTConfig) Expiry() time.Duration {
	if c.ExpiryHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.ExpiryHours) * time.Hour
}

// RedisConfig holds optional redis settings. When Addr is empty the server
// falls back to in-process locking and event fan-out.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// LogConfig holds optional log file rotation settings.
type LogConfig struct {
	File       string `yaml:"file"`         // Log file path; stderr only when empty.
	MaxSizeMB  int    `yaml:"max-size-mb"`  // Rotate after this many megabytes.
	MaxBackups int    `yaml:"max-backups"`  // Rotated files to retain.
	MaxAgeDays int    `yaml:"max-age-days"` // Days to retain rotated files.
}

// Config is the full server configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Redis    RedisConfig    `yaml:"redis"`
	Log      LogConfig      `yaml:"log"`
}

// ResolveConfigPath returns the effective config file path.
func ResolveConfigPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return DefaultConfigPath
	}
	return trimmed
}

// Load reads the config file at path, applies environment overrides, and
// fills defaults. A missing file is not an error; overrides and defaults
// still apply so a fully env-configured deployment needs no file.
func Load(path string) (Config, error) {
	var cfg Config

	resolved := ResolveConfigPath(path)
	data, errRead := os.ReadFile(resolved)
	switch {
	case errRead == nil:
		if errParse := yaml.Unmarshal(data, &cfg); errParse != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", resolved, errParse)
		}
	case os.IsNotExist(errRead):
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", resolved, errRead)
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	return cfg, nil
}

// applyEnvOverrides overlays CHITFUND_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("CHITFUND_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("CHITFUND_DB_DSN")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("CHITFUND_JWT_SECRET")); v != "" {
		cfg.JWT.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv("CHITFUND_REDIS_ADDR")); v != "" {
		cfg.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("CHITFUND_REDIS_PASSWORD")); v != "" {
		cfg.Redis.Password = v
	}
}

// applyDefaults fills unset values.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = ":8317"
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = "chitfund.db"
	}
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWT.Secret) == "" {
		return fmt.Errorf("config: jwt secret is required")
	}
	return nil
}
