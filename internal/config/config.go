// Package config loads the application configuration from a YAML file.
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

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"` // Listen port.
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // PostgreSQL or SQLite DSN.
}

// RedisConfig holds optional redis cache settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"` // host:port; empty disables the cache.
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret           string `yaml:"secret"`
	UserExpiryHours  int    `yaml:"user_expiry_hours"`
	AdminExpiryHours int    `yaml:"admin_expiry_hours"`
}

// UserExpiry returns the user token lifetime.
func (c JWTConfig) UserExpiry() time.Duration {
	hours := c.UserExpiryHours
	if hours <= 0 {
		hours = 72
	}
	return time.Duration(hours) * time.Hour
}

// AdminExpiry returns the admin token lifetime.
func (c JWTConfig) AdminExpiry() time.Duration {
	hours := c.AdminExpiryHours
	if hours <= 0 {
		hours = 12
	}
	return time.Duration(hours) * time.Hour
}

// LeaderboardConfig holds leaderboard computation settings.
type LeaderboardConfig struct {
	ComputeIntervalHours int `yaml:"compute_interval_hours"` // Scheduler interval; default weekly.
	CacheTTLSeconds      int `yaml:"cache_ttl_seconds"`      // Snapshot cache TTL; default 300.
}

// ComputeInterval returns the scheduler interval.
func (c LeaderboardConfig) ComputeInterval() time.Duration {
	hours := c.ComputeIntervalHours
	if hours <= 0 {
		hours = 168
	}
	return time.Duration(hours) * time.Hour
}

// CacheTTL returns the snapshot cache TTL.
func (c LeaderboardConfig) CacheTTL() time.Duration {
	seconds := c.CacheTTLSeconds
	if seconds <= 0 {
		seconds = 300
	}
	return time.Duration(seconds) * time.Second
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"`       // logrus level name; default info.
	File       string `yaml:"file"`        // Log file path; empty logs to stderr.
	MaxSizeMB  int    `yaml:"max_size_mb"` // Rotation size; default 100.
	MaxBackups int    `yaml:"max_backups"` // Rotated files kept; default 3.
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Config is the root application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Redis       RedisConfig       `yaml:"redis"`
	JWT         JWTConfig         `yaml:"jwt"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Log         LogConfig         `yaml:"log"`
}

// ResolveConfigPath falls back to the default path when none is given.
func ResolveConfigPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return DefaultConfigPath
	}
	return trimmed
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, errRead := os.ReadFile(ResolveConfigPath(path))
	if errRead != nil {
		return nil, fmt.Errorf("config: read: %w", errRead)
	}

	var cfg Config
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return nil, fmt.Errorf("config: parse: %w", errUnmarshal)
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, fmt.Errorf("config: database.dsn is required")
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, fmt.Errorf("config: jwt.secret is required")
	}
	return &cfg, nil
}
