package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MixKey holds all configuration for the mixkey tool.
type MixKey struct {
	// Scanning
	ScanPaths []string `yaml:"scan_paths"`
	Pattern   string   `yaml:"pattern"`
	Workers   int      `yaml:"workers"` // 0 = GOMAXPROCS

	// Locator
	CacheSize int `yaml:"cache_size"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Catalog
	Catalog  CatalogConfig  `yaml:"catalog"`
	Database DatabaseConfig `yaml:"database"`
}

// CatalogConfig controls persistence of scan results.
type CatalogConfig struct {
	Enabled bool `yaml:"enabled"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultMixKey returns MixKey config with sensible defaults.
func DefaultMixKey() MixKey {
	return MixKey{
		ScanPaths: []string{"."},
		Pattern:   "*.mix",
		CacheSize: 1024,
		LogLevel:  "info",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "mixkey",
			Password: "mixkey",
			DBName:   "mixkey",
			SSLMode:  "disable",
		},
	}
}

// LoadMixKey loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadMixKey(path string) (MixKey, error) {
	cfg := DefaultMixKey()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if _, err := cfg.Level(); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Level parses LogLevel. Empty means info.
func (c MixKey) Level() (slog.Level, error) {
	var lvl slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}
