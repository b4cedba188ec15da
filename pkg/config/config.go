// Package config holds the explicit configuration object for a vault store.
// Values come from defaults, an optional YAML file and CREDVAULT_* environment variables,
// applied in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/forest6511/credvault/pkg/audit"
)

// Defaults
const (
	DefaultStorePath = "vault.sqlite3"
	DefaultLogPath   = "log/dbmanager.log"
	DefaultLogLevel  = "info"
)

// Errors
var (
	ErrConfigNotFound   = errors.New("config: file not found")
	ErrStorePathMissing = errors.New("config: store_path is required")
	ErrLogPathMissing   = errors.New("config: log_path is required")
)

// Logging configures the operator-facing diagnostic logger
type Logging struct {
	Level  string `yaml:"level"  env:"CREDVAULT_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"CREDVAULT_LOG_PRETTY"`
}

// Config is the store configuration: where the store lives,
// where audit events go, and which zone their timestamps use.
type Config struct {
	StorePath     string  `yaml:"store_path"      env:"CREDVAULT_STORE_PATH"`
	LogPath       string  `yaml:"log_path"        env:"CREDVAULT_LOG_PATH"`
	AuditTimeZone string  `yaml:"audit_time_zone" env:"CREDVAULT_AUDIT_TZ"`
	Logging       Logging `yaml:"logging"`
}

// Default returns the configuration used when nothing else is supplied
func Default() Config {
	return Config{
		StorePath:     DefaultStorePath,
		LogPath:       DefaultLogPath,
		AuditTimeZone: audit.DefaultTimeZone,
		Logging: Logging{
			Level: DefaultLogLevel,
		},
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path is empty),
// and environment overrides. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
			}
			return Config{}, fmt.Errorf("config: failed to read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: failed to parse %s: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required paths are set and the audit zone resolves
func (c Config) Validate() error {
	if strings.TrimSpace(c.StorePath) == "" {
		return ErrStorePathMissing
	}
	if strings.TrimSpace(c.LogPath) == "" {
		return ErrLogPathMissing
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("config: audit_time_zone: %w", err)
	}
	return nil
}

// Location resolves AuditTimeZone
func (c Config) Location() (*time.Location, error) {
	return audit.ParseTimeZone(c.AuditTimeZone)
}
