package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Settings backends.
const (
	SettingsBackendFile     = "file"
	SettingsBackendPostgres = "postgres"
)

// Config holds engine configuration. It can come from a YAML file
// (config.yaml) or environment variables; environment variables override
// YAML values. Secrets (the settings database password inside the DSN) must
// come from the environment only.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Catalog  CatalogConfig  `yaml:"catalog"`
	Settings SettingsConfig `yaml:"settings"`
}

// CatalogConfig tunes schedulable-field eligibility checks.
type CatalogConfig struct {
	// SampleLimit bounds how many category elements are inspected when
	// probing whether a category carries a user-defined attribute.
	SampleLimit int `yaml:"sample_limit" env:"CATALOG_SAMPLE_LIMIT" env-default:"25"`
}

// SettingsConfig selects and configures the sort-settings store.
type SettingsConfig struct {
	// Backend is "file" or "postgres".
	Backend string `yaml:"backend" env:"SETTINGS_BACKEND" env-default:"file"`

	// FilePath is the YAML settings file used by the file backend.
	FilePath string `yaml:"file_path" env:"SETTINGS_FILE_PATH" env-default:"sort_settings.yaml"`

	// DatabaseURL is the Postgres DSN used by the postgres backend.
	DatabaseURL string `yaml:"-" env:"SETTINGS_DATABASE_URL"`

	// MigrationsPath is the directory holding settings-store migrations.
	MigrationsPath string `yaml:"migrations_path" env:"SETTINGS_MIGRATIONS_PATH" env-default:"migrations"`

	// MaxConnections caps the settings database pool.
	MaxConnections int32 `yaml:"max_connections" env:"SETTINGS_MAX_CONNECTIONS" env-default:"5"`
}

// Load reads configuration from config.yaml with environment variable
// overrides, falling back to environment-only when no file exists.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Settings.Backend {
	case SettingsBackendFile:
		if c.Settings.FilePath == "" {
			return fmt.Errorf("settings file_path is required for the file backend")
		}
	case SettingsBackendPostgres:
		if c.Settings.DatabaseURL == "" {
			return fmt.Errorf("SETTINGS_DATABASE_URL is required for the postgres backend")
		}
	default:
		return fmt.Errorf("unknown settings backend %q", c.Settings.Backend)
	}
	return nil
}
