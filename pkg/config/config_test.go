package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.Catalog.SampleLimit != 25 {
		t.Errorf("Catalog.SampleLimit = %d, want 25", cfg.Catalog.SampleLimit)
	}
	if cfg.Settings.Backend != SettingsBackendFile {
		t.Errorf("Settings.Backend = %q, want file", cfg.Settings.Backend)
	}
	if cfg.Settings.FilePath == "" {
		t.Error("Settings.FilePath empty")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CATALOG_SAMPLE_LIMIT", "50")
	t.Setenv("SETTINGS_FILE_PATH", "/tmp/sort.yaml")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Catalog.SampleLimit != 50 {
		t.Errorf("Catalog.SampleLimit = %d, want 50", cfg.Catalog.SampleLimit)
	}
	if cfg.Settings.FilePath != "/tmp/sort.yaml" {
		t.Errorf("Settings.FilePath = %q", cfg.Settings.FilePath)
	}
}

func TestLoadPostgresBackendRequiresURL(t *testing.T) {
	t.Setenv("SETTINGS_BACKEND", SettingsBackendPostgres)

	if _, err := Load(); err == nil {
		t.Fatal("Load accepted the postgres backend without a database URL")
	}

	t.Setenv("SETTINGS_DATABASE_URL", "postgres://localhost/engine")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Settings.DatabaseURL != "postgres://localhost/engine" {
		t.Errorf("DatabaseURL = %q", cfg.Settings.DatabaseURL)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("SETTINGS_BACKEND", "redis")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "unknown settings backend") {
		t.Fatalf("Load = %v, want an unknown-backend error", err)
	}
}
