package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://127.0.0.1:5000" {
		t.Fatalf("unexpected default base url: %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSecs != 60 {
		t.Fatalf("unexpected default timeout: %d", cfg.Backend.TimeoutSecs)
	}
	if cfg.History.Path == "" {
		t.Fatal("expected default history path")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Path == "" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadAppliesDefaultsToPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte("backend:\n  base_url: http://backend:8080\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://backend:8080" {
		t.Fatalf("unexpected base url: %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.TimeoutSecs != 60 {
		t.Fatalf("expected defaulted timeout, got %d", cfg.Backend.TimeoutSecs)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected configured level, got %s", cfg.Logging.Level)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := &AppConfig{
		Backend: BackendConfig{BaseURL: "http://example:9000", TimeoutSecs: 30},
		History: HistoryConfig{Path: "/tmp/h.json", Disabled: true},
		Logging: LoggingConfig{Level: "warn", Path: "/tmp/d.log"},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Fatalf("round trip mismatch:\n%+v\nvs\n%+v", loaded, cfg)
	}
}
