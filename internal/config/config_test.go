package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Listen)
	}
	if cfg.DBPath != "./data/splitbill.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if !cfg.Metrics {
		t.Error("Metrics should default to true")
	}
	if cfg.SMTP.Port != 587 {
		t.Errorf("SMTP.Port = %d, want 587", cfg.SMTP.Port)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
listen = ":9090"
metrics = false

[smtp]
host = "smtp.example.com"
port = 465
from = "bills@example.com"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Listen)
	}
	if cfg.Metrics {
		t.Error("Metrics should be false")
	}
	if cfg.SMTP.Host != "smtp.example.com" || cfg.SMTP.Port != 465 {
		t.Errorf("SMTP = %+v", cfg.SMTP)
	}
	// Unset file keys keep defaults.
	if cfg.DBPath != "./data/splitbill.db" {
		t.Errorf("DBPath = %q, want default", cfg.DBPath)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":7070")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("METRICS", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Listen != ":7070" {
		t.Errorf("Listen = %q, want :7070", cfg.Listen)
	}
	if cfg.SMTP.Port != 2525 {
		t.Errorf("SMTP.Port = %d, want 2525", cfg.SMTP.Port)
	}
	if cfg.Metrics {
		t.Error("Metrics should be false via env")
	}
}
