package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ServerName != "lprofile" || cfg.DefaultTopN != 10 || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_top_n: 5\nlog_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.DefaultTopN != 5 {
		t.Fatalf("default_top_n: want 5, got %d", cfg.DefaultTopN)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level: want debug, got %q", cfg.LogLevel)
	}
	// Keys missing from the file keep their defaults.
	if cfg.ServerName != "lprofile" {
		t.Fatalf("server_name: want lprofile, got %q", cfg.ServerName)
	}
}

func TestLoadConfigRejectsBadTopN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("default_top_n: -1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := loadConfig(path); err == nil {
		t.Fatalf("want validation error, got none")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("want read error, got none")
	}
}
