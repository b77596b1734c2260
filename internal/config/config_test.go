package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Filter.Category != nil || cfg.Output.Format != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[filter]
category = "K0"
min = 0
max = 120.5
sort = true

[output]
format = "yaml"

[cache]
enabled = false
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Filter.Category == nil || *cfg.Filter.Category != "K0" {
		t.Fatalf("unexpected category: %v", cfg.Filter.Category)
	}
	if cfg.Filter.Max == nil || *cfg.Filter.Max != 120.5 {
		t.Fatalf("unexpected max: %v", cfg.Filter.Max)
	}
	if cfg.Filter.Min == nil || *cfg.Filter.Min != 0 {
		t.Fatalf("unexpected min: %v", cfg.Filter.Min)
	}
	if cfg.Filter.Sort == nil || !*cfg.Filter.Sort {
		t.Fatalf("expected sort enabled")
	}
	if cfg.Output.Format == nil || *cfg.Output.Format != "yaml" {
		t.Fatalf("unexpected format: %v", cfg.Output.Format)
	}
	if cfg.Output.Copy != nil {
		t.Fatalf("expected copy unset")
	}
	if cfg.Cache.Enabled == nil || *cfg.Cache.Enabled {
		t.Fatalf("expected cache disabled")
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[filter]\ncategorie = \"K0\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "filter.categorie") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "nivela", "config.toml") {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultDBPath(); got != filepath.Join("/tmp/data", "nivela", "nivela.db") {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/tmp/data", "nivela", "nivela.log") {
		t.Fatalf("unexpected log path %q", got)
	}
}
