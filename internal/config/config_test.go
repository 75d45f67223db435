package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amonks/lists/internal/config"
	"github.com/amonks/lists/internal/testsupport"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoad_NotFoundUsesDefaults(t *testing.T) {
	home := testsupport.SetupTestHome(t)
	t.Setenv(config.EnvURL, "")
	tmpDir := t.TempDir()

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != config.DefaultAddr {
		t.Errorf("Addr = %q, expected %q", cfg.Server.Addr, config.DefaultAddr)
	}
	if cfg.Store.Backend != "jsonl" {
		t.Errorf("Backend = %q, expected jsonl", cfg.Store.Backend)
	}
	if want := filepath.Join(home, ".local", "share", "lists"); cfg.Store.Path != want {
		t.Errorf("Path = %q, expected %q", cfg.Store.Path, want)
	}
	if cfg.Client.URL != "http://"+config.DefaultAddr {
		t.Errorf("URL = %q, expected default", cfg.Client.URL)
	}
}

func TestLoad_Full(t *testing.T) {
	testsupport.SetupTestHome(t)
	t.Setenv(config.EnvURL, "")
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, config.FileName), `
[server]
addr = "0.0.0.0:9000"

[store]
backend = "sqlite"
path = "/var/lib/lists/lists.db"

[auth]
secret = "  s3cret  "
token-ttl = "48h"
firebase = true

[location]
geocode-url = "http://geocode.local"

[client]
url = "https://lists.example.com"
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.Path != "/var/lib/lists/lists.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Auth.Secret != "s3cret" {
		t.Errorf("Secret = %q, expected trimmed value", cfg.Auth.Secret)
	}
	if !cfg.Auth.Firebase {
		t.Error("expected Firebase to be enabled")
	}
	ttl, err := cfg.TokenTTLDuration()
	if err != nil {
		t.Fatalf("ttl: %v", err)
	}
	if ttl != 48*time.Hour {
		t.Errorf("TokenTTL = %v, expected 48h", ttl)
	}
	if cfg.Location.GeocodeURL != "http://geocode.local" {
		t.Errorf("GeocodeURL = %q", cfg.Location.GeocodeURL)
	}
	if cfg.Client.URL != "https://lists.example.com" {
		t.Errorf("URL = %q", cfg.Client.URL)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, config.FileName), `this is not valid toml [`)

	_, err := config.Load(tmpDir)
	if err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestLoad_InvalidTokenTTL(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, config.FileName), "[auth]\ntoken-ttl = \"soon\"\n")

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if _, err := cfg.TokenTTLDuration(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoad_ProjectOverridesGlobal(t *testing.T) {
	home := testsupport.SetupTestHome(t)
	t.Setenv(config.EnvURL, "")
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "lists", "config.toml"), `
[store]
backend = "sqlite"
path = "/global/lists.db"

[auth]
secret = "global-secret"
firebase = true
`)
	writeFile(t, filepath.Join(tmpDir, config.FileName), `
[store]
backend = "jsonl"

[auth]
firebase = false
`)

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Store.Backend != "jsonl" {
		t.Errorf("Backend = %q, expected project value", cfg.Store.Backend)
	}
	if cfg.Store.Path != "/global/lists.db" {
		t.Errorf("Path = %q, expected global value", cfg.Store.Path)
	}
	if cfg.Auth.Secret != "global-secret" {
		t.Errorf("Secret = %q, expected global value", cfg.Auth.Secret)
	}
	if cfg.Auth.Firebase {
		t.Error("expected project to disable Firebase")
	}
}

func TestLoad_ProjectEmptyStringOverridesGlobal(t *testing.T) {
	home := testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(home, ".config", "lists", "config.toml"), "[auth]\nsecret = \"global\"\n")
	writeFile(t, filepath.Join(tmpDir, config.FileName), "[auth]\nsecret = \"\"\n")

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Auth.Secret != "" {
		t.Errorf("Secret = %q, expected empty project override", cfg.Auth.Secret)
	}
}

func TestLoad_EnvURLOverridesConfig(t *testing.T) {
	testsupport.SetupTestHome(t)
	tmpDir := t.TempDir()

	writeFile(t, filepath.Join(tmpDir, config.FileName), "[client]\nurl = \"http://from-file\"\n")
	t.Setenv(config.EnvURL, "http://from-env")

	cfg, err := config.Load(tmpDir)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Client.URL != "http://from-env" {
		t.Errorf("URL = %q, expected env override", cfg.Client.URL)
	}
}
