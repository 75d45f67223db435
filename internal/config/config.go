// Package config handles loading lists.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/amonks/lists/internal/paths"
)

// FileName is the project configuration file name.
const FileName = "lists.toml"

// DefaultAddr is the server address used when none is configured.
const DefaultAddr = "127.0.0.1:8080"

// Environment overrides.
const (
	EnvURL   = "LISTS_URL"
	EnvToken = "LISTS_TOKEN"
)

// Config represents the lists.toml configuration file.
type Config struct {
	Server   Server   `toml:"server"`
	Store    Store    `toml:"store"`
	Auth     Auth     `toml:"auth"`
	Location Location `toml:"location"`
	Client   Client   `toml:"client"`
}

// Server contains HTTP server configuration.
type Server struct {
	// Addr is the listen address, such as "127.0.0.1:8080".
	Addr string `toml:"addr"`
}

// Store selects the document store backend.
type Store struct {
	// Backend is jsonl, sqlite or firestore.
	Backend string `toml:"backend"`

	// Path is the JSONL directory or the SQLite database file.
	Path string `toml:"path"`

	ProjectID       string `toml:"project-id"`
	CredentialsFile string `toml:"credentials-file"`
	EmulatorHost    string `toml:"emulator-host"`
}

// Auth contains token configuration.
type Auth struct {
	// Secret signs issued tokens.
	Secret string `toml:"secret"`

	// TokenTTL is a Go duration string such as "720h".
	TokenTTL string `toml:"token-ttl"`

	// Firebase enables Firebase ID token verification.
	Firebase bool `toml:"firebase"`
}

// Location configures the reverse geocoder.
type Location struct {
	GeocodeURL string `toml:"geocode-url"`
}

// Client configures the CLI's connection to a server.
type Client struct {
	URL string `toml:"url"`
}

// TokenTTLDuration parses Auth.TokenTTL. Zero means the default lifetime.
func (c *Config) TokenTTLDuration() (time.Duration, error) {
	if c.Auth.TokenTTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Auth.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("parse auth.token-ttl: %w", err)
	}
	return ttl, nil
}

// Load loads configuration from dir and the global config file, applies
// environment overrides and fills defaults. Missing files are not an error.
func Load(dir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, _, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, projectMeta)
	if url := strings.TrimSpace(os.Getenv(EnvURL)); url != "" {
		merged.Client.URL = url
	}
	if err := applyDefaults(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

func globalConfigPath() (string, error) {
	dir, err := paths.DefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Server.Addr = mergeString(projectMeta.IsDefined("server", "addr"), projectCfg.Server.Addr, globalCfg.Server.Addr)
	merged.Store.Backend = mergeString(projectMeta.IsDefined("store", "backend"), projectCfg.Store.Backend, globalCfg.Store.Backend)
	merged.Store.Path = mergeString(projectMeta.IsDefined("store", "path"), projectCfg.Store.Path, globalCfg.Store.Path)
	merged.Store.ProjectID = mergeString(projectMeta.IsDefined("store", "project-id"), projectCfg.Store.ProjectID, globalCfg.Store.ProjectID)
	merged.Store.CredentialsFile = mergeString(projectMeta.IsDefined("store", "credentials-file"), projectCfg.Store.CredentialsFile, globalCfg.Store.CredentialsFile)
	merged.Store.EmulatorHost = mergeString(projectMeta.IsDefined("store", "emulator-host"), projectCfg.Store.EmulatorHost, globalCfg.Store.EmulatorHost)
	merged.Auth.Secret = mergeString(projectMeta.IsDefined("auth", "secret"), projectCfg.Auth.Secret, globalCfg.Auth.Secret)
	merged.Auth.TokenTTL = mergeString(projectMeta.IsDefined("auth", "token-ttl"), projectCfg.Auth.TokenTTL, globalCfg.Auth.TokenTTL)
	merged.Location.GeocodeURL = mergeString(projectMeta.IsDefined("location", "geocode-url"), projectCfg.Location.GeocodeURL, globalCfg.Location.GeocodeURL)
	merged.Client.URL = mergeString(projectMeta.IsDefined("client", "url"), projectCfg.Client.URL, globalCfg.Client.URL)

	merged.Auth.Firebase = mergeBool(projectMeta.IsDefined("auth", "firebase"), projectCfg.Auth.Firebase, globalCfg.Auth.Firebase)

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}

func mergeBool(projectDefined bool, projectValue, globalValue bool) bool {
	if projectDefined {
		return projectValue
	}
	return globalValue
}

func applyDefaults(cfg *Config) error {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "jsonl"
	}
	if cfg.Store.Path == "" && cfg.Store.Backend != "firestore" {
		dir, err := paths.DefaultDataDir()
		if err != nil {
			return err
		}
		cfg.Store.Path = dir
	}
	if cfg.Client.URL == "" {
		cfg.Client.URL = "http://" + cfg.Server.Addr
	}
	return nil
}
