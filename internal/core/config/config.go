// Package config handles configuration loading and validation for retrace.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
	"gopkg.in/yaml.v3"
)

// Storage backend names.
const (
	BackendJSONFile = "jsonfile"
	BackendSQLite   = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	History HistoryConfig `yaml:"history"`
	DataDir string        `yaml:"-"` // set by caller, not from config file

	warnings []ValidationWarning
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	CORS bool   `yaml:"cors"`
}

// StorageConfig selects the snapshot persistence backend.
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// HistoryConfig holds history behavior settings.
type HistoryConfig struct {
	// MaxEntries caps the number of stored entries; zero means unlimited.
	// Oldest entries are dropped when a visit pushes past the cap.
	MaxEntries int `yaml:"max_entries"`
	// BlockedURLs are glob patterns matched against a normalized address
	// and its host. Visits to matching addresses are rejected.
	BlockedURLs []string `yaml:"blocked_urls"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr: "127.0.0.1:7979",
			CORS: true,
		},
		Storage: StorageConfig{
			Backend: BackendJSONFile,
		},
		History: HistoryConfig{
			MaxEntries:  0,
			BlockedURLs: []string{},
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	// Apply defaults for zero values
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs criterio.FieldErrorsBuilder

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
	}

	if c.Server.Addr == "" {
		errs = errs.Append("server.addr", fmt.Errorf("cannot be empty"))
	}

	if !isValidBackend(c.Storage.Backend) {
		errs = errs.Append("storage.backend", fmt.Errorf("must be %q or %q, got %q", BackendJSONFile, BackendSQLite, c.Storage.Backend))
	}

	if c.History.MaxEntries < 0 {
		errs = errs.Append("history.max_entries", fmt.Errorf("cannot be negative"))
	}

	for i, pattern := range c.History.BlockedURLs {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("history.blocked_urls[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
		}
	}

	return errs.ToError()
}

// HistoryFile returns the path to the JSON history snapshot file.
func (c *Config) HistoryFile() string {
	return filepath.Join(c.DataDir, "history.json")
}

// DatabaseFile returns the path to the SQLite database file.
func (c *Config) DatabaseFile() string {
	return filepath.Join(c.DataDir, "history.db")
}

// LogsDir returns the path where import run logs are written.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DataDir, "logs")
}

func isValidBackend(backend string) bool {
	switch backend {
	case BackendJSONFile, BackendSQLite:
		return true
	default:
		return false
	}
}
