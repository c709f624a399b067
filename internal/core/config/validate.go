package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration.
// Unlike Validate(), this also checks file access and listener address
// syntax, and records non-fatal findings retrievable via Warnings().
func (c *Config) ValidateDeep(configPath string) error {
	c.warnings = nil

	var errs criterio.FieldErrorsBuilder
	errs = c.validateFileAccess(errs, configPath)
	errs = c.validateServer(errs)
	errs = c.validateStorage(errs)
	errs = c.validateBlocklist(errs)

	if c.History.MaxEntries < 0 {
		errs = errs.Append("history.max_entries", fmt.Errorf("cannot be negative"))
	}

	return errs.ToError()
}

// Warnings returns the non-fatal findings recorded by the last ValidateDeep run.
func (c *Config) Warnings() []ValidationWarning {
	return c.warnings
}

func (c *Config) warnf(category, item, format string, args ...any) {
	c.warnings = append(c.warnings, ValidationWarning{
		Category: category,
		Item:     item,
		Message:  fmt.Sprintf(format, args...),
	})
}

// validateFileAccess checks the config file and data directory.
func (c *Config) validateFileAccess(errs criterio.FieldErrorsBuilder, configPath string) criterio.FieldErrorsBuilder {
	if configPath != "" {
		if info, err := os.Stat(configPath); err == nil {
			if info.IsDir() {
				errs = errs.Append("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
			}
		} else if os.IsNotExist(err) {
			c.warnf("File Access", "config file", "%s not found, using defaults", configPath)
		} else {
			errs = errs.Append("config_file", fmt.Errorf("cannot access %s: %v", configPath, err))
		}
	}

	if c.DataDir == "" {
		errs = errs.Append("data_dir", fmt.Errorf("cannot be empty"))
		return errs
	}

	if info, err := os.Stat(c.DataDir); err == nil {
		if !info.IsDir() {
			errs = errs.Append("data_dir", fmt.Errorf("%s exists but is not a directory", c.DataDir))
		}
	} else if os.IsNotExist(err) {
		c.warnf("File Access", "data directory", "%s does not exist yet, it will be created on first save", c.DataDir)
	} else {
		errs = errs.Append("data_dir", fmt.Errorf("cannot access %s: %v", c.DataDir, err))
	}

	return errs
}

// validateServer checks the listener address syntax.
func (c *Config) validateServer(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	if c.Server.Addr == "" {
		errs = errs.Append("server.addr", fmt.Errorf("cannot be empty"))
		return errs
	}

	host, _, err := net.SplitHostPort(c.Server.Addr)
	if err != nil {
		errs = errs.Append("server.addr", fmt.Errorf("invalid listen address %q: %v", c.Server.Addr, err))
		return errs
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		c.warnf("Server", "addr", "%s listens on all interfaces; history will be reachable from the network", c.Server.Addr)
	}

	return errs
}

// validateStorage checks the backend name and flags leftover files from the
// other backend so a switch doesn't silently orphan existing history.
func (c *Config) validateStorage(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	if c.DataDir == "" {
		return errs
	}

	switch c.Storage.Backend {
	case BackendJSONFile:
		if _, err := os.Stat(c.DatabaseFile()); err == nil {
			c.warnf("Storage", "backend", "%s exists but backend is %s; the database will be ignored", c.DatabaseFile(), BackendJSONFile)
		}
	case BackendSQLite:
		if _, err := os.Stat(c.HistoryFile()); err == nil {
			c.warnf("Storage", "backend", "%s exists but backend is %s; the JSON snapshot will be ignored", c.HistoryFile(), BackendSQLite)
		}
	default:
		errs = errs.Append("storage.backend", fmt.Errorf("must be %q or %q, got %q", BackendJSONFile, BackendSQLite, c.Storage.Backend))
	}

	return errs
}

// validateBlocklist checks glob syntax and flags patterns that can only ever
// match a single literal address.
func (c *Config) validateBlocklist(errs criterio.FieldErrorsBuilder) criterio.FieldErrorsBuilder {
	for i, pattern := range c.History.BlockedURLs {
		if !doublestar.ValidatePattern(pattern) {
			errs = errs.Append(fmt.Sprintf("history.blocked_urls[%d]", i), fmt.Errorf("invalid glob pattern %q", pattern))
			continue
		}

		if !strings.ContainsAny(pattern, "*?[{") {
			c.warnf("Blocklist", fmt.Sprintf("pattern %d", i), "%q has no wildcards and only blocks that exact address", pattern)
		}
	}

	return errs
}
