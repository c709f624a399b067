package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/keladin/retrace/internal/core/config"
	"github.com/keladin/retrace/internal/core/history"
	"github.com/keladin/retrace/internal/store/jsonfile"
	"github.com/keladin/retrace/internal/store/sqlite"
)

// StorageCheck verifies the data directory and the history snapshot.
type StorageCheck struct {
	config *config.Config
	fix    bool
}

// NewStorageCheck creates a new storage check.
// If fix is true, leftover files from other storage backends are deleted.
func NewStorageCheck(cfg *config.Config, fix bool) *StorageCheck {
	return &StorageCheck{
		config: cfg,
		fix:    fix,
	}
}

func (c *StorageCheck) Name() string {
	return "Storage"
}

func (c *StorageCheck) Run(ctx context.Context) Result {
	result := Result{Name: c.Name()}

	if c.config == nil {
		result.Items = append(result.Items, CheckItem{
			Label:  "Config loaded",
			Status: StatusFail,
			Detail: "configuration not loaded",
		})
		return result
	}

	info, err := os.Stat(c.config.DataDir)
	switch {
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:  "Data directory",
			Status: StatusPass,
			Detail: "not created yet",
		})
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  "Data directory",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	case !info.IsDir():
		result.Items = append(result.Items, CheckItem{
			Label:  "Data directory",
			Status: StatusFail,
			Detail: fmt.Sprintf("%s is not a directory", c.config.DataDir),
		})
		return result
	default:
		result.Items = append(result.Items, CheckItem{
			Label:  "Data directory",
			Status: StatusPass,
			Detail: c.config.DataDir,
		})
	}

	result.Items = append(result.Items, c.checkSnapshot(ctx))

	if item, found := c.checkLeftover(); found {
		result.Items = append(result.Items, item)
	}

	return result
}

// checkSnapshot opens the configured store and verifies the snapshot loads.
func (c *StorageCheck) checkSnapshot(ctx context.Context) CheckItem {
	var store history.Store

	switch c.config.Storage.Backend {
	case config.BackendSQLite:
		// Opening creates the database, so stat first to keep this read-only.
		if _, err := os.Stat(c.config.DatabaseFile()); os.IsNotExist(err) {
			return CheckItem{Label: "History snapshot", Status: StatusPass, Detail: "no database yet"}
		}
		s, err := sqlite.New(c.config.DatabaseFile())
		if err != nil {
			return CheckItem{Label: "History snapshot", Status: StatusFail, Detail: err.Error()}
		}
		store = s
	default:
		store = jsonfile.New(c.config.HistoryFile())
	}
	defer func() { _ = store.Close() }()

	snap, err := store.Load(ctx)
	switch {
	case errors.Is(err, history.ErrNoSnapshot):
		return CheckItem{Label: "History snapshot", Status: StatusPass, Detail: "no snapshot yet"}
	case err != nil:
		return CheckItem{Label: "History snapshot", Status: StatusFail, Detail: err.Error()}
	}

	if snap.Cursor < -1 || snap.Cursor >= len(snap.Entries) {
		return CheckItem{
			Label:  "History snapshot",
			Status: StatusWarn,
			Detail: fmt.Sprintf("cursor %d out of range, will be clamped on load", snap.Cursor),
		}
	}

	return CheckItem{
		Label:  "History snapshot",
		Status: StatusPass,
		Detail: fmt.Sprintf("%d entries, cursor %d", len(snap.Entries), snap.Cursor),
	}
}

// checkLeftover reports a file left behind by the non-configured backend.
func (c *StorageCheck) checkLeftover() (CheckItem, bool) {
	var leftover string
	if c.config.Storage.Backend == config.BackendSQLite {
		leftover = c.config.HistoryFile()
	} else {
		leftover = c.config.DatabaseFile()
	}

	if _, err := os.Stat(leftover); err != nil {
		return CheckItem{}, false
	}

	name := filepath.Base(leftover)

	if c.fix {
		if err := os.Remove(leftover); err != nil {
			return CheckItem{
				Label:  name,
				Status: StatusFail,
				Detail: fmt.Sprintf("failed to delete: %v", err),
			}, true
		}
		// SQLite leaves WAL companions next to the database.
		_ = os.Remove(leftover + "-wal")
		_ = os.Remove(leftover + "-shm")
		return CheckItem{
			Label:  name,
			Status: StatusPass,
			Detail: "deleted leftover storage file",
		}, true
	}

	return CheckItem{
		Label:   name,
		Status:  StatusWarn,
		Detail:  "leftover file from another storage backend",
		Fixable: true,
	}, true
}
