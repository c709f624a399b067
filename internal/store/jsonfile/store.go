// Package jsonfile provides a JSON file-based history snapshot store.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/keladin/retrace/internal/core/history"
)

// Store implements history.Store using a single JSON document on disk.
type Store struct {
	path string
	mu   sync.RWMutex
}

// New creates a new JSON file store at the given path.
func New(path string) *Store {
	return &Store{path: path}
}

// Load reads the saved snapshot from disk.
// Returns history.ErrNoSnapshot if nothing has been saved yet.
func (s *Store) Load(ctx context.Context) (history.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return history.Snapshot{}, history.ErrNoSnapshot
		}
		return history.Snapshot{}, fmt.Errorf("read history file: %w", err)
	}

	if len(data) == 0 {
		return history.Snapshot{}, history.ErrNoSnapshot
	}

	var snap history.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return history.Snapshot{}, fmt.Errorf("parse history file: %w", err)
	}

	return snap, nil
}

// Save writes the snapshot to disk atomically.
// Uses write-to-temp-then-rename to prevent corruption from interrupted writes.
func (s *Store) Save(ctx context.Context, snap history.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history temp file: %w", err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename history file: %w", err)
	}

	return nil
}

// Close is a no-op for the file-backed store.
func (s *Store) Close() error {
	return nil
}
