package history

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Load when nothing has been persisted yet.
var ErrNoSnapshot = errors.New("no history snapshot found")

// Snapshot is the serialized whole of a history state. It round-trips through
// a Store without loss: load-after-save yields an equal state.
type Snapshot struct {
	Entries []Entry `json:"entries"`
	Cursor  int     `json:"cursor"`
}

// Store defines persistence operations for history snapshots.
// Every save replaces the entire prior snapshot.
type Store interface {
	// Load reads the persisted snapshot. Returns ErrNoSnapshot if none exists.
	Load(ctx context.Context) (Snapshot, error)
	// Save durably replaces the persisted snapshot.
	Save(ctx context.Context, snap Snapshot) error
	// Close releases any resources held by the store.
	Close() error
}
