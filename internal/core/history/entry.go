// Package history defines the navigation history domain: visited entries,
// the cursor state machine, read projections, and the snapshot store contract.
package history

import "time"

// Entry represents one visited location.
// Entries are immutable once created; navigation only ever moves the cursor.
type Entry struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Label     string    `json:"label"`
	VisitedAt time.Time `json:"visitedAt"`
}
