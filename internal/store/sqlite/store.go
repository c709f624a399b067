// Package sqlite provides a SQLite-backed history snapshot store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/keladin/retrace/internal/core/history"
)

// Store implements history.Store on top of a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at the given path and runs migrations.
func New(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return s, nil
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		position   INTEGER PRIMARY KEY,
		id         TEXT NOT NULL,
		address    TEXT NOT NULL,
		label      TEXT NOT NULL DEFAULT '',
		visited_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS cursor_state (
		id     INTEGER PRIMARY KEY CHECK (id = 1),
		cursor INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Load reads the saved snapshot.
// Returns history.ErrNoSnapshot if nothing has been saved yet.
func (s *Store) Load(ctx context.Context) (history.Snapshot, error) {
	var cursor int
	err := s.db.QueryRowContext(ctx, "SELECT cursor FROM cursor_state WHERE id = 1").Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return history.Snapshot{}, history.ErrNoSnapshot
	}
	if err != nil {
		return history.Snapshot{}, fmt.Errorf("load cursor: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT id, address, label, visited_at FROM entries ORDER BY position")
	if err != nil {
		return history.Snapshot{}, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	var entries []history.Entry
	for rows.Next() {
		var e history.Entry
		var visitedAt string
		if err := rows.Scan(&e.ID, &e.Address, &e.Label, &visitedAt); err != nil {
			return history.Snapshot{}, fmt.Errorf("scan entry: %w", err)
		}
		e.VisitedAt, _ = time.Parse(time.RFC3339Nano, visitedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return history.Snapshot{}, fmt.Errorf("iterate entries: %w", err)
	}

	return history.Snapshot{Entries: entries, Cursor: cursor}, nil
}

// Save replaces the stored snapshot in a single transaction.
func (s *Store) Save(ctx context.Context, snap history.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM entries"); err != nil {
		return fmt.Errorf("clear entries: %w", err)
	}

	for i, e := range snap.Entries {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO entries (position, id, address, label, visited_at) VALUES (?, ?, ?, ?, ?)",
			i, e.ID, e.Address, e.Label, e.VisitedAt.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO cursor_state (id, cursor) VALUES (1, ?)",
		snap.Cursor,
	); err != nil {
		return fmt.Errorf("save cursor: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
