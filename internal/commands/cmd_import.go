package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/hay-kot/criterio"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/keladin/retrace/internal/core/history"
	"github.com/keladin/retrace/internal/printer"
	"github.com/keladin/retrace/pkg/randid"
)

// ImportInput is the JSON input schema for history import. It matches the
// output of 'retrace export'.
type ImportInput struct {
	Entries []ImportEntry `json:"entries"`
	Cursor  int           `json:"cursor"`
}

// ImportEntry defines a single history entry to import.
type ImportEntry struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	Label     string    `json:"label"`
	VisitedAt time.Time `json:"visitedAt"`
}

// Validate checks the import input for errors using criterio.
func (in ImportInput) Validate() error {
	if len(in.Entries) == 0 {
		return criterio.NewFieldErrors("entries", fmt.Errorf("array is empty"))
	}

	var errs criterio.FieldErrorsBuilder

	if in.Cursor < -1 || in.Cursor >= len(in.Entries) {
		errs = errs.Append("cursor", fmt.Errorf("must be between -1 and %d, got %d", len(in.Entries)-1, in.Cursor))
	}

	seenIDs := make(map[string]bool)
	for i, e := range in.Entries {
		field := fmt.Sprintf("entries[%d]", i)

		if _, err := history.Normalize(e.Address); err != nil {
			errs = errs.Append(field+".address", err)
			continue
		}

		if e.ID != "" {
			if seenIDs[e.ID] {
				errs = errs.Append(field+".id", fmt.Errorf("duplicate id %q", e.ID))
				continue
			}
			seenIDs[e.ID] = true
		}
	}

	return errs.ToError()
}

// toSnapshot converts validated input into a snapshot, normalizing addresses
// and filling generated fields.
func (in ImportInput) toSnapshot() (history.Snapshot, error) {
	entries := make([]history.Entry, 0, len(in.Entries))
	for i, e := range in.Entries {
		norm, err := history.Normalize(e.Address)
		if err != nil {
			return history.Snapshot{}, fmt.Errorf("entry %d: %w", i, err)
		}

		entry := history.Entry{
			ID:        e.ID,
			Address:   norm.Address,
			Label:     e.Label,
			VisitedAt: e.VisitedAt,
		}
		if entry.ID == "" {
			entry.ID = uuid.New().String()
		}
		if entry.Label == "" {
			entry.Label = norm.Label
		}
		if entry.VisitedAt.IsZero() {
			entry.VisitedAt = time.Now().UTC()
		}
		entries = append(entries, entry)
	}

	return history.Snapshot{Entries: entries, Cursor: in.Cursor}, nil
}

type ImportCmd struct {
	flags *Flags
	file  string
}

func NewImportCmd(flags *Flags) *ImportCmd {
	return &ImportCmd{flags: flags}
}

func (cmd *ImportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "import",
		Usage: "Import history from JSON",
		UsageText: `retrace import [options]

Read from stdin:
  retrace export | retrace import
  cat history.json | retrace import

Read from file:
  retrace import -f history.json`,
		Description: `Replaces the current history with entries from a JSON snapshot.

The input format matches 'retrace export'. Addresses are re-normalized
on import, missing entry IDs and timestamps are generated, and the
cursor must point at a valid entry (or -1 for none). If max_entries is
configured the imported history is capped to the newest entries.

Input JSON schema:
  {
    "entries": [
      {
        "id": "optional-uuid",
        "address": "https://go.dev/",
        "label": "go.dev",
        "visitedAt": "2026-01-02T15:04:05Z"
      }
    ],
    "cursor": 0
  }

Each import writes a log file under the data directory for auditing.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to JSON file (reads from stdin if not provided)",
				Destination: &cmd.file,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ImportCmd) run(ctx context.Context, c *cli.Command) error {
	p := printer.Ctx(ctx)

	importID := randid.Generate(6)

	logger, logFile, err := cmd.setupLogger(importID)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close log file: %v\n", err)
		}
	}()

	logger.Info().Str("import_id", importID).Msg("starting import")

	input, err := cmd.readInput()
	if err != nil {
		logger.Error().Err(err).Msg("failed to read input")
		return fmt.Errorf("read input: %w", err)
	}

	if err := input.Validate(); err != nil {
		logger.Error().Err(err).Msg("input validation failed")
		return fmt.Errorf("invalid input: %w", err)
	}

	snap, err := input.toSnapshot()
	if err != nil {
		return err
	}

	state := cmd.flags.Service.Import(ctx, snap)

	logger.Info().
		Int("received", len(input.Entries)).
		Int("imported", state.TotalEntries).
		Int("cursor", state.CursorIndex).
		Msg("import complete")

	if state.TotalEntries < len(input.Entries) {
		p.Warnf("Capped to %d of %d entries (max_entries limit)", state.TotalEntries, len(input.Entries))
	}

	p.Successf("Imported %d entries", state.TotalEntries)
	if state.CurrentAddress != "" {
		p.Infof("Current entry: %s", state.CurrentAddress)
	}

	return nil
}

func (cmd *ImportCmd) setupLogger(importID string) (zerolog.Logger, *os.File, error) {
	logsDir := cmd.flags.Config.LogsDir()
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("create logs dir: %w", err)
	}

	logPath := filepath.Join(logsDir, fmt.Sprintf("import-%s.log", importID))
	file, err := os.Create(logPath)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("create log file: %w", err)
	}

	logger := zerolog.New(file).With().Timestamp().Logger()
	return logger, file, nil
}

func (cmd *ImportCmd) readInput() (ImportInput, error) {
	var reader io.Reader

	if cmd.file != "" {
		f, err := os.Open(cmd.file)
		if err != nil {
			return ImportInput{}, fmt.Errorf("open file: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	} else {
		if term.IsTerminal(int(os.Stdin.Fd())) {
			return ImportInput{}, fmt.Errorf("no input provided (stdin is a terminal); use -f flag or pipe JSON input")
		}
		reader = os.Stdin
	}

	var input ImportInput
	if err := json.NewDecoder(reader).Decode(&input); err != nil {
		return ImportInput{}, fmt.Errorf("decode JSON: %w", err)
	}

	return input, nil
}
