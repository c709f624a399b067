package retrace

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/keladin/retrace/internal/core/config"
	"github.com/keladin/retrace/internal/core/history"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStore implements history.Store for testing.
type mockStore struct {
	snap    history.Snapshot
	hasSnap bool
	saves   int
	loadErr error
	saveErr error
}

func (m *mockStore) Load(_ context.Context) (history.Snapshot, error) {
	if m.loadErr != nil {
		return history.Snapshot{}, m.loadErr
	}
	if !m.hasSnap {
		return history.Snapshot{}, history.ErrNoSnapshot
	}
	return m.snap, nil
}

func (m *mockStore) Save(_ context.Context, snap history.Snapshot) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snap = snap
	m.hasSnap = true
	return nil
}

func (m *mockStore) Close() error { return nil }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	return &cfg
}

func newTestService(t *testing.T, store history.Store, cfg *config.Config) *Service {
	t.Helper()
	if cfg == nil {
		cfg = testConfig(t)
	}
	svc := New(store, cfg, zerolog.New(io.Discard))
	svc.Init(context.Background())
	return svc
}

func TestInit(t *testing.T) {
	t.Run("restores saved snapshot", func(t *testing.T) {
		store := &mockStore{
			hasSnap: true,
			snap: history.Snapshot{
				Entries: []history.Entry{
					{ID: "a", Address: "https://a.com", Label: "a.com", VisitedAt: time.Now()},
					{ID: "b", Address: "https://b.com", Label: "b.com", VisitedAt: time.Now()},
				},
				Cursor: 0,
			},
		}
		svc := newTestService(t, store, nil)

		state := svc.Current()
		assert.Equal(t, "https://a.com", state.CurrentAddress)
		assert.Equal(t, 2, state.TotalEntries)
		assert.Equal(t, 0, store.saves, "restoring should not rewrite the snapshot")
	})

	t.Run("clamps out-of-range cursor", func(t *testing.T) {
		store := &mockStore{
			hasSnap: true,
			snap: history.Snapshot{
				Entries: []history.Entry{
					{ID: "a", Address: "https://a.com"},
					{ID: "b", Address: "https://b.com"},
				},
				Cursor: 5,
			},
		}
		svc := newTestService(t, store, nil)

		assert.Equal(t, 1, svc.Current().CursorIndex)
	})

	t.Run("missing snapshot starts empty and persists", func(t *testing.T) {
		store := &mockStore{}
		svc := newTestService(t, store, nil)

		assert.Equal(t, 0, svc.Count())
		assert.Equal(t, 1, store.saves, "empty state should be persisted immediately")
		assert.Equal(t, -1, store.snap.Cursor)
	})

	t.Run("load failure starts empty and persists", func(t *testing.T) {
		store := &mockStore{loadErr: errors.New("disk unreadable")}
		svc := newTestService(t, store, nil)

		assert.Equal(t, 0, svc.Count())
		assert.Equal(t, 1, store.saves)
	})
}

func TestVisit(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and appends", func(t *testing.T) {
		store := &mockStore{}
		svc := newTestService(t, store, nil)

		state, err := svc.Visit(ctx, "example.com")
		require.NoError(t, err)

		assert.Equal(t, "https://example.com", state.CurrentAddress)
		assert.False(t, state.CanGoBack)
		assert.False(t, state.CanGoForward)
		assert.Equal(t, 0, state.CursorIndex)
		assert.Equal(t, 1, state.TotalEntries)

		require.Len(t, store.snap.Entries, 1)
		assert.NotEmpty(t, store.snap.Entries[0].ID)
		assert.Equal(t, "example.com", store.snap.Entries[0].Label)
		assert.False(t, store.snap.Entries[0].VisitedAt.IsZero())
	})

	t.Run("invalid url leaves state untouched", func(t *testing.T) {
		store := &mockStore{}
		svc := newTestService(t, store, nil)
		savesAfterInit := store.saves

		_, err := svc.Visit(ctx, "   ")
		require.ErrorIs(t, err, history.ErrInvalidURL)

		assert.Equal(t, 0, svc.Count())
		assert.Equal(t, savesAfterInit, store.saves, "failed visit should not persist")
	})

	t.Run("discards forward entries", func(t *testing.T) {
		store := &mockStore{}
		svc := newTestService(t, store, nil)

		for _, raw := range []string{"a.com", "b.com", "c.com"} {
			_, err := svc.Visit(ctx, raw)
			require.NoError(t, err)
		}

		_, err := svc.Back(ctx)
		require.NoError(t, err)
		_, err = svc.Back(ctx)
		require.NoError(t, err)

		state, err := svc.Visit(ctx, "d.com")
		require.NoError(t, err)

		assert.Equal(t, "https://d.com", state.CurrentAddress)
		assert.Equal(t, 2, state.TotalEntries)
		assert.False(t, state.CanGoForward)

		page := svc.History()
		require.Len(t, page.History, 2)
		assert.Equal(t, "https://a.com", page.History[0].Address)
		assert.Equal(t, "https://d.com", page.History[1].Address)
	})

	t.Run("save failure does not fail the visit", func(t *testing.T) {
		store := &mockStore{}
		svc := newTestService(t, store, nil)
		store.saveErr = errors.New("disk full")

		state, err := svc.Visit(ctx, "example.com")
		require.NoError(t, err)

		assert.Equal(t, "https://example.com", state.CurrentAddress)
		assert.Equal(t, 1, svc.Count(), "in-memory state stays authoritative")
		assert.Equal(t, 1, svc.PersistFailures())
	})

	t.Run("caps entries at max", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.History.MaxEntries = 3
		store := &mockStore{}
		svc := newTestService(t, store, cfg)

		for _, raw := range []string{"a.com", "b.com", "c.com", "d.com"} {
			_, err := svc.Visit(ctx, raw)
			require.NoError(t, err)
		}

		assert.Equal(t, 3, svc.Count())

		page := svc.History()
		require.Len(t, page.History, 3)
		assert.Equal(t, "https://b.com", page.History[0].Address, "oldest entry should be dropped")
		assert.Equal(t, "https://d.com", page.History[2].Address)
		assert.Equal(t, 2, page.CursorIndex)
	})
}

func TestBlocklist(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects matching address", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.History.BlockedURLs = []string{"https://ads.example.com/*"}
		store := &mockStore{}
		svc := newTestService(t, store, cfg)
		savesAfterInit := store.saves

		_, err := svc.Visit(ctx, "https://ads.example.com/banner")
		require.ErrorIs(t, err, ErrBlocked)

		assert.Equal(t, 0, svc.Count())
		assert.Equal(t, savesAfterInit, store.saves)
	})

	t.Run("rejects matching label", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.History.BlockedURLs = []string{"*.tracker.net"}
		store := &mockStore{}
		svc := newTestService(t, store, cfg)

		_, err := svc.Visit(ctx, "pixel.tracker.net/p.gif")
		require.ErrorIs(t, err, ErrBlocked)
	})

	t.Run("allows non-matching address", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.History.BlockedURLs = []string{"https://ads.example.com/*"}
		svc := newTestService(t, &mockStore{}, cfg)

		state, err := svc.Visit(ctx, "https://example.com")
		require.NoError(t, err)
		assert.Equal(t, "https://example.com", state.CurrentAddress)
	})
}

func TestBackForward(t *testing.T) {
	ctx := context.Background()

	t.Run("back at beginning fails", func(t *testing.T) {
		svc := newTestService(t, &mockStore{}, nil)

		_, err := svc.Back(ctx)
		assert.ErrorIs(t, err, history.ErrAtBeginning)
	})

	t.Run("forward at end fails", func(t *testing.T) {
		svc := newTestService(t, &mockStore{}, nil)

		_, err := svc.Visit(ctx, "a.com")
		require.NoError(t, err)

		_, err = svc.Forward(ctx)
		assert.ErrorIs(t, err, history.ErrAtEnd)
	})

	t.Run("round trip", func(t *testing.T) {
		store := &mockStore{}
		svc := newTestService(t, store, nil)

		_, err := svc.Visit(ctx, "a.com")
		require.NoError(t, err)
		_, err = svc.Visit(ctx, "b.com")
		require.NoError(t, err)

		state, err := svc.Back(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://a.com", state.CurrentAddress)
		assert.False(t, state.CanGoBack)
		assert.True(t, state.CanGoForward)

		state, err = svc.Forward(ctx)
		require.NoError(t, err)
		assert.Equal(t, "https://b.com", state.CurrentAddress)
		assert.True(t, state.CanGoBack)
		assert.False(t, state.CanGoForward)

		assert.Equal(t, state.CursorIndex, store.snap.Cursor, "persisted cursor should track moves")
	})

	t.Run("failed move does not persist", func(t *testing.T) {
		store := &mockStore{}
		svc := newTestService(t, store, nil)
		savesAfterInit := store.saves

		_, err := svc.Back(ctx)
		require.Error(t, err)
		assert.Equal(t, savesAfterInit, store.saves)
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()

	store := &mockStore{}
	svc := newTestService(t, store, nil)

	_, err := svc.Visit(ctx, "a.com")
	require.NoError(t, err)
	_, err = svc.Visit(ctx, "b.com")
	require.NoError(t, err)

	state := svc.Clear(ctx)

	assert.Equal(t, "", state.CurrentAddress)
	assert.Equal(t, -1, state.CursorIndex)
	assert.Equal(t, 0, state.TotalEntries)
	assert.Len(t, store.snap.Entries, 0)
	assert.Equal(t, -1, store.snap.Cursor)
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()

	t.Run("export returns full snapshot", func(t *testing.T) {
		svc := newTestService(t, &mockStore{}, nil)

		_, err := svc.Visit(ctx, "a.com")
		require.NoError(t, err)
		_, err = svc.Visit(ctx, "b.com")
		require.NoError(t, err)

		snap := svc.Export()
		require.Len(t, snap.Entries, 2)
		assert.Equal(t, 1, snap.Cursor)

		// Mutating the export must not touch service state.
		snap.Entries[0].Address = "https://mutated.example"
		assert.Equal(t, "https://a.com", svc.History().History[0].Address)
	})

	t.Run("import replaces history", func(t *testing.T) {
		store := &mockStore{}
		svc := newTestService(t, store, nil)

		_, err := svc.Visit(ctx, "old.com")
		require.NoError(t, err)

		state := svc.Import(ctx, history.Snapshot{
			Entries: []history.Entry{
				{ID: "x", Address: "https://x.com", Label: "x.com"},
				{ID: "y", Address: "https://y.com", Label: "y.com"},
			},
			Cursor: 0,
		})

		assert.Equal(t, "https://x.com", state.CurrentAddress)
		assert.Equal(t, 2, state.TotalEntries)
		assert.Len(t, store.snap.Entries, 2, "import should persist immediately")
	})

	t.Run("import clamps cursor and applies cap", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.History.MaxEntries = 2
		svc := newTestService(t, &mockStore{}, cfg)

		state := svc.Import(ctx, history.Snapshot{
			Entries: []history.Entry{
				{ID: "a", Address: "https://a.com"},
				{ID: "b", Address: "https://b.com"},
				{ID: "c", Address: "https://c.com"},
			},
			Cursor: 9,
		})

		assert.Equal(t, 2, state.TotalEntries)
		assert.Equal(t, "https://c.com", state.CurrentAddress)
	})
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	t.Run("performs final save", func(t *testing.T) {
		store := &mockStore{}
		svc := newTestService(t, store, nil)

		_, err := svc.Visit(ctx, "a.com")
		require.NoError(t, err)
		savesBefore := store.saves

		require.NoError(t, svc.Close(ctx))
		assert.Equal(t, savesBefore+1, store.saves)
	})

	t.Run("reports failed final save", func(t *testing.T) {
		store := &mockStore{}
		svc := newTestService(t, store, nil)
		store.saveErr = errors.New("disk full")

		err := svc.Close(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "final save")
	})
}

// Ensure the mock implements the interface at compile time.
var _ history.Store = (*mockStore)(nil)
