package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/keladin/retrace/internal/core/config"
	"github.com/keladin/retrace/internal/retrace"
	"github.com/keladin/retrace/internal/store/jsonfile"
)

func newTestModel(t *testing.T, urls ...string) (Model, *retrace.Service) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()

	store := jsonfile.New(cfg.HistoryFile())
	svc := retrace.New(store, &cfg, zerolog.Nop())
	svc.Init(context.Background())

	for _, u := range urls {
		if _, err := svc.Visit(context.Background(), u); err != nil {
			t.Fatalf("visit %s: %v", u, err)
		}
	}

	m := New(svc, &cfg)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model), svc
}

func pressKey(t *testing.T, m Model, k string) Model {
	t.Helper()

	var msg tea.Msg
	switch k {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}

	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestModel_CursorNavigation(t *testing.T) {
	m, _ := newTestModel(t, "a.com", "b.com", "c.com")

	// Selection starts at the current entry (the last visit).
	if m.cursor != 2 {
		t.Fatalf("initial cursor = %d, want 2", m.cursor)
	}

	m = pressKey(t, m, "k")
	if m.cursor != 1 {
		t.Errorf("cursor after k = %d, want 1", m.cursor)
	}

	m = pressKey(t, m, "k")
	m = pressKey(t, m, "k") // already at top, stays
	if m.cursor != 0 {
		t.Errorf("cursor after kkk = %d, want 0", m.cursor)
	}

	m = pressKey(t, m, "j")
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}

	m = pressKey(t, m, "G")
	if m.cursor != 2 {
		t.Errorf("cursor after G = %d, want 2", m.cursor)
	}

	m = pressKey(t, m, "g")
	if m.cursor != 0 {
		t.Errorf("cursor after g = %d, want 0", m.cursor)
	}
}

func TestModel_BackForward(t *testing.T) {
	m, svc := newTestModel(t, "a.com", "b.com")

	m = pressKey(t, m, "b")
	if got := svc.Current().CurrentAddress; got != "https://a.com" {
		t.Errorf("service current = %q, want https://a.com", got)
	}
	if m.current.CurrentAddress != "https://a.com" {
		t.Errorf("model current = %q, want https://a.com", m.current.CurrentAddress)
	}
	if m.cursor != 0 {
		t.Errorf("selection should follow navigation, cursor = %d", m.cursor)
	}

	m = pressKey(t, m, "f")
	if m.current.CurrentAddress != "https://b.com" {
		t.Errorf("model current = %q, want https://b.com", m.current.CurrentAddress)
	}

	// Forward at the end reports an error status.
	m = pressKey(t, m, "f")
	if m.kind != statusErr {
		t.Errorf("expected error status, got kind %d", m.kind)
	}
	if m.status == "" {
		t.Error("expected a status message")
	}
}

func TestModel_VisitInsertMode(t *testing.T) {
	m, svc := newTestModel(t)

	m = pressKey(t, m, "v")
	if m.mode != modeInsert {
		t.Fatalf("mode after v = %d, want insert", m.mode)
	}

	m = pressKey(t, m, "go.dev")
	m = pressKey(t, m, "enter")

	if m.mode != modeNormal {
		t.Errorf("mode after enter = %d, want normal", m.mode)
	}
	if svc.Count() != 1 {
		t.Errorf("service count = %d, want 1", svc.Count())
	}
	if m.current.CurrentAddress != "https://go.dev" {
		t.Errorf("current = %q, want https://go.dev", m.current.CurrentAddress)
	}
}

func TestModel_VisitEscCancels(t *testing.T) {
	m, svc := newTestModel(t)

	m = pressKey(t, m, "v")
	m = pressKey(t, m, "abc")
	m = pressKey(t, m, "esc")

	if m.mode != modeNormal {
		t.Errorf("mode after esc = %d, want normal", m.mode)
	}
	if svc.Count() != 0 {
		t.Errorf("service count = %d, want 0", svc.Count())
	}
}

func TestModel_VisitInvalidURL(t *testing.T) {
	m, svc := newTestModel(t)

	m = pressKey(t, m, "v")
	m = pressKey(t, m, "https://")
	m = pressKey(t, m, "enter")

	if m.kind != statusErr {
		t.Errorf("expected error status, got kind %d", m.kind)
	}
	if svc.Count() != 0 {
		t.Errorf("service count = %d, want 0", svc.Count())
	}
}

func TestModel_ClearConfirm(t *testing.T) {
	m, svc := newTestModel(t, "a.com", "b.com")

	m = pressKey(t, m, "C")
	if m.mode != modeConfirmClear {
		t.Fatalf("mode after C = %d, want confirm", m.mode)
	}

	m = pressKey(t, m, "n")
	if m.mode != modeNormal {
		t.Errorf("mode after n = %d, want normal", m.mode)
	}
	if svc.Count() != 2 {
		t.Errorf("declining should keep entries, count = %d", svc.Count())
	}

	m = pressKey(t, m, "C")
	m = pressKey(t, m, "y")
	if svc.Count() != 0 {
		t.Errorf("confirming should clear entries, count = %d", svc.Count())
	}
	if len(m.page.History) != 0 {
		t.Errorf("model should reload after clear, %d rows", len(m.page.History))
	}
}

func TestModel_RevisitSelected(t *testing.T) {
	m, svc := newTestModel(t, "a.com", "b.com", "c.com")

	m = pressKey(t, m, "g") // select the first entry
	m = pressKey(t, m, "enter")

	if svc.Count() != 4 {
		t.Errorf("count after revisit = %d, want 4", svc.Count())
	}
	if m.current.CurrentAddress != "https://a.com" {
		t.Errorf("current = %q, want https://a.com", m.current.CurrentAddress)
	}
	if m.current.CursorIndex != 3 {
		t.Errorf("cursor index = %d, want 3", m.current.CursorIndex)
	}
}

func TestModel_EmptyHistoryKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m = pressKey(t, m, "b")
	if m.kind != statusErr {
		t.Errorf("back on empty should set error status, got kind %d", m.kind)
	}

	m = pressKey(t, m, "C")
	if m.mode != modeNormal {
		t.Errorf("C on empty should not prompt, mode = %d", m.mode)
	}
	if m.kind != statusWarn {
		t.Errorf("C on empty should warn, got kind %d", m.kind)
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, "go.dev")

	view := m.View()
	if !strings.Contains(view, "https://go.dev") {
		t.Error("view should contain the visited address")
	}
	if !strings.Contains(view, "q:quit") {
		t.Error("view should contain the help line")
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"just now", now.Add(-10 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-49 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := timeAgo(tt.t); got != tt.want {
				t.Errorf("timeAgo() = %q, want %q", got, tt.want)
			}
		})
	}
}
