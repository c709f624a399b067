package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/keladin/retrace/internal/core/config"
	"github.com/keladin/retrace/internal/core/history"
	"github.com/keladin/retrace/internal/retrace"
)

// Mode represents the current input mode.
type Mode int

const (
	modeNormal Mode = iota
	modeInsert
	modeConfirmClear
)

// Kinds of transient status messages.
type statusKind int

const (
	statusOK statusKind = iota
	statusErr
	statusWarn
)

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	service *retrace.Service
	cfg     *config.Config
	keys    KeyMap
	input   textinput.Model

	mode    Mode
	page    history.HistoryPage
	current history.CurrentState
	cursor  int
	offset  int // scroll offset for visible window

	width  int
	height int
	ready  bool

	status string
	kind   statusKind
}

// New creates a new TUI model.
func New(service *retrace.Service, cfg *config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter URL..."
	ti.CharLimit = 2048
	ti.Width = 60

	m := Model{
		service: service,
		cfg:     cfg,
		keys:    DefaultKeyMap(),
		input:   ti,
	}
	m.reload()
	m.followCurrent()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.input.Width = msg.Width - 8
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Always allow Ctrl+C to quit.
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case modeInsert:
		return m.handleInsertMode(msg)
	case modeConfirmClear:
		return m.handleConfirmMode(msg)
	default:
		return m.handleNormalMode(msg)
	}
}

// handleNormalMode processes keys in normal (browsing) mode.
func (m Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.CursorUp):
		if m.cursor > 0 {
			m.cursor--
			m.ensureVisible()
		}

	case key.Matches(msg, m.keys.CursorDown):
		if m.cursor < len(m.page.History)-1 {
			m.cursor++
			m.ensureVisible()
		}

	case key.Matches(msg, m.keys.GotoTop):
		m.cursor = 0
		m.offset = 0

	case key.Matches(msg, m.keys.GotoBottom):
		if n := len(m.page.History); n > 0 {
			m.cursor = n - 1
			m.ensureVisible()
		}

	case key.Matches(msg, m.keys.Back):
		state, err := m.service.Back(context.Background())
		if err != nil {
			m.setStatus(statusErr, err.Error())
			break
		}
		m.setStatus(statusOK, "Went back to "+state.CurrentAddress)
		m.reload()
		m.followCurrent()

	case key.Matches(msg, m.keys.Forward):
		state, err := m.service.Forward(context.Background())
		if err != nil {
			m.setStatus(statusErr, err.Error())
			break
		}
		m.setStatus(statusOK, "Went forward to "+state.CurrentAddress)
		m.reload()
		m.followCurrent()

	case key.Matches(msg, m.keys.Visit):
		m.mode = modeInsert
		m.status = ""
		m.input.Reset()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Revisit):
		item, ok := m.selected()
		if !ok {
			break
		}
		state, err := m.service.Visit(context.Background(), item.Address)
		if err != nil {
			m.setStatus(statusErr, err.Error())
			break
		}
		m.setStatus(statusOK, "Visited "+state.CurrentAddress)
		m.reload()
		m.followCurrent()

	case key.Matches(msg, m.keys.Clear):
		if m.service.Count() == 0 {
			m.setStatus(statusWarn, "History is already empty")
			break
		}
		m.mode = modeConfirmClear

	case key.Matches(msg, m.keys.Refresh):
		m.reload()
		m.setStatus(statusOK, "Refreshed")
	}

	return m, nil
}

// handleInsertMode processes keys while the URL input is focused.
func (m Model) handleInsertMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeNormal
		m.input.Blur()
		return m, nil

	case "enter":
		raw := strings.TrimSpace(m.input.Value())
		m.mode = modeNormal
		m.input.Blur()
		if raw == "" {
			return m, nil
		}

		state, err := m.service.Visit(context.Background(), raw)
		if err != nil {
			m.setStatus(statusErr, err.Error())
			return m, nil
		}
		m.setStatus(statusOK, "Visited "+state.CurrentAddress)
		m.reload()
		m.followCurrent()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleConfirmMode waits for a yes/no answer before clearing.
func (m Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		count := m.service.Count()
		m.service.Clear(context.Background())
		m.mode = modeNormal
		m.setStatus(statusOK, fmt.Sprintf("Cleared %d entries", count))
		m.reload()
	case "n", "N", "esc":
		m.mode = modeNormal
		m.setStatus(statusWarn, "Clear cancelled")
	}
	return m, nil
}

// reload pulls fresh state from the service and keeps the cursor in range.
func (m *Model) reload() {
	m.page = m.service.History()
	m.current = m.service.Current()
	if m.cursor >= len(m.page.History) {
		m.cursor = len(m.page.History) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

// followCurrent moves the selection to the current history position.
func (m *Model) followCurrent() {
	if m.page.CursorIndex >= 0 {
		m.cursor = m.page.CursorIndex
		m.ensureVisible()
	}
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.kind = kind
	m.status = text
}

// selected returns the history item under the cursor.
func (m Model) selected() (history.HistoryItem, bool) {
	if len(m.page.History) == 0 || m.cursor < 0 || m.cursor >= len(m.page.History) {
		return history.HistoryItem{}, false
	}
	return m.page.History[m.cursor], true
}

// visibleCount returns how many rows fit in the visible area.
func (m Model) visibleCount() int {
	// banner (5 lines with padding), data dir line, status line, help line
	reserved := 8
	if m.mode == modeInsert {
		reserved += 3 // bordered input bar
	}
	available := m.height - reserved
	if available < 1 {
		return 1
	}
	return available
}

// ensureVisible adjusts offset so the cursor is within the visible window.
func (m *Model) ensureVisible() {
	visible := m.visibleCount()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading retrace..."
	}

	var sb strings.Builder

	sb.WriteString(bannerStyle.Render(banner))
	sb.WriteString("\n")
	sb.WriteString(addressStyle.Render(" " + m.cfg.DataDir))
	sb.WriteString("\n")

	if len(m.page.History) == 0 {
		sb.WriteString(emptyStyle.Render("No history yet. Press v to visit a URL."))
		sb.WriteString("\n")
	} else {
		sb.WriteString(m.renderRows())
	}

	sb.WriteString("\n")
	sb.WriteString(m.statusLine())
	sb.WriteString("\n")

	if m.mode == modeInsert {
		sb.WriteString(inputStyle.Render(m.input.View()))
		sb.WriteString("\n")
	}

	sb.WriteString(helpStyle.Render(m.helpLine()))

	return sb.String()
}

// renderRows renders the visible slice of history entries.
func (m Model) renderRows() string {
	visible := m.visibleCount()
	end := m.offset + visible
	if end > len(m.page.History) {
		end = len(m.page.History)
	}

	maxAddr := m.width - 52
	if maxAddr < 10 {
		maxAddr = 10
	}

	var sb strings.Builder
	for i := m.offset; i < end; i++ {
		item := m.page.History[i]

		cur := "  "
		if item.IsCurrent {
			cur = currentStyle.Render("→ ")
		}

		row := fmt.Sprintf("%3d  %-28s", item.Position, truncate(item.Label, 28))
		if i == m.cursor {
			row = selectedStyle.Render("▸ " + row)
		} else {
			row = normalStyle.Render("  " + row)
		}

		sb.WriteString(" ")
		sb.WriteString(cur)
		sb.WriteString(row)
		sb.WriteString("  ")
		sb.WriteString(addressStyle.Render(truncate(item.Address, maxAddr)))
		sb.WriteString("  ")
		sb.WriteString(ageStyle.Render(timeAgo(item.VisitedAt)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// statusLine renders the transient status or the position summary.
func (m Model) statusLine() string {
	if m.mode == modeConfirmClear {
		return statusWarnStyle.Render(fmt.Sprintf("Clear all %d entries? (y/n)", m.service.Count()))
	}

	if m.status != "" {
		switch m.kind {
		case statusErr:
			return statusErrStyle.Render(m.status)
		case statusWarn:
			return statusWarnStyle.Render(m.status)
		default:
			return statusOKStyle.Render(m.status)
		}
	}

	if m.current.TotalEntries == 0 {
		return helpStyle.Render("Empty history")
	}

	back := " "
	if m.current.CanGoBack {
		back = "‹"
	}
	forward := " "
	if m.current.CanGoForward {
		forward = "›"
	}

	return positionStyle.Render(fmt.Sprintf(" %s Entry %d of %d %s",
		back, m.current.CursorIndex+1, m.current.TotalEntries, forward))
}

// helpLine renders the keybinding hints for the active mode.
func (m Model) helpLine() string {
	switch m.mode {
	case modeInsert:
		return "enter:visit  esc:cancel"
	case modeConfirmClear:
		return "y:confirm  n:cancel"
	default:
		return "j/k:move  b/f:back/forward  v:visit  enter:revisit  C:clear  r:refresh  q:quit"
	}
}

func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// timeAgo returns a human-readable relative time string.
func timeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
