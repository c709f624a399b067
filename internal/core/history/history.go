package history

import "errors"

// Sentinel errors for navigation boundaries. Both leave the state unchanged.
var (
	ErrAtBeginning = errors.New("already at the beginning of history")
	ErrAtEnd       = errors.New("already at the end of history")
)

// State is the navigation history aggregate: an ordered entry sequence plus a
// cursor marking the current position, -1 when empty. Every operation
// preserves -1 <= cursor < len(entries).
//
// The logical phases (empty, at start, in the middle, at end) are derived
// from (cursor, length) comparisons, never tracked as separate flags.
type State struct {
	entries []Entry
	cursor  int
}

// NewState creates an empty history state.
func NewState() *State {
	return &State{cursor: -1}
}

// Restore builds a state from a persisted snapshot. A cursor outside the
// valid range is clamped rather than rejected, so a damaged snapshot degrades
// to a usable state instead of failing startup.
func Restore(snap Snapshot) *State {
	s := &State{
		entries: append([]Entry(nil), snap.Entries...),
		cursor:  snap.Cursor,
	}
	if s.cursor >= len(s.entries) {
		s.cursor = len(s.entries) - 1
	}
	if s.cursor < -1 {
		s.cursor = -1
	}
	return s
}

// Visit appends an entry as the new current position. When the cursor sits
// before the last entry, the abandoned forward branch is discarded first and
// is unrecoverable. Never a no-op.
func (s *State) Visit(e Entry) {
	if s.cursor < len(s.entries)-1 {
		s.entries = s.entries[:s.cursor+1]
	}
	s.entries = append(s.entries, e)
	s.cursor = len(s.entries) - 1
}

// Back moves the cursor one entry toward the beginning.
// Returns ErrAtBeginning if there is no previous entry.
func (s *State) Back() error {
	if s.cursor <= 0 {
		return ErrAtBeginning
	}
	s.cursor--
	return nil
}

// Forward moves the cursor one entry toward the end.
// Returns ErrAtEnd if there is no next entry.
func (s *State) Forward() error {
	if s.cursor >= len(s.entries)-1 {
		return ErrAtEnd
	}
	s.cursor++
	return nil
}

// Clear resets the state to empty. Always succeeds.
func (s *State) Clear() {
	s.entries = nil
	s.cursor = -1
}

// Current returns the entry at the cursor, or false when the state is empty.
func (s *State) Current() (Entry, bool) {
	if s.cursor < 0 || s.cursor >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[s.cursor], true
}

// CanGoBack reports whether a previous entry exists.
func (s *State) CanGoBack() bool {
	return s.cursor > 0
}

// CanGoForward reports whether a next entry exists.
func (s *State) CanGoForward() bool {
	return s.cursor < len(s.entries)-1
}

// Cursor returns the current cursor index, -1 when empty.
func (s *State) Cursor() int {
	return s.cursor
}

// Len returns the number of entries.
func (s *State) Len() int {
	return len(s.entries)
}

// Entries returns a copy of the entry sequence in visit order.
func (s *State) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// Snapshot captures the whole state for persistence.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Entries: append([]Entry(nil), s.entries...),
		Cursor:  s.cursor,
	}
}

// TrimFront drops the oldest entries until at most max remain, shifting the
// cursor so it keeps pointing at the same entry. max <= 0 means unlimited.
// Returns the number of entries dropped.
func (s *State) TrimFront(max int) int {
	if max <= 0 || len(s.entries) <= max {
		return 0
	}

	drop := len(s.entries) - max
	s.entries = append([]Entry(nil), s.entries[drop:]...)
	s.cursor -= drop
	if s.cursor < 0 {
		s.cursor = 0
	}
	return drop
}
