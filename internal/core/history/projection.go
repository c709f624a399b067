package history

// CurrentState is the read-only summary of the current position. Pure
// projection of a State; computing it has no side effects.
type CurrentState struct {
	CurrentAddress string `json:"currentAddress"`
	CanGoBack      bool   `json:"canGoBack"`
	CanGoForward   bool   `json:"canGoForward"`
	CursorIndex    int    `json:"cursorIndex"`
	TotalEntries   int    `json:"totalEntries"`
}

// CurrentStateOf projects the current-position summary from a state.
// CurrentAddress is the empty string when the state is empty.
func CurrentStateOf(s *State) CurrentState {
	cs := CurrentState{
		CanGoBack:    s.CanGoBack(),
		CanGoForward: s.CanGoForward(),
		CursorIndex:  s.Cursor(),
		TotalEntries: s.Len(),
	}
	if current, ok := s.Current(); ok {
		cs.CurrentAddress = current.Address
	}
	return cs
}

// HistoryItem is an entry annotated for display with its 1-based position
// and whether the cursor points at it.
type HistoryItem struct {
	Entry
	Position  int  `json:"position"`
	IsCurrent bool `json:"isCurrent"`
}

// HistoryPage is the full-history projection. Items stay in visit
// (chronological) order; the current entry is flagged, never moved first.
type HistoryPage struct {
	History      []HistoryItem `json:"history"`
	CursorIndex  int           `json:"cursorIndex"`
	TotalEntries int           `json:"totalEntries"`
}

// HistoryPageOf projects the annotated full history from a state.
func HistoryPageOf(s *State) HistoryPage {
	entries := s.Entries()
	page := HistoryPage{
		History:      make([]HistoryItem, 0, len(entries)),
		CursorIndex:  s.Cursor(),
		TotalEntries: len(entries),
	}

	for i, e := range entries {
		page.History = append(page.History, HistoryItem{
			Entry:     e,
			Position:  i + 1,
			IsCurrent: i == s.Cursor(),
		})
	}

	return page
}
