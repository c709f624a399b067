// Package retrace orchestrates navigation history operations: normalizing
// visited addresses, driving the cursor state machine, and persisting
// snapshots through a pluggable store.
package retrace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/keladin/retrace/internal/core/config"
	"github.com/keladin/retrace/internal/core/history"
	"github.com/rs/zerolog"
)

// ErrBlocked is returned when a visited address matches a blocklist pattern.
var ErrBlocked = errors.New("address is blocked")

// Service owns the in-memory navigation history and serializes all access.
// The in-memory state is authoritative; snapshot saves are best effort.
type Service struct {
	mu     sync.Mutex
	state  *history.State
	store  history.Store
	config *config.Config
	log    zerolog.Logger

	persistFailures int
}

// New creates a new Service.
func New(store history.Store, cfg *config.Config, log zerolog.Logger) *Service {
	return &Service{
		state:  history.NewState(),
		store:  store,
		config: cfg,
		log:    log,
	}
}

// Init loads the saved snapshot into memory. A missing or unreadable snapshot
// is replaced by a fresh empty history, persisted immediately so disk and
// memory agree.
func (s *Service) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.store.Load(ctx)
	switch {
	case err == nil:
		s.state = history.Restore(snap)
		s.log.Info().Int("entries", s.state.Len()).Int("cursor", s.state.Cursor()).Msg("history loaded")
		return
	case errors.Is(err, history.ErrNoSnapshot):
		s.log.Info().Msg("no saved history, starting empty")
	default:
		s.log.Warn().Err(err).Msg("failed to load history, starting empty")
	}

	s.state = history.NewState()
	s.persist(ctx, "init")
}

// Visit normalizes raw, records it as a new entry, and returns the updated
// navigation state. Entries ahead of the cursor are discarded first.
func (s *Service) Visit(ctx context.Context, raw string) (history.CurrentState, error) {
	norm, err := history.Normalize(raw)
	if err != nil {
		return history.CurrentState{}, err
	}

	if s.blocked(norm) {
		s.log.Info().Str("address", norm.Address).Msg("visit blocked")
		return history.CurrentState{}, fmt.Errorf("visit %s: %w", norm.Address, ErrBlocked)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry := history.Entry{
		ID:        uuid.New().String(),
		Address:   norm.Address,
		Label:     norm.Label,
		VisitedAt: time.Now().UTC(),
	}
	s.state.Visit(entry)

	if max := s.config.History.MaxEntries; max > 0 {
		if dropped := s.state.TrimFront(max); dropped > 0 {
			s.log.Debug().Int("dropped", dropped).Int("max", max).Msg("history capped")
		}
	}

	s.persist(ctx, "visit")

	s.log.Info().Str("address", entry.Address).Int("cursor", s.state.Cursor()).Msg("visited")

	return history.CurrentStateOf(s.state), nil
}

// Back moves the cursor one entry toward the oldest and returns the updated
// state. Fails with history.ErrAtBeginning when there is nothing behind.
func (s *Service) Back(ctx context.Context) (history.CurrentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.Back(); err != nil {
		return history.CurrentState{}, err
	}

	s.persist(ctx, "back")
	s.log.Debug().Int("cursor", s.state.Cursor()).Msg("moved back")

	return history.CurrentStateOf(s.state), nil
}

// Forward moves the cursor one entry toward the newest and returns the
// updated state. Fails with history.ErrAtEnd when there is nothing ahead.
func (s *Service) Forward(ctx context.Context) (history.CurrentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.Forward(); err != nil {
		return history.CurrentState{}, err
	}

	s.persist(ctx, "forward")
	s.log.Debug().Int("cursor", s.state.Cursor()).Msg("moved forward")

	return history.CurrentStateOf(s.state), nil
}

// Clear discards all history. It always succeeds.
func (s *Service) Clear(ctx context.Context) history.CurrentState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Clear()
	s.persist(ctx, "clear")
	s.log.Info().Msg("history cleared")

	return history.CurrentStateOf(s.state)
}

// Current returns the current navigation state projection.
func (s *Service) Current() history.CurrentState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return history.CurrentStateOf(s.state)
}

// History returns the full chronological history projection.
func (s *Service) History() history.HistoryPage {
	s.mu.Lock()
	defer s.mu.Unlock()

	return history.HistoryPageOf(s.state)
}

// Count returns the number of stored entries.
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Len()
}

// Export returns a copy of the full snapshot.
func (s *Service) Export() history.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.Snapshot()
}

// Import replaces the entire history with the given snapshot. The cursor is
// clamped into range, the configured cap is applied, and the result is
// persisted immediately.
func (s *Service) Import(ctx context.Context, snap history.Snapshot) history.CurrentState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = history.Restore(snap)

	if max := s.config.History.MaxEntries; max > 0 {
		if dropped := s.state.TrimFront(max); dropped > 0 {
			s.log.Warn().Int("dropped", dropped).Int("max", max).Msg("imported history capped")
		}
	}

	s.persist(ctx, "import")
	s.log.Info().Int("entries", s.state.Len()).Msg("history imported")

	return history.CurrentStateOf(s.state)
}

// PersistFailures returns how many snapshot saves have failed since startup.
func (s *Service) PersistFailures() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.persistFailures
}

// Close performs a final save and releases the store.
func (s *Service) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saveErr := s.store.Save(ctx, s.state.Snapshot())
	if saveErr != nil {
		s.persistFailures++
		s.log.Error().Err(saveErr).Msg("final save failed")
		saveErr = fmt.Errorf("final save: %w", saveErr)
	}

	if err := s.store.Close(); err != nil {
		return fmt.Errorf("close store: %w", err)
	}

	return saveErr
}

// persist saves the current snapshot. Failures are logged and counted, never
// propagated; callers have already committed the in-memory mutation.
func (s *Service) persist(ctx context.Context, op string) {
	if err := s.store.Save(ctx, s.state.Snapshot()); err != nil {
		s.persistFailures++
		s.log.Error().Err(err).Str("op", op).Msg("failed to persist history")
	}
}

// blocked reports whether the normalized address matches any blocklist
// pattern. Patterns are tried against the full address and its label.
func (s *Service) blocked(norm history.Normalized) bool {
	for _, pattern := range s.config.History.BlockedURLs {
		if ok, _ := doublestar.Match(pattern, norm.Address); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, norm.Label); ok {
			return true
		}
	}
	return false
}
