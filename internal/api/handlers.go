package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/keladin/retrace/internal/core/history"
	"github.com/keladin/retrace/internal/retrace"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Success:      true,
		Message:      "Navigation history service is running",
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		HistoryCount: s.service.Count(),
	})
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.service.Current(), "")
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.service.History(), "")
}

// visitRequest decodes the url field loosely so a non-string value can be
// rejected with a clear message instead of a generic decode error.
type visitRequest struct {
	URL any `json:"url"`
}

func (s *Server) handleVisit(w http.ResponseWriter, r *http.Request) {
	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	raw, ok := req.URL.(string)
	if !ok || raw == "" {
		writeError(w, http.StatusBadRequest, "URL is required and must be a string")
		return
	}

	state, err := s.service.Visit(r.Context(), raw)
	switch {
	case errors.Is(err, history.ErrInvalidURL):
		writeError(w, http.StatusBadRequest, "Invalid URL format")
		return
	case errors.Is(err, retrace.ErrBlocked):
		writeError(w, http.StatusForbidden, "URL is blocked")
		return
	case err != nil:
		s.log.Error().Err(err).Msg("visit failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, state, "Visited "+state.CurrentAddress)
}

func (s *Server) handleBack(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.Back(r.Context())
	if err != nil {
		if errors.Is(err, history.ErrAtBeginning) {
			writeError(w, http.StatusBadRequest, "Already at the beginning of history")
			return
		}
		s.log.Error().Err(err).Msg("back failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, state, "Navigated back")
}

func (s *Server) handleForward(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.Forward(r.Context())
	if err != nil {
		if errors.Is(err, history.ErrAtEnd) {
			writeError(w, http.StatusBadRequest, "Already at the end of history")
			return
		}
		s.log.Error().Err(err).Msg("forward failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeData(w, http.StatusOK, state, "Navigated forward")
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	state := s.service.Clear(r.Context())
	writeData(w, http.StatusOK, state, "History cleared")
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Endpoint not found")
}
