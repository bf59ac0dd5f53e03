package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"codeberg.org/mutker/overtake/internal/engine"
	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/telemetry"
	"codeberg.org/mutker/overtake/internal/timing"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()

	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:    "not_ready",
			Timestamp: time.Now(),
			Reason:    "service is initializing",
		})
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ready",
		Timestamp: time.Now(),
	})
}

// handleEvaluate evaluates the posted snapshot without touching the
// monitored state.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeInvalid(w, r, err)
		return
	}
	if req.Snapshot == nil {
		writeError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
			"snapshot is required", false, nil)
		return
	}

	throttle := req.Snapshot.Throttle
	if req.Throttle != nil {
		throttle = *req.Throttle
	}

	metrics, err := engine.Evaluate(*req.Snapshot, throttle)
	if err != nil {
		writeInvalid(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, metrics)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeInvalid(w, r, err)
		return
	}

	resp, ok := answer(s.state, s.responder, req.Question)
	if !ok {
		writeNoTelemetry(w, r)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	st, ok := s.state.Latest()
	if !ok {
		writeNoTelemetry(w, r)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleLeaderboard returns the rows around ?position=, or around the
// car's current position when the query is absent.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	var position int
	if q := r.URL.Query().Get("position"); q != "" {
		p, err := strconv.Atoi(q)
		if err != nil || p < 1 {
			writeError(w, r, http.StatusBadRequest, ErrCodeBadRequest,
				"position must be a positive integer", false, map[string]any{"position": q})
			return
		}
		position = p
	} else {
		st, ok := s.state.Latest()
		if !ok {
			writeNoTelemetry(w, r)
			return
		}
		position = st.Snapshot.CurrentPosition
	}

	classes := s.session.LapClasses()
	laps := make([]LapResponse, len(s.session.Laps))
	for i, lap := range s.session.Laps {
		laps[i] = LapResponse{Lap: lap, Classes: classes[i]}
	}

	writeJSON(w, http.StatusOK, LeaderboardResponse{
		Position:       position,
		Window:         timing.Window(s.session.Leaderboard, position),
		Laps:           laps,
		PersonalBest:   s.session.PersonalBest,
		FastestOnTrack: s.session.FastestOnTrack,
	})
}

func writeNoTelemetry(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusServiceUnavailable, ErrCodeNoTelemetry,
		"No telemetry has been evaluated yet", true, nil)
}

// writeInvalid reports a decode or validation failure, naming the
// offending snapshot field when there is one.
func writeInvalid(w http.ResponseWriter, r *http.Request, err error) {
	code := ErrCodeBadRequest
	if c := errors.CodeOf(err); c != "" {
		code = string(c)
	}

	var details map[string]any
	if fe, ok := telemetry.InvalidField(err); ok {
		details = map[string]any{"field": fe.Field, "reason": fe.Reason}
	}

	writeError(w, r, http.StatusBadRequest, code, err.Error(), false, details)
}
