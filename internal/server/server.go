// Package server exposes evaluation, chat and live metrics over HTTP and
// WebSocket.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"codeberg.org/mutker/overtake/internal/assistant"
	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
	"codeberg.org/mutker/overtake/internal/monitor"
	"codeberg.org/mutker/overtake/internal/timing"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// StateReader yields the latest evaluated state, if any
type StateReader interface {
	Latest() (monitor.State, bool)
}

type Server struct {
	cfg        Config
	httpServer *http.Server
	router     *mux.Router
	limiter    *rate.Limiter
	state      StateReader
	responder  assistant.Responder
	session    timing.Session
	hub        *Hub

	mu    sync.RWMutex
	ready bool
}

type Option func(*Server)

// WithSession replaces the reference timing data
func WithSession(session timing.Session) Option {
	return func(s *Server) {
		s.session = session
	}
}

func New(cfg Config, state StateReader, responder assistant.Responder, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Server{
		cfg:       cfg,
		limiter:   rate.NewLimiter(cfg.RateLimit, cfg.RateLimitBurst),
		state:     state,
		responder: responder,
		session:   timing.DefaultSession(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.hub = NewHub(state, responder)
	s.router = s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s, nil
}

func (s *Server) setupRoutes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestIDMiddleware, s.metricsMiddleware, s.panicRecoveryMiddleware, s.loggingMiddleware)

	// System endpoints, not rate limited
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ready", s.handleReady).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/v1").Subrouter()
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/evaluate", s.handleEvaluate).Methods(http.MethodPost)
	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", s.handleLeaderboard).Methods(http.MethodGet)
	api.HandleFunc("/live", s.hub.ServeHTTP).Methods(http.MethodGet)

	return r
}

// Handler returns the routed handler with all middleware applied
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the live channel, which the monitor publishes to
func (s *Server) Hub() *Hub {
	return s.hub
}

func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	s.SetReady(true)
	logger.Info().Str("address", s.httpServer.Addr).Msg("Starting HTTP server")

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		s.SetReady(false)
		return errors.New().Wrap(ErrListenFailed, err)
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.SetReady(false)
	s.hub.Close()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	logger.Info().Msg("Shutting down HTTP server")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return errors.New().Wrap(ErrShutdownFailed, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Debug().Err(err).Msg("Failed to write response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int,
	code, message string, retryable bool, details map[string]any) {

	id := requestID(r)
	if id == "" {
		id = uuid.New().String()
	}

	writeJSON(w, status, ErrorResponse{
		Code:      code,
		Message:   message,
		Details:   details,
		RequestID: id,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}
