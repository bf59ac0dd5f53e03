package monitor

import (
	"sync"
	"time"

	"codeberg.org/mutker/overtake/internal/engine"
	"codeberg.org/mutker/overtake/internal/telemetry"
)

// State is the latest successfully evaluated snapshot
type State struct {
	Snapshot  telemetry.Snapshot    `json:"snapshot"`
	Metrics   engine.DerivedMetrics `json:"metrics"`
	UpdatedAt time.Time             `json:"updatedAt"`
}

// Store keeps the last good State. A failed fetch or evaluation never
// reaches it, so readers keep seeing the previous metrics.
type Store struct {
	mu     sync.RWMutex
	latest State
	valid  bool
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Latest() (State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest, s.valid
}

func (s *Store) Publish(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = st
	s.valid = true
}
