package history

import (
	"context"
	"time"

	"codeberg.org/mutker/overtake/internal/engine"
	"codeberg.org/mutker/overtake/internal/telemetry"
)

// Recorder defines the core domain interface
type Recorder interface {
	Record(ctx context.Context, record *Record) error
	Close() error
}

// Repository defines the interface for history data storage
type Repository interface {
	Record(record *Record) error
	Close() error
}

// Record is one evaluated snapshot
type Record struct {
	Timestamp time.Time
	Snapshot  telemetry.Snapshot
	Metrics   engine.DerivedMetrics
}

// NewRecord pairs a snapshot with its metrics, stamping it with the
// snapshot time or now.
func NewRecord(s telemetry.Snapshot, m engine.DerivedMetrics) *Record {
	ts := s.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	return &Record{Timestamp: ts, Snapshot: s, Metrics: m}
}

// healthyWheels packs the per-wheel health flags into a bitmask, FR in bit 0
func healthyWheels(m engine.DerivedMetrics) int {
	mask := 0
	for i, ok := range m.TireHealth {
		if ok {
			mask |= 1 << i
		}
	}
	return mask
}
