package assistant

import (
	"codeberg.org/mutker/overtake/internal/engine"
	"codeberg.org/mutker/overtake/internal/telemetry"
)

// Responder turns a driver question into a display string. The keyword
// implementation can be swapped for a language-model backend without
// touching the metrics engine.
type Responder interface {
	Answer(question string, m engine.DerivedMetrics, c Context) string
}

// Context carries the snapshot values a reply may quote that are not part
// of the derived metrics.
type Context struct {
	AveragePressure float64
	CurrentPosition int
}

// ContextFrom builds the reply context for a snapshot
func ContextFrom(s telemetry.Snapshot) Context {
	return Context{
		AveragePressure: s.AverageTirePressure(),
		CurrentPosition: s.CurrentPosition,
	}
}
