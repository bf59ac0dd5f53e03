package server

import (
	"time"

	"codeberg.org/mutker/overtake/internal/engine"
	"codeberg.org/mutker/overtake/internal/telemetry"
	"codeberg.org/mutker/overtake/internal/timing"
)

type contextKey string

const contextKeyRequestID contextKey = "requestID"

// ErrorResponse is the body of every non-2xx API reply
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Reason    string    `json:"reason,omitempty"`
}

// EvaluateRequest carries a snapshot to evaluate. Throttle overrides the
// snapshot's own throttle when set.
type EvaluateRequest struct {
	Snapshot *telemetry.Snapshot `json:"snapshot"`
	Throttle *float64            `json:"throttle,omitempty"`
}

type ChatRequest struct {
	Question string `json:"question"`
}

type ChatResponse struct {
	Question string                `json:"question"`
	Answer   string                `json:"answer"`
	Metrics  engine.DerivedMetrics `json:"metrics"`
}

type LapResponse struct {
	timing.Lap
	Classes [timing.SectorCount]timing.SectorClass `json:"classes"`
}

type LeaderboardResponse struct {
	Position       int                         `json:"position"`
	Window         []timing.Entry              `json:"window"`
	Laps           []LapResponse               `json:"laps"`
	PersonalBest   [timing.SectorCount]float64 `json:"personalBest"`
	FastestOnTrack [timing.SectorCount]float64 `json:"fastestOnTrack"`
}

// Message is the live channel envelope
type Message struct {
	Type string `json:"type"`
	Body any    `json:"body"`
}

const (
	MessageMetrics = "metrics"
	MessageChat    = "chat"
	MessageAnswer  = "answer"
	MessageError   = "error"
)
