package telemetry

import (
	"context"
	"time"
)

// Provider supplies telemetry snapshots. Implementations either return a
// fully populated snapshot or fail.
type Provider interface {
	Fetch(ctx context.Context) (Snapshot, error)
}

// Wheel indexes the per-wheel tire arrays
type Wheel int

const (
	FrontRight Wheel = iota
	RearRight
	FrontLeft
	RearLeft
)

// WheelCount is the fixed number of entries in every per-wheel array
const WheelCount = 4

// Wheels lists every wheel in array order
var Wheels = [WheelCount]Wheel{FrontRight, RearRight, FrontLeft, RearLeft}

func (w Wheel) String() string {
	switch w {
	case FrontRight:
		return "FR"
	case RearRight:
		return "RR"
	case FrontLeft:
		return "FL"
	case RearLeft:
		return "RL"
	default:
		return "unknown"
	}
}

// Snapshot is one immutable set of car and session values. It is passed
// by value; changing any input means building a new Snapshot.
type Snapshot struct {
	Timestamp time.Time
	SessionID string

	// Gap to the car ahead. Values in (0, 10] are a time gap in seconds,
	// anything else is a distance in meters.
	DistanceToFront float64
	Speed           float64 // km/h
	FrontSpeed      float64 // km/h

	TireTemperatures [WheelCount]float64 // °C, FR RR FL RL
	TirePressures    [WheelCount]float64 // psi, same order

	TrackTemperature float64
	AirTemperature   float64
	LapTimeSeconds   float64
	RemainingLaps    int
	CurrentPosition  int
	FieldSize        int // 0 when unknown

	Throttle float64 // percent
	Brake    float64 // percent
	RPM      int
	Gear     int
	Sector   int
}
