package telemetry

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DefaultSnapshot returns the dashboard's reference session
func DefaultSnapshot() Snapshot {
	return Snapshot{
		SessionID:        "10033",
		DistanceToFront:  2.5,
		Speed:            300,
		FrontSpeed:       295,
		TireTemperatures: [WheelCount]float64{85, 86, 84, 83},
		TirePressures:    [WheelCount]float64{23.0, 23.0, 22.8, 22.8},
		TrackTemperature: 40,
		AirTemperature:   30,
		LapTimeSeconds:   109.83,
		RemainingLaps:    20,
		CurrentPosition:  5,
		FieldSize:        20,
		Throttle:         90,
		Brake:            20,
		RPM:              13000,
		Gear:             6,
		Sector:           2,
	}
}

// AverageTireTemperature is the arithmetic mean of the four wheels
func (s Snapshot) AverageTireTemperature() float64 {
	return mean(s.TireTemperatures)
}

// AverageTirePressure is the arithmetic mean of the four wheels
func (s Snapshot) AverageTirePressure() float64 {
	return mean(s.TirePressures)
}

func mean(v [WheelCount]float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / WheelCount
}

// Validate rejects snapshots carrying non-finite numbers. Range checks are
// deliberately absent: out-of-range values flow through the formulas.
func (s Snapshot) Validate() error {
	scalars := []struct {
		name  string
		value float64
	}{
		{"distanceToFront", s.DistanceToFront},
		{"speed", s.Speed},
		{"frontSpeed", s.FrontSpeed},
		{"trackTemperature", s.TrackTemperature},
		{"airTemperature", s.AirTemperature},
		{"lapTimeSeconds", s.LapTimeSeconds},
		{"throttle", s.Throttle},
		{"brake", s.Brake},
	}
	for _, f := range scalars {
		if !finite(f.value) {
			return invalidField(f.name, "must be a finite number")
		}
	}

	for _, w := range Wheels {
		if !finite(s.TireTemperatures[w]) {
			return invalidField(fmt.Sprintf("tireTemperatures[%d]", w), "must be a finite number")
		}
		if !finite(s.TirePressures[w]) {
			return invalidField(fmt.Sprintf("tirePressures[%d]", w), "must be a finite number")
		}
	}

	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

type snapshotJSON struct {
	Timestamp        int64     `json:"timestamp,omitempty"` // unix millis
	SessionID        string    `json:"sessionId,omitempty"`
	DistanceToFront  float64   `json:"distanceToFront"`
	Speed            float64   `json:"speed"`
	FrontSpeed       float64   `json:"frontSpeed"`
	TireTemperatures []float64 `json:"tireTemps"`
	TirePressures    []float64 `json:"tirePressure"`
	TrackTemperature float64   `json:"trackTemp"`
	AirTemperature   float64   `json:"airTemp"`
	LapTimeSeconds   float64   `json:"lapTimeSec"`
	RemainingLaps    int       `json:"remainingLaps"`
	CurrentPosition  int       `json:"currentPosition"`
	FieldSize        int       `json:"fieldSize,omitempty"`
	Throttle         float64   `json:"throttle"`
	Brake            float64   `json:"brake"`
	RPM              int       `json:"rpm"`
	Gear             int       `json:"gear"`
	Sector           int       `json:"sector"`
}

// MarshalJSON encodes the snapshot in the dashboard's field naming
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{
		SessionID:        s.SessionID,
		DistanceToFront:  s.DistanceToFront,
		Speed:            s.Speed,
		FrontSpeed:       s.FrontSpeed,
		TireTemperatures: s.TireTemperatures[:],
		TirePressures:    s.TirePressures[:],
		TrackTemperature: s.TrackTemperature,
		AirTemperature:   s.AirTemperature,
		LapTimeSeconds:   s.LapTimeSeconds,
		RemainingLaps:    s.RemainingLaps,
		CurrentPosition:  s.CurrentPosition,
		FieldSize:        s.FieldSize,
		Throttle:         s.Throttle,
		Brake:            s.Brake,
		RPM:              s.RPM,
		Gear:             s.Gear,
		Sector:           s.Sector,
	}
	if !s.Timestamp.IsZero() {
		out.Timestamp = s.Timestamp.UnixMilli()
	}
	return json.Marshal(out)
}

// requiredFields must be present and non-null in a decoded snapshot
var requiredFields = []string{
	"distanceToFront",
	"speed",
	"frontSpeed",
	"trackTemp",
	"airTemp",
	"lapTimeSec",
	"remainingLaps",
	"currentPosition",
}

// UnmarshalJSON decodes a snapshot. It fails when a tire array does not
// hold exactly one value per wheel or a required scalar is missing.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if len(in.TireTemperatures) != WheelCount {
		return invalidField("tireTemps", fmt.Sprintf("must have %d elements, got %d", WheelCount, len(in.TireTemperatures)))
	}
	if len(in.TirePressures) != WheelCount {
		return invalidField("tirePressure", fmt.Sprintf("must have %d elements, got %d", WheelCount, len(in.TirePressures)))
	}

	var present map[string]json.RawMessage
	if err := json.Unmarshal(data, &present); err != nil {
		return err
	}
	for _, name := range requiredFields {
		if raw, ok := present[name]; !ok || string(raw) == "null" {
			return invalidField(name, "is required")
		}
	}

	*s = Snapshot{
		SessionID:        in.SessionID,
		DistanceToFront:  in.DistanceToFront,
		Speed:            in.Speed,
		FrontSpeed:       in.FrontSpeed,
		TrackTemperature: in.TrackTemperature,
		AirTemperature:   in.AirTemperature,
		LapTimeSeconds:   in.LapTimeSeconds,
		RemainingLaps:    in.RemainingLaps,
		CurrentPosition:  in.CurrentPosition,
		FieldSize:        in.FieldSize,
		Throttle:         in.Throttle,
		Brake:            in.Brake,
		RPM:              in.RPM,
		Gear:             in.Gear,
		Sector:           in.Sector,
	}
	copy(s.TireTemperatures[:], in.TireTemperatures)
	copy(s.TirePressures[:], in.TirePressures)
	if in.Timestamp != 0 {
		s.Timestamp = time.UnixMilli(in.Timestamp)
	}

	return nil
}
