package engine

import (
	"encoding/json"
	"math"

	"codeberg.org/mutker/overtake/internal/telemetry"
)

// Recommendation texts, in priority order
const (
	RecommendCoolTyres      = "Cool the tyres by backing off for 1–2 laps"
	RecommendAggressivePass = "Attempt an aggressive pass now"
	RecommendPitNow         = "Pit this lap for fresh tyres"
	RecommendEaseThrottle   = "Lower throttle slightly to preserve tyres"
	RecommendMaintainPace   = "Maintain pace; monitor tyre temps"
)

// NoPassText is reported when the car is not closing on the one ahead
const NoPassText = "No pass expected (not faster)"

// DerivedMetrics is recomputed in full from every snapshot
type DerivedMetrics struct {
	AverageTireTemperature float64                    `json:"averageTireTemperature"`
	AverageTirePressure    float64                    `json:"averageTirePressure"`
	TireHealth             [telemetry.WheelCount]bool `json:"tireHealth"`
	Pass                   PassPrediction             `json:"passPrediction"`
	Pit                    PitPrediction              `json:"pitPrediction"`
	CurrentPosition        int                        `json:"currentPosition"`
	PredictedPlacement     int                        `json:"predictedPlacement"`
	Recommendation         string                     `json:"recommendation"`
}

// PassPrediction is the estimated time to catch the car ahead. Seconds is
// +Inf when no pass is expected.
type PassPrediction struct {
	Seconds float64
	Text    string
}

// Expected reports whether a pass is predicted at all
func (p PassPrediction) Expected() bool {
	return !math.IsInf(p.Seconds, 0) && !math.IsNaN(p.Seconds)
}

// MarshalJSON encodes an infinite estimate as null
func (p PassPrediction) MarshalJSON() ([]byte, error) {
	out := struct {
		Seconds *float64 `json:"seconds"`
		Text    string   `json:"readableText"`
	}{Text: p.Text}
	if p.Expected() {
		s := p.Seconds
		out.Seconds = &s
	}
	return json.Marshal(out)
}

// UnmarshalJSON treats a null estimate as +Inf
func (p *PassPrediction) UnmarshalJSON(data []byte) error {
	var in struct {
		Seconds *float64 `json:"seconds"`
		Text    string   `json:"readableText"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	p.Text = in.Text
	p.Seconds = math.Inf(1)
	if in.Seconds != nil {
		p.Seconds = *in.Seconds
	}
	return nil
}

// PitPrediction is the estimated remaining stint length
type PitPrediction struct {
	Laps    int     `json:"estimatedLaps"`
	Seconds float64 `json:"seconds"`
	Text    string  `json:"readableText"`
}
