// Package engine derives race metrics from a telemetry snapshot. Every
// function here is pure: same snapshot in, same metrics out.
package engine

import (
	"fmt"
	"math"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/telemetry"
)

const (
	tireTempMin     = 70.0
	tireTempMax     = 95.0
	tirePressureMin = 22.0
	tirePressureMax = 24.0

	kmhToMs             = 1000.0 / 3600.0
	timeGapThreshold    = 10.0 // gaps up to this value are seconds, not meters
	minClosingSpeed     = 0.1  // m/s
	baseStintLaps       = 30.0
	passWindowFraction  = 0.6
	minPitWindowLaps    = 3.0
	aggressivePassLimit = 15.0
	pitNowLaps          = 3
	hotTyreAverage      = 95.0
	warmTyreAverage     = 90.0
	highThrottle        = 90.0
)

// Evaluate computes every derived metric for s. throttle feeds the
// recommendation only. The snapshot is rejected if it carries non-finite
// values; everything else is computed as-is.
func Evaluate(s telemetry.Snapshot, throttle float64) (DerivedMetrics, error) {
	errFactory := errors.New()

	if err := s.Validate(); err != nil {
		return DerivedMetrics{}, errFactory.Wrap(ErrInvalidSnapshot, err)
	}
	if math.IsNaN(throttle) || math.IsInf(throttle, 0) {
		return DerivedMetrics{}, errFactory.WithData(ErrInvalidThrottle, throttle)
	}

	avgTemp := s.AverageTireTemperature()
	pass := PredictPass(s.Speed, s.FrontSpeed, s.DistanceToFront)
	pit := PredictPit(avgTemp, s.TrackTemperature, s.AverageTirePressure(), s.LapTimeSeconds)

	m := DerivedMetrics{
		AverageTireTemperature: avgTemp,
		AverageTirePressure:    s.AverageTirePressure(),
		Pass:                   pass,
		Pit:                    pit,
		CurrentPosition:        s.CurrentPosition,
		PredictedPlacement:     PredictPlacement(s, pass, pit),
		Recommendation:         Recommend(avgTemp, pass, pit, throttle),
	}
	for _, w := range telemetry.Wheels {
		m.TireHealth[w] = TireHealthy(s.TireTemperatures[w], s.TirePressures[w])
	}

	return m, nil
}

// TireHealthy reports whether one wheel is inside both operating windows.
// Bounds are inclusive.
func TireHealthy(temperature, pressure float64) bool {
	return temperature >= tireTempMin && temperature <= tireTempMax &&
		pressure >= tirePressureMin && pressure <= tirePressureMax
}

// PredictPass estimates the time to close the gap to the car ahead.
func PredictPass(speed, frontSpeed, distanceToFront float64) PassPrediction {
	closing := (speed - frontSpeed) * kmhToMs

	distance := distanceToFront
	if distanceToFront > 0 && distanceToFront <= timeGapThreshold {
		distance = frontSpeed * kmhToMs * distanceToFront
	}

	if closing <= minClosingSpeed {
		return PassPrediction{Seconds: math.Inf(1), Text: NoPassText}
	}

	seconds := distance / closing
	return PassPrediction{
		Seconds: seconds,
		Text:    fmt.Sprintf("%.1f s", seconds),
	}
}

// PredictPit estimates how many laps the current tyres have left.
func PredictPit(avgTireTemp, trackTemp, avgPressure, lapTimeSeconds float64) PitPrediction {
	temperatureFactor := math.Max(0.5, 1-(avgTireTemp-70)/80)
	trackFactor := math.Max(0.85, 1-(trackTemp-30)/200)
	pressureFactor := 1 - math.Max(0, (avgPressure-23)/30)

	laps := int(math.Max(1, roundHalfUp(baseStintLaps*temperatureFactor*trackFactor*pressureFactor)))
	seconds := float64(laps) * lapTimeSeconds

	return PitPrediction{
		Laps:    laps,
		Seconds: seconds,
		Text:    fmt.Sprintf("%d laps (~%d min)", laps, int(roundHalfUp(seconds/60))),
	}
}

// PredictPlacement adjusts the current position by the pass and pit
// outlook. Both adjustments apply to the same base independently. The
// result never drops below 1 and is capped at the field size when known.
func PredictPlacement(s telemetry.Snapshot, pass PassPrediction, pit PitPrediction) int {
	placement := s.CurrentPosition
	raceTimeLeft := float64(s.RemainingLaps) * s.LapTimeSeconds

	if pass.Expected() && pass.Seconds < raceTimeLeft*passWindowFraction {
		placement = max(1, placement-1)
	}
	if float64(pit.Laps) < math.Max(minPitWindowLaps, float64(s.RemainingLaps)/2) {
		placement++
	}
	if s.FieldSize > 0 && placement > s.FieldSize {
		placement = s.FieldSize
	}

	return placement
}

type recommendationRule struct {
	text  string
	match func(avgTemp float64, pass PassPrediction, pit PitPrediction, throttle float64) bool
}

var recommendationRules = []recommendationRule{
	{
		text: RecommendCoolTyres,
		match: func(avgTemp float64, _ PassPrediction, _ PitPrediction, _ float64) bool {
			return avgTemp > hotTyreAverage
		},
	},
	{
		text: RecommendAggressivePass,
		match: func(_ float64, pass PassPrediction, _ PitPrediction, _ float64) bool {
			return pass.Expected() && pass.Seconds < aggressivePassLimit
		},
	},
	{
		text: RecommendPitNow,
		match: func(_ float64, _ PassPrediction, pit PitPrediction, _ float64) bool {
			return pit.Laps <= pitNowLaps
		},
	},
	{
		text: RecommendEaseThrottle,
		match: func(avgTemp float64, _ PassPrediction, _ PitPrediction, throttle float64) bool {
			return throttle > highThrottle && avgTemp > warmTyreAverage
		},
	},
}

// Recommend returns the first matching advisory, or the default.
func Recommend(avgTireTemp float64, pass PassPrediction, pit PitPrediction, throttle float64) string {
	for _, rule := range recommendationRules {
		if rule.match(avgTireTemp, pass, pit, throttle) {
			return rule.text
		}
	}
	return RecommendMaintainPace
}

// roundHalfUp rounds .5 towards +Inf, matching the dashboard's rounding of
// negative inputs.
func roundHalfUp(x float64) float64 {
	return math.Floor(x + 0.5)
}
