package telemetry_test

import (
	"encoding/json"
	"math"
	"testing"

	"codeberg.org/mutker/overtake/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSnapshotIsValid(t *testing.T) {
	require.NoError(t, telemetry.DefaultSnapshot().Validate())
}

func TestAverages(t *testing.T) {
	s := telemetry.DefaultSnapshot()

	assert.InDelta(t, 84.5, s.AverageTireTemperature(), 1e-9)
	assert.InDelta(t, 22.9, s.AverageTirePressure(), 1e-9)
}

func TestValidateRejectsNonFinite(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*telemetry.Snapshot)
		field  string
	}{
		{"nan speed", func(s *telemetry.Snapshot) { s.Speed = math.NaN() }, "speed"},
		{"inf gap", func(s *telemetry.Snapshot) { s.DistanceToFront = math.Inf(1) }, "distanceToFront"},
		{"nan lap time", func(s *telemetry.Snapshot) { s.LapTimeSeconds = math.NaN() }, "lapTimeSeconds"},
		{"inf tire temp", func(s *telemetry.Snapshot) { s.TireTemperatures[2] = math.Inf(-1) }, "tireTemperatures[2]"},
		{"nan pressure", func(s *telemetry.Snapshot) { s.TirePressures[3] = math.NaN() }, "tirePressures[3]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := telemetry.DefaultSnapshot()
			tt.mutate(&s)

			err := s.Validate()
			require.Error(t, err)

			fe, ok := telemetry.InvalidField(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestValidateAllowsOutOfRangeValues(t *testing.T) {
	s := telemetry.DefaultSnapshot()
	s.RemainingLaps = -3
	s.Speed = -10

	assert.NoError(t, s.Validate())
}

func TestUnmarshalRequiresFourWheels(t *testing.T) {
	payload := []byte(`{"distanceToFront":2.5,"speed":300,"frontSpeed":295,
		"tireTemps":[85,86,84],"tirePressure":[23,23,22.8,22.8],"lapTimeSec":109.83}`)

	var s telemetry.Snapshot
	err := json.Unmarshal(payload, &s)
	require.Error(t, err)

	fe, ok := telemetry.InvalidField(err)
	require.True(t, ok)
	assert.Equal(t, "tireTemps", fe.Field)
}

func TestUnmarshalRequiresScalars(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		field   string
	}{
		{
			name: "missing lap time",
			payload: `{"distanceToFront":2.5,"speed":300,"frontSpeed":295,"trackTemp":40,"airTemp":30,
				"remainingLaps":20,"currentPosition":5,
				"tireTemps":[85,86,84,83],"tirePressure":[23,23,22.8,22.8]}`,
			field: "lapTimeSec",
		},
		{
			name:    "tyres only",
			payload: `{"tireTemps":[80,80,80,80],"tirePressure":[23,23,23,23]}`,
			field:   "distanceToFront",
		},
		{
			name: "null position",
			payload: `{"distanceToFront":2.5,"speed":300,"frontSpeed":295,"trackTemp":40,"airTemp":30,
				"lapTimeSec":109.83,"remainingLaps":20,"currentPosition":null,
				"tireTemps":[85,86,84,83],"tirePressure":[23,23,22.8,22.8]}`,
			field: "currentPosition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s telemetry.Snapshot
			err := json.Unmarshal([]byte(tt.payload), &s)
			require.Error(t, err)

			fe, ok := telemetry.InvalidField(err)
			require.True(t, ok)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, "is required", fe.Reason)
		})
	}
}

func TestJSONRoundTripKeepsWheelOrder(t *testing.T) {
	in := telemetry.DefaultSnapshot()
	in.TireTemperatures = [4]float64{71, 72, 73, 74}

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"tireTemps":[71,72,73,74]`)

	var out telemetry.Snapshot
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestWheelString(t *testing.T) {
	assert.Equal(t, "FR", telemetry.FrontRight.String())
	assert.Equal(t, "RL", telemetry.RearLeft.String())
	assert.Equal(t, "unknown", telemetry.Wheel(9).String())
}
