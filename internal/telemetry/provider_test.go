package telemetry_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyntheticProviderStream(t *testing.T) {
	fixed := time.Date(2025, 10, 19, 14, 0, 0, 0, time.UTC)
	p := telemetry.NewSyntheticProvider(telemetry.DefaultSnapshot(),
		telemetry.WithDelay(0),
		telemetry.WithSampleCount(3),
		telemetry.WithClock(func() time.Time { return fixed }),
	)

	first, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 280.0, first.Speed)
	assert.Equal(t, 20.0, first.Brake)
	assert.Equal(t, 1, first.Sector)
	assert.Equal(t, fixed, first.Timestamp)
	assert.Equal(t, [4]float64{85, 84, 86, 83}, first.TireTemperatures)

	second, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 281.0, second.Speed)
	assert.Equal(t, 12200, second.RPM)
	assert.InDelta(t, 2.45, second.DistanceToFront, 1e-9)
	assert.Equal(t, 2, second.Sector)

	_, err = p.Fetch(context.Background())
	require.NoError(t, err)

	wrapped, err := p.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, wrapped)
}

func TestSyntheticProviderHonorsCancellation(t *testing.T) {
	p := telemetry.NewSyntheticProvider(telemetry.DefaultSnapshot(), telemetry.WithDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Fetch(ctx)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrOperationTimeout))
}

func TestHTTPProviderFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(telemetry.DefaultSnapshot())
	}))
	defer srv.Close()

	p := telemetry.NewHTTPProvider(srv.URL)
	s, err := p.Fetch(context.Background())
	require.NoError(t, err)

	want := telemetry.DefaultSnapshot()
	assert.Equal(t, want.TirePressures, s.TirePressures)
	assert.Equal(t, want.CurrentPosition, s.CurrentPosition)
	assert.False(t, s.Timestamp.IsZero())
}

func TestHTTPProviderStreamExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"no more data"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := telemetry.NewHTTPProvider(srv.URL).Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrStreamExhausted))
}

func TestHTTPProviderRejectsShortTireArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"tireTemps":[80,80,80,80],"tirePressure":[23,23]}`))
	}))
	defer srv.Close()

	_, err := telemetry.NewHTTPProvider(srv.URL).Fetch(context.Background())
	require.Error(t, err)

	fe, ok := telemetry.InvalidField(err)
	require.True(t, ok)
	assert.Equal(t, "tirePressure", fe.Field)
}

func TestNewProviderValidatesConfig(t *testing.T) {
	_, err := telemetry.NewProvider(telemetry.Config{Source: telemetry.SourceHTTP}, telemetry.DefaultSnapshot())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidEndpoint))

	_, err = telemetry.NewProvider(telemetry.Config{Source: "kafka"}, telemetry.DefaultSnapshot())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, telemetry.ErrInvalidConfig))

	p, err := telemetry.NewProvider(telemetry.DefaultConfig(), telemetry.DefaultSnapshot())
	require.NoError(t, err)
	assert.IsType(t, &telemetry.SyntheticProvider{}, p)
}
