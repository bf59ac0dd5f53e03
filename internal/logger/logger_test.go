package logger_test

import (
	"bytes"
	"testing"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want logger.LogLevel
	}{
		{"debug", logger.DebugLevel},
		{"info", logger.InfoLevel},
		{"", logger.InfoLevel},
		{"warning", logger.WarnLevel},
		{"warn", logger.WarnLevel},
		{"error", logger.ErrorLevel},
	}

	for _, tt := range tests {
		level, err := logger.ParseLevel(tt.name)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, level, tt.name)
	}

	_, err := logger.ParseLevel("verbose")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, logger.WarnLevel, true)
	t.Cleanup(func() { logger.SetLogLevel(logger.InfoLevel) })

	logger.Info().Msg("lap completed")
	logger.Warn().Str("wheel", "FR").Msg("tyre overheating")

	out := buf.String()
	assert.NotContains(t, out, "lap completed")
	assert.Contains(t, out, "tyre overheating")
	assert.Contains(t, out, "wheel=")
}

func TestErrorWithCode(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, logger.DebugLevel, true)
	t.Cleanup(func() { logger.SetLogLevel(logger.InfoLevel) })

	err := errors.New().WithData(errors.ErrInvalidInterval, "0s")
	logger.For("monitor").ErrorWithContext(err, "run").Msg("poll failed")

	out := buf.String()
	assert.Contains(t, out, "invalid_interval")
	assert.Contains(t, out, "component=")
	assert.Contains(t, out, "operation=")
	assert.Contains(t, out, "poll failed")

	buf.Reset()
	logger.ErrorWithCode(assert.AnError).Msg("plain failure")
	assert.NotContains(t, buf.String(), "error_code=")
	assert.Contains(t, buf.String(), "plain failure")
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(&buf, logger.DebugLevel, true)
	t.Cleanup(func() { logger.SetLogLevel(logger.InfoLevel) })

	logger.For("history").Info().Msg("flushed")
	assert.Contains(t, buf.String(), "history")

	buf.Reset()
	logger.Default().With("speech").Warn().Msg("fallback")
	assert.Contains(t, buf.String(), "speech")

	buf.Reset()
	logger.Default().Info().Msg("plain")
	assert.NotContains(t, buf.String(), "component=")
}
