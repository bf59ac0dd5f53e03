package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"codeberg.org/mutker/overtake/internal/config"
	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	configPath := filepath.Join(t.TempDir(), "overtake.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))
	return configPath
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
interval = "2s"
fetch_timeout = "3s"
log_level = "debug"
listen = "127.0.0.1:9090"
source = "http"
endpoint = "http://localhost:5000/next_data"
history = true
history_db = "/path/to/history.db"
voice_id = "JBFqnCBsd6RMkjVDRZzb"
rate_limit = 10.0
rate_burst = 20
`)
	t.Setenv("OVERTAKE_CONFIG", configPath)

	cfg, err := config.Load(nil, config.WithoutDotenv())
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Interval, "Expected Interval 2s")
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout, "Expected FetchTimeout 3s")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.Equal(t, "127.0.0.1:9090", cfg.Listen)
	assert.Equal(t, "http", cfg.Source)
	assert.Equal(t, "http://localhost:5000/next_data", cfg.Endpoint)
	assert.True(t, cfg.History, "Expected History true")
	assert.Equal(t, "/path/to/history.db", cfg.HistoryDB)
	assert.Equal(t, "JBFqnCBsd6RMkjVDRZzb", cfg.VoiceID)
	assert.InDelta(t, 10.0, cfg.RateLimit, 1e-9)
	assert.Equal(t, 20, cfg.RateBurst)
	assert.Equal(t, logger.DebugLevel, cfg.Level())

	sc := cfg.ServerConfig()
	assert.Equal(t, "127.0.0.1:9090", sc.Address)
	assert.InDelta(t, 10.0, float64(sc.RateLimit), 1e-9)
	assert.Equal(t, 20, sc.RateLimitBurst)

	mc := cfg.MonitorConfig()
	assert.Equal(t, 2*time.Second, mc.Interval)
	assert.Equal(t, 3*time.Second, mc.FetchTimeout)

	hc := cfg.HistoryConfig()
	assert.True(t, hc.Enabled)
	assert.Equal(t, "/path/to/history.db", hc.DBPath)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("OVERTAKE_CONFIG", "")

	cfg, err := config.Load(nil, config.WithoutDotenv(), config.WithSearchPaths(t.TempDir()))
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultInterval, cfg.Interval)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.Equal(t, config.DefaultListen, cfg.Listen)
	assert.Equal(t, "synthetic", cfg.Source)
	assert.False(t, cfg.History, "Expected default History false")
	assert.False(t, cfg.Once)
	assert.False(t, cfg.SpeechConfig().Enabled())
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	configPath := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("OVERTAKE_CONFIG", configPath)

	_, err := config.Load(nil, config.WithoutDotenv())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	configPath := writeConfig(t, `
log_level = "invalid"
`)
	t.Setenv("OVERTAKE_CONFIG", configPath)

	_, err := config.Load(nil, config.WithoutDotenv())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
}

func TestHTTPSourceRequiresEndpoint(t *testing.T) {
	t.Setenv("OVERTAKE_CONFIG", "")

	_, err := config.Load([]string{"--source", "http"}, config.WithoutDotenv())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestInvalidInterval(t *testing.T) {
	t.Setenv("OVERTAKE_CONFIG", "")

	_, err := config.Load([]string{"--interval", "0s"}, config.WithoutDotenv())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidInterval))
}

func TestFlagsOverrideFileAndEnv(t *testing.T) {
	configPath := writeConfig(t, `
log_level = "error"
listen = ":7000"
`)
	t.Setenv("OVERTAKE_LISTEN", ":7100")

	cfg, err := config.Load([]string{"--config", configPath, "--log-level", "debug"}, config.WithoutDotenv())
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
	assert.Equal(t, ":7100", cfg.Listen, "Expected env to override file")
}

func TestSpeechKeyFromEnvironment(t *testing.T) {
	t.Setenv("OVERTAKE_CONFIG", "")
	t.Setenv("ELEVENLABS_API_KEY", "sk_test")

	cfg, err := config.Load(nil, config.WithoutDotenv())
	require.NoError(t, err)
	assert.True(t, cfg.SpeechConfig().Enabled())
	assert.Equal(t, "sk_test", cfg.SpeechConfig().APIKey)
}

func TestCustomEnvPrefix(t *testing.T) {
	t.Setenv("OVERTAKE_CONFIG", "")
	t.Setenv("PITWALL_LOG_LEVEL", "warning")

	cfg, err := config.Load(nil, config.WithEnvPrefix("PITWALL"), config.WithoutDotenv())
	require.NoError(t, err)
	assert.Equal(t, "warning", cfg.LogLevel)
}

func TestUnknownFlag(t *testing.T) {
	_, err := config.Load([]string{"--boost", "80"}, config.WithoutDotenv())
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrBindFlags))
}

func TestSearchPaths(t *testing.T) {
	t.Setenv("OVERTAKE_CONFIG", "")
	dir := filepath.Dir(writeConfig(t, `interval = "250ms"`))

	cfg, err := config.Load(nil, config.WithoutDotenv(), config.WithSearchPaths(t.TempDir(), dir))
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Interval)
}

func TestInvalidEnvPrefix(t *testing.T) {
	for _, prefix := range []string{"", "PIT-WALL", "pit wall"} {
		_, err := config.Load(nil, config.WithEnvPrefix(prefix), config.WithoutDotenv())
		require.Error(t, err, prefix)
		assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig), prefix)
	}
}

func TestLogLevelMapping(t *testing.T) {
	assert.Equal(t, logger.WarnLevel, config.LogLevelWarning.Logger())
	assert.Equal(t, logger.InfoLevel, config.LogLevel("loud").Logger())
	assert.False(t, config.LogLevel("loud").IsValid())
}

func TestWithConfigFileBeatsEnvironment(t *testing.T) {
	t.Setenv("OVERTAKE_CONFIG", writeConfig(t, `listen = ":7000"`))
	explicit := writeConfig(t, `listen = ":7200"`)

	cfg, err := config.Load(nil, config.WithConfigFile(explicit), config.WithoutDotenv())
	require.NoError(t, err)
	assert.Equal(t, ":7200", cfg.Listen)
}
