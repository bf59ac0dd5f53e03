package config

import (
	"os"
	"strings"
	"time"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/history"
	"codeberg.org/mutker/overtake/internal/logger"
	"codeberg.org/mutker/overtake/internal/monitor"
	"codeberg.org/mutker/overtake/internal/server"
	"codeberg.org/mutker/overtake/internal/speech"
	"codeberg.org/mutker/overtake/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

const (
	DefaultEnvPrefix = "OVERTAKE"
	DefaultLogLevel  = string(LogLevelInfo)
	DefaultListen    = ":8080"
	DefaultInterval  = time.Second
)

type Config struct {
	Interval     time.Duration `mapstructure:"interval"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	LogLevel     string        `mapstructure:"log_level"`
	Listen       string        `mapstructure:"listen"`
	Once         bool          `mapstructure:"once"`

	Source   string `mapstructure:"source"`
	Endpoint string `mapstructure:"endpoint"`

	History   bool   `mapstructure:"history"`
	HistoryDB string `mapstructure:"history_db"`

	SpeechAPIKey string `mapstructure:"elevenlabs_api_key"`
	VoiceID      string `mapstructure:"voice_id"`
	AudioDir     string `mapstructure:"audio_dir"`

	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

func setDefaults(v *viper.Viper) {
	tc := telemetry.DefaultConfig()
	hc := history.DefaultConfig()
	sc := speech.DefaultConfig()

	v.SetDefault("interval", DefaultInterval)
	v.SetDefault("fetch_timeout", tc.Timeout)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("once", false)
	v.SetDefault("source", tc.Source)
	v.SetDefault("endpoint", "")
	v.SetDefault("history", hc.Enabled)
	v.SetDefault("history_db", hc.DBPath)
	v.SetDefault("elevenlabs_api_key", "")
	v.SetDefault("voice_id", sc.VoiceID)
	v.SetDefault("audio_dir", sc.SpoolDir)
	v.SetDefault("rate_limit", 50.0)
	v.SetDefault("rate_burst", 100)
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("overtake", pflag.ContinueOnError)

	fs.String("config", "", "Path to configuration file")
	fs.Duration("interval", DefaultInterval, "Interval between telemetry polls")
	fs.Duration("fetch-timeout", telemetry.DefaultConfig().Timeout, "Timeout for a single snapshot fetch")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.String("listen", DefaultListen, "HTTP listen address")
	fs.Bool("once", false, "Evaluate one snapshot, print a report and exit")
	fs.String("source", telemetry.SourceSynthetic, "Telemetry source (synthetic, http)")
	fs.String("endpoint", "", "Telemetry endpoint for the http source")
	fs.Bool("history", false, "Record evaluations to the history database")
	fs.String("history-db", history.DefaultConfig().DBPath, "History database path")
	fs.String("voice-id", speech.DefaultConfig().VoiceID, "Text-to-speech voice")
	fs.String("audio-dir", speech.DefaultConfig().SpoolDir, "Directory for synthesized announcements")
	fs.Float64("rate-limit", 50, "API requests per second")
	fs.Int("rate-burst", 100, "API request burst")

	return fs
}

// Load reads configuration from defaults, a TOML file, a .env file,
// environment variables and command line flags, in increasing priority.
func Load(args []string, opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	if o.dotenv {
		// A missing .env is the normal case
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("elevenlabs_api_key", o.envPrefix+"_ELEVENLABS_API_KEY", "ELEVENLABS_API_KEY"); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	configPath := o.configPath
	if p, _ := fs.GetString("config"); p != "" {
		configPath = p
	}
	if configPath == "" {
		configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
	} else {
		v.SetConfigName("overtake")
		v.SetConfigType("toml")
		for _, p := range o.searchPaths {
			v.AddConfigPath(p)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	if bindErr != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, bindErr)
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks values that viper cannot type-check
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}
	if c.Interval <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval.String())
	}
	if !c.Once && c.Listen == "" {
		return errFactory.New(errors.ErrInvalidAddress)
	}
	if c.RateLimit <= 0 || c.RateBurst < 1 {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			RateLimit float64
			RateBurst int
		}{
			RateLimit: c.RateLimit,
			RateBurst: c.RateBurst,
		})
	}
	if err := c.TelemetryConfig().Validate(); err != nil {
		return errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	return nil
}

// Level maps the configured level onto the logger's
func (c *Config) Level() logger.LogLevel {
	return LogLevel(c.LogLevel).Logger()
}

func (c *Config) TelemetryConfig() telemetry.Config {
	tc := telemetry.DefaultConfig()
	tc.Source = c.Source
	tc.Endpoint = c.Endpoint
	tc.Timeout = c.FetchTimeout
	return tc
}

func (c *Config) HistoryConfig() history.Config {
	hc := history.DefaultConfig()
	hc.Enabled = c.History
	hc.DBPath = c.HistoryDB
	return hc
}

func (c *Config) SpeechConfig() speech.Config {
	sc := speech.DefaultConfig()
	sc.APIKey = c.SpeechAPIKey
	sc.VoiceID = c.VoiceID
	sc.SpoolDir = c.AudioDir
	return sc
}

func (c *Config) ServerConfig() server.Config {
	sc := server.DefaultConfig()
	sc.Address = c.Listen
	sc.RateLimit = rate.Limit(c.RateLimit)
	sc.RateLimitBurst = c.RateBurst
	return sc
}

func (c *Config) MonitorConfig() monitor.Config {
	return monitor.Config{
		Interval:     c.Interval,
		FetchTimeout: c.FetchTimeout,
	}
}
