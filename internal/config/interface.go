package config

import (
	"strings"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
)

// Option adjusts how Load finds its sources
type Option func(*options) error

type options struct {
	configPath  string
	envPrefix   string
	searchPaths []string
	dotenv      bool
}

func defaultOptions() *options {
	return &options{
		envPrefix:   DefaultEnvPrefix,
		searchPaths: []string{"/etc/overtake", "."},
		dotenv:      true,
	}
}

// WithConfigFile reads exactly this file instead of searching for one
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithEnvPrefix replaces the OVERTAKE_ environment prefix. The prefix is
// upper-cased and may only hold letters, digits and underscores.
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		prefix = strings.ToUpper(prefix)
		if prefix == "" || strings.Trim(prefix, "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_") != "" {
			return errors.New().WithData(errors.ErrInvalidConfig, "env prefix "+prefix)
		}
		o.envPrefix = prefix
		return nil
	}
}

// WithSearchPaths sets the directories searched for overtake.toml
func WithSearchPaths(paths ...string) Option {
	return func(o *options) error {
		o.searchPaths = paths
		return nil
	}
}

// WithoutDotenv skips the .env file in the working directory
func WithoutDotenv() Option {
	return func(o *options) error {
		o.dotenv = false
		return nil
	}
}

// LogLevel is a level name as written in the config file
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// Logger maps the name onto the logger's level, defaulting to info
func (l LogLevel) Logger() logger.LogLevel {
	level, err := logger.ParseLevel(string(l))
	if err != nil {
		return logger.InfoLevel
	}
	return level
}

func (l LogLevel) String() string {
	return string(l)
}
