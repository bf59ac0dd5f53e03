package telemetry

import (
	"net/url"
	"time"

	"codeberg.org/mutker/overtake/internal/errors"
)

const (
	SourceSynthetic = "synthetic"
	SourceHTTP      = "http"

	defaultSyntheticDelay = 200 * time.Millisecond
	defaultSampleCount    = 12
	defaultHTTPTimeout    = 5 * time.Second
)

type Config struct {
	Source   string
	Endpoint string
	Delay    time.Duration
	Timeout  time.Duration
}

func DefaultConfig() Config {
	return Config{
		Source:  SourceSynthetic,
		Delay:   defaultSyntheticDelay,
		Timeout: defaultHTTPTimeout,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	switch c.Source {
	case SourceSynthetic:
		return nil
	case SourceHTTP:
		if c.Endpoint == "" {
			return errFactory.WithMessage(ErrInvalidEndpoint, "HTTP telemetry source requires an endpoint")
		}
		u, err := url.Parse(c.Endpoint)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errFactory.WithData(ErrInvalidEndpoint, c.Endpoint)
		}
		return nil
	default:
		return errFactory.WithData(ErrInvalidConfig, struct {
			Field string
			Value string
		}{
			Field: "source",
			Value: c.Source,
		})
	}
}

// NewProvider builds the provider selected by cfg
func NewProvider(cfg Config, base Snapshot) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if cfg.Source == SourceHTTP {
		return NewHTTPProvider(cfg.Endpoint, WithTimeout(cfg.Timeout)), nil
	}

	return NewSyntheticProvider(base, WithDelay(cfg.Delay)), nil
}
