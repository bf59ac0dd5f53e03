package server

import (
	"net"
	"time"

	"codeberg.org/mutker/overtake/internal/errors"
	"golang.org/x/time/rate"
)

type Config struct {
	Address         string
	RateLimit       rate.Limit
	RateLimitBurst  int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Address:         ":8080",
		RateLimit:       50,
		RateLimitBurst:  100,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if _, _, err := net.SplitHostPort(c.Address); err != nil {
		return errFactory.Wrap(ErrInvalidConfig, err).WithData(c.Address)
	}
	if c.RateLimit <= 0 || c.RateLimitBurst < 1 {
		return errFactory.WithMessage(ErrInvalidConfig, "rate limit and burst must be positive")
	}

	return nil
}
