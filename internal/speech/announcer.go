// Package speech vocalizes recommendations. Announcing never fails from
// the caller's point of view: remote synthesis errors drop to a local
// fallback.
package speech

import (
	"context"
	"time"

	"codeberg.org/mutker/overtake/internal/logger"
	"github.com/nikoksr/notify"
)

const announcementSubject = "overtake"

type Announcer struct {
	notifier *notify.Notify
	fallback notify.Notifier
	timeout  time.Duration
}

type Option func(*Announcer)

// WithFallback replaces the log fallback
func WithFallback(n notify.Notifier) Option {
	return func(a *Announcer) {
		a.fallback = n
	}
}

// WithServices sets the primary services directly, bypassing cfg
func WithServices(services ...notify.Notifier) Option {
	return func(a *Announcer) {
		a.notifier = notify.NewWithServices(services...)
	}
}

// New builds an announcer. Without an API key only the fallback is used.
func New(cfg Config, opts ...Option) *Announcer {
	a := &Announcer{
		fallback: LogSpeaker{},
		timeout:  cfg.Timeout,
	}

	if cfg.Enabled() {
		a.notifier = notify.NewWithServices(NewElevenLabs(cfg, NewFileSink(cfg.SpoolDir)))
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.timeout <= 0 {
		a.timeout = defaultTimeout
	}

	return a
}

// Announce speaks text through the primary services, falling back to the
// local sink on any failure.
func (a *Announcer) Announce(ctx context.Context, text string) {
	if a.notifier != nil {
		sendCtx, cancel := context.WithTimeout(ctx, a.timeout)
		err := a.notifier.Send(sendCtx, announcementSubject, text)
		cancel()
		if err == nil {
			return
		}
		logger.Warn().Err(err).Msg("Text-to-speech failed, using fallback")
	}

	if err := a.fallback.Send(ctx, announcementSubject, text); err != nil {
		logger.Error().Err(err).Msg("Fallback announcement failed")
	}
}

// LogSpeaker is the fallback sink: it writes the announcement to the log
type LogSpeaker struct{}

func (LogSpeaker) Send(_ context.Context, _, message string) error {
	logger.Info().Str("announcement", message).Msg("Announcement")
	return nil
}
