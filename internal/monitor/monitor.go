// Package monitor runs the poll loop: fetch a snapshot, evaluate it and
// hand the result to every consumer.
package monitor

import (
	"context"
	"time"

	"codeberg.org/mutker/overtake/internal/engine"
	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/history"
	"codeberg.org/mutker/overtake/internal/logger"
	"codeberg.org/mutker/overtake/internal/telemetry"
)

// Publisher receives every new State
type Publisher interface {
	Publish(State)
}

// Announcer vocalizes recommendation changes. It must not fail.
type Announcer interface {
	Announce(ctx context.Context, text string)
}

type Config struct {
	Interval     time.Duration
	FetchTimeout time.Duration
}

type Monitor struct {
	cfg        Config
	provider   telemetry.Provider
	store      *Store
	recorder   history.Recorder
	announcer  Announcer
	publishers []Publisher
	now        func() time.Time

	lastRecommendation string
}

type Option func(*Monitor)

func WithRecorder(r history.Recorder) Option {
	return func(m *Monitor) {
		m.recorder = r
	}
}

func WithAnnouncer(a Announcer) Option {
	return func(m *Monitor) {
		m.announcer = a
	}
}

func WithPublisher(p Publisher) Option {
	return func(m *Monitor) {
		m.publishers = append(m.publishers, p)
	}
}

func New(cfg Config, provider telemetry.Provider, store *Store, opts ...Option) *Monitor {
	m := &Monitor{
		cfg:      cfg,
		provider: provider,
		store:    store,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run polls immediately and then every Interval until ctx is cancelled.
// Poll failures are logged and skipped.
func (m *Monitor) Run(ctx context.Context) error {
	if m.cfg.Interval <= 0 {
		return errors.New().WithData(ErrInvalidInterval, m.cfg.Interval.String())
	}

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	logger.Info().Dur("interval", m.cfg.Interval).Msg("Telemetry monitor started")
	m.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Monitor) poll(ctx context.Context) {
	if _, err := m.Tick(ctx); err != nil {
		logger.Warn().Err(err).Msg("Poll skipped, keeping last metrics")
	}
}

// Tick performs one fetch and evaluation. On error the stored state is
// left untouched.
func (m *Monitor) Tick(ctx context.Context) (State, error) {
	errFactory := errors.New()

	fetchCtx := ctx
	if m.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, m.cfg.FetchTimeout)
		defer cancel()
	}

	snap, err := m.provider.Fetch(fetchCtx)
	if err != nil {
		failuresTotal.WithLabelValues("fetch").Inc()
		return State{}, errFactory.Wrap(ErrFetch, err)
	}

	metrics, err := engine.Evaluate(snap, snap.Throttle)
	if err != nil {
		failuresTotal.WithLabelValues("evaluate").Inc()
		return State{}, errFactory.Wrap(ErrEvaluate, err)
	}

	st := State{Snapshot: snap, Metrics: metrics, UpdatedAt: m.now()}
	m.store.Publish(st)
	for _, p := range m.publishers {
		p.Publish(st)
	}

	evaluationsTotal.Inc()
	avgTireTemperature.Set(metrics.AverageTireTemperature)
	predictedPlacement.Set(float64(metrics.PredictedPlacement))
	pitLaps.Set(float64(metrics.Pit.Laps))

	if m.recorder != nil {
		if err := m.recorder.Record(ctx, history.NewRecord(snap, metrics)); err != nil {
			logger.Warn().Err(err).Msg("Failed to record evaluation")
		}
	}

	if m.announcer != nil && metrics.Recommendation != m.lastRecommendation {
		m.announcer.Announce(ctx, metrics.Recommendation)
	}
	m.lastRecommendation = metrics.Recommendation

	logger.Debug().
		Float64("avg_tire_temp", metrics.AverageTireTemperature).
		Str("pass", metrics.Pass.Text).
		Str("pit", metrics.Pit.Text).
		Int("position", metrics.CurrentPosition).
		Int("predicted_placement", metrics.PredictedPlacement).
		Str("recommendation", metrics.Recommendation).
		Msg("")

	return st, nil
}
