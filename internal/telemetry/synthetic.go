package telemetry

import (
	"context"
	"sync"
	"time"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
)

// SyntheticProvider replays a short generated stream on top of a base
// snapshot. Each Fetch returns the next sample and wraps after the last.
type SyntheticProvider struct {
	base    Snapshot
	delay   time.Duration
	samples int
	now     func() time.Time

	mu   sync.Mutex
	next int
}

type SyntheticOption func(*SyntheticProvider)

// WithDelay sets the artificial latency of every Fetch
func WithDelay(d time.Duration) SyntheticOption {
	return func(p *SyntheticProvider) {
		p.delay = d
	}
}

// WithSampleCount sets how many samples the stream holds before wrapping
func WithSampleCount(n int) SyntheticOption {
	return func(p *SyntheticProvider) {
		if n > 0 {
			p.samples = n
		}
	}
}

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) SyntheticOption {
	return func(p *SyntheticProvider) {
		p.now = now
	}
}

func NewSyntheticProvider(base Snapshot, opts ...SyntheticOption) *SyntheticProvider {
	p := &SyntheticProvider{
		base:    base,
		delay:   defaultSyntheticDelay,
		samples: defaultSampleCount,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *SyntheticProvider) Fetch(ctx context.Context) (Snapshot, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return Snapshot{}, errors.New().Wrap(ErrOperationTimeout, ctx.Err())
		case <-timer.C:
		}
	}

	p.mu.Lock()
	i := p.next
	p.next = (p.next + 1) % p.samples
	p.mu.Unlock()

	s := p.Sample(i)
	logger.Debug().Int("sample", i).Msg("Generated synthetic snapshot")

	return s, nil
}

// Sample returns sample i of the stream without advancing it
func (p *SyntheticProvider) Sample(i int) Snapshot {
	f := float64(i)
	s := p.base

	s.Timestamp = p.now()
	s.Speed = 280 + f
	s.RPM = 12000 + i*200
	s.Throttle = 70 + f
	s.Brake = 0
	if i%6 == 0 {
		s.Brake = 20
	}
	s.TireTemperatures = [WheelCount]float64{85 + f, 84 + f, 86 + f, 83 + f}
	s.Sector = i%3 + 1
	s.DistanceToFront = 2.5 - f*0.05

	return s
}
