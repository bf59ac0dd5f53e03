package telemetry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
)

const maxSnapshotBytes = 1 << 20

// HTTPProvider pulls snapshots from a backend that serves one JSON
// snapshot per GET and answers 404 once its stream is drained.
type HTTPProvider struct {
	endpoint string
	client   *http.Client
}

type HTTPOption func(*HTTPProvider)

// WithTimeout bounds every request made by the provider
func WithTimeout(d time.Duration) HTTPOption {
	return func(p *HTTPProvider) {
		if d > 0 {
			p.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		p.client = c
	}
}

func NewHTTPProvider(endpoint string, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HTTPProvider) Fetch(ctx context.Context) (Snapshot, error) {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, http.NoBody)
	if err != nil {
		return Snapshot{}, errFactory.Wrap(ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return Snapshot{}, errFactory.Wrap(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Snapshot{}, errFactory.New(ErrStreamExhausted)
	case resp.StatusCode != http.StatusOK:
		return Snapshot{}, errFactory.WithData(ErrFetchFailed, struct {
			Endpoint string
			Status   int
		}{
			Endpoint: p.endpoint,
			Status:   resp.StatusCode,
		})
	}

	var s Snapshot
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxSnapshotBytes)).Decode(&s); err != nil {
		if _, ok := InvalidField(err); ok {
			return Snapshot{}, err
		}
		return Snapshot{}, errFactory.Wrap(ErrDecodeFailed, err)
	}
	if s.Timestamp.IsZero() {
		s.Timestamp = time.Now()
	}

	logger.Debug().Str("endpoint", p.endpoint).Msg("Fetched telemetry snapshot")

	return s, nil
}
