package history

import (
	"context"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
)

// NewRecorder returns a no-op recorder when cfg is disabled, otherwise one
// backed by a SQLite repository.
func NewRecorder(cfg Config, log logger.Logger) (Recorder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.New().Wrap(ErrInvalidConfig, err)
	}

	if !cfg.Enabled {
		log.Debug().Msg("History recording disabled")
		return discard{}, nil
	}

	repo, err := NewRepository(cfg, log)
	if err != nil {
		return nil, err
	}
	return &recorder{repo: repo}, nil
}

type recorder struct {
	repo Repository
}

func (r *recorder) Record(ctx context.Context, record *Record) error {
	errFactory := errors.New()

	if record == nil {
		return errFactory.New(ErrInvalidRecord)
	}
	if err := ctx.Err(); err != nil {
		return errFactory.Wrap(ErrOperationTimeout, err)
	}
	if err := r.repo.Record(record); err != nil {
		return errFactory.Wrap(ErrRecordFailed, err)
	}
	return nil
}

func (r *recorder) Close() error {
	if err := r.repo.Close(); err != nil {
		return errors.New().Wrap(ErrStorageClose, err)
	}
	return nil
}

type discard struct{}

func (discard) Record(context.Context, *Record) error { return nil }
func (discard) Close() error                          { return nil }
