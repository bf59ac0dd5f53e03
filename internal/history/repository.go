package history

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
	_ "github.com/mattn/go-sqlite3"
)

// maxBufferedBatches bounds how many unflushed batches are kept while the
// database is failing.
const maxBufferedBatches = 10

// repository buffers records and writes them in batches. A batch is
// flushed when it reaches BatchSize, on every BatchTimeout tick, and on
// Close. While flushes fail the buffer is capped and the oldest records
// are dropped.
type repository struct {
	db     *sql.DB
	logger logger.Logger
	cfg    Config

	mu      sync.Mutex
	buffer  []*Record
	dropped int

	ticker    *time.Ticker
	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

func NewRepository(cfg Config, log logger.Logger) (Repository, error) {
	if cfg.DBPath == "" {
		return nil, errors.New().New(ErrInvalidDBPath)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), defaultDirPerm); err != nil {
		return nil, failAt(ErrStorageInit, "create_directory", cfg.DBPath, err)
	}

	// WAL journaling, incremental auto-vacuum
	db, err := sql.Open("sqlite3", cfg.DBPath+"?_journal=WAL&_auto_vacuum=2")
	if err != nil {
		return nil, failAt(ErrStorageInit, "open_database", cfg.DBPath, err)
	}

	if err := ValidateAndUpdateSchema(db, cfg.BackupDir, log); err != nil {
		db.Close()
		return nil, errors.New().Wrap(ErrStorageInit, err)
	}

	r := &repository{
		db:      db,
		logger:  log,
		cfg:     cfg,
		buffer:  make([]*Record, 0, cfg.BatchSize),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	if cfg.BatchTimeout > 0 {
		r.ticker = time.NewTicker(time.Duration(cfg.BatchTimeout) * time.Second)
		go r.flushPeriodically()
	} else {
		close(r.stopped)
	}

	log.Info().
		Str("path", cfg.DBPath).
		Int("schema_version", SchemaVersion).
		Int("batch_size", cfg.BatchSize).
		Int("batch_timeout", cfg.BatchTimeout).
		Msg("History repository initialized")

	return r, nil
}

func (r *repository) Record(record *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, record)
	if over := len(r.buffer) - r.maxBuffered(); over > 0 {
		r.buffer = append(r.buffer[:0], r.buffer[over:]...)
		r.dropped += over
		r.logger.Warn().
			Int("dropped", over).
			Int("dropped_total", r.dropped).
			Msg("History buffer full, dropping oldest records")
	}
	if len(r.buffer) < r.cfg.BatchSize {
		return nil
	}
	return r.flushLocked()
}

func (r *repository) maxBuffered() int {
	return r.cfg.BatchSize * maxBufferedBatches
}

func (r *repository) Close() error {
	var closeErr error

	r.closeOnce.Do(func() {
		close(r.stop)
		if r.ticker != nil {
			r.ticker.Stop()
		}
		<-r.stopped

		r.mu.Lock()
		if err := r.flushLocked(); err != nil {
			r.logger.ErrorWithContext(err, "close_flush").Int("dropped", len(r.buffer)).Msg("Failed to flush pending records")
		}
		r.mu.Unlock()

		if _, err := r.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			closeErr = fail(ErrStorageClose, "checkpoint_wal", err)
			r.db.Close()
			return
		}
		if err := r.db.Close(); err != nil {
			closeErr = fail(ErrStorageClose, "close_database", err)
			return
		}

		r.logger.Info().Msg("History repository closed")
	})

	return closeErr
}

func (r *repository) flushPeriodically() {
	defer close(r.stopped)

	for {
		select {
		case <-r.ticker.C:
			r.mu.Lock()
			if err := r.flushLocked(); err != nil {
				r.logger.ErrorWithContext(err, "periodic_flush").Msg("Flush failed, retrying next tick")
			}
			r.mu.Unlock()
		case <-r.stop:
			return
		}
	}
}

// flushLocked writes the buffer in one transaction. The buffer is kept on
// failure so the next flush retries it. Callers hold r.mu.
func (r *repository) flushLocked() error {
	if len(r.buffer) == 0 {
		return nil
	}

	err := withTx(r.db, ErrTransactionFailed, r.logger, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(insertEvaluationSQL)
		if err != nil {
			return fail(ErrTransactionFailed, "prepare", err)
		}
		defer stmt.Close()

		for _, rec := range r.buffer {
			if _, err := stmt.Exec(evaluationRow(rec)...); err != nil {
				return fail(ErrTransactionFailed, "insert", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug().Int("records", len(r.buffer)).Msg("Flushed evaluations")
	r.buffer = r.buffer[:0]
	return nil
}

// evaluationRow orders a record's values for insertEvaluationSQL. A pass
// that is not expected is stored as NULL.
func evaluationRow(rec *Record) []any {
	var passSeconds any
	if rec.Metrics.Pass.Expected() {
		passSeconds = rec.Metrics.Pass.Seconds
	}

	return []any{
		rec.Timestamp.UnixMilli(),
		rec.Snapshot.SessionID,
		rec.Snapshot.Speed,
		rec.Snapshot.FrontSpeed,
		rec.Snapshot.DistanceToFront,
		rec.Snapshot.Throttle,
		rec.Metrics.AverageTireTemperature,
		rec.Metrics.AverageTirePressure,
		int64(healthyWheels(rec.Metrics)),
		passSeconds,
		int64(rec.Metrics.Pit.Laps),
		rec.Metrics.Pit.Seconds,
		int64(rec.Metrics.CurrentPosition),
		int64(rec.Metrics.PredictedPlacement),
		rec.Metrics.Recommendation,
	}
}
