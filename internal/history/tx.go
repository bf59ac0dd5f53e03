package history

import (
	"database/sql"

	"codeberg.org/mutker/overtake/internal/errors"
	"codeberg.org/mutker/overtake/internal/logger"
)

// Failure is attached to storage errors to say which step broke
type Failure struct {
	Phase string
	Path  string
}

func (f Failure) String() string {
	if f.Path == "" {
		return f.Phase
	}
	return f.Phase + " " + f.Path
}

func fail(code errors.ErrorCode, phase string, err error) errors.Error {
	return errors.New().Wrap(code, err).WithData(Failure{Phase: phase})
}

func failAt(code errors.ErrorCode, phase, path string, err error) errors.Error {
	return errors.New().Wrap(code, err).WithData(Failure{Phase: phase, Path: path})
}

// withTx runs fn in a transaction, rolling back unless fn succeeds and
// the commit goes through.
func withTx(db *sql.DB, code errors.ErrorCode, log logger.Logger, fn func(*sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fail(code, "begin", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Debug().Err(rbErr).Msg("Failed to roll back transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fail(code, "commit", err)
	}
	return nil
}
