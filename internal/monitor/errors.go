package monitor

import "codeberg.org/mutker/overtake/internal/errors"

const (
	ErrInvalidInterval = errors.ErrInvalidInterval
	ErrFetch           = errors.ErrFetchFailed
	ErrEvaluate        = errors.ErrEvaluate
)
