package engine

import "codeberg.org/mutker/overtake/internal/errors"

const (
	ErrInvalidSnapshot = errors.ErrorCode("engine_invalid_snapshot")
	ErrInvalidThrottle = errors.ErrorCode("engine_invalid_throttle")
)
