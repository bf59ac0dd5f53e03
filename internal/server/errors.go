package server

import "codeberg.org/mutker/overtake/internal/errors"

const (
	ErrInvalidConfig     = errors.ErrorCode("server_invalid_config")
	ErrListenFailed      = errors.ErrorCode("server_listen_failed")
	ErrShutdownFailed    = errors.ErrorCode("server_shutdown_failed")
	ErrHijackUnsupported = errors.ErrorCode("server_hijack_unsupported")
)

// Codes reported in ErrorResponse bodies
const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeNoTelemetry       = "no_telemetry"
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeInternalError     = "internal_error"
)
