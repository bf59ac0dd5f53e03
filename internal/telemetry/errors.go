package telemetry

import "codeberg.org/mutker/overtake/internal/errors"

const (
	// Configuration Errors
	ErrInvalidConfig   = errors.ErrorCode("telemetry_invalid_config")
	ErrInvalidEndpoint = errors.ErrorCode("telemetry_invalid_endpoint")

	// Snapshot Errors
	ErrInvalidSnapshot = errors.ErrorCode("telemetry_invalid_snapshot")

	// Provider Errors
	ErrFetchFailed      = errors.ErrorCode("telemetry_fetch_failed")
	ErrDecodeFailed     = errors.ErrorCode("telemetry_decode_failed")
	ErrStreamExhausted  = errors.ErrorCode("telemetry_stream_exhausted")
	ErrOperationTimeout = errors.ErrorCode("telemetry_operation_timeout")
)

// FieldError names the snapshot field that violated its contract
type FieldError struct {
	Field  string
	Reason string
}

func (f FieldError) String() string {
	return f.Field + " " + f.Reason
}

// InvalidField returns the offending field of an ErrInvalidSnapshot error
func InvalidField(err error) (FieldError, bool) {
	for ; err != nil; err = errors.Unwrap(err) {
		appErr, ok := err.(errors.Error)
		if !ok || appErr.Code() != ErrInvalidSnapshot {
			continue
		}
		fe, ok := appErr.GetData().(FieldError)
		return fe, ok
	}
	return FieldError{}, false
}

func invalidField(field, reason string) errors.Error {
	return errors.New().WithData(ErrInvalidSnapshot, FieldError{Field: field, Reason: reason})
}
