package errors

// Codes shared across packages. Package-local codes live next to the
// package that raises them.
const (
	ErrInternal       ErrorCode = "internal_error"
	ErrAlreadyRunning ErrorCode = "already_running"
	ErrTimeout        ErrorCode = "operation_timeout"

	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidInterval ErrorCode = "invalid_interval"
	ErrInvalidAddress  ErrorCode = "invalid_address"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"

	ErrInitApp      ErrorCode = "init_app_failed"
	ErrMainLoop     ErrorCode = "main_loop_failed"
	ErrFetchFailed  ErrorCode = "fetch_snapshot_failed"
	ErrEvaluate     ErrorCode = "evaluate_failed"
	ErrServerFailed ErrorCode = "server_failed"

	ErrInitHistory   ErrorCode = "init_history_failed"
	ErrRecordHistory ErrorCode = "record_history_failed"
	ErrCloseHistory  ErrorCode = "close_history_failed"
)

var messages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrTimeout:         "Operation timed out",
	ErrInvalidConfig:   "Invalid configuration",
	ErrBindFlags:       "Failed to bind flags",
	ErrReadConfig:      "Failed to read config file",
	ErrInvalidInterval: "Invalid interval value",
	ErrInvalidAddress:  "Invalid listen address",
	ErrInvalidLogLevel: "Invalid log level",
	ErrInitApp:         "Failed to initialize application",
	ErrMainLoop:        "Telemetry loop stopped",
	ErrFetchFailed:     "Failed to fetch telemetry snapshot",
	ErrEvaluate:        "Failed to evaluate snapshot",
	ErrServerFailed:    "HTTP server failed",
	ErrInitHistory:     "Failed to initialize history recorder",
	ErrRecordHistory:   "Failed to record evaluation",
	ErrCloseHistory:    "Failed to close history recorder",
}

// Message returns the human text for code, or the code itself when none
// is registered.
func Message(code ErrorCode) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return string(code)
}
