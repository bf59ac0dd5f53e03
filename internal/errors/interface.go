package errors

// ErrorCode names one failure class. Codes are stable strings so logs and
// API clients see the same value.
type ErrorCode string

// Error is a coded error. Data carries structured detail for callers.
type Error interface {
	error
	Code() ErrorCode
	WithMessage(msg string) Error
	WithData(data any) Error
	GetData() any
	Unwrap() error
}

// Factory builds coded errors
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	WithMessage(code ErrorCode, msg string) Error
	WithData(code ErrorCode, data any) Error
}

// Coder is anything that reports an ErrorCode
type Coder interface {
	Code() ErrorCode
}
