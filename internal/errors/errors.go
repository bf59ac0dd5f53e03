package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
)

type codedError struct {
	code    ErrorCode
	message string
	err     error
	data    any
}

// Error renders "message[: data][: cause]". The message falls back to the
// code's registered text.
func (e *codedError) Error() string {
	var b strings.Builder

	if e.message != "" {
		b.WriteString(e.message)
	} else {
		b.WriteString(Message(e.code))
	}
	if e.data != nil {
		fmt.Fprintf(&b, ": %v", e.data)
	}
	if e.err != nil {
		fmt.Fprintf(&b, ": %v", e.err)
	}

	return b.String()
}

func (e *codedError) Code() ErrorCode {
	return e.code
}

func (e *codedError) WithMessage(msg string) Error {
	c := *e
	c.message = msg
	return &c
}

func (e *codedError) WithData(data any) Error {
	c := *e
	c.data = data
	return &c
}

func (e *codedError) GetData() any {
	return e.data
}

func (e *codedError) Unwrap() error {
	return e.err
}

// Is matches any coded error with the same code, so errors.Is works
// against a bare errors.New().New(code).
func (e *codedError) Is(target error) bool {
	t, ok := target.(Coder)
	return ok && t.Code() == e.code
}

type factory struct{}

func (factory) New(code ErrorCode) Error {
	return &codedError{code: code}
}

func (factory) Wrap(code ErrorCode, err error) Error {
	return &codedError{code: code, err: err}
}

func (factory) WithMessage(code ErrorCode, msg string) Error {
	return &codedError{code: code, message: msg}
}

func (factory) WithData(code ErrorCode, data any) Error {
	return &codedError{code: code, data: data}
}

// New returns the error factory
func New() Factory {
	return factory{}
}

// HasCode reports whether err carries code anywhere in its chain
func HasCode(err error, code ErrorCode) bool {
	return errors.Is(err, &codedError{code: code})
}

// CodeOf returns the outermost code in err's chain, or "" if there is none
func CodeOf(err error) ErrorCode {
	var c Coder
	if errors.As(err, &c) {
		return c.Code()
	}
	return ""
}
