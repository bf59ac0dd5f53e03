package logger

import (
	"io"
	"os"
	"syscall"
	"time"

	"codeberg.org/mutker/overtake/internal/errors"
	"github.com/rs/zerolog"
)

var log = zerolog.New(os.Stdout).With().Timestamp().Logger()

type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

type LogEvent struct {
	*zerolog.Event
}

func (e *LogEvent) Msg(msg string) {
	e.Event.Msg(msg)
}

func (e *LogEvent) Send() {
	e.Event.Send()
}

// Init initializes the console logger at the given level
func Init(level LogLevel, isService bool) {
	InitWithWriter(os.Stdout, level, isService)
}

// InitWithWriter initializes the logger on an arbitrary writer
func InitWithWriter(out io.Writer, level LogLevel, isService bool) {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}

	if isService {
		output.TimeFormat = ""
		output.FormatTimestamp = func(_ interface{}) string {
			return ""
		}
	}

	log = zerolog.New(output).With().Timestamp().Logger()

	SetLogLevel(level)
}

// ParseLevel maps a configured level name onto a LogLevel
func ParseLevel(name string) (LogLevel, error) {
	switch name {
	case "debug":
		return DebugLevel, nil
	case "info", "":
		return InfoLevel, nil
	case "warning", "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	default:
		return InfoLevel, errors.New().WithData(errors.ErrInvalidLogLevel, name)
	}
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	zerolog.SetGlobalLevel(zerolog.Level(level))
}

// IsService checks if the application is running as a service
func IsService() bool {
	if _, err := os.Stdin.Stat(); err != nil {
		return true
	}
	if os.Getenv("SERVICE_NAME") != "" || os.Getenv("INVOCATION_ID") != "" {
		return true
	}
	if os.Getppid() == 1 {
		return true
	}

	return syscall.Getpgrp() == syscall.Getpid()
}

// Debug logs a debug message
func Debug() *LogEvent {
	return &LogEvent{log.Debug()}
}

// Info logs an info message
func Info() *LogEvent {
	return &LogEvent{log.Info()}
}

// Warn logs a warning message
func Warn() *LogEvent {
	return &LogEvent{log.Warn()}
}

// Error logs an error message
func Error() *LogEvent {
	return &LogEvent{log.Error()}
}

// ErrorWithCode logs err at error level. Coded errors also carry their
// outermost code as "error_code".
func ErrorWithCode(err error) *LogEvent {
	ev := log.Error().Err(err)
	if code := errors.CodeOf(err); code != "" {
		ev = ev.Str("error_code", string(code))
	}
	return &LogEvent{ev}
}

// Default returns a Logger backed by the package-level logger
func Default() Logger {
	return componentLogger{}
}

// For returns a Logger whose events name the component
func For(component string) Logger {
	return componentLogger{component: component}
}

type componentLogger struct {
	component string
}

func (l componentLogger) tag(e *LogEvent) *LogEvent {
	if l.component != "" {
		e.Event = e.Str("component", l.component)
	}
	return e
}

func (l componentLogger) Debug() *LogEvent { return l.tag(Debug()) }
func (l componentLogger) Info() *LogEvent  { return l.tag(Info()) }
func (l componentLogger) Warn() *LogEvent  { return l.tag(Warn()) }
func (l componentLogger) Error() *LogEvent { return l.tag(Error()) }

func (l componentLogger) ErrorWithCode(err error) *LogEvent {
	return l.tag(ErrorWithCode(err))
}

// ErrorWithContext is ErrorWithCode plus the failed operation
func (l componentLogger) ErrorWithContext(err error, operation string) *LogEvent {
	ev := l.ErrorWithCode(err)
	ev.Event = ev.Str("operation", operation)
	return ev
}

func (componentLogger) With(component string) Logger {
	return componentLogger{component: component}
}
