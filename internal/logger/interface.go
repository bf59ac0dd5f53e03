package logger

// Logger is the injected form of the package-level helpers. Events from a
// component logger carry a "component" field.
type Logger interface {
	Debug() *LogEvent
	Info() *LogEvent
	Warn() *LogEvent
	Error() *LogEvent
	ErrorWithCode(err error) *LogEvent
	ErrorWithContext(err error, operation string) *LogEvent
	With(component string) Logger
}
