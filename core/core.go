package core

// Level is the logging verbosity threshold.
type Level int8

const (
	Disabled Level = iota - 1
	DebugLevel
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// Logger is the logging port used across the pipeline. The zerolog adapter
// in logger/zerolog is the default implementation.
type Logger interface {
	WithField(key string, value any) Logger
	WithError(err error) Logger

	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Fatal(args ...any)

	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)

	SetLevel(level Level)
	GetLevel() Level
}

// Surface is the drawable container supplied by the host environment.
// Replace swaps the entire rendered contents; there is no partial update.
type Surface interface {
	Replace(svg []byte) error
}
