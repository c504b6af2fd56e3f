package log

import "context"

type Logger interface {
	Info(ctx context.Context, format string, args ...interface{})
	Alert(ctx context.Context, format string, args ...interface{})
	Error(ctx context.Context, format string, args ...interface{})
	Warn(ctx context.Context, format string, args ...interface{})
	Debug(ctx context.Context, format string, args ...interface{})
	Notice(ctx context.Context, format string, args ...interface{})
	Critical(ctx context.Context, format string, args ...interface{})
	Emergency(ctx context.Context, format string, args ...interface{})
}

// LevelSetter is implemented by loggers whose minimum level can change at runtime.
type LevelSetter interface {
	SetLevel(minLevel string) error
}

// NewLogger picks the console logger; unknown kinds fall back to it too.
func NewLogger(kind string, app string, minLevel string) (Logger, error) {
	switch kind {
	case "nop":
		return NopLogger{}, nil
	default:
		return NewCslLogger(app, minLevel)
	}
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Info(context.Context, string, ...interface{})      {}
func (NopLogger) Alert(context.Context, string, ...interface{})     {}
func (NopLogger) Error(context.Context, string, ...interface{})     {}
func (NopLogger) Warn(context.Context, string, ...interface{})      {}
func (NopLogger) Debug(context.Context, string, ...interface{})     {}
func (NopLogger) Notice(context.Context, string, ...interface{})    {}
func (NopLogger) Critical(context.Context, string, ...interface{})  {}
func (NopLogger) Emergency(context.Context, string, ...interface{}) {}
