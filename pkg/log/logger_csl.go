package log

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelNotice
	levelWarn
	levelError
	levelCritical
	levelAlert
	levelEmergency
)

var levelNames = map[string]level{
	"debug":     levelDebug,
	"info":      levelInfo,
	"notice":    levelNotice,
	"warn":      levelWarn,
	"warning":   levelWarn,
	"error":     levelError,
	"critical":  levelCritical,
	"alert":     levelAlert,
	"emergency": levelEmergency,
}

// CslLogger writes "[LEVEL][app] message" lines, dropping anything below its minimum level.
type CslLogger struct {
	out      *log.Logger
	prefix   string
	minLevel atomic.Int32
}

func NewCslLogger(app string, minLevel string) (*CslLogger, error) {
	return newCslLogger(os.Stderr, app, minLevel), nil
}

func newCslLogger(w io.Writer, app string, minLevel string) *CslLogger {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(minLevel))]
	if !ok {
		lvl = levelInfo
	}
	prefix := ""
	if app != "" {
		prefix = "[" + app + "] "
	}
	l := &CslLogger{
		out:    log.New(w, "", log.LstdFlags),
		prefix: prefix,
	}
	l.minLevel.Store(int32(lvl))
	return l
}

// SetLevel changes the minimum level while the logger is in use.
func (l *CslLogger) SetLevel(minLevel string) error {
	lvl, ok := levelNames[strings.ToLower(strings.TrimSpace(minLevel))]
	if !ok {
		return fmt.Errorf("unknown log level %q", minLevel)
	}
	l.minLevel.Store(int32(lvl))
	return nil
}

func (l *CslLogger) printf(lvl level, tag string, format string, args ...interface{}) {
	if int32(lvl) < l.minLevel.Load() {
		return
	}
	l.out.Printf("["+tag+"]"+l.prefix+format, args...)
}

func (l *CslLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.printf(levelInfo, "INFO", format, args...)
}

func (l *CslLogger) Alert(ctx context.Context, format string, args ...interface{}) {
	l.printf(levelAlert, "ALERT", format, args...)
}

func (l *CslLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.printf(levelError, "ERROR", format, args...)
}

func (l *CslLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.printf(levelWarn, "WARN", format, args...)
}

func (l *CslLogger) Debug(ctx context.Context, format string, args ...interface{}) {
	l.printf(levelDebug, "DEBUG", format, args...)
}

func (l *CslLogger) Critical(ctx context.Context, format string, args ...interface{}) {
	l.printf(levelCritical, "CRITICAL", format, args...)
}

func (l *CslLogger) Emergency(ctx context.Context, format string, args ...interface{}) {
	l.printf(levelEmergency, "EMERGENCY", format, args...)
}

func (l *CslLogger) Notice(ctx context.Context, format string, args ...interface{}) {
	l.printf(levelNotice, "NOTICE", format, args...)
}
