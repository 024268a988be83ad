package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"messaging-service/pkg/config"
)

type ctxKey struct{}

// Logger wraps a logrus logger and the rotating file it may write to.
type Logger struct {
	log    *logrus.Logger
	closer io.Closer
}

var globalLogger = &Logger{log: logrus.StandardLogger()}

// NewLogger builds a Logger from the log section of cfg.
func NewLogger(cfg *config.Config) *Logger {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	if strings.EqualFold(cfg.Log.Format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	}

	out := &Logger{log: l}
	switch cfg.Log.Output {
	case "file":
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.Filename,
			MaxSize:    cfg.Log.MaxSize,
			MaxAge:     cfg.Log.MaxAge,
			MaxBackups: cfg.Log.MaxBackups,
			Compress:   cfg.Log.Compress,
		}
		l.SetOutput(rotator)
		out.closer = rotator
	case "both":
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.Filename,
			MaxSize:    cfg.Log.MaxSize,
			MaxAge:     cfg.Log.MaxAge,
			MaxBackups: cfg.Log.MaxBackups,
			Compress:   cfg.Log.Compress,
		}
		l.SetOutput(io.MultiWriter(os.Stdout, rotator))
		out.closer = rotator
	default:
		l.SetOutput(os.Stdout)
	}
	return out
}

// SetGlobalLogger replaces the logger used by the package-level helpers.
func SetGlobalLogger(l *Logger) {
	if l == nil || l.log == nil {
		return
	}
	globalLogger = l
}

// Raw exposes the underlying logrus logger, e.g. for gorm's log adapter.
func Raw() *logrus.Logger {
	return globalLogger.log
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() {
	if l == nil || l.closer == nil {
		return
	}
	_ = l.closer.Close()
}

// ContextWithRequestID returns a copy of ctx carrying the request id.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestIDFromContext returns the request id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithContext returns an entry annotated with the request id found in ctx.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(globalLogger.log)
	if id := RequestIDFromContext(ctx); id != "" {
		entry = entry.WithField("request_id", id)
	}
	return entry
}

func Debugf(format string, args ...interface{}) { globalLogger.log.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { globalLogger.log.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { globalLogger.log.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { globalLogger.log.Errorf(format, args...) }

// Fatal logs msg and exits the process.
func Fatal(msg string) {
	globalLogger.log.Fatal(msg)
}

// Fatalf is Fatal with formatting.
func Fatalf(format string, args ...interface{}) {
	Fatal(fmt.Sprintf(format, args...))
}
