package logging

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Debug enables V(1) output, which is where the parser
// reports per-document details.
func New(debug bool, build string) (logr.Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if debug {
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zl, err := zapCfg.Build()
	if err != nil {
		return logr.Logger{}, err
	}
	return WithBuild(zl, build), nil
}

// WithBuild wraps zl as a logr.Logger, tagging every entry with the build when one is given.
func WithBuild(zl *zap.Logger, build string) logr.Logger {
	logger := zapr.NewLogger(zl)
	if build != "" {
		logger = logger.WithValues("build", build)
	}
	return logger
}

// EventLogger writes one structured event per call, stamped with the time it was logged.
type EventLogger struct {
	logFn func(ctx context.Context, msg string, args ...any)
}

// NewEventLogger logs through the logr.Logger carried by the context.
func NewEventLogger() *EventLogger {
	return &EventLogger{
		logFn: func(ctx context.Context, msg string, args ...any) {
			logr.FromContextOrDiscard(ctx).V(0).Info(msg, args...)
		},
	}
}

func (l *EventLogger) Log(ctx context.Context, msg string, fields ...any) {
	enriched := []any{"timestamp", time.Now()}
	enriched = append(enriched, fields...)
	l.logFn(ctx, msg, enriched...)
}

func (l *EventLogger) WithLogFn(fn func(ctx context.Context, msg string, args ...any)) *EventLogger {
	l.logFn = fn
	return l
}
