// Package xlog is a thin context-aware facade over zap used across the
// repository.
package xlog

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

////////////////////////////////////////////////////////////////////////////////

type Logger interface {
	With(fields ...zap.Field) Logger
	WithName(name string) Logger

	Debug(ctx context.Context, msg string, fields ...zap.Field)
	Info(ctx context.Context, msg string, fields ...zap.Field)
	Warn(ctx context.Context, msg string, fields ...zap.Field)
	Error(ctx context.Context, msg string, fields ...zap.Field)
	Fatal(ctx context.Context, msg string, fields ...zap.Field)
}

////////////////////////////////////////////////////////////////////////////////

type logger struct {
	log *zap.Logger
}

var _ Logger = (*logger)(nil)

func New(log *zap.Logger) Logger {
	return &logger{log}
}

func NewNop() Logger {
	return &logger{zap.NewNop()}
}

func TryNew(log *zap.Logger, err error) (Logger, error) {
	if err != nil {
		return nil, err
	}
	return New(log), nil
}

// NewDeployLogger builds a production-encoded logger at the given level.
func NewDeployLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// ParseLevel parses a textual log level ("debug", "info", ...).
func ParseLevel(s string) (zapcore.Level, error) {
	return zapcore.ParseLevel(s)
}

////////////////////////////////////////////////////////////////////////////////

func (l *logger) With(fields ...zap.Field) Logger {
	return &logger{l.log.With(fields...)}
}

func (l *logger) WithName(name string) Logger {
	return &logger{l.log.Named(name)}
}

func (l *logger) Debug(_ context.Context, msg string, fields ...zap.Field) {
	l.log.Debug(msg, fields...)
}

func (l *logger) Info(_ context.Context, msg string, fields ...zap.Field) {
	l.log.Info(msg, fields...)
}

func (l *logger) Warn(_ context.Context, msg string, fields ...zap.Field) {
	l.log.Warn(msg, fields...)
}

func (l *logger) Error(_ context.Context, msg string, fields ...zap.Field) {
	l.log.Error(msg, fields...)
}

func (l *logger) Fatal(_ context.Context, msg string, fields ...zap.Field) {
	l.log.Fatal(msg, fields...)
}
