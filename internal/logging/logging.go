// Package logging provides the structured logger used by the command line layer.
package logging

import (
	"context"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a context-aware structured logger.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]any)
	Debug(ctx context.Context, msg string, fields map[string]any)
	Warn(ctx context.Context, msg string, fields map[string]any)
	Error(ctx context.Context, msg string, err error, fields map[string]any)
}

// ZapAdapter implements Logger on top of a zap.Logger.
type ZapAdapter struct {
	log *zap.Logger
}

// NewZapAdapter wraps log.
func NewZapAdapter(log *zap.Logger) *ZapAdapter {
	return &ZapAdapter{log: log}
}

// New creates a console logger on stderr. Verbose enables debug messages.
func New(verbose bool) *ZapAdapter {
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encCfg.TimeKey = ""

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
	return NewZapAdapter(zap.New(core))
}

// Nop returns a logger that discards everything.
func Nop() *ZapAdapter {
	return NewZapAdapter(zap.NewNop())
}

func (a *ZapAdapter) Info(_ context.Context, msg string, fields map[string]any) {
	a.log.Info(msg, toZapFields(fields)...)
}

func (a *ZapAdapter) Debug(_ context.Context, msg string, fields map[string]any) {
	a.log.Debug(msg, toZapFields(fields)...)
}

func (a *ZapAdapter) Warn(_ context.Context, msg string, fields map[string]any) {
	a.log.Warn(msg, toZapFields(fields)...)
}

func (a *ZapAdapter) Error(_ context.Context, msg string, err error, fields map[string]any) {
	a.log.Error(msg, append(toZapFields(fields), zap.Error(err))...)
}

// Sync flushes buffered log entries.
func (a *ZapAdapter) Sync() error {
	return a.log.Sync()
}

func toZapFields(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}
