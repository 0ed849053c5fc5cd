package logging

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-realtime-notifications/pkg/config"
	"github.com/goliatone/go-realtime-notifications/pkg/interfaces/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Zap implements logger.Logger on top of a zap.Logger.
type Zap struct {
	base *zap.Logger
}

var _ logger.Logger = (*Zap)(nil)

// NewZap builds the production or development preset at the configured level.
func NewZap(cfg config.LoggingConfig) (*Zap, error) {
	level, err := zapcore.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	base, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return &Zap{base: base}, nil
}

// FromZap wraps an existing zap logger; nil yields a no-op logger.
func FromZap(base *zap.Logger) *Zap {
	if base == nil {
		base = zap.NewNop()
	}
	return &Zap{base: base}
}

// Zap exposes the underlying logger for libraries that want it directly.
func (z *Zap) Zap() *zap.Logger { return z.base }

func (z *Zap) With(fields ...logger.Field) logger.Logger {
	return &Zap{base: z.base.With(toZap(fields)...)}
}

func (z *Zap) Debug(msg string, fields ...logger.Field) { z.base.Debug(msg, toZap(fields)...) }
func (z *Zap) Info(msg string, fields ...logger.Field)  { z.base.Info(msg, toZap(fields)...) }
func (z *Zap) Warn(msg string, fields ...logger.Field)  { z.base.Warn(msg, toZap(fields)...) }
func (z *Zap) Error(msg string, fields ...logger.Field) { z.base.Error(msg, toZap(fields)...) }

// Sync flushes buffered entries.
func (z *Zap) Sync() error { return z.base.Sync() }

func toZap(fields []logger.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for _, f := range fields {
		out = append(out, zap.Any(f.Key, f.Value))
	}
	return out
}
