// Package logger holds the process-wide zap logger shared by the API and
// the background binaries.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the logger once per process. "production" writes JSON with
// ISO 8601 timestamps, "test" discards everything and any other value uses
// the colored development console.
func Init(env string) {
	once.Do(func() {
		base, err := build(env)
		if err != nil {
			base = zap.NewNop()
		}
		sugar = base.Sugar()
	})
}

func build(env string) (*zap.Logger, error) {
	switch env {
	case "test":
		return zap.NewNop(), nil
	case "production":
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		return cfg.Build()
	default:
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return cfg.Build()
	}
}

// Get returns the logger, falling back to the development logger when Init
// was never called.
func Get() *zap.SugaredLogger {
	if sugar == nil {
		Init("development")
	}
	return sugar
}

// Named returns a child logger for one component, e.g. "mailer" or "queue".
func Named(component string) *zap.SugaredLogger {
	return Get().Named(component)
}

// Sync flushes buffered entries before exit.
func Sync() {
	if sugar != nil {
		_ = sugar.Sync()
	}
}
