package utils

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func init() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))
}

func GetLogger(ctx context.Context) *zap.Logger {
	return zap.L()
}

// SetupLogger replaces the global logger. level is a zap level name like "debug" or "info".
func SetupLogger(level string, development bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(logger)
	return nil
}

func GetPanicInfo() string {
	buf := make([]byte, 16384)
	l := runtime.Stack(buf, false)
	return string(buf[:l])
}
