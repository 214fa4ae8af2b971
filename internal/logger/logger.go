package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide sugared logger. It starts as a no-op so
// packages may log before main wires the real one in.
var Log *zap.SugaredLogger = zap.NewNop().Sugar()

// Initialize replaces Log with a production zap logger at the given
// level. Sampling is disabled: the repositories log every query and
// dropped entries would leave gaps in the request trail.
func Initialize(level string) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Sampling = nil

	logger, err := cfg.Build()
	if err != nil {
		return err
	}

	Log = logger.Sugar()
	return nil
}
