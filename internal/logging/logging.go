// Package logging provides the shared zap logger for imwrap.
//
// Components obtain named sugared loggers via Named(). Before Initialize()
// is called the package hands out no-op loggers, so library code and tests
// can log unconditionally without configuring anything.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var base = zap.NewNop()

// Initialize configures the process-wide logger.
//
// With jsonOutput the logger emits structured JSON records suitable for log
// collectors. Otherwise it uses a plain console encoder aimed at humans
// running the tool interactively. Verbose lowers the level to Debug.
func Initialize(verbose, jsonOutput bool) error {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}

	if jsonOutput {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		logger, err := cfg.Build()
		if err != nil {
			return err
		}
		base = logger
		return nil
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(os.Stderr),
		level,
	)
	base = zap.New(core)
	return nil
}

// L returns the current base sugared logger.
func L() *zap.SugaredLogger {
	return base.Sugar()
}

// Named returns a sugared logger tagged with a component name.
func Named(name string) *zap.SugaredLogger {
	return base.Named(name).Sugar()
}

// Sync flushes buffered log entries. Called on process exit.
func Sync() {
	_ = base.Sync()
}
