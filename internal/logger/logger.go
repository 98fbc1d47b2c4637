package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the process-wide logger. It is a no-op until Init is called so
// packages can log from tests without any setup.
var Log = zap.NewNop()

// Init replaces Log with a development console logger.
func Init() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true

	l, err := cfg.Build()
	if err != nil {
		// zap.NewExample writes to stdout and cannot fail to build.
		l = zap.NewExample()
	}
	Log = l
}

// SetLevel rebuilds the logger at the given level, used by the -verbose flag.
func SetLevel(level zapcore.Level) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableStacktrace = true
	if l, err := cfg.Build(); err == nil {
		Log = l
	}
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Log.Sync()
}
