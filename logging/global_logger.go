package logging

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// The TUI owns stdout, so logs always go to a file. A nop logger is used
// until InitLogger runs, which keeps early call sites safe.

var (
	globalLogger *zap.SugaredLogger = zap.NewNop().Sugar()
	loggerOnce   sync.Once
)

// InitLogger initializes the global file logger. Safe to call more than
// once; only the first call wins.
func InitLogger(levelStr, logFile string) {
	loggerOnce.Do(func() {
		if logFile == "" {
			return
		}
		if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
			return
		}

		var level zapcore.Level
		if err := level.UnmarshalText([]byte(levelStr)); err != nil {
			level = zapcore.InfoLevel
		}

		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		cfg.OutputPaths = []string{logFile}
		cfg.ErrorOutputPaths = []string{logFile}
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		logger, err := cfg.Build()
		if err != nil {
			return
		}
		globalLogger = logger.Sugar()
	})
}

// GetLogger returns the global logger.
func GetLogger() *zap.SugaredLogger {
	return globalLogger
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = globalLogger.Sync()
}
