// Package logging provides structured logging for edit operations.
package logging

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap for the edit pipeline.
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a Logger that writes JSON to a file. An empty logPath
// disables logging. development selects the readable encoder config.
func NewLogger(logPath string, development bool) (*Logger, error) {
	if logPath == "" {
		return &Logger{zap: zap.NewNop()}, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	var encoderConfig zapcore.EncoderConfig
	if development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderConfig = zap.NewProductionEncoderConfig()
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logFile),
		zapcore.InfoLevel,
	)

	return &Logger{zap: zap.New(core)}, nil
}

// Close syncs the logger; call on shutdown.
func (l *Logger) Close() error {
	return l.zap.Sync()
}

// EditApplied logs a successfully applied edit.
func (l *Logger) EditApplied(path, strategy string, oldLines, newLines int, duration time.Duration) {
	l.zap.Info("edit applied",
		zap.String("path", path),
		zap.String("strategy", strategy),
		zap.Int("old_lines", oldLines),
		zap.Int("new_lines", newLines),
		zap.Duration("duration", duration),
	)
}

// EditFailed logs a failed edit with its telemetry kind.
func (l *Logger) EditFailed(path, kind string, err error) {
	l.zap.Info("edit failed",
		zap.String("path", path),
		zap.String("kind", kind),
		zap.Error(err),
	)
}

// MatchResolved logs which strategy resolved a match.
func (l *Logger) MatchResolved(strategy string, similarity float64) {
	l.zap.Debug("match resolved",
		zap.String("strategy", strategy),
		zap.Float64("similarity", similarity),
	)
}

// ConfirmationDecision logs the gate's verdict for a batch of paths.
func (l *Logger) ConfirmationDecision(outcome string, hidden bool, paths []string) {
	l.zap.Info("confirmation decision",
		zap.String("outcome", outcome),
		zap.Bool("hidden", hidden),
		zap.Strings("paths", paths),
	)
}

// Error logs an error.
func (l *Logger) Error(msg string, err error) {
	l.zap.Error(msg, zap.Error(err))
}

// Info logs an info message.
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}
