// Package zaplog adapts go.uber.org/zap to the domain Logger contract.
package zaplog

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ochairo/netport/internal/domain/interfaces"
)

// Logger implements interfaces.Logger on top of a zap SugaredLogger
type Logger struct {
	sugar *zap.SugaredLogger
}

// New wraps an existing zap logger
func New(l *zap.Logger) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{sugar: l.Sugar()}
}

// Options selects the encoder and level
type Options struct {
	JSON  bool
	Level string // debug, info, warn, error
}

// Build constructs a zap logger writing to stderr.
// JSON output uses zap's production config, otherwise a console encoder.
func Build(opts Options) (*Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(opts.Level)))
	if err != nil || opts.Level == "" {
		level = zapcore.InfoLevel
	}

	if opts.JSON {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(level)
		config.OutputPaths = []string{"stderr"}
		l, err := config.Build()
		if err != nil {
			return nil, errors.Wrap(err, "failed to build JSON logger")
		}
		return New(l), nil
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)
	return New(zap.New(core)), nil
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.sugar.Debugw(msg, keysAndValues(fields)...)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.sugar.Infow(msg, keysAndValues(fields)...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.sugar.Warnw(msg, keysAndValues(fields)...)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.sugar.Errorw(msg, keysAndValues(fields)...)
}

// With returns a child logger carrying fields
func (l *Logger) With(fields ...interfaces.Field) interfaces.Logger {
	return &Logger{sugar: l.sugar.With(keysAndValues(fields)...)}
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func keysAndValues(fields []interfaces.Field) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}
