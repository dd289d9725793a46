// Package interfaces defines core domain contracts.
//
//nolint:revive // Package name 'interfaces' is intentional for domain layer
package interfaces

// Logger is the structured logging contract used by every layer.
// Implementations must be safe for concurrent use; one logger serves all requests.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a logger that adds fields to every entry
	With(fields ...Field) Logger
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// F creates a new Field (convenience function)
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Err creates the conventional "error" field
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// NoOpLogger is a logger that does nothing (useful for tests)
type NoOpLogger struct{}

// Debug does nothing
func (n *NoOpLogger) Debug(_ string, _ ...Field) {}

// Info does nothing
func (n *NoOpLogger) Info(_ string, _ ...Field) {}

// Warn does nothing
func (n *NoOpLogger) Warn(_ string, _ ...Field) {}

// Error does nothing
func (n *NoOpLogger) Error(_ string, _ ...Field) {}

// With returns the same no-op logger
func (n *NoOpLogger) With(_ ...Field) Logger { return n }

// OrNoOp returns l, or a NoOpLogger when l is nil
func OrNoOp(l Logger) Logger {
	if l == nil {
		return &NoOpLogger{}
	}
	return l
}
