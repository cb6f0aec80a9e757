package logger

import (
	"context"
	"sync"
)

type ctxKey struct{}

// WithContext returns a new context with the given logger stored in it.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from the context.
// Returns a stderr-backed fallback logger if none is found, ensuring errors
// are never silently discarded. Panics if ctx is nil.
// Startup code and background goroutines should pass a logger explicitly
// rather than relying on context.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return l
	}

	return fallbackLogger()
}

var (
	fallbackLog  Logger
	fallbackOnce sync.Once
)

// fallbackLogger returns a shared warn-level logger that writes to stderr.
// Initialized once via sync.Once; subsequent calls return the same instance.
func fallbackLogger() Logger {
	fallbackOnce.Do(func() {
		fallbackLog = NewStderr(WarnLevel)
	})

	return fallbackLog
}
