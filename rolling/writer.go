// Package rolling provides a daily-rolling log file writer. Size and backup
// management is delegated to lumberjack; this package adds the calendar-day
// boundary: the file rolls on the first write of a new local day.
package rolling

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultMaxSizeMB  = 100
	defaultMaxBackups = 14
)

// Writer is an io.Writer that appends to a log file and rotates it once per
// calendar day (and on size overflow, via lumberjack). Safe for concurrent use.
type Writer struct {
	mu       sync.Mutex
	lj       *lumberjack.Logger
	day      string
	now      func() time.Time
	onRotate func()
}

// Option customizes a Writer.
type Option func(*Writer)

// WithMaxSizeMB sets the size threshold for mid-day rotation.
func WithMaxSizeMB(size int) Option {
	return func(w *Writer) { w.lj.MaxSize = size }
}

// WithMaxBackups caps the number of rotated files kept on disk.
func WithMaxBackups(n int) Option {
	return func(w *Writer) { w.lj.MaxBackups = n }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// WithRotateHook registers a callback invoked after each day-boundary
// rotation. Used for sink diagnostics counters.
func WithRotateHook(fn func()) Option {
	return func(w *Writer) { w.onRotate = fn }
}

// New creates a Writer for the given path, creating the parent directory if
// absent. It is not an error for the directory to already exist.
func New(path string, opts ...Option) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory %s: %w", dir, err)
		}
	}

	w := &Writer{
		lj: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    defaultMaxSizeMB,
			MaxBackups: defaultMaxBackups,
			LocalTime:  true,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.day = dayStamp(w.now())
	return w, nil
}

// Write appends p to the current log file, rolling it first when the local
// calendar day has changed since the previous write.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if today := dayStamp(w.now()); today != w.day {
		w.day = today
		if err := w.lj.Rotate(); err != nil {
			return 0, fmt.Errorf("rotate log file: %w", err)
		}
		if w.onRotate != nil {
			w.onRotate()
		}
	}

	return w.lj.Write(p)
}

// Sync is a no-op; lumberjack writes through to the file.
func (w *Writer) Sync() error {
	return nil
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lj.Close()
}

// Filename returns the active log file path.
func (w *Writer) Filename() string {
	return w.lj.Filename
}

func dayStamp(t time.Time) string {
	return t.Format("2006-01-02")
}
