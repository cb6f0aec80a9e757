package bootstrap

import (
	"sync"
	"time"

	"go.uber.org/zap/zapcore"

	"github.com/halcyonlabs/appboot/logger"
)

// Prelog buffers log records emitted before any logger exists. The host
// creates one, logs into it during the earliest startup window, and passes
// it to InitStartup, which flushes it into the freshly built startup logger.
//
// It is an explicit value by design; there is no package-global buffer.
type Prelog struct {
	mu      sync.Mutex
	records []prelogRecord
}

type prelogRecord struct {
	level  zapcore.Level
	msg    string
	fields []logger.Field
	at     time.Time
}

// NewPrelog creates an empty buffer.
func NewPrelog() *Prelog {
	return &Prelog{}
}

// Debug buffers a debug-level record.
func (p *Prelog) Debug(msg string, fields ...logger.Field) {
	p.add(zapcore.DebugLevel, msg, fields)
}

// Info buffers an info-level record.
func (p *Prelog) Info(msg string, fields ...logger.Field) {
	p.add(zapcore.InfoLevel, msg, fields)
}

// Warn buffers a warn-level record.
func (p *Prelog) Warn(msg string, fields ...logger.Field) {
	p.add(zapcore.WarnLevel, msg, fields)
}

// Error buffers an error-level record.
func (p *Prelog) Error(msg string, fields ...logger.Field) {
	p.add(zapcore.ErrorLevel, msg, fields)
}

// Len returns the number of buffered records.
func (p *Prelog) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.records)
}

// Flush replays every buffered record into l, in capture order, and clears
// the buffer. Each replayed record carries a logged_at field with the
// original capture time, since the sink timestamps the replay moment.
func (p *Prelog) Flush(l logger.Logger) {
	p.mu.Lock()
	records := p.records
	p.records = nil
	p.mu.Unlock()

	for _, r := range records {
		fields := append(r.fields, logger.Time("logged_at", r.at))
		switch r.level {
		case zapcore.DebugLevel:
			l.Debug(r.msg, fields...)
		case zapcore.InfoLevel:
			l.Info(r.msg, fields...)
		case zapcore.WarnLevel:
			l.Warn(r.msg, fields...)
		default:
			l.Error(r.msg, fields...)
		}
	}
}

func (p *Prelog) add(level zapcore.Level, msg string, fields []logger.Field) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, prelogRecord{
		level:  level,
		msg:    msg,
		fields: append([]logger.Field{}, fields...),
		at:     time.Now(),
	})
}
