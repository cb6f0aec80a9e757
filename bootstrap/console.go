package bootstrap

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap/zapcore"

	"github.com/halcyonlabs/appboot/metrics"
)

// consoleCore writes records with the fixed human template
//
//	[HH:mm:ss LVL] message key=value ...
//	exception
//
// directing error-and-above to the error stream and everything else to the
// standard stream.
type consoleCore struct {
	zapcore.LevelEnabler

	mu     *sync.Mutex
	out    zapcore.WriteSyncer
	errOut zapcore.WriteSyncer
	fields []zapcore.Field
	sinks  *metrics.Sinks
}

func newConsoleCore(enabler zapcore.LevelEnabler, out, errOut zapcore.WriteSyncer, sinks *metrics.Sinks) *consoleCore {
	return &consoleCore{
		LevelEnabler: enabler,
		mu:           &sync.Mutex{},
		out:          out,
		errOut:       errOut,
		sinks:        sinks,
	}
}

func (c *consoleCore) With(fields []zapcore.Field) zapcore.Core {
	clone := *c
	clone.fields = append(append([]zapcore.Field{}, c.fields...), fields...)
	return &clone
}

func (c *consoleCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *consoleCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[%s %s] %s", ent.Time.Format("15:04:05"), levelTag(ent.Level), ent.Message)

	all := fields
	if len(c.fields) > 0 {
		all = append(append([]zapcore.Field{}, c.fields...), fields...)
	}

	enc := zapcore.NewMapObjectEncoder()
	var errs []error
	for _, f := range all {
		if f.Type == zapcore.ErrorType {
			if err, ok := f.Interface.(error); ok {
				errs = append(errs, err)
				continue
			}
		}
		f.AddTo(enc)
	}

	keys := make([]string, 0, len(enc.Fields))
	for k := range enc.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&buf, " %s=%v", k, enc.Fields[k])
	}
	buf.WriteByte('\n')

	for _, err := range errs {
		fmt.Fprintf(&buf, "%v\n", err)
	}
	if ent.Stack != "" {
		buf.WriteString(ent.Stack)
		buf.WriteByte('\n')
	}

	w := c.out
	if ent.Level >= zapcore.ErrorLevel {
		w = c.errOut
	}

	c.mu.Lock()
	_, err := w.Write(buf.Bytes())
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.sinks.Event(metrics.SinkConsole)

	if ent.Level > zapcore.ErrorLevel {
		// Fatal/panic records are about to end the process.
		_ = w.Sync()
	}
	return nil
}

// Sync is best-effort: syncing a terminal stream fails with EINVAL on most
// platforms and must not be treated as a logging failure.
func (c *consoleCore) Sync() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.out.Sync()
	_ = c.errOut.Sync()
	return nil
}

func levelTag(l zapcore.Level) string {
	switch l {
	case zapcore.DebugLevel:
		return "DBG"
	case zapcore.InfoLevel:
		return "INF"
	case zapcore.WarnLevel:
		return "WRN"
	case zapcore.ErrorLevel:
		return "ERR"
	case zapcore.DPanicLevel, zapcore.PanicLevel:
		return "PAN"
	case zapcore.FatalLevel:
		return "FTL"
	default:
		return "UNK"
	}
}
