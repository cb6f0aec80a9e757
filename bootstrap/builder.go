// Package bootstrap wires the startup sequence of a host application:
// startup logging from environment variables, application logging from
// loaded configuration, and temp-directory setup. The two initializers are
// meant to run once, synchronously, before the host starts its own work.
package bootstrap

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/halcyonlabs/appboot/logger"
)

// Builder is the accumulating logger configuration the initializers and
// configuration handlers pass around. It has value semantics: every With*
// method returns a new Builder, so a handler cannot mutate state behind the
// initializer's back.
type Builder struct {
	sw        *logger.LevelSwitch
	cores     []zapcore.Core
	fields    []logger.Field
	overrides []namespaceOverride
	opts      []zap.Option
}

// NewBuilder creates an empty builder bound to the given level switch.
func NewBuilder(sw *logger.LevelSwitch) Builder {
	return Builder{sw: sw}
}

// Switch returns the level switch the final logger will be bound to.
func (b Builder) Switch() *logger.LevelSwitch {
	return b.sw
}

// Enabler returns a level enabler combining the builder's switch with a
// fixed per-sink floor. Sinks attached by handlers should use this so the
// runtime switch keeps control over them too.
func (b Builder) Enabler(floor zapcore.Level) zapcore.LevelEnabler {
	return b.sw.Enabler(floor)
}

// WithCore returns a builder with one more sink attached.
func (b Builder) WithCore(core zapcore.Core) Builder {
	out := b.clone()
	out.cores = append(out.cores, core)
	return out
}

// WithFields returns a builder whose logger will attach the given fields to
// every record.
func (b Builder) WithFields(fields ...logger.Field) Builder {
	out := b.clone()
	out.fields = append(out.fields, fields...)
	return out
}

// WithNamespaceMinLevel returns a builder that suppresses records logged
// under the given logger-name prefix below min. Used for noisy framework
// namespaces.
func (b Builder) WithNamespaceMinLevel(prefix string, min zapcore.Level) Builder {
	out := b.clone()
	out.overrides = append(out.overrides, namespaceOverride{prefix: prefix, min: min})
	return out
}

// WithOptions returns a builder with additional zap options applied at build
// time.
func (b Builder) WithOptions(opts ...zap.Option) Builder {
	out := b.clone()
	out.opts = append(out.opts, opts...)
	return out
}

// CoreCount returns the number of sinks attached so far.
func (b Builder) CoreCount() int {
	return len(b.cores)
}

// Build finalizes the configuration into an immutable logger. The builder
// remains usable, but further transforms do not affect already-built loggers.
func (b Builder) Build() logger.Logger {
	var core zapcore.Core
	switch len(b.cores) {
	case 0:
		core = zapcore.NewNopCore()
	case 1:
		core = b.cores[0]
	default:
		core = zapcore.NewTee(b.cores...)
	}

	if len(b.overrides) > 0 {
		core = withNamespaceOverrides(core, b.overrides)
	}

	z := zap.New(core, b.opts...)
	if len(b.fields) > 0 {
		z = z.With(b.fields...)
	}
	return logger.NewFromZap(z)
}

func (b Builder) clone() Builder {
	out := Builder{sw: b.sw}
	out.cores = append(out.cores, b.cores...)
	out.fields = append(out.fields, b.fields...)
	out.overrides = append(out.overrides, b.overrides...)
	out.opts = append(out.opts, b.opts...)
	return out
}
