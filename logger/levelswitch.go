package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LevelSwitch is the runtime-adjustable minimum severity threshold shared by
// every sink the bootstrap layer attaches. It is the only piece of mutable
// state handed out after initialization; SetLevel is safe for concurrent use.
type LevelSwitch struct {
	lvl zap.AtomicLevel
}

// NewLevelSwitch creates a switch initialized to the given level.
func NewLevelSwitch(level zapcore.Level) *LevelSwitch {
	return &LevelSwitch{lvl: zap.NewAtomicLevelAt(level)}
}

// Level returns the current minimum level.
func (s *LevelSwitch) Level() zapcore.Level {
	return s.lvl.Level()
}

// SetLevel changes the minimum level for all sinks bound to this switch.
func (s *LevelSwitch) SetLevel(level zapcore.Level) {
	s.lvl.SetLevel(level)
}

// Enabled reports whether the given level passes the current threshold.
func (s *LevelSwitch) Enabled(level zapcore.Level) bool {
	return s.lvl.Enabled(level)
}

// Enabler returns a zapcore.LevelEnabler combining this switch with a fixed
// per-sink floor. A record is emitted only when it clears both.
func (s *LevelSwitch) Enabler(floor zapcore.Level) zapcore.LevelEnabler {
	return zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= floor && s.lvl.Enabled(l)
	})
}
