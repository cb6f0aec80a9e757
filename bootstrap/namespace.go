package bootstrap

import (
	"strings"

	"go.uber.org/zap/zapcore"
)

// namespaceOverride raises the minimum level for records logged under a
// logger-name prefix. The prefix matches the name itself and any dotted
// descendant ("framework" matches "framework" and "framework.http").
type namespaceOverride struct {
	prefix string
	min    zapcore.Level
}

func (o namespaceOverride) matches(name string) bool {
	return name == o.prefix || strings.HasPrefix(name, o.prefix+".")
}

// namespaceCore filters entries by namespace override before delegating to
// the wrapped core.
type namespaceCore struct {
	zapcore.Core
	overrides []namespaceOverride
}

func withNamespaceOverrides(core zapcore.Core, overrides []namespaceOverride) zapcore.Core {
	return &namespaceCore{Core: core, overrides: overrides}
}

func (n *namespaceCore) With(fields []zapcore.Field) zapcore.Core {
	return &namespaceCore{Core: n.Core.With(fields), overrides: n.overrides}
}

func (n *namespaceCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	for _, o := range n.overrides {
		if o.matches(ent.LoggerName) && ent.Level < o.min {
			return ce
		}
	}
	return n.Core.Check(ent, ce)
}
