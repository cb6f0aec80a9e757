package logger

import "sync"

// Global ambient fields: contextual properties the host pushes before the
// application logger exists (deployment name, region, run metadata). The
// application initializer snapshots them into every record it emits.
//
// This is process-scoped by necessity, the same way zap's own global logger
// is; everything else in this module takes its dependencies explicitly.
var (
	globalMu     sync.RWMutex
	globalFields []Field
)

// PushGlobalField registers an ambient field. A later field with the same key
// wins when records are encoded, matching zap's duplicate-key behavior.
func PushGlobalField(fields ...Field) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalFields = append(globalFields, fields...)
}

// GlobalFields returns a copy of the registered ambient fields.
func GlobalFields() []Field {
	globalMu.RLock()
	defer globalMu.RUnlock()
	out := make([]Field, len(globalFields))
	copy(out, globalFields)
	return out
}

// ResetGlobalFields clears the registry. Intended for tests.
func ResetGlobalFields() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalFields = nil
}
