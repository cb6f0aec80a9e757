package bootstrap

import "sort"

// DefaultPriority is assumed for handlers that do not declare one. Handlers
// with negative priorities run before undeclared ones, positive after.
const DefaultPriority = 0

// Handler transforms the application logger configuration. Handlers must be
// pure transforms: take the builder, return the (possibly) modified builder,
// no other side effects. A panicking handler aborts initialization.
type Handler interface {
	ConfigureLogger(Builder) Builder
}

// StartupHandler is the startup-phase counterpart of Handler. The two are
// kept as distinct types so a handler cannot be registered for the wrong
// phase by accident.
type StartupHandler interface {
	ConfigureStartupLogger(Builder) Builder
}

// Prioritized is implemented by handlers that declare an explicit ordering
// priority. Lower values are applied first.
type Prioritized interface {
	Priority() int
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(Builder) Builder

// ConfigureLogger implements Handler.
func (f HandlerFunc) ConfigureLogger(b Builder) Builder { return f(b) }

// StartupHandlerFunc adapts a function to the StartupHandler interface.
type StartupHandlerFunc func(Builder) Builder

// ConfigureStartupLogger implements StartupHandler.
func (f StartupHandlerFunc) ConfigureStartupLogger(b Builder) Builder { return f(b) }

// OrderHandlers returns the handlers sorted by ascending priority. Handlers
// without a declared priority get DefaultPriority; ties keep their original
// (discovery) order. The input slice is not modified.
func OrderHandlers[H any](handlers []H) []H {
	out := make([]H, len(handlers))
	copy(out, handlers)
	sort.SliceStable(out, func(i, j int) bool {
		return priorityOf(out[i]) < priorityOf(out[j])
	})
	return out
}

func priorityOf(h any) int {
	if p, ok := h.(Prioritized); ok {
		return p.Priority()
	}
	return DefaultPriority
}
