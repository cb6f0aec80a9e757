// Package metrics exposes Prometheus counters for the logging pipeline's own
// health: events written per sink, collector batches dropped, file rotations.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Sink label values used by the bootstrap layer.
const (
	SinkConsole   = "console"
	SinkFile      = "file"
	SinkCollector = "collector"
)

// Sinks tracks logging sink diagnostics.
type Sinks struct {
	events    *prometheus.CounterVec
	dropped   *prometheus.CounterVec
	rotations prometheus.Counter
}

// NewSinks creates the counter set and registers it on reg.
// Pass prometheus.DefaultRegisterer for process-global metrics.
func NewSinks(reg prometheus.Registerer) *Sinks {
	s := &Sinks{
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "log_events_total",
			Help: "Log events written, by sink.",
		}, []string{"sink"}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "log_batches_dropped_total",
			Help: "Collector batches dropped due to queue overflow or shipping failure.",
		}, []string{"sink"}),
		rotations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "log_file_rotations_total",
			Help: "Day-boundary log file rotations.",
		}),
	}
	if reg != nil {
		reg.MustRegister(s.events, s.dropped, s.rotations)
	}
	return s
}

// Event counts one record written to the named sink. Nil-safe.
func (s *Sinks) Event(sink string) {
	if s == nil {
		return
	}
	s.events.WithLabelValues(sink).Inc()
}

// Dropped counts one dropped batch for the named sink. Nil-safe.
func (s *Sinks) Dropped(sink string) {
	if s == nil {
		return
	}
	s.dropped.WithLabelValues(sink).Inc()
}

// Rotation counts one day-boundary file rotation. Nil-safe.
func (s *Sinks) Rotation() {
	if s == nil {
		return
	}
	s.rotations.Inc()
}
