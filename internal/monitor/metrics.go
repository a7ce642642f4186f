package monitor

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts loop activity for the /prometheus endpoint
type Metrics struct {
	Ticks              prometheus.Counter
	Triggers           *prometheus.CounterVec
	ExtractionFailures *prometheus.CounterVec
}

// NewMetrics builds the loop counters and registers them with reg.
// A nil registerer leaves them unregistered, which tests use.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "machmon_ticks_total",
			Help: "Completed sampling iterations of the monitoring loop.",
		}),
		Triggers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "machmon_trigger_events_total",
			Help: "Emitted trigger events by reason.",
		}, []string{"reason"}),
		ExtractionFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "machmon_extraction_failures_total",
			Help: "Metric categories omitted from a snapshot due to extraction failure.",
		}, []string{"category"}),
	}

	if reg != nil {
		reg.MustRegister(m.Ticks, m.Triggers, m.ExtractionFailures)
	}
	return m
}
