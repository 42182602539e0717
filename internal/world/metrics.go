package world

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the tick driver's prometheus collectors.
type Metrics struct {
	TickDuration prometheus.Histogram
	Online       prometheus.Gauge
	TickErrors   *prometheus.CounterVec
	Jobs         prometheus.Counter
}

// NewMetrics registers the tick collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TickDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rs2go",
			Subsystem: "world",
			Name:      "tick_duration_seconds",
			Help:      "Time spent processing one world tick.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		}),
		Online: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "rs2go",
			Subsystem: "world",
			Name:      "players_online",
			Help:      "Registered players.",
		}),
		TickErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rs2go",
			Subsystem: "world",
			Name:      "tick_errors_total",
			Help:      "Per-player failures by tick phase.",
		}, []string{"phase"}),
		Jobs: f.NewCounter(prometheus.CounterOpts{
			Namespace: "rs2go",
			Subsystem: "world",
			Name:      "jobs_total",
			Help:      "Deferred world jobs executed.",
		}),
	}
}
