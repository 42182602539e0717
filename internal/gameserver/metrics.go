package gameserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the network side prometheus collectors.
type Metrics struct {
	Connections prometheus.Counter
	Rejections  *prometheus.CounterVec
	Frames      *prometheus.CounterVec
	Dropped     *prometheus.CounterVec
}

// Reasons a frame is dropped.
const (
	dropUnknownOpcode = "unknown_opcode"
	dropNoHandler     = "no_handler"
	dropMalformed     = "malformed"
)

// NewMetrics registers the server collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Connections: f.NewCounter(prometheus.CounterOpts{
			Namespace: "rs2go",
			Subsystem: "net",
			Name:      "connections_total",
			Help:      "Accepted TCP connections.",
		}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rs2go",
			Subsystem: "net",
			Name:      "login_rejections_total",
			Help:      "Refused logins by response code.",
		}, []string{"code"}),
		Frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rs2go",
			Subsystem: "net",
			Name:      "frames_total",
			Help:      "Inbound frames by message kind.",
		}, []string{"message"}),
		Dropped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rs2go",
			Subsystem: "net",
			Name:      "frames_dropped_total",
			Help:      "Inbound frames discarded by reason.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) connection() {
	if m != nil {
		m.Connections.Inc()
	}
}

func (m *Metrics) rejection(code string) {
	if m != nil {
		m.Rejections.WithLabelValues(code).Inc()
	}
}

func (m *Metrics) frame(message string) {
	if m != nil {
		m.Frames.WithLabelValues(message).Inc()
	}
}

func (m *Metrics) drop(reason string) {
	if m != nil {
		m.Dropped.WithLabelValues(reason).Inc()
	}
}
