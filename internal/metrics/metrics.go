// Package metrics provides optional Prometheus instrumentation for the
// protocol engine: frames decoded, reconnect attempts, and the depth of
// the command wait list, request queue and poll cursor (§11 domain
// stack). Every method is nil-receiver-safe, so a Client built without
// a *Metrics incurs zero overhead, matching the teacher's
// pkg/metrics.NewCacheMetrics convention ("pass nil to disable metrics
// collection with zero overhead").
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every collector the engine reports to. A nil *Metrics is
// valid and every method on it is a no-op.
type Metrics struct {
	framesDecoded *prometheus.CounterVec
	reconnects    *prometheus.CounterVec
	waitListDepth *prometheus.GaugeVec
	queueLength   prometheus.Gauge
	pollCursor    prometheus.Gauge
}

// New registers every collector against reg and returns the resulting
// Metrics. Passing a fresh *prometheus.Registry keeps multiple Clients'
// metrics from colliding on prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		framesDecoded: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ifconnect_frames_decoded_total",
				Help: "Total response frames successfully decoded, by session.",
			},
			[]string{"session"},
		),
		reconnects: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "ifconnect_session_reconnects_total",
				Help: "Total reconnect attempts completed, by session.",
			},
			[]string{"session"},
		),
		waitListDepth: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ifconnect_wait_list_depth",
				Help: "Current number of outstanding requests on a session's wait list.",
			},
			[]string{"session"},
		),
		queueLength: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "ifconnect_command_queue_length",
				Help: "Current number of one-shot reads queued on the command session.",
			},
		),
		pollCursor: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "ifconnect_poll_cursor",
				Help: "Current position of the round-robin poll cursor.",
			},
		),
	}
}

func (m *Metrics) FrameDecoded(session string) {
	if m == nil {
		return
	}
	m.framesDecoded.WithLabelValues(session).Inc()
}

func (m *Metrics) Reconnected(session string) {
	if m == nil {
		return
	}
	m.reconnects.WithLabelValues(session).Inc()
}

func (m *Metrics) WaitListDepth(session string, depth int) {
	if m == nil {
		return
	}
	m.waitListDepth.WithLabelValues(session).Set(float64(depth))
}

func (m *Metrics) QueueLength(n int) {
	if m == nil {
		return
	}
	m.queueLength.Set(float64(n))
}

func (m *Metrics) PollCursor(n int) {
	if m == nil {
		return
	}
	m.pollCursor.Set(float64(n))
}
