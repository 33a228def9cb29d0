// Package metrics exposes Prometheus collectors for the relay.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Inbound webhook outcomes.
const (
	OutcomeReply      = "reply"       // real assistant answer relayed
	OutcomeApology    = "apology"     // pipeline failed, fallback sent
	OutcomeStatus     = "status"      // delivery-status callback, no action
	OutcomeBadRequest = "bad_request" // missing sender or body
)

// Metrics exposes counters/histograms for the webhook relay.
type Metrics struct {
	inboundTotal     *prometheus.CounterVec
	segmentsTotal    prometheus.Counter
	assistantLatency prometheus.Histogram
}

// New creates and registers the relay metrics. A nil registerer uses the
// default registry.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		inboundTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wabridge",
			Subsystem: "webhook",
			Name:      "inbound_total",
			Help:      "Total inbound webhook requests by outcome",
		}, []string{"outcome"}),
		segmentsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "wabridge",
			Subsystem: "webhook",
			Name:      "reply_segments_total",
			Help:      "Total reply segments sent",
		}),
		assistantLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wabridge",
			Subsystem: "assistant",
			Name:      "round_trip_seconds",
			Help:      "Latency of the full assistant ask/poll/fetch cycle",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 45},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.inboundTotal, m.segmentsTotal, m.assistantLatency)
	return m
}

// ObserveInbound counts one inbound webhook by outcome.
func (m *Metrics) ObserveInbound(outcome string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(outcome).Inc()
}

// ObserveSegments counts reply segments sent.
func (m *Metrics) ObserveSegments(n int) {
	if m == nil {
		return
	}
	m.segmentsTotal.Add(float64(n))
}

// ObserveAssistantLatency records one assistant round trip.
func (m *Metrics) ObserveAssistantLatency(seconds float64) {
	if m == nil {
		return
	}
	m.assistantLatency.Observe(seconds)
}
