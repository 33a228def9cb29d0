package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveInbound(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveInbound(OutcomeReply)
	m.ObserveInbound(OutcomeReply)
	m.ObserveInbound(OutcomeStatus)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.inboundTotal.WithLabelValues(OutcomeReply)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.inboundTotal.WithLabelValues(OutcomeStatus)))
}

func TestObserveSegments(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSegments(3)
	m.ObserveSegments(1)

	assert.Equal(t, float64(4), testutil.ToFloat64(m.segmentsTotal))
}

func TestObserveAssistantLatency(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveAssistantLatency(1.2)
	m.ObserveAssistantLatency(4.5)

	count, err := testutil.GatherAndCount(reg, "wabridge_assistant_round_trip_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveInbound(OutcomeReply)
	m.ObserveSegments(2)
	m.ObserveAssistantLatency(0.1)
}
