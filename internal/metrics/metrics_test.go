package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsAreNoOps(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.FrameDecoded("command")
		m.Reconnected("poll")
		m.WaitListDepth("command", 3)
		m.QueueLength(1)
		m.PollCursor(2)
	})
}

func TestFrameDecodedIncrementsBySession(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FrameDecoded("command")
	m.FrameDecoded("command")
	m.FrameDecoded("poll")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.framesDecoded.WithLabelValues("command")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.framesDecoded.WithLabelValues("poll")))
}

func TestReconnectedIncrementsBySession(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Reconnected("poll")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.reconnects.WithLabelValues("poll")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.reconnects.WithLabelValues("command")))
}

func TestWaitListDepthSetsGaugeBySession(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.WaitListDepth("command", 1)
	m.WaitListDepth("command", 0)

	assert.Equal(t, float64(0), testutil.ToFloat64(m.waitListDepth.WithLabelValues("command")))
}

func TestQueueLengthAndPollCursorAreSimpleGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.QueueLength(5)
	m.PollCursor(3)

	assert.Equal(t, float64(5), testutil.ToFloat64(m.queueLength))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.pollCursor))
}

func TestNewRegistersDistinctCollectorsPerRegistry(t *testing.T) {
	reg1 := prometheus.NewRegistry()
	reg2 := prometheus.NewRegistry()

	assert.NotPanics(t, func() {
		New(reg1)
		New(reg2)
	})
}
