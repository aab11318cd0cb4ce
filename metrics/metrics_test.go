package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveToolCall(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveToolCall("manage_gameobject", OutcomeSuccess, 10*time.Millisecond)
	m.ObserveToolCall("manage_gameobject", OutcomeSuccess, 20*time.Millisecond)
	m.ObserveToolCall("manage_gameobject", OutcomeFailure, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("manage_gameobject", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ToolCalls.WithLabelValues("manage_gameobject", OutcomeFailure)))
}

func TestObserveHostCommandAndReconnects(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHostCommand("manage_gameobject", "ok", time.Millisecond)
	m.IncReconnects()
	m.IncReconnects()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HostCommands.WithLabelValues("manage_gameobject", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.HostReconnects))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveToolCall("tool", OutcomeError, time.Second)
		m.ObserveHostCommand("cmd", "error", time.Second)
		m.IncReconnects()
	})
}
