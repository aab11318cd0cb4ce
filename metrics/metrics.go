// Package metrics holds the Prometheus collectors shared by the tool layer and
// the Unity bridge. A nil *Metrics records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "unity_mcp"

// Outcome labels for tool calls.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeError   = "error"
)

// Metrics holds all Prometheus metrics for the server.
type Metrics struct {
	ToolCalls           *prometheus.CounterVec
	ToolCallDuration    *prometheus.HistogramVec
	HostCommands        *prometheus.CounterVec
	HostCommandDuration *prometheus.HistogramVec
	HostReconnects      prometheus.Counter
}

// New creates and registers all metrics with the given registry.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ToolCalls: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of MCP tool calls",
			},
			[]string{"tool", "outcome"},
		),
		ToolCallDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_call_duration_seconds",
				Help:      "Tool call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
		HostCommands: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "host_commands_total",
				Help:      "Total number of commands sent to the Unity editor",
			},
			[]string{"command", "status"},
		),
		HostCommandDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "host_command_duration_seconds",
				Help:      "Round trip time of Unity editor commands in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		HostReconnects: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "host_reconnects_total",
				Help:      "Total number of Unity editor connections established after a drop",
			},
		),
	}
}

// ObserveToolCall records one finished tool call.
func (m *Metrics) ObserveToolCall(tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ToolCalls.WithLabelValues(tool, outcome).Inc()
	m.ToolCallDuration.WithLabelValues(tool).Observe(elapsed.Seconds())
}

// ObserveHostCommand records one command round trip to the editor.
func (m *Metrics) ObserveHostCommand(command, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HostCommands.WithLabelValues(command, status).Inc()
	m.HostCommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// IncReconnects counts a connection re-established after a failure.
func (m *Metrics) IncReconnects() {
	if m == nil {
		return
	}
	m.HostReconnects.Inc()
}
