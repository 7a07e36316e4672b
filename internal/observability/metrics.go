// Package observability holds the Prometheus tool-call metrics and the OpenTelemetry tracer setup.
package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jira_requester"

// Metrics records one sample per dispatched tool call on its own registry.
type Metrics struct {
	registry         *prometheus.Registry
	toolCallTotal    *prometheus.CounterVec
	toolCallDuration *prometheus.HistogramVec
}

// NewMetrics creates the tool-call collectors and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		toolCallTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tool_calls_total",
				Help:      "Total number of tool calls by outcome",
			},
			[]string{"tool", "status"},
		),
		toolCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "tool_call_duration_seconds",
				Help:      "Duration of tool calls in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool", "status"},
		),
	}
	m.registry.MustRegister(
		m.toolCallTotal,
		m.toolCallDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordToolCall records a tool call.
func (m *Metrics) RecordToolCall(_ context.Context, tool, status string, duration time.Duration) {
	m.toolCallTotal.WithLabelValues(tool, status).Inc()
	m.toolCallDuration.WithLabelValues(tool, status).Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
