package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lingua",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lingua",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	// Provider round-trip counters
	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lingua",
			Name:      "provider_requests_total",
			Help:      "Total LLM provider round trips",
		},
		[]string{"provider", "status"},
	)

	// Provider round-trip duration
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lingua",
			Name:      "provider_duration_seconds",
			Help:      "LLM provider round-trip duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"provider"},
	)

	// Tool execution counters
	ToolExecutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "lingua",
			Name:      "tool_executions_total",
			Help:      "Total tool executions across registry and MCP gateway",
		},
		[]string{"tool_name", "status"},
	)

	// Tool execution duration
	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "lingua",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)
)
