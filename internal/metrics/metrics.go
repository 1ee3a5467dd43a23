package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests by method, path and status code",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by method and path",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_failures_total",
		Help: "Slack notification deliveries that failed (suppressed, never retried)",
	})

	ProjectsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projects_created_total",
		Help: "Projects derived from won deals",
	})

	ProjectCreationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "project_creation_failures_total",
		Help: "Project derivations that failed after a successful deal update",
	})

	AssistantToolCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assistant_tool_calls_total",
		Help: "Assistant tool executions by tool name and outcome",
	}, []string{"tool", "outcome"})
)
