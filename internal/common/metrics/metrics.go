// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "site_http_requests_total",
			Help: "Total number of HTTP requests served by the site",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "site_http_request_duration_seconds",
			Help:    "Duration of HTTP request handling in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	AssessmentSessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assessment_sessions_started_total",
			Help: "Total number of assessment wizard sessions started",
		},
	)

	AssessmentStepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_step_transitions_total",
			Help: "Total number of wizard step transitions",
		},
		[]string{"direction"},
	)

	AssessmentResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessment_results_total",
			Help: "Total number of assessments that reached results, by purpose",
		},
		[]string{"purpose"},
	)

	FormSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_submissions_total",
			Help: "Total number of booking/contact submissions",
		},
		[]string{"form", "status"},
	)

	FormSubmissionsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "form_submissions_active",
			Help: "Number of submissions currently in flight",
		},
		[]string{"form"},
	)
)
