package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	responsesSubmitted    *prometheus.CounterVec
	studentResolutions    *prometheus.CounterVec
	eventsPublishedFailed prometheus.Counter
)

// Outcome labels for ResponsesSubmitted.
const (
	OutcomeStored           = "stored"
	OutcomeAlreadyResponded = "already_responded"
	OutcomeInvalid          = "invalid"
	OutcomeFailed           = "failed"
)

// Result labels for StudentResolutions.
const (
	ResolutionMatched = "matched"
	ResolutionCreated = "created"
	ResolutionSkipped = "skipped"
	ResolutionFailed  = "failed"
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "survey_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "survey_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "survey_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		responsesSubmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "survey_responses_submitted_total",
			Help: "Survey submissions partitioned by outcome.",
		}, []string{"outcome"})

		studentResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "survey_student_resolutions_total",
			Help: "Student resolution attempts partitioned by result.",
		}, []string{"result"})

		eventsPublishedFailed = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "survey_events_publish_failures_total",
			Help: "Events that could not be handed to the message broker.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, httpErrorsTotal, responsesSubmitted, studentResolutions, eventsPublishedFailed)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// ResponsesSubmitted exposes the submission outcome counter.
func ResponsesSubmitted() *prometheus.CounterVec {
	RegisterMetrics()
	return responsesSubmitted
}

// StudentResolutions exposes the student resolution counter.
func StudentResolutions() *prometheus.CounterVec {
	RegisterMetrics()
	return studentResolutions
}

// EventPublishFailures exposes the broker failure counter.
func EventPublishFailures() prometheus.Counter {
	RegisterMetrics()
	return eventsPublishedFailed
}
