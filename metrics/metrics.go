package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ContactSubmissions counts terminal results of the contact pipeline
	ContactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions by terminal outcome",
		},
		[]string{"outcome"}, // success, origin_mismatch, captcha_failed, ...
	)

	// ExternalCallDuration measures the outbound calls made while handling a submission
	ExternalCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contact_external_call_duration_seconds",
			Help:    "Duration of calls to Turnstile, the lead store and Resend",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		},
		[]string{"service", "status"},
	)

	// HTTPRequestDuration measures every HTTP request served
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// ConsentDecisions counts cookie consent decisions
	ConsentDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "consent_decisions_total",
			Help: "Cookie consent decisions by status",
		},
		[]string{"status"},
	)
)

// IncrementSubmission records one terminal contact outcome
func IncrementSubmission(outcome string) {
	ContactSubmissions.WithLabelValues(outcome).Inc()
}

// RecordExternalCall records the duration of one outbound call
func RecordExternalCall(service string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ExternalCallDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

// RecordHTTPRequestDuration records one served request
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// IncrementConsent records one consent decision
func IncrementConsent(status string) {
	ConsentDecisions.WithLabelValues(status).Inc()
}
