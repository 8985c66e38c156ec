// Package metrics defines the custom Prometheus collectors of the website
// builder API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Collectors register with the default registry on package init via promauto,
// so importing the package is enough.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "website_builder"

// ── Website metrics ───────────────────────────────────────────────────────────

// WebsitesCreatedTotal counts stored websites.
// Label:
//   - source: "manual" (POST /websites) or "generated" (POST /generate-website)
var WebsitesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "websites_created_total",
		Help:      "Total number of websites created, by source.",
	},
	[]string{"source"},
)

// ── Generation metrics ────────────────────────────────────────────────────────

// GenerationRequestsTotal counts content generation attempts.
// Label:
//   - result: "ok", "failed" (upstream error) or "malformed" (unparseable output)
var GenerationRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "generation_requests_total",
		Help:      "Total number of content generation requests, by result.",
	},
	[]string{"result"},
)

// GenerationDuration measures upstream model latency.
// Label:
//   - model: the model that answered
var GenerationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "generation_duration_seconds",
		Help:      "Duration of upstream content generation calls.",
		Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 20, 40},
	},
	[]string{"model"},
)

// ── Request guard metrics ─────────────────────────────────────────────────────

// RateLimitedTotal counts requests rejected by the rate limiter.
// Label:
//   - key_type: "user" or "ip"
var RateLimitedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limited_total",
		Help:      "Total number of requests rejected with 429.",
	},
	[]string{"key_type"},
)

// AuthFailuresTotal counts rejected credentials.
// Label:
//   - reason: "missing", "malformed", "expired", "invalid_signature", "unknown_subject"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected by token verification.",
	},
	[]string{"reason"},
)

// ── Core adapter ─────────────────────────────────────────────────────────────

// Recorder feeds core service events into the collectors above.
type Recorder struct{}

func (Recorder) WebsiteCreated(source string) {
	WebsitesCreatedTotal.WithLabelValues(source).Inc()
}

func (Recorder) GenerationFinished(result string) {
	GenerationRequestsTotal.WithLabelValues(result).Inc()
}

func (Recorder) GenerationLatency(model string, elapsed time.Duration) {
	GenerationDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}
