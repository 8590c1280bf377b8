package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custodia",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	checklistsGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "custodia",
			Name:      "checklists_generated_total",
			Help:      "Booking checklist PDF generations by outcome.",
		},
		[]string{"outcome"},
	)

	renderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "custodia",
			Name:      "pdf_render_seconds",
			Help:      "Headless browser render duration.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, checklistsGenerated, renderDuration)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncChecklist records one generation attempt by outcome.
func IncChecklist(outcome string) {
	checklistsGenerated.WithLabelValues(outcome).Inc()
}

// ObserveChecklist records a successful generation and its render time.
func ObserveChecklist(outcome string, dur time.Duration) {
	checklistsGenerated.WithLabelValues(outcome).Inc()
	renderDuration.Observe(dur.Seconds())
}
