// Package telemetry defines the Prometheus metric collectors used across the
// pipeline and exposes an HTTP handler for scraping.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors for the fetcher.
type Metrics struct {
	RequestsTotal         *prometheus.CounterVec
	ProviderFetchesTotal  *prometheus.CounterVec
	ProviderFetchDuration *prometheus.HistogramVec
	ArticlesFetched       *prometheus.HistogramVec
	EnrichmentsTotal      *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics. Call once per process.
func New() *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "articles_requests_total",
				Help: "Total article requests by subject and status.",
			},
			[]string{"subject", "status"},
		),
		ProviderFetchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_fetches_total",
				Help: "Total provider fetch attempts by provider and outcome.",
			},
			[]string{"provider", "outcome"},
		),
		ProviderFetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provider_fetch_duration_seconds",
				Help:    "Provider fetch latency in seconds.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provider"},
		),
		ArticlesFetched: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "articles_fetched_count",
				Help:    "Number of articles contributed per provider fetch.",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
			},
			[]string{"provider"},
		),
		EnrichmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "content_enrichments_total",
				Help: "Total enrichment attempts by outcome (enriched, skipped, failed).",
			},
			[]string{"outcome"},
		),
	}

	prometheus.MustRegister(
		m.RequestsTotal,
		m.ProviderFetchesTotal,
		m.ProviderFetchDuration,
		m.ArticlesFetched,
		m.EnrichmentsTotal,
	)

	return m
}

// ObserveFetch records one provider fetch. Nil receivers are no-ops so the
// pipeline can run without telemetry in tests.
func (m *Metrics) ObserveFetch(provider string, count int, d time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ProviderFetchesTotal.WithLabelValues(provider, outcome).Inc()
	m.ProviderFetchDuration.WithLabelValues(provider).Observe(d.Seconds())
	m.ArticlesFetched.WithLabelValues(provider).Observe(float64(count))
}

// ObserveRequest records one /api/articles request outcome.
func (m *Metrics) ObserveRequest(subject, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(subject, status).Inc()
}

// ObserveEnrichment records one per-article enrichment outcome.
func (m *Metrics) ObserveEnrichment(outcome string) {
	if m == nil {
		return
	}
	m.EnrichmentsTotal.WithLabelValues(outcome).Inc()
}

// Handler returns the Prometheus scrape HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
