// Package metrics records pipeline and HTTP counters in a Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// Ensure Prometheus implements the interface.
var _ driven.Metrics = (*Prometheus)(nil)

const namespace = "docsum"

// Prometheus owns a private registry so tests can create as many as they like.
type Prometheus struct {
	registry *prometheus.Registry

	cacheLookups *prometheus.CounterVec
	extractions  *prometheus.CounterVec
	extractTime  *prometheus.HistogramVec
	completions  *prometheus.CounterVec
	summaries    *prometheus.CounterVec
	summaryTime  *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New creates and registers every collector, plus the Go runtime collectors.
func New() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Extraction cache lookups by result.",
		}, []string{"result"}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Completed extractions by file type and method.",
		}, []string{"file_type", "method"}),
		extractTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Extraction latency by file type.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"file_type"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completion attempts by outcome.",
		}, []string{"outcome"}),
		summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Finished summaries by strategy and truncation.",
		}, []string{"strategy", "truncated"}),
		summaryTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summary_duration_seconds",
			Help:      "Summarisation latency by strategy.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}, []string{"strategy"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	p.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.cacheLookups,
		p.extractions,
		p.extractTime,
		p.completions,
		p.summaries,
		p.summaryTime,
		p.httpRequests,
		p.httpDuration,
	)
	return p
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// ObserveCache records a hit or miss.
func (p *Prometheus) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveExtraction records one extraction.
func (p *Prometheus) ObserveExtraction(fileType, method string, elapsed time.Duration) {
	p.extractions.WithLabelValues(fileType, method).Inc()
	p.extractTime.WithLabelValues(fileType).Observe(elapsed.Seconds())
}

// ObserveCompletion records one completion attempt.
func (p *Prometheus) ObserveCompletion(outcome string) {
	p.completions.WithLabelValues(outcome).Inc()
}

// ObserveSummary records one finished summary.
func (p *Prometheus) ObserveSummary(strategy string, truncated bool, elapsed time.Duration) {
	p.summaries.WithLabelValues(strategy, strconv.FormatBool(truncated)).Inc()
	p.summaryTime.WithLabelValues(strategy).Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func (p *Prometheus) ObserveHTTP(route string, code int, elapsed time.Duration) {
	p.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	p.httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
