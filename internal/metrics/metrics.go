// Package metrics holds the Prometheus collectors exported on /metrics
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// source load latency
	LoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_load_duration_seconds",
			Help:    "Project source load duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
		},
		[]string{"source", "result"},
	)

	LoadedProjects = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "folio_loaded_projects",
			Help: "Number of projects returned by the last load of a source",
		},
		[]string{"source"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_cache_lookups_total",
			Help: "Source cache lookups",
		},
		[]string{"result"}, // hit, miss
	)

	ValidationFindings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_validation_findings_total",
			Help: "Validation errors and warnings by rule",
		},
		[]string{"severity", "rule"},
	)

	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "folio_query_duration_seconds",
			Help:    "Filter/search/sort duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
	)

	TransformFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "folio_transform_fallbacks_total",
			Help: "Batch transform items replaced by their fallback value",
		},
		[]string{"transform"},
	)

	// HTTP request latency
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

// RecordLoad records a source load and, on success, its size
func RecordLoad(source string, count int, err error, duration time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	} else {
		LoadedProjects.WithLabelValues(source).Set(float64(count))
	}
	LoadDuration.WithLabelValues(source, result).Observe(duration.Seconds())
}

// RecordCacheLookup counts a cache hit or miss
func RecordCacheLookup(hit bool) {
	if hit {
		CacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CacheLookups.WithLabelValues("miss").Inc()
}

// RecordValidationFinding counts one error or warning
func RecordValidationFinding(severity, rule string) {
	ValidationFindings.WithLabelValues(severity, rule).Inc()
}

// RecordQuery observes one query engine run
func RecordQuery(duration time.Duration) {
	QueryDuration.Observe(duration.Seconds())
}

// IncrementTransformFallback counts a fallback substitution
func IncrementTransformFallback(transform string) {
	TransformFallbacks.WithLabelValues(transform).Inc()
}

// RecordHTTPRequestDuration records HTTP request latency
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
