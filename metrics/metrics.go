// Package metrics defines the Prometheus instrumentation for the newsfeed
// service. All collectors are registered on the default registry at init
// time and exposed through the API's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsfeed_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsfeed_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Ingestion metrics
	ArticlesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsfeed_articles_fetched_total",
			Help: "Total number of articles fetched from sources",
		},
		[]string{"source", "status"},
	)

	ArticlesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsfeed_articles_processed_total",
			Help: "Total number of articles run through the ingestion pipeline",
		},
		[]string{"source", "outcome"},
	)

	ClassificationFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsfeed_classification_fallbacks_total",
			Help: "Total number of classifications that fell back to the Other category",
		},
		[]string{"kind"},
	)

	IngestRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsfeed_ingest_run_duration_seconds",
			Help:    "Duration of a full ingestion pass over one source",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source"},
	)

	// Search metrics
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsfeed_search_requests_total",
			Help: "Total number of semantic search requests",
		},
		[]string{"status"},
	)

	// Reconcile metrics
	DanglingVectorsPurged = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsfeed_dangling_vectors_purged_total",
			Help: "Total number of vector index entries removed because no article record matched",
		},
	)
)
