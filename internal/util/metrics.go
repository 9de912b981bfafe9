package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesComputedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quotes_computed_total",
		Help: "Total number of price quotes computed",
	}, []string{"tier"})

	QuotesFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quotes_failed_total",
		Help: "Total number of rejected quote requests",
	}, []string{"reason"})

	QuoteCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quote_cache_hits_total",
		Help: "Total number of quotes served from cache",
	})

	MarginFloorHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "margin_floor_hits_total",
		Help: "Total number of quotes clamped to the minimum margin",
	})

	IntakesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intakes_created_total",
		Help: "Total number of seller intakes created",
	})

	ProductsImportedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_imported_total",
		Help: "Total number of products imported in bulk",
	})

	ProductsImportFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "products_import_failed_total",
		Help: "Total number of rows that failed during bulk import",
	})

	ProductsRepricedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "products_repriced_total",
		Help: "Total number of products repriced by bulk actions",
	}, []string{"action"})

	QuoteComputeLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_compute_latency_seconds",
		Help:    "Latency of price quote computation",
		Buckets: prometheus.DefBuckets,
	}, []string{"tier"})

	SignalLookupLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signal_lookup_latency_seconds",
		Help:    "Latency of market signal lookups",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
