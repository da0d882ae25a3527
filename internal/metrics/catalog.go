package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Catalog client Prometheus metrics.
var (
	CatalogRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentinelsearch",
			Name:      "catalog_requests_total",
			Help:      "Total number of catalog API requests",
		},
		[]string{"operation", "status"},
	)

	CatalogRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "sentinelsearch",
			Name:      "catalog_request_duration_seconds",
			Help:      "Catalog API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"operation"},
	)

	ProductsFound = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sentinelsearch",
			Name:      "products_found_total",
			Help:      "Total products returned by searches and lookups",
		},
	)

	DownloadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "sentinelsearch",
			Name:      "download_bytes_total",
			Help:      "Total product bytes downloaded",
		},
	)

	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "sentinelsearch",
			Name:      "downloads_total",
			Help:      "Product downloads by outcome",
		},
		[]string{"result"}, // "ok" / "failed" / "skipped"
	)
)

var registerOnce sync.Once

// RegisterCatalogMetrics registers the catalog metrics on the default registry.
func RegisterCatalogMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(CatalogRequestsTotal)
		prometheus.MustRegister(CatalogRequestDuration)
		prometheus.MustRegister(ProductsFound)
		prometheus.MustRegister(DownloadBytesTotal)
		prometheus.MustRegister(DownloadsTotal)
	})
}
