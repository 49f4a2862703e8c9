package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Dataset metrics
	RecordsLoaded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "screenflux_records_loaded",
			Help: "Valid activity records in the current dataset",
		},
	)

	RecordsRejected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "screenflux_records_rejected",
			Help: "Malformed records quarantined while loading the current dataset",
		},
	)

	DatasetUsageSeconds = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "screenflux_dataset_usage_seconds",
			Help: "Total recorded usage in the current dataset",
		},
	)

	// Reload metrics
	ReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenflux_reloads_total",
			Help: "Dataset reload attempts by result",
		},
		[]string{"result"},
	)

	// View metrics
	ViewRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenflux_view_requests_total",
			Help: "Dashboard view builds requested",
		},
		[]string{"view"},
	)

	ViewCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenflux_view_cache_hits_total",
			Help: "Dashboard views served from cache",
		},
		[]string{"view"},
	)

	// Import metrics
	RecordsImported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenflux_records_imported_total",
			Help: "Records received through the import endpoint by outcome",
		},
		[]string{"outcome"},
	)
)

// Reload results.
const (
	ReloadReplaced  = "replaced"
	ReloadUnchanged = "unchanged"
	ReloadFailed    = "failed"
)

func init() {
	prometheus.MustRegister(
		RecordsLoaded,
		RecordsRejected,
		DatasetUsageSeconds,
		ReloadsTotal,
		ViewRequestsTotal,
		ViewCacheHits,
		RecordsImported,
	)
}

// RegisterRoutes exposes the default registry at GET /metrics.
func RegisterRoutes(r gin.IRouter) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
