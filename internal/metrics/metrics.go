package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EstimatesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wattai",
		Name:      "estimates_total",
		Help:      "Total cost estimates served, by deployment mode",
	}, []string{"mode"}) // "cloud", "local"

	EstimateErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wattai",
		Name:      "estimate_errors_total",
		Help:      "Total estimate failures, by error kind",
	}, []string{"kind"}) // "invalid_request", "invalid_input", "gpu_not_found"

	CheapestScans = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wattai",
		Name:      "cheapest_scans_total",
		Help:      "Total cheapest-option catalog scans",
	})

	CheapestScanSkips = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wattai",
		Name:      "cheapest_scan_skips_total",
		Help:      "Catalog entries skipped during cheapest-option scans",
	})

	CheapestCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wattai",
		Name:      "cheapest_cache_hits_total",
		Help:      "Cheapest-option results served from the cache",
	})

	CheapestCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wattai",
		Name:      "cheapest_cache_misses_total",
		Help:      "Cheapest-option lookups that missed the cache",
	})

	CatalogSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wattai",
		Name:      "catalog_size",
		Help:      "Number of GPU models in the catalog",
	})
)
