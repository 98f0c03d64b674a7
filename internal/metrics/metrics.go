// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CoordinateCacheHits counts resolver cache hits by tier (redis, db).
	CoordinateCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estimate_coordinate_cache_hits_total",
		Help: "Coordinate cache hits by tier",
	}, []string{"tier"})

	// CoordinateCacheMisses counts resolver lookups that reached the geocoder.
	CoordinateCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "estimate_coordinate_cache_misses_total",
		Help: "Coordinate lookups that fell through to the geocoding provider",
	})

	// GeocodeRequests counts external geocoder outcomes (ok, empty, error).
	GeocodeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estimate_geocode_requests_total",
		Help: "Nominatim geocode requests by outcome",
	}, []string{"outcome"})

	// OverpassRequests counts Overpass mirror attempts by endpoint and outcome.
	OverpassRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estimate_overpass_requests_total",
		Help: "Overpass mirror attempts by endpoint and outcome",
	}, []string{"endpoint", "outcome"})

	// AmenityFallbacks counts nearby searches served by the secondary provider.
	AmenityFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "estimate_amenity_fallbacks_total",
		Help: "Nearby-place searches that fell back to the text-search provider",
	})

	// Estimates counts price estimates by mode (model, heuristic).
	Estimates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "estimate_price_estimates_total",
		Help: "Price estimates by prediction mode",
	}, []string{"mode"})

	// ProviderLatency observes upstream call latency by provider.
	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "estimate_provider_latency_seconds",
		Help:    "Latency of external provider calls",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
)
