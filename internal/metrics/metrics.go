package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// httpRequestDuration tracks handler latency by route and status.
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grosnap_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status code",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	}, []string{"method", "route", "status"})

	// matchRequests counts find-items runs.
	matchRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grosnap_match_requests_total",
		Help: "Total number of inventory match requests",
	})

	// matchItems tracks how many list items a request carried.
	matchItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grosnap_match_items_count",
		Help:    "Number of list items per match request",
		Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
	})

	// matchFound counts item hits summed over shops.
	matchFound = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grosnap_match_items_found_total",
		Help: "Total number of item/shop matches",
	})

	// matchShops tracks how many shops a request was evaluated against.
	matchShops = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grosnap_match_shops_count",
		Help:    "Number of shops evaluated per match request",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 500},
	})

	// nearbyResults tracks how many candidates survived the radius filter.
	nearbyResults = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grosnap_nearby_results_count",
		Help:    "Number of nearby results returned by source",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	}, []string{"source"}) // source: catalog, overpass

	// nearestDistance tracks the distance to the closest result.
	nearestDistance = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "grosnap_nearest_distance_km",
		Help:    "Distance to the nearest returned result in kilometers",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 50},
	})

	// upstreamErrors counts dependency failures.
	upstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grosnap_upstream_errors_total",
		Help: "Total number of upstream dependency failures",
	}, []string{"dependency"}) // dependency: ocr, overpass, catalog

	// poiCacheLookups counts overpass cache hits and misses.
	poiCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grosnap_poi_cache_lookups_total",
		Help: "POI cache lookups by result",
	}, []string{"result"})

	// notifications counts order notifications by channel and outcome.
	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grosnap_order_notifications_total",
		Help: "Order notifications by channel and outcome",
	}, []string{"channel", "outcome"})
)

// Recorder provides methods to record service metrics.
// The zero value is ready to use.
type Recorder struct{}

// NewRecorder creates a new metrics recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// RecordHTTPRequest records the latency of a handled request.
func (r *Recorder) RecordHTTPRequest(method, route, status string, d time.Duration) {
	httpRequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

// RecordMatch records a completed inventory match.
func (r *Recorder) RecordMatch(items, shops, found int) {
	matchRequests.Inc()
	matchItems.Observe(float64(items))
	matchShops.Observe(float64(shops))
	matchFound.Add(float64(found))
}

// RecordNearby records the outcome of a proximity search.
func (r *Recorder) RecordNearby(source string, results int, nearestKm float64) {
	nearbyResults.WithLabelValues(source).Observe(float64(results))
	if results > 0 {
		nearestDistance.Observe(nearestKm)
	}
}

// RecordUpstreamError records a failed dependency call.
func (r *Recorder) RecordUpstreamError(dependency string) {
	upstreamErrors.WithLabelValues(dependency).Inc()
}

// RecordPOICache records a POI cache lookup.
func (r *Recorder) RecordPOICache(hit bool) {
	if hit {
		poiCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	poiCacheLookups.WithLabelValues("miss").Inc()
}

// RecordNotification records an order notification attempt.
func (r *Recorder) RecordNotification(channel string, err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	notifications.WithLabelValues(channel, outcome).Inc()
}
