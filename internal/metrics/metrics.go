// Package metrics registers the Prometheus collectors for the server.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal counts HTTP requests by route and status
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kerbside_http_requests_total",
		Help: "Total HTTP requests by route and status",
	}, []string{"route", "status"})
	// RequestDurationMs observes HTTP latency per route
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kerbside_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})

	// RefreshTotal counts snapshot refreshes by result
	RefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kerbside_refresh_total",
		Help: "Snapshot refresh attempts by result",
	}, []string{"result"})
	// RefreshDurationMs observes how long a refresh takes
	RefreshDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "kerbside_refresh_duration_ms",
		Help:    "Snapshot refresh duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	// SnapshotBays reports the current snapshot size per status
	SnapshotBays = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "kerbside_snapshot_bays",
		Help: "Bays in the current snapshot by status",
	}, []string{"status"})
	// SnapshotDroppedRows reports rows dropped by the last refresh
	SnapshotDroppedRows = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "kerbside_snapshot_dropped_rows",
		Help: "Rows dropped from the last batch for missing or invalid coordinates",
	})

	// GeocodeRequestsTotal counts upstream geocoder calls by result
	GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kerbside_geocode_requests_total",
		Help: "Geocoder calls by result (hit, miss, error)",
	}, []string{"result"})
	// GeocodeDurationMs observes upstream geocoder latency
	GeocodeDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "kerbside_geocode_duration_ms",
		Help:    "Upstream geocoder call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	// GeocodeCacheTotal counts cache lookups by tier and outcome
	GeocodeCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "kerbside_geocode_cache_total",
		Help: "Geocode cache lookups by tier and outcome",
	}, []string{"tier", "outcome"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(RefreshTotal)
	prometheus.MustRegister(RefreshDurationMs)
	prometheus.MustRegister(SnapshotBays)
	prometheus.MustRegister(SnapshotDroppedRows)
	prometheus.MustRegister(GeocodeRequestsTotal)
	prometheus.MustRegister(GeocodeDurationMs)
	prometheus.MustRegister(GeocodeCacheTotal)
}

// Handler exposes the registered metrics for scraping
func Handler() http.Handler { return promhttp.Handler() }
