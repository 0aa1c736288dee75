package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the map service.
type Metrics struct {
	LoaderRunning prometheus.Gauge
	LoadPasses    *prometheus.CounterVec // labels: result={complete,earthquakes_failed,plates_failed}

	// Upstream feed metrics.
	FeedRequests *prometheus.CounterVec   // labels: dataset={earthquakes,plates}, outcome={success,error,decode_error}
	FeedDuration *prometheus.HistogramVec // labels: dataset={earthquakes,plates}

	// Render metrics.
	MarkersRendered   prometheus.Counter
	DegenerateMarkers prometheus.Counter
	PolylinesRendered prometheus.Counter
	SkippedGeometries prometheus.Counter
	OverlayItems      *prometheus.GaugeVec // labels: overlay={Earthquakes,Tectonic Plates}

	// Marker sink metrics.
	SinkPublishes *prometheus.CounterVec // labels: outcome={success,error}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		LoaderRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "quakemap",
			Name:      "loader_running",
			Help:      "1 while the data loader is active, 0 when shut down.",
		}),
		LoadPasses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "load_passes_total",
			Help:      "Load passes by result.",
		}, []string{"result"}),
		FeedRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "feed_requests_total",
			Help:      "Upstream GeoJSON fetches by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		FeedDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "quakemap",
			Name:      "feed_request_duration_seconds",
			Help:      "Upstream GeoJSON fetch duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"dataset"}),
		MarkersRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "markers_rendered_total",
			Help:      "Total earthquake markers rendered.",
		}),
		DegenerateMarkers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "degenerate_markers_total",
			Help:      "Markers rendered with a non-finite position or a non-positive radius.",
		}),
		PolylinesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "polylines_rendered_total",
			Help:      "Total tectonic plate boundary polylines rendered.",
		}),
		SkippedGeometries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "skipped_geometries_total",
			Help:      "Plate boundary features skipped because they are not lines.",
		}),
		OverlayItems: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "quakemap",
			Name:      "overlay_items",
			Help:      "Current number of drawables per overlay group.",
		}, []string{"overlay"}),
		SinkPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quakemap",
			Name:      "sink_publishes_total",
			Help:      "Marker batches published to the Kafka sink by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.LoaderRunning,
		m.LoadPasses,
		m.FeedRequests,
		m.FeedDuration,
		m.MarkersRendered,
		m.DegenerateMarkers,
		m.PolylinesRendered,
		m.SkippedGeometries,
		m.OverlayItems,
		m.SinkPublishes,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		LoaderRunning:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "quakemap", Name: "loader_running"}),
		LoadPasses:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quakemap", Name: "load_passes_total"}, []string{"result"}),
		FeedRequests:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quakemap", Name: "feed_requests_total"}, []string{"dataset", "outcome"}),
		FeedDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "quakemap", Name: "feed_request_duration_seconds"}, []string{"dataset"}),
		MarkersRendered:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quakemap", Name: "markers_rendered_total"}),
		DegenerateMarkers: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quakemap", Name: "degenerate_markers_total"}),
		PolylinesRendered: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quakemap", Name: "polylines_rendered_total"}),
		SkippedGeometries: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "quakemap", Name: "skipped_geometries_total"}),
		OverlayItems:      prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "quakemap", Name: "overlay_items"}, []string{"overlay"}),
		SinkPublishes:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "quakemap", Name: "sink_publishes_total"}, []string{"outcome"}),
	}
}
