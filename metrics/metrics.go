// Package metrics exposes pipeline counters over a Prometheus endpoint.
package metrics

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector owns the pipeline's Prometheus instruments on a private
// registry, keeping default-registry noise out of the scrape.
type Collector struct {
	registry *prometheus.Registry

	WindowsFetched    prometheus.Counter
	WindowsFailed     prometheus.Counter
	EventsFetched     prometheus.Counter
	TripsBuilt        prometheus.Counter
	GroupsSkipped     prometheus.Counter
	PlannedTrips      prometheus.Counter
	DuplicatesRemoved prometheus.Counter
	SnapshotsWritten  *prometheus.CounterVec
	Published         prometheus.Counter
	PublishErrors     prometheus.Counter
	NATSConnected     prometheus.Gauge
	WindowDuration    prometheus.Histogram
	StepDuration      *prometheus.HistogramVec
}

func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		WindowsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traintrips_windows_fetched_total",
			Help: "Hourly fetch windows completed successfully.",
		}),
		WindowsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traintrips_windows_failed_total",
			Help: "Hourly fetch windows that exhausted their retry budget.",
		}),
		EventsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traintrips_events_fetched_total",
			Help: "Announcement records fetched from the upstream API.",
		}),
		TripsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traintrips_trips_built_total",
			Help: "Trip records produced by the historical builder.",
		}),
		GroupsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traintrips_groups_skipped_total",
			Help: "Trip groups skipped because reduction failed.",
		}),
		PlannedTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traintrips_planned_trips_total",
			Help: "Trip records produced by the forecast builder.",
		}),
		DuplicatesRemoved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traintrips_duplicates_removed_total",
			Help: "Rows dropped while merging curated files into the master table.",
		}),
		SnapshotsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "traintrips_snapshots_written_total",
			Help: "Snapshot files written to the object store.",
		}, []string{"kind"}),
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traintrips_events_published_total",
			Help: "Snapshot notifications published to NATS.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "traintrips_publish_errors_total",
			Help: "Failed NATS publish attempts.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "traintrips_nats_connected",
			Help: "1 while the NATS connection is up.",
		}),
		WindowDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "traintrips_window_fetch_seconds",
			Help:    "Wall time per hourly fetch window, including retries.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		StepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "traintrips_step_seconds",
			Help:    "Wall time per pipeline step.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 14),
		}, []string{"step"}),
	}

	c.registry.MustRegister(
		c.WindowsFetched, c.WindowsFailed, c.EventsFetched,
		c.TripsBuilt, c.GroupsSkipped, c.PlannedTrips,
		c.DuplicatesRemoved, c.SnapshotsWritten,
		c.Published, c.PublishErrors, c.NATSConnected,
		c.WindowDuration, c.StepDuration,
	)
	return c
}

// Handler returns the scrape handler for the collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr in a background goroutine. Serve errors are
// logged, not fatal; the pipeline runs fine without a scrape endpoint.
func (c *Collector) Serve(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	go func() {
		logger.Info("metrics endpoint listening", "addr", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Error("metrics endpoint stopped", "error", err.Error())
		}
	}()
}
