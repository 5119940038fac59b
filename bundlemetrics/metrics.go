// Package bundlemetrics defines Prometheus metrics for the bundler's
// pipeline stages.
package bundlemetrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bundle_parse_seconds",
		Help:    "Time spent parsing one module's source.",
		Buckets: prometheus.DefBuckets,
	}, []string{"module"})

	ClassifyErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bundle_classify_errors_total",
		Help: "Total number of modules that failed classification.",
	})

	GraphVerticesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bundle_graph_vertices_total",
		Help: "Number of vertices in the dead-code-elimination graph for the last bundle.",
	})

	GraphEdgesTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bundle_graph_edges_total",
		Help: "Number of edges in the dead-code-elimination graph for the last bundle.",
	})

	MembersEliminatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bundle_members_eliminated_total",
		Help: "Total number of members dropped by dead-code elimination.",
	})

	ModulesEmittedTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bundle_modules_emitted_total",
		Help: "Number of modules present in the last emitted bundle.",
	})

	BundleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bundle_total_seconds",
		Help:    "Time spent running the full bundle pipeline.",
		Buckets: prometheus.DefBuckets,
	})

	WatchEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bundle_watch_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatchRebuildsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bundle_watch_rebuilds_total",
		Help: "Total number of rebuilds triggered by the watcher.",
	})
)
