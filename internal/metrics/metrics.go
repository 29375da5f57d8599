// Package metrics provides Prometheus metrics for the search widget.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the widget's Prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	QueriesTotal     *prometheus.CounterVec
	QueryDuration    prometheus.Histogram
	ResultsRendered  prometheus.Counter
	LoadsTotal       *prometheus.CounterVec
	LoadDuration     prometheus.Histogram
	DocumentsIndexed prometheus.Gauge
	LiveConnections  prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		QueriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sitesearch_queries_total",
			Help: "Total number of search input events, by outcome",
		}, []string{"outcome"}),
		QueryDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitesearch_query_duration_seconds",
			Help:    "Duration of index queries in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		ResultsRendered: f.NewCounter(prometheus.CounterOpts{
			Name: "sitesearch_results_rendered_total",
			Help: "Total number of result cards rendered",
		}),
		LoadsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "sitesearch_loads_total",
			Help: "Document set loads, by status",
		}, []string{"status"}),
		LoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitesearch_load_duration_seconds",
			Help:    "Duration of document set loads in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		DocumentsIndexed: f.NewGauge(prometheus.GaugeOpts{
			Name: "sitesearch_documents_indexed",
			Help: "Number of documents held by the index",
		}),
		LiveConnections: f.NewGauge(prometheus.GaugeOpts{
			Name: "sitesearch_live_connections",
			Help: "Open live search websocket connections",
		}),
	}
}

// RecordQuery records one input event. Outcome is one of skipped, ok, failed.
func (m *Metrics) RecordQuery(outcome string, duration time.Duration, rendered int) {
	if m == nil {
		return
	}
	m.QueriesTotal.WithLabelValues(outcome).Inc()
	if outcome == "ok" {
		m.QueryDuration.Observe(duration.Seconds())
		m.ResultsRendered.Add(float64(rendered))
	}
}

// RecordLoad records a document set load.
func (m *Metrics) RecordLoad(err error, duration time.Duration, docs int) {
	if m == nil {
		return
	}
	if err != nil {
		m.LoadsTotal.WithLabelValues("error").Inc()
		return
	}
	m.LoadsTotal.WithLabelValues("success").Inc()
	m.LoadDuration.Observe(duration.Seconds())
	m.DocumentsIndexed.Set(float64(docs))
}

// LiveOpened and LiveClosed track websocket sessions.
func (m *Metrics) LiveOpened() {
	if m != nil {
		m.LiveConnections.Inc()
	}
}

func (m *Metrics) LiveClosed() {
	if m != nil {
		m.LiveConnections.Dec()
	}
}
