// Package metrics exposes Prometheus instruments for the dashboard server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ouraboard"

var (
	requestCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, by route and status code.",
	}, []string{"route", "code"})

	renderDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "render_duration_seconds",
		Help:      "Time to load the snapshot and build the dashboard view.",
		Buckets:   prometheus.DefBuckets,
	})

	loadFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "dashboard",
		Name:      "load_failures_total",
		Help:      "Snapshot loads that fell back to the placeholder view.",
	})

	snapshotUpdatedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "snapshot",
		Name:      "last_updated_timestamp_seconds",
		Help:      "Unix timestamp of lastUpdated in the most recently loaded snapshot.",
	})

	insightCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "insights",
		Name:      "requests_total",
		Help:      "Insight requests, by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(requestCounter, renderDuration, loadFailures, snapshotUpdatedGauge, insightCounter)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest counts one served request.
func RecordRequest(route string, code int) {
	requestCounter.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// RecordRender observes one dashboard build. A failed load counts as a
// fallback; a successful one moves the snapshot watermark.
func RecordRender(d time.Duration, updated time.Time, loaded bool) {
	renderDuration.Observe(d.Seconds())
	if !loaded {
		loadFailures.Inc()
		return
	}
	if !updated.IsZero() {
		snapshotUpdatedGauge.Set(float64(updated.Unix()))
	}
}

// RecordInsight counts one insight request outcome, e.g. "ok" or "error".
func RecordInsight(result string) {
	insightCounter.WithLabelValues(result).Inc()
}
