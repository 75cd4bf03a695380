// Package telemetry exposes Prometheus collectors for the refresh pipeline.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sensordash"

// Fetch outcomes
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeCanceled = "canceled"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal      *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	refreshDuration prometheus.Histogram
	refreshTotal    *prometheus.CounterVec
	staleResults    *prometheus.CounterVec
	currentValue    *prometheus.GaugeVec
	sourceUp        prometheus.Gauge
	viewSubscribers prometheus.Gauge
}

// New creates the collectors on their own registry, together with the Go
// runtime and process collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Total API fetches by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Histogram of API fetch durations by endpoint.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Histogram of full refresh cycle durations.",
			Buckets:   prometheus.DefBuckets,
		}),
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Total refresh cycles by kind (full, range).",
		}, []string{"kind"}),
		staleResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_results_total",
			Help:      "Results discarded because a newer cycle had already committed.",
		}, []string{"kind"}),
		currentValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "current_value",
			Help:      "Latest committed sensor value by metric.",
		}, []string{"metric"}),
		sourceUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_up",
			Help:      "Whether the last connection probe succeeded (1) or failed (0).",
		}),
		viewSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Number of connected WebSocket clients.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.fetchTotal,
		m.fetchDuration,
		m.refreshDuration,
		m.refreshTotal,
		m.staleResults,
		m.currentValue,
		m.sourceUp,
		m.viewSubscribers,
	)

	return m
}

// Registry returns the registry the collectors are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the exposition format for this registry
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Fetch records one endpoint request
func (m *Metrics) Fetch(endpoint, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(endpoint, outcome).Inc()
	m.fetchDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// Refresh records a finished cycle of the given kind
func (m *Metrics) Refresh(kind string, duration time.Duration) {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues(kind).Inc()
	if kind == "full" {
		m.refreshDuration.Observe(duration.Seconds())
	}
}

// Stale records a discarded result
func (m *Metrics) Stale(kind string) {
	if m == nil {
		return
	}
	m.staleResults.WithLabelValues(kind).Inc()
}

// SetCurrent records the latest committed value of a metric
func (m *Metrics) SetCurrent(metric string, value float64) {
	if m == nil {
		return
	}
	m.currentValue.WithLabelValues(metric).Set(value)
}

// SetSourceUp records the result of a connection probe
func (m *Metrics) SetSourceUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.sourceUp.Set(1)
	} else {
		m.sourceUp.Set(0)
	}
}

// SetClients records the number of WebSocket clients
func (m *Metrics) SetClients(n int) {
	if m == nil {
		return
	}
	m.viewSubscribers.Set(float64(n))
}
