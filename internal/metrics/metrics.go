// Package metrics exposes Prometheus collectors for the fleet tracker.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors. It satisfies fleet.Observer and
// activity.Observer.
type Metrics struct {
	registry *prometheus.Registry

	SweepsTotal      *prometheus.CounterVec
	MarkedOffline    prometheus.Counter
	SweepDuration    prometheus.Histogram
	InstancesByState *prometheus.GaugeVec
	RateChecks       *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, alongside the standard
// Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SweepsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jarvis_sweeps_total",
			Help: "Presence sweeps by result",
		}, []string{"result"}), // "ok" or "error"

		MarkedOffline: factory.NewCounter(prometheus.CounterOpts{
			Name: "jarvis_instances_marked_offline_total",
			Help: "Instances transitioned online to offline by the sweeper",
		}),

		SweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "jarvis_sweep_duration_seconds",
			Help:    "Time spent in the batch offline update",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),

		InstancesByState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "jarvis_instances",
			Help: "Instances by status as of the last aggregate",
		}, []string{"status"}),

		RateChecks: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "jarvis_rate_checks_total",
			Help: "Activity rate gate checks by result",
		}, []string{"result"}), // "ok" or "unavailable"
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SweepCompleted records a successful sweep.
func (m *Metrics) SweepCompleted(marked int64, took time.Duration) {
	m.SweepsTotal.WithLabelValues("ok").Inc()
	m.MarkedOffline.Add(float64(marked))
	m.SweepDuration.Observe(took.Seconds())
}

// SweepFailed records a failed sweep.
func (m *Metrics) SweepFailed() {
	m.SweepsTotal.WithLabelValues("error").Inc()
}

// FleetObserved updates the population gauges.
func (m *Metrics) FleetObserved(online, offline int64) {
	m.InstancesByState.WithLabelValues("online").Set(float64(online))
	m.InstancesByState.WithLabelValues("offline").Set(float64(offline))
}

// RateChecked records a gate check.
func (m *Metrics) RateChecked(ok bool) {
	if ok {
		m.RateChecks.WithLabelValues("ok").Inc()
		return
	}
	m.RateChecks.WithLabelValues("unavailable").Inc()
}
