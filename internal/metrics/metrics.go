// Package metrics provides Prometheus metrics for the double diamond server.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the server.
type Metrics struct {
	GenerationsTotal   *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	ExportsTotal       *prometheus.CounterVec
	HTTPRequestsTotal  *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		GenerationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dd_generations_total",
				Help: "Total generator calls by stage and outcome.",
			},
			[]string{"phase", "outcome"},
		),
		GenerationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dd_generation_duration_seconds",
				Help:    "Generator call latency by stage.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 60, 90, 120},
			},
			[]string{"phase"},
		),
		ExportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dd_exports_total",
				Help: "Total export attempts by outcome.",
			},
			[]string{"outcome"},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dd_http_requests_total",
				Help: "Total HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		registry: reg,
	}

	reg.MustRegister(m.GenerationsTotal)
	reg.MustRegister(m.GenerationDuration)
	reg.MustRegister(m.ExportsTotal)
	reg.MustRegister(m.HTTPRequestsTotal)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveGeneration records one generator call.
func (m *Metrics) ObserveGeneration(phase, outcome string, seconds float64) {
	m.GenerationsTotal.WithLabelValues(phase, outcome).Inc()
	m.GenerationDuration.WithLabelValues(phase).Observe(seconds)
}

// ObserveExport records one export attempt.
func (m *Metrics) ObserveExport(outcome string) {
	m.ExportsTotal.WithLabelValues(outcome).Inc()
}

// RecordRequest increments the HTTP request counter.
func (m *Metrics) RecordRequest(method, route string, status int) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}
