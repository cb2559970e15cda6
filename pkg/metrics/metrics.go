// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package metrics holds the prometheus collectors of the catalogue service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registry served on /metrics
var Registry = prometheus.NewRegistry()

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catalogue_backend_request_duration_seconds",
			Help:    "Duration of search backend calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5},
		},
		[]string{"operation", "outcome"},
	)

	breakerOpenTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogue_backend_breaker_open_total",
			Help: "Number of times the backend circuit breaker opened",
		},
		[]string{"backend"},
	)

	itemMutationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogue_item_mutations_total",
			Help: "Item lifecycle operations by method and status",
		},
		[]string{"method", "status"},
	)
)

func init() {
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	Registry.MustRegister(collectors.NewGoCollector())

	Registry.MustRegister(httpRequestsTotal)
	Registry.MustRegister(httpRequestDuration)
	Registry.MustRegister(backendRequestDuration)
	Registry.MustRegister(breakerOpenTotal)
	Registry.MustRegister(itemMutationsTotal)
}

// Handler serves the registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, path string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, path, code).Inc()
	httpRequestDuration.WithLabelValues(method, path, code).Observe(elapsed.Seconds())
}

// ObserveBackend records one backend call.
func ObserveBackend(operation, outcome string, elapsed time.Duration) {
	backendRequestDuration.WithLabelValues(operation, outcome).Observe(elapsed.Seconds())
}

// BreakerOpened counts a transition of a circuit breaker to open.
func BreakerOpened(backend string) {
	breakerOpenTotal.WithLabelValues(backend).Inc()
}

// ItemMutation counts a lifecycle result.
func ItemMutation(method, status string) {
	itemMutationsTotal.WithLabelValues(method, status).Inc()
}
