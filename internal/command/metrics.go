// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberVeil Contributors

package command

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for command dispatch metrics.
const (
	StatusSuccess          = "success"
	StatusError            = "error"
	StatusNotFound         = "not_found"
	StatusNotLoggedIn      = "not_logged_in"
	StatusPermissionDenied = "permission_denied"
	StatusEmptyFirstArg    = "empty_first_arg"
)

// Dispatches is the counter for command dispatches.
// Use RegisterMetrics to register this with a Prometheus registry.
var Dispatches = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "emberveil_command_dispatches_total",
		Help: "Total number of command dispatches",
	},
	[]string{"command", "status"},
)

// Duration is the histogram for command handler duration.
// Use RegisterMetrics to register this with a Prometheus registry.
var Duration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "emberveil_command_duration_seconds",
		Help:    "Command handler duration in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"command"},
)

// RegisterMetrics registers command package metrics with the given Prometheus
// registry. This must be called at startup to make metrics available on
// /metrics. Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Dispatches)
	reg.MustRegister(Duration)
}

// RecordDispatch increments the dispatch counter with the given attributes.
func RecordDispatch(command, status string) {
	Dispatches.WithLabelValues(command, status).Inc()
}

// RecordDuration records how long a command handler took.
func RecordDuration(command string, duration time.Duration) {
	Duration.WithLabelValues(command).Observe(duration.Seconds())
}
