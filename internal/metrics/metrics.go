// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

// Package metrics defines the Prometheus instruments exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route pattern and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statindo_http_requests_total",
			Help: "Total HTTP requests processed",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "statindo_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "route"},
	)

	// HTTPActiveRequests gauges in-flight requests.
	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "statindo_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		},
	)

	// LoginAttempts counts logins by outcome (success, failure).
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statindo_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"},
	)

	// AuthFailures counts authenticated-request rejections by reason.
	AuthFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statindo_auth_failures_total",
			Help: "Authentication failures on protected endpoints",
		},
		[]string{"reason"},
	)

	// ForbiddenTotal counts authorization denials by resource.
	ForbiddenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statindo_forbidden_total",
			Help: "Authorization denials",
		},
		[]string{"resource"},
	)

	// RateLimitHits counts requests rejected by the per-IP limiter.
	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statindo_rate_limit_hits_total",
			Help: "Requests rejected by rate limiting",
		},
	)

	// ActivityDropped counts activity entries lost to a full buffer.
	ActivityDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "statindo_activity_dropped_total",
			Help: "Activity log entries dropped because the buffer was full",
		},
	)
)

// RecordHTTPRequest records one completed request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordLogin records a login outcome.
func RecordLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	LoginAttempts.WithLabelValues(outcome).Inc()
}
