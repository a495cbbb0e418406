// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instrumentation for the auth service.

Two concerns live here:

  - HTTP: request count, latency and in-flight gauge, labelled by chi route pattern.
  - Auth outcomes: login, refresh and logout results plus lockout activity,
    recorded by the domain services through the [Recorder] interface.

All collectors register against an injected [prometheus.Registerer] so tests
can use a private registry.
*/
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
)

// OutcomeSuccess is the label recorded when an operation returns no error.
const OutcomeSuccess = "success"

// Recorder is the slice of the collector the domain services depend on.
type Recorder interface {
	RecordLogin(outcome string)
	RecordRefresh(outcome string)
	RecordLogout(outcome string)
	RecordLockRequested()
	RecordAccountLocked()
	RecordAuditFailure()
}

// Collector is the Prometheus-backed [Recorder] plus the HTTP instrumentation.
type Collector struct {
	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	logins         *prometheus.CounterVec
	refreshes      *prometheus.CounterVec
	logouts        *prometheus.CounterVec
	lockRequests   prometheus.Counter
	accountsLocked prometheus.Counter
	auditFailures  prometheus.Counter
}

// NewCollector creates every metric and registers it with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "auth_http_in_flight_requests",
			Help: "In-flight HTTP requests.",
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "auth_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_refreshes_total",
			Help: "Refresh token exchanges by outcome.",
		}, []string{"outcome"}),
		logouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logouts_total",
			Help: "Logout requests by outcome.",
		}, []string{"outcome"}),
		lockRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_lock_requests_total",
			Help: "Lock instructions emitted by the attempt tracker.",
		}),
		accountsLocked: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_accounts_locked_total",
			Help: "Accounts transitioned to LOCKED.",
		}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "auth_audit_write_failures_total",
			Help: "Login audit rows that could not be written.",
		}),
	}

	reg.MustRegister(
		c.httpInFlight,
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.logins,
		c.refreshes,
		c.logouts,
		c.lockRequests,
		c.accountsLocked,
		c.auditFailures,
	)

	return c
}

// # Auth Outcomes

func (c *Collector) RecordLogin(outcome string)   { c.logins.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordRefresh(outcome string) { c.refreshes.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordLogout(outcome string)  { c.logouts.WithLabelValues(outcome).Inc() }
func (c *Collector) RecordLockRequested()         { c.lockRequests.Inc() }
func (c *Collector) RecordAccountLocked()         { c.accountsLocked.Inc() }
func (c *Collector) RecordAuditFailure()          { c.auditFailures.Inc() }

// Outcome turns an operation result into a bounded label value: "success",
// the lower-cased [apperr.AppError] code, or "error".
func Outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	if appError := apperr.As(err); appError != nil {
		return strings.ToLower(appError.Code)
	}
	return "error"
}

// # HTTP

// Instrument measures every request. The route label is the chi pattern, so
// path parameters do not explode cardinality.
func (c *Collector) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		c.httpInFlight.Inc()
		defer c.httpInFlight.Dec()

		start := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, code: http.StatusOK}
		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := strconv.Itoa(recorder.code)

		c.httpRequestDuration.WithLabelValues(request.Method, route, status).Observe(time.Since(start).Seconds())
		c.httpRequestsTotal.WithLabelValues(request.Method, route, status).Inc()
	})
}

// Handler returns the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}

// # No-op

// Nop discards every observation.
type Nop struct{}

func (Nop) RecordLogin(string)   {}
func (Nop) RecordRefresh(string) {}
func (Nop) RecordLogout(string)  {}
func (Nop) RecordLockRequested() {}
func (Nop) RecordAccountLocked() {}
func (Nop) RecordAuditFailure()  {}
