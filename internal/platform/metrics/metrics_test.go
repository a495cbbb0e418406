// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/yomira-auth/internal/platform/apperr"
	"github.com/taibuivan/yomira-auth/internal/platform/metrics"
)

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	metricLoop:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
					continue metricLoop
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

/*
TestCollector_AuthOutcomes verifies the domain counters are labelled by outcome.
*/
func TestCollector_AuthOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	collector.RecordLogin(metrics.OutcomeSuccess)
	collector.RecordLogin(metrics.OutcomeSuccess)
	collector.RecordLogin("invalid_credentials")
	collector.RecordLockRequested()
	collector.RecordAccountLocked()
	collector.RecordAuditFailure()

	assert.Equal(t, 2.0, counterValue(t, reg, "auth_logins_total", map[string]string{"outcome": "success"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "auth_logins_total", map[string]string{"outcome": "invalid_credentials"}))
	assert.Equal(t, 1.0, counterValue(t, reg, "auth_lock_requests_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "auth_accounts_locked_total", nil))
	assert.Equal(t, 1.0, counterValue(t, reg, "auth_audit_write_failures_total", nil))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "success", metrics.Outcome(nil))
	assert.Equal(t, "account_locked", metrics.Outcome(apperr.Locked("ACCOUNT_LOCKED", "locked")))
	assert.Equal(t, "error", metrics.Outcome(errors.New("boom")))
}

/*
TestCollector_Instrument verifies the route label uses the chi pattern and the
scrape handler exposes it.
*/
func TestCollector_Instrument(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	router := chi.NewRouter()
	router.Use(collector.Instrument)
	router.Get("/roles/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	// 1. Two requests with different ids share one series
	for _, path := range []string{"/roles/1", "/roles/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, counterValue(t, reg, "auth_http_requests_total", map[string]string{
		"method": "GET",
		"route":  "/roles/{id}",
		"status": "418",
	}))

	// 2. The scrape endpoint renders the series
	recorder := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, err := io.ReadAll(recorder.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `auth_http_requests_total{method="GET",route="/roles/{id}",status="418"} 2`)
}
