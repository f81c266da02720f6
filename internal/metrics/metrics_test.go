package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCalculation(t *testing.T) {
	m := New(func() float64 { return 3 })

	m.ObserveCalculation(OutcomeOK, time.Millisecond, 10.9)
	m.ObserveCalculation(OutcomeOK, time.Millisecond, 1.2)
	m.ObserveCalculation("missing_input", time.Microsecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.calculations.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.calculations.WithLabelValues("missing_input")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New(func() float64 { return 3 })

	router := mux.NewRouter()
	router.Use(m.Middleware)
	router.HandleFunc("/items/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("/items/{id}", "418")))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "rlt_sessions_open 3")
	assert.Contains(t, rec.Body.String(), `http_requests_total{route="/items/{id}",status="418"} 1`)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveCalculation(OutcomeOK, time.Second, 1)

	called := false
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
