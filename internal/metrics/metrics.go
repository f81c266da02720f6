// Package metrics exposes Prometheus instrumentation for the HTTP layer and
// the calculation pipeline.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OutcomeOK labels a calculation that produced a result
const OutcomeOK = "ok"

// Metrics holds the collectors on a private registry. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	calculations      *prometheus.CounterVec
	calcDuration      prometheus.Histogram
	totalCost         prometheus.Histogram
}

// New creates and registers the collectors. sessions, if not nil, reports the
// number of open reference sessions.
func New(sessions func() float64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rlt_calculations_total",
			Help: "Total recomputations by outcome (ok or the error kind).",
		}, []string{"outcome"}),
		calcDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rlt_calculation_duration_seconds",
			Help:    "Histogram of pipeline recomputation durations.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}),
		totalCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rlt_total_cost_per_hour",
			Help:    "Histogram of computed total operating cost per hour.",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.calculations,
		m.calcDuration,
		m.totalCost,
		collectors.NewGoCollector(),
	)

	if sessions != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "rlt_sessions_open",
			Help: "Number of open reference sessions.",
		}, sessions))
	}

	return m
}

// ObserveCalculation records one recomputation. cost is ignored unless the
// outcome is OutcomeOK.
func (m *Metrics) ObserveCalculation(outcome string, d time.Duration, cost float64) {
	if m == nil {
		return
	}
	m.calculations.WithLabelValues(outcome).Inc()
	m.calcDuration.Observe(d.Seconds())
	if outcome == OutcomeOK {
		m.totalCost.Observe(cost)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// Middleware records request counts and durations labelled by the matched
// mux route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(recorder, r)

		route := "unmatched"
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
