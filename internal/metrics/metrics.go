// Package metrics provides Prometheus instrumentation for the estimate API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/iwvelando/loan-estimate/internal/scenario"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for ScenarioPairsTotal.
const (
	OutcomeComputed     = "computed"
	OutcomeBelowMinimum = "below_minimum"
)

var (
	// ScenarioPairsTotal counts computed (down payment, rate) pairs by program and outcome.
	ScenarioPairsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_estimate_scenario_pairs_total",
		Help: "Total scenario pairs computed",
	}, []string{"program", "outcome"})

	// RejectedRequestsTotal counts requests rejected before computation, by error kind.
	RejectedRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_estimate_rejected_requests_total",
		Help: "Total scenario requests rejected by validation",
	}, []string{"kind"})

	// BatchSize observes the number of pairs per batch.
	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "loan_estimate_batch_size",
		Help:    "Scenario pairs per batch",
		Buckets: []float64{1, 2, 4, 8, 16, 25, 50, 100, 625},
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loan_estimate_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "loan_estimate_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// ObserveBatch records the outcome of every pair in a batch.
func ObserveBatch(batch *scenario.Batch) {
	program := batch.Program.String()
	for _, result := range batch.Results {
		outcome := OutcomeComputed
		if !result.Valid() {
			outcome = OutcomeBelowMinimum
		}
		ScenarioPairsTotal.WithLabelValues(program, outcome).Inc()
	}
	BatchSize.Observe(float64(len(batch.Results)))
}

// ObserveRejection records a request rejected with a scenario error kind.
func ObserveRejection(kind scenario.Kind) {
	RejectedRequestsTotal.WithLabelValues(string(kind)).Inc()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the route pattern for path label to avoid high cardinality.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
