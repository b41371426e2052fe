// Package metrics exposes prometheus collectors for the tide API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: "nztides",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0},
		},
		[]string{"verb", "path", "code"},
	)

	lookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "lookups_total",
			Subsystem: "nztides",
			Help:      "Tide lookups by operation and outcome.",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		lookups,
	)
}

// Lookup outcomes
const (
	ResultOK          = "ok"
	ResultNotFound    = "not_found"
	ResultFormatError = "format_error"
	ResultError       = "error"
)

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveLookup counts one resolver call, e.g. ("next", ResultOK).
func ObserveLookup(op, result string) {
	lookups.With(prometheus.Labels{"op": op, "result": result}).Inc()
}

// LatencyHandler records the latency of every request passing through it.
// Requests routed by mux are labelled with their route template rather than
// the raw path.
func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := requestPath(r)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		// Panics in next are reported as 500 errors and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Since(t).Seconds())
				panic(err)
			}
			ObserveRequestLatency(verb, path, strconv.Itoa(rec.status), time.Since(t).Seconds())
		}()

		next.ServeHTTP(rec, r)
	})
}

func requestPath(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	if r.URL != nil {
		return r.URL.Path
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
