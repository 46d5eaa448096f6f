// Package metrics provides Prometheus instrumentation for the earning service.
package metrics

import (
	"bufio"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// AggregationsTotal counts aggregator calls by result mode: empty, single or compound.
	AggregationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "earning_aggregations_total",
		Help: "Total number of position aggregations",
	}, []string{"mode"})

	// AggregationErrors counts aggregations that hit an unsupported pool type.
	AggregationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "earning_aggregation_errors_total",
		Help: "Aggregations rejected for an unsupported pool type",
	})

	// SnapshotReloadsTotal counts snapshot reloads by result.
	SnapshotReloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "earning_snapshot_reloads_total",
		Help: "Snapshot reload attempts",
	}, []string{"result"})

	// SnapshotPositions tracks the number of positions in the current snapshot.
	SnapshotPositions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "earning_snapshot_positions",
		Help: "Number of positions in the current snapshot",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "earning_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "earning_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

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

		// Route pattern keeps the path label low-cardinality; fall back to the raw path.
		path := r.Pattern
		if path == "" {
			path = r.URL.Path
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack hands the connection to WebSocket upgrades.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	conn, rw, err := http.NewResponseController(w.ResponseWriter).Hijack()
	if err == nil {
		w.status = http.StatusSwitchingProtocols
	}
	return conn, rw, err
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
