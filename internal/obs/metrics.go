package obs

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	gateDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gate_decisions_total",
			Help: "Access gate verdicts by route class and outcome.",
		},
		[]string{"class", "outcome"},
	)

	initOnce sync.Once
)

// Init registers the metrics in the default registry. Safe to call more than
// once; registration happens only on the first call.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(httpInFlight, httpRequestsTotal, httpRequestDuration, gateDecisions)
	})
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveGateDecision counts one gate verdict. Outcome is "allow" or the
// redirect target.
func ObserveGateDecision(class, outcome string) {
	gateDecisions.WithLabelValues(class, outcome).Inc()
}

// Instrument wraps a handler with RPS/latency/in-flight measurements.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := CanonicalPath(r.URL.Path)
		method := r.Method

		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(sw.code)

		httpRequestDuration.WithLabelValues(method, path, status).Observe(duration)
		httpRequestsTotal.WithLabelValues(method, path, status).Inc()
		httpInFlight.Dec()
	})
}

// CanonicalPath collapses id segments so metric cardinality stays bounded.
func CanonicalPath(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	parts := strings.Split(path, "/")
	// /bff/meals/:id/reviews and friends
	if len(parts) == 5 && parts[1] == "bff" {
		switch {
		case parts[2] == "meals" && parts[4] == "reviews":
			return "/bff/meals/:id/reviews"
		case parts[2] == "categories" && parts[4] == "meals":
			return "/bff/categories/:id/meals"
		case parts[2] == "brands" && parts[4] == "meals":
			return "/bff/brands/:id/meals"
		case parts[2] == "provider" && parts[3] == "orders":
			return "/bff/provider/orders/:id"
		}
	}
	// Proxied page and API paths keep only their first segment.
	if len(parts) > 2 && (parts[1] == "api" || parts[1] == "admin" || parts[1] == "provider") {
		return "/" + parts[1] + "/*"
	}
	return path
}

// statusWriter records the response code for metrics and logs.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
