package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTPMetrics holds the request collectors for one registry.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight *prometheus.GaugeVec
}

// NewHTTPMetrics registers the HTTP request collectors on reg.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	factory := promauto.With(reg)
	labels := []string{"service", "method", "route", "status"}

	return &HTTPMetrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, labels),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, labels),
		inFlight: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		}, []string{"service"}),
	}
}

var defaultHTTPMetrics = NewHTTPMetrics(prometheus.DefaultRegisterer)

// PrometheusMetrics returns middleware recording request metrics on the
// default registry, which /metrics serves.
func PrometheusMetrics(service string) func(http.Handler) http.Handler {
	return defaultHTTPMetrics.Middleware(service)
}

// Middleware records count, latency and in-flight requests labelled by the
// matched chi route.
func (m *HTTPMetrics) Middleware(service string) func(http.Handler) http.Handler {
	inFlight := m.inFlight.WithLabelValues(service)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			inFlight.Inc()
			defer inFlight.Dec()

			rec := record(w)
			next.ServeHTTP(rec, r)

			lv := []string{service, r.Method, routePattern(r), strconv.Itoa(rec.status)}
			m.requests.WithLabelValues(lv...).Inc()
			m.duration.WithLabelValues(lv...).Observe(time.Since(start).Seconds())
		})
	}
}
