package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func metricsRouter(m *HTTPMetrics, status int) *chi.Mux {
	r := chi.NewRouter()
	r.Use(m.Middleware("storefront"))
	r.Post("/cart/items/{productId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	return r
}

func TestHTTPMetrics_LabelsByRoute(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := NewHTTPMetrics(reg)
	r := metricsRouter(m, http.StatusSeeOther)

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/cart/items/"+id, nil))
	}

	expected := `
# HELP http_requests_total Total number of HTTP requests
# TYPE http_requests_total counter
http_requests_total{method="POST",route="/cart/items/{productId}",service="storefront",status="303"} 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(m.duration, "http_request_duration_seconds"))
}

// gatherHistogram returns the single series of the named histogram in reg.
func gatherHistogram(t *testing.T, reg prometheus.Gatherer, name string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		require.Equal(t, dto.MetricType_HISTOGRAM, mf.GetType())
		require.Len(t, mf.GetMetric(), 1)
		return mf.GetMetric()[0]
	}
	t.Fatalf("metric %s not gathered", name)
	return nil
}

func TestHTTPMetrics_DurationObserved(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := NewHTTPMetrics(reg)
	r := metricsRouter(m, http.StatusNotFound)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/cart/items/7", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/cart/items/8", nil))

	metric := gatherHistogram(t, reg, "http_request_duration_seconds")
	assert.Equal(t, uint64(2), metric.GetHistogram().GetSampleCount())

	labels := map[string]string{}
	for _, lp := range metric.GetLabel() {
		labels[lp.GetName()] = lp.GetValue()
	}
	assert.Equal(t, map[string]string{
		"service": "storefront",
		"method":  "POST",
		"route":   "/cart/items/{productId}",
		"status":  "404",
	}, labels)
}

func TestHTTPMetrics_UnmatchedRoute(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())
	r := metricsRouter(m, http.StatusOK)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/no/such/page", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("storefront", "GET", "unmatched", "404")))
}

func TestHTTPMetrics_DefaultStatusIsOK(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(m.Middleware("storefront"))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("catalog"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("storefront", "GET", "/", "200")))
}

func TestHTTPMetrics_InFlight(t *testing.T) {
	m := NewHTTPMetrics(prometheus.NewRegistry())
	gauge := m.inFlight.WithLabelValues("storefront")

	var during float64
	r := chi.NewRouter()
	r.Use(m.Middleware("storefront"))
	r.Get("/cart", func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(gauge)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/cart", nil))

	assert.Equal(t, float64(1), during)
	assert.Equal(t, float64(0), testutil.ToFloat64(gauge))
}
