package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHTTPMetricsMiddleware_RecordsStatusClass(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	handler := HTTPMetricsMiddleware(m, "GET /{product}/options")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.WriteHeader(http.StatusOK) // superfluous, ignored
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x/options", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET /{product}/options", "GET", "4xx")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET /{product}/options", "GET", "2xx")))
}

func TestHTTPMetricsMiddleware_ImplicitOK(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	handler := HTTPMetricsMiddleware(m, "GET /health")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET /health", "GET", "2xx")))
}

func TestHTTPMetricsMiddleware_NilMetrics(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true })

	HTTPMetricsMiddleware(nil, "x")(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, called)
}

func TestRecordOptionsRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordOptionsRequest("ok", "json")
	m.RecordOptionsRequest("ok", "json")
	m.RecordOptionsRequest("invalid_inputs", "none")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.optionsRequestsTotal.WithLabelValues("ok", "json")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.optionsRequestsTotal.WithLabelValues("invalid_inputs", "none")))
}

func TestStatusCodeToString(t *testing.T) {
	assert.Equal(t, "2xx", statusCodeToString(200))
	assert.Equal(t, "3xx", statusCodeToString(304))
	assert.Equal(t, "4xx", statusCodeToString(400))
	assert.Equal(t, "5xx", statusCodeToString(503))
	assert.Equal(t, "unknown", statusCodeToString(0))
}
