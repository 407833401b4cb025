package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors for the application.
// Following the explicit dependency injection pattern, this struct
// is passed to all components that need to record metrics.
type Metrics struct {
	// Chain RPC Metrics
	rpcCallsTotal   *prometheus.CounterVec
	rpcCallDuration *prometheus.HistogramVec
	rpcLimiterWait  *prometheus.HistogramVec
	txAgeAtRequest  *prometheus.HistogramVec

	// Pipeline Metrics
	optionsRequestsTotal *prometheus.CounterVec
	optionsReturned      *prometheus.HistogramVec

	// HTTP Metrics
	httpRequestDuration *prometheus.HistogramVec
	httpRequestsTotal   *prometheus.CounterVec

	// NATS Metrics
	natsMessagesPublished *prometheus.CounterVec
	natsPublishDuration   *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance and registers all collectors.
// If registry is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}

	factory := promauto.With(registry)

	return &Metrics{
		rpcCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chain_rpc_calls_total",
				Help: "Total number of chain RPC calls by method, status and network",
			},
			[]string{"method", "status", "network"},
		),
		rpcCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chain_rpc_call_duration_seconds",
				Help:    "Duration of chain RPC calls in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
			},
			[]string{"method", "network"},
		),
		rpcLimiterWait: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chain_rpc_limiter_wait_seconds",
				Help:    "Time spent waiting on the outbound RPC rate limiter",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
			[]string{"network"},
		),
		txAgeAtRequest: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "resolved_tx_age_seconds",
				Help:    "Age of resolved transactions when support was requested",
				Buckets: []float64{30, 60, 300, 900, 1800, 3600, 6 * 3600, 24 * 3600, 7 * 24 * 3600},
			},
			[]string{"network"},
		),

		optionsRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "options_requests_total",
				Help: "Total number of options requests by outcome and representation",
			},
			[]string{"outcome", "representation"},
		),
		optionsReturned: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "options_returned",
				Help:    "Number of support options returned per successful request",
				Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
			},
			[]string{"network", "wallet"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"handler", "method", "status"},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"handler", "method", "status"},
		),

		natsMessagesPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nats_messages_published_total",
				Help: "Total number of NATS messages published",
			},
			[]string{"subject", "status"},
		),
		natsPublishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nats_publish_duration_seconds",
				Help:    "Duration of NATS publish operations in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
			[]string{"subject"},
		),
	}
}

// Chain RPC metric helpers

// RecordRPCCall records a chain RPC call with duration.
func (m *Metrics) RecordRPCCall(method, status, network string, duration float64) {
	m.rpcCallsTotal.WithLabelValues(method, status, network).Inc()
	m.rpcCallDuration.WithLabelValues(method, network).Observe(duration)
}

// RecordLimiterWait records time spent blocked on the RPC rate limiter.
func (m *Metrics) RecordLimiterWait(network string, duration float64) {
	m.rpcLimiterWait.WithLabelValues(network).Observe(duration)
}

// RecordTxAge records the age of a resolved transaction.
func (m *Metrics) RecordTxAge(network string, seconds float64) {
	m.txAgeAtRequest.WithLabelValues(network).Observe(seconds)
}

// Pipeline metric helpers

// RecordOptionsRequest records the outcome of an options request.
// representation is "json", "html" or "none" for rejected requests.
func (m *Metrics) RecordOptionsRequest(outcome, representation string) {
	m.optionsRequestsTotal.WithLabelValues(outcome, representation).Inc()
}

// RecordOptionsReturned records how many options a request received.
func (m *Metrics) RecordOptionsReturned(network, wallet string, count int) {
	m.optionsReturned.WithLabelValues(network, wallet).Observe(float64(count))
}

// HTTP metric helpers

// RecordHTTPRequest records an HTTP request with duration.
func (m *Metrics) RecordHTTPRequest(handler, method string, statusCode int, duration float64) {
	status := statusCodeToString(statusCode)
	m.httpRequestDuration.WithLabelValues(handler, method, status).Observe(duration)
	m.httpRequestsTotal.WithLabelValues(handler, method, status).Inc()
}

// NATS metric helpers

// RecordNATSPublish records a NATS publish operation.
func (m *Metrics) RecordNATSPublish(subject, status string, duration float64) {
	m.natsMessagesPublished.WithLabelValues(subject, status).Inc()
	m.natsPublishDuration.WithLabelValues(subject).Observe(duration)
}

func statusCodeToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "unknown"
	}
}
