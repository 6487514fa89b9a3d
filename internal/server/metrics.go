package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of one server. Each Metrics owns
// its registry, so several servers (or tests) can coexist in a process.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	activeRequests  prometheus.Gauge
	requestsTotal   prometheus.Counter
	responsesTotal  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	limitRejections *prometheus.CounterVec
}

// NewMetrics registers the server collectors plus the Go runtime and process
// collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "numkernels_active_requests",
			Help: "Number of HTTP requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "numkernels_requests_total",
			Help: "Total number of HTTP requests received.",
		}),
		responsesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "numkernels_responses_total",
			Help: "HTTP responses by operation and status code.",
		}, []string{"op", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "numkernels_kernel_duration_seconds",
			Help:    "Kernel evaluation time by operation.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 12),
		}, []string{"op"}),
		limitRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "numkernels_limit_rejections_total",
			Help: "Requests rejected by a resource guard, by operation.",
		}, []string{"op"}),
	}
	reg.MustRegister(
		m.activeRequests,
		m.requestsTotal,
		m.responsesTotal,
		m.requestDuration,
		m.limitRejections,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// IncrementActiveRequests marks the start of a request.
func (m *Metrics) IncrementActiveRequests() {
	m.activeRequests.Inc()
	m.requestsTotal.Inc()
}

// DecrementActiveRequests marks the end of a request.
func (m *Metrics) DecrementActiveRequests() {
	m.activeRequests.Dec()
}

// ObserveResponse counts a response for op with the given status code.
func (m *Metrics) ObserveResponse(op string, code int) {
	m.responsesTotal.WithLabelValues(op, strconv.Itoa(code)).Inc()
}

// ObserveKernel records the evaluation time of op.
func (m *Metrics) ObserveKernel(op string, d time.Duration) {
	m.requestDuration.WithLabelValues(op).Observe(d.Seconds())
}

// ObserveLimitRejection counts a request refused by a resource guard.
func (m *Metrics) ObserveLimitRejection(op string) {
	m.limitRejections.WithLabelValues(op).Inc()
}

// WritePrometheus serves the registry in the Prometheus text format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
