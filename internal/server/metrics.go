package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the scrape-side instruments and serves the union of the
// default registry (engine and Go runtime metrics) and a local one.
type Metrics struct {
	registry       *prometheus.Registry
	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
	handler        http.Handler
}

// NewMetrics creates the instruments and registers extra collectors, such as
// a metrics.PoolCollector, on the local registry.
func NewMetrics(collectors ...prometheus.Collector) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "matcalc_http_active_requests",
			Help: "Requests currently being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "matcalc_http_requests_total",
			Help: "Requests served, by path.",
		}, []string{"path"}),
	}
	reg.MustRegister(m.activeRequests, m.requestsTotal)
	reg.MustRegister(collectors...)
	m.handler = promhttp.HandlerFor(prometheus.Gatherers{prometheus.DefaultGatherer, reg}, promhttp.HandlerOpts{})
	return m
}

// IncrementActiveRequests marks a request as started.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks a request as finished.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest counts a request to path.
func (m *Metrics) ObserveRequest(path string) { m.requestsTotal.WithLabelValues(path).Inc() }

// WritePrometheus writes the exposition format for every gathered metric.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
