package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported at /metrics.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
	RomProxy     *prometheus.CounterVec
	RomBytes     prometheus.Counter
	Uploads      *prometheus.CounterVec
	Logins       *prometheus.CounterVec
}

// New registers all collectors on a private registry so tests can build
// as many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retrocade_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "retrocade_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		RomProxy: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retrocade_rom_proxy_requests_total",
			Help: "ROM proxy requests by outcome.",
		}, []string{"outcome"}),
		RomBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "retrocade_rom_proxy_bytes_total",
			Help: "Bytes streamed from upstream ROM hosts.",
		}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retrocade_uploads_total",
			Help: "File uploads by kind and result.",
		}, []string{"kind", "result"}),
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "retrocade_logins_total",
			Help: "Admin login attempts by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.HTTPRequests, m.HTTPDuration, m.RomProxy, m.RomBytes, m.Uploads, m.Logins)
	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}
