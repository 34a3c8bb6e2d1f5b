package transport

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the transport-level Prometheus metrics: connectivity and
// build information. Protocol-level counters (propagated statements, queue
// depth, reputation adjustments) live in gossip.Metrics instead — this
// package only ever sees bytes and peers, never statement semantics.
//
// Uses an isolated prometheus.Registry so these metrics don't collide with
// the default global registry; each node, and each test, gets its own.
type Metrics struct {
	Registry *prometheus.Registry

	ConnectedPeers   prometheus.Gauge
	ConnectionEvents *prometheus.CounterVec
	BuildInfo        *prometheus.GaugeVec
}

// NewMetrics creates a Metrics instance with all collectors registered on
// an isolated registry. version and goVersion are recorded as labels on
// the build-info gauge.
func NewMetrics(version, goVersion string) *Metrics {
	reg := prometheus.NewRegistry()

	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		ConnectedPeers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statement_gossip_transport_connected_peers",
			Help: "Number of peers with an open notification substream.",
		}),
		ConnectionEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_gossip_transport_connection_events_total",
				Help: "Total notification substream lifecycle events by kind.",
			},
			[]string{"event"},
		),
		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "statement_gossip_info",
				Help: "Build information for the running node.",
			},
			[]string{"version", "go_version"},
		),
	}

	reg.MustRegister(m.ConnectedPeers, m.ConnectionEvents, m.BuildInfo)
	m.BuildInfo.WithLabelValues(version, goVersion).Set(1)

	return m
}

// Handler returns an http.Handler that serves the Prometheus metrics
// endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
