package gossip

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the protocol-level Prometheus metrics for the gossip
// engine. Uses an isolated prometheus.Registry, matching the pattern
// pkg/transport follows for its own connectivity metrics — the node serves
// the two registries on separate endpoints (/metrics and /metrics/transport).
type Metrics struct {
	Registry *prometheus.Registry

	// PropagatedStatements counts every statement byte-sequence actually
	// sent to a peer during propagation. It is the sole metric a
	// reference statement-gossip deployment ships; the gauges below are
	// this module's own ambient additions.
	PropagatedStatements prometheus.Counter

	PendingStatements     prometheus.Gauge
	ConnectedPeers        prometheus.Gauge
	ReputationAdjustments *prometheus.CounterVec
	QueueDroppedTotal     prometheus.Counter
}

// NewMetrics constructs a Metrics instance with all collectors registered
// on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,

		PropagatedStatements: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statement_gossip_propagated_statements_total",
			Help: "Total number of statements sent to peers during propagation.",
		}),
		PendingStatements: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statement_gossip_pending_statements",
			Help: "Number of statement hashes currently awaiting verification.",
		}),
		ConnectedPeers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "statement_gossip_connected_peers",
			Help: "Number of peers with an open notification substream.",
		}),
		ReputationAdjustments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "statement_gossip_reputation_adjustments_total",
				Help: "Total reputation adjustments applied, by reason.",
			},
			[]string{"reason"},
		),
		QueueDroppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "statement_gossip_queue_dropped_total",
			Help: "Total announcements dropped because the validation queue was full.",
		}),
	}

	reg.MustRegister(
		m.PropagatedStatements,
		m.PendingStatements,
		m.ConnectedPeers,
		m.ReputationAdjustments,
		m.QueueDroppedTotal,
	)
	return m
}

// Handler returns an http.Handler that serves this registry's Prometheus
// metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
