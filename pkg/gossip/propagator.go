package gossip

import (
	"log/slog"

	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/shurlinet/statement-gossip/pkg/statement"
)

// Propagator pushes the store's current statements out to connected peers.
// It never originates peers or statements itself — both come from the
// engine — so it can be exercised directly in tests without a running
// select loop.
type Propagator struct {
	peers    *PeerTable
	notifier NotificationService
	metrics  *Metrics
	log      *slog.Logger
}

// NewPropagator constructs a Propagator over the given peer table and
// notification service.
func NewPropagator(peers *PeerTable, notifier NotificationService, metrics *Metrics, log *slog.Logger) *Propagator {
	if log == nil {
		log = slog.Default()
	}
	return &Propagator{peers: peers, notifier: notifier, metrics: metrics, log: log}
}

// PropagateAll offers every statement in all to every eligible peer,
// skipping light clients and, per peer, any statement already in that
// peer's known set. A statement that was already known to a peer is never
// resent; one newly inserted into the peer's known set as a side effect of
// this call is sent exactly once, in a single batched notification.
func (p *Propagator) PropagateAll(all []statement.HashedStatement) {
	p.peers.ForEach(func(id peer.ID, peerEntry *Peer) {
		p.propagateTo(id, peerEntry, all)
	})
}

// PropagateOne offers a single newly-imported statement to every eligible
// peer, used right after a statement clears verification so it doesn't
// have to wait for the next PropagateAll tick.
func (p *Propagator) PropagateOne(hs statement.HashedStatement) {
	p.peers.ForEach(func(id peer.ID, peerEntry *Peer) {
		p.propagateTo(id, peerEntry, []statement.HashedStatement{hs})
	})
}

func (p *Propagator) propagateTo(id peer.ID, peerEntry *Peer, candidates []statement.HashedStatement) {
	if peerEntry.Role == RoleLight {
		return
	}

	var toSend statement.Statements
	for _, hs := range candidates {
		if peerEntry.Known.Insert(hs.Hash) {
			toSend = append(toSend, hs.Statement)
		}
	}
	if len(toSend) == 0 {
		return
	}

	payload := statement.Encode(toSend)
	if err := p.notifier.SendSyncNotification(id, payload); err != nil {
		p.log.Warn("propagate statements: send failed", "peer", id, "error", err)
		return
	}

	if p.metrics != nil {
		p.metrics.PropagatedStatements.Add(float64(len(toSend)))
	}
}
