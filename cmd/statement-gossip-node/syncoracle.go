package main

import (
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/shurlinet/statement-gossip/pkg/gossip"
)

// staticSyncOracle implements gossip.SyncOracle for a node with no chain
// client of its own: the reserved-peer set is exactly the list configured
// at startup (network.peers in the config file), announced once as
// EventInitialPeers, and the node is never considered "major syncing".
// A future chain-aware deployment would replace this with an oracle backed
// by the client's actual sync status.
type staticSyncOracle struct {
	events chan gossip.SyncEvent
}

// newStaticSyncOracle emits a single EventInitialPeers carrying peers, then
// leaves its event channel open but idle for the lifetime of the node.
func newStaticSyncOracle(peers []peer.ID) *staticSyncOracle {
	o := &staticSyncOracle{events: make(chan gossip.SyncEvent, 1)}
	o.events <- gossip.SyncEvent{Kind: gossip.EventInitialPeers, Peers: peers}
	return o
}

func (o *staticSyncOracle) Events() <-chan gossip.SyncEvent { return o.events }

func (o *staticSyncOracle) IsMajorSyncing() bool { return false }
