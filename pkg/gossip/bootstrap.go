package gossip

import (
	"encoding/hex"
	"fmt"

	"github.com/libp2p/go-libp2p/core/protocol"
)

// ProtocolName derives the notification-substream protocol ID for a given
// chain, following the reference naming scheme: the genesis hash
// hex-encoded, an optional fork identifier, and a fixed "statement/1"
// suffix. Two nodes only negotiate the statement-gossip substream if this
// string matches exactly, which is what isolates unrelated chains (or
// forks of the same chain) from each other's gossip traffic.
func ProtocolName(genesisHash []byte, forkID string) protocol.ID {
	hexHash := hex.EncodeToString(genesisHash)
	if forkID == "" {
		return protocol.ID(fmt.Sprintf("/%s/statement/1", hexHash))
	}
	return protocol.ID(fmt.Sprintf("/%s/%s/statement/1", hexHash, forkID))
}

// Bootstrap holds the genesis-derived protocol name. It does no I/O — it's
// a pure value the node hands to the transport (as transport.Config's
// Protocol) when registering the notification protocol; the Engine does
// not take it.
type Bootstrap struct {
	Protocol protocol.ID
}

// NewBootstrap derives the protocol name for (genesisHash, forkID).
func NewBootstrap(genesisHash []byte, forkID string) Bootstrap {
	return Bootstrap{Protocol: ProtocolName(genesisHash, forkID)}
}
