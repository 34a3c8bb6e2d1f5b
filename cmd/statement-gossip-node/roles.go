package main

import (
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/shurlinet/statement-gossip/pkg/gossip"
)

// handshakeRoleResolver decodes a peer's role from the single-byte
// handshake every substream opens with (see network.go's Config.Handshake).
// A missing or out-of-range byte leaves the role unresolved, so the peer's
// substream is rejected.
type handshakeRoleResolver struct{}

func (handshakeRoleResolver) PeerRole(_ peer.ID, handshake []byte) (gossip.Role, bool) {
	if len(handshake) == 0 {
		return 0, false
	}
	switch gossip.Role(handshake[0]) {
	case gossip.RoleFull, gossip.RoleAuthority, gossip.RoleLight:
		return gossip.Role(handshake[0]), true
	default:
		return 0, false
	}
}
