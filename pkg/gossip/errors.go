package gossip

import "errors"

var (
	// ErrPeerAlreadyConnected is logged (never returned to a caller
	// outside this package) when a StreamOpened event arrives for a peer
	// already present in the PeerTable — a transport bug, since the
	// substream lifecycle should make this impossible.
	ErrPeerAlreadyConnected = errors.New("gossip: peer already has an open notification stream")

	// ErrUnknownPeer is logged when a StreamClosed, or a payload, event
	// arrives for a peer with no PeerTable entry.
	ErrUnknownPeer = errors.New("gossip: event for peer with no notification stream")

	// ErrPendingEntryMissing is logged when a verification completion
	// arrives for a hash with no PendingMap entry — it means the entry
	// was removed (or never created) by something other than the single
	// completion that should have consumed it.
	ErrPendingEntryMissing = errors.New("gossip: verification completed for a hash with no pending entry")
)
