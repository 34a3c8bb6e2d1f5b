package gossip

import "github.com/libp2p/go-libp2p/core/peer"

// NotificationEventKind discriminates the variants of NotificationEvent.
type NotificationEventKind int

const (
	// EventValidateInboundSubstream asks whether an inbound substream
	// from Peer, carrying Handshake, should be accepted. The engine must
	// send exactly one bool on Accept.
	EventValidateInboundSubstream NotificationEventKind = iota
	// EventStreamOpened reports a notification substream (inbound or
	// outbound) has been negotiated with Peer, carrying Handshake.
	EventStreamOpened
	// EventStreamClosed reports Peer's notification substream closed.
	EventStreamClosed
	// EventNotificationReceived carries a Payload received from Peer over
	// an already-open notification substream.
	EventNotificationReceived
)

// NotificationEvent is one event from a NotificationService's event
// stream. Only the fields relevant to Kind are populated.
type NotificationEvent struct {
	Kind      NotificationEventKind
	Peer      peer.ID
	Handshake []byte
	Payload   []byte

	// Accept must receive exactly one value when Kind ==
	// EventValidateInboundSubstream; every other Kind leaves it nil.
	Accept chan<- bool
}

// NotificationService is the transport contract the engine drives: a
// single negotiated substream protocol used to exchange statement
// notifications with connected peers. A transport backs this with
// whatever stream-multiplexing the host provides; pkg/transport backs it
// with libp2p.
type NotificationService interface {
	// Events returns the channel of substream lifecycle and payload
	// events. Closed when the service shuts down.
	Events() <-chan NotificationEvent

	// SendSyncNotification sends payload to id over its open notification
	// substream. Returns an error if id has no open substream.
	SendSyncNotification(id peer.ID, payload []byte) error
}

// SyncEventKind discriminates the variants of SyncEvent.
type SyncEventKind int

const (
	// EventInitialPeers reports the reserved-peer set at startup.
	EventInitialPeers SyncEventKind = iota
	// EventPeerConnected reports a single peer added to the reserved set.
	EventPeerConnected
	// EventPeerDisconnected reports a single peer removed from the
	// reserved set.
	EventPeerDisconnected
)

// SyncEvent is one membership-change event from a SyncOracle.
type SyncEvent struct {
	Kind  SyncEventKind
	Peers []peer.ID // populated only for EventInitialPeers
	Peer  peer.ID   // populated only for EventPeerConnected/EventPeerDisconnected
}

// SyncOracle is the chain-sync contract the engine depends on for peer
// membership and for suppressing propagation while catching up. Statement
// gossip has no discovery of its own: every peer it ever talks to arrives
// through this interface's reserved-peer-set events.
type SyncOracle interface {
	// Events returns the channel of reserved-peer-set membership events.
	// Closed when the oracle shuts down.
	Events() <-chan SyncEvent

	// IsMajorSyncing reports whether the chain is still catching up to
	// the network. While true, inbound statements are accepted but
	// ignored and propagation is suppressed entirely.
	IsMajorSyncing() bool
}

// ReservedPeerManager is the transport contract the engine drives in
// response to SyncOracle membership events. Statement gossip never
// discovers peers itself (no DHT, no mDNS): every dial target comes from
// the sync oracle's reserved set, mirrored here.
type ReservedPeerManager interface {
	AddReservedPeers(ids []peer.ID) error
	RemoveReservedPeers(ids []peer.ID) error
}

// RoleResolver resolves a connecting peer's role from its handshake, the
// same information a connection-gater or protocol negotiator already
// has available. A false second return means the peer could not be
// classified and must be rejected.
type RoleResolver interface {
	PeerRole(id peer.ID, handshake []byte) (Role, bool)
}
