// Package transport backs the gossip engine's NotificationService and
// ReservedPeerManager contracts (see pkg/gossip) with a real libp2p host:
// one long-lived substream per connected peer, framed with the same
// length-prefixed statement codec used on the wire, dialed and torn down
// as the sync oracle's reserved-peer set changes.
package transport

import (
	"bufio"
	"context"
	"fmt"
	"sync"

	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/protocol"
	libp2pquic "github.com/libp2p/go-libp2p/p2p/transport/quic"
	"github.com/libp2p/go-libp2p/p2p/transport/tcp"
	ws "github.com/libp2p/go-libp2p/p2p/transport/websocket"

	"github.com/shurlinet/statement-gossip/pkg/gossip"
)

// Config configures a Network.
type Config struct {
	KeyFile         string
	ListenAddresses []string

	// Protocol is the negotiated substream protocol, normally derived
	// from gossip.ProtocolName(genesisHash, forkID).
	Protocol protocol.ID

	// Roles resolves a peer's handshake to a gossip.Role. The transport
	// never calls it itself: when Roles is non-nil, every inbound substream
	// from a reserved peer waits for the engine's answer to an
	// EventValidateInboundSubstream before it is registered.
	Roles gossip.RoleResolver

	// Handshake is sent as the first framed message on every substream
	// this node opens; a node accepting a substream sends none back. On a
	// substream this node dialed, EventStreamOpened therefore carries this
	// node's own Handshake.
	Handshake []byte

	// Metrics, if non-nil, is updated on every substream lifecycle event.
	Metrics *Metrics
}

// Network is a libp2p-backed transport implementing
// gossip.NotificationService and gossip.ReservedPeerManager.
type Network struct {
	host      host.Host
	protocol  protocol.ID
	roles     gossip.RoleResolver
	handshake []byte
	metrics   *Metrics

	mu       sync.Mutex
	streams  map[peer.ID]network.Stream
	reserved map[peer.ID]struct{}

	events chan gossip.NotificationEvent

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a libp2p host and wires it to speak cfg.Protocol.
func New(cfg *Config) (*Network, error) {
	if cfg == nil {
		return nil, fmt.Errorf("transport: config cannot be nil")
	}
	if cfg.Protocol == "" {
		return nil, fmt.Errorf("transport: protocol ID cannot be empty")
	}

	priv, err := LoadOrCreateIdentity(cfg.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("transport: load identity: %w", err)
	}

	hostOpts := []libp2p.Option{
		libp2p.Identity(priv),
		libp2p.Transport(tcp.NewTCPTransport),
		libp2p.Transport(libp2pquic.NewTransport),
		libp2p.Transport(ws.New),
	}
	if len(cfg.ListenAddresses) > 0 {
		hostOpts = append(hostOpts, libp2p.ListenAddrStrings(cfg.ListenAddresses...))
	}

	h, err := libp2p.New(hostOpts...)
	if err != nil {
		return nil, fmt.Errorf("transport: create libp2p host: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	n := &Network{
		host:      h,
		protocol:  cfg.Protocol,
		roles:     cfg.Roles,
		handshake: cfg.Handshake,
		metrics:   cfg.Metrics,
		streams:   make(map[peer.ID]network.Stream),
		reserved:  make(map[peer.ID]struct{}),
		events:    make(chan gossip.NotificationEvent, 64),
		ctx:       ctx,
		cancel:    cancel,
	}

	h.SetStreamHandler(cfg.Protocol, n.handleInboundStream)
	return n, nil
}

// Host returns the underlying libp2p host.
func (n *Network) Host() host.Host { return n.host }

// PeerID returns this node's peer ID.
func (n *Network) PeerID() peer.ID { return n.host.ID() }

// Events implements gossip.NotificationService.
func (n *Network) Events() <-chan gossip.NotificationEvent { return n.events }

// SendSyncNotification implements gossip.NotificationService.
func (n *Network) SendSyncNotification(id peer.ID, payload []byte) error {
	n.mu.Lock()
	s, ok := n.streams[id]
	n.mu.Unlock()
	if !ok {
		return ErrPeerNotConnected
	}
	return writeFrame(s, payload)
}

// AddReservedPeers implements gossip.ReservedPeerManager: it admits each
// peer into the reserved set (the only peers handleInboundStream will ever
// accept a substream from), then dials out and opens the gossip substream,
// emitting EventStreamOpened once the handshake completes.
func (n *Network) AddReservedPeers(ids []peer.ID) error {
	n.mu.Lock()
	for _, id := range ids {
		n.reserved[id] = struct{}{}
	}
	n.mu.Unlock()

	var firstErr error
	for _, id := range ids {
		if err := n.dialAndOpen(id); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("transport: dial %s: %w", id, err)
		}
	}
	return firstErr
}

// RemoveReservedPeers implements gossip.ReservedPeerManager: it drops each
// peer from the reserved set and closes the substream (if any), emitting
// EventStreamClosed.
func (n *Network) RemoveReservedPeers(ids []peer.ID) error {
	n.mu.Lock()
	for _, id := range ids {
		delete(n.reserved, id)
	}
	n.mu.Unlock()

	for _, id := range ids {
		n.closeStream(id)
	}
	return nil
}

// isReserved reports whether id is currently in the reserved-peer set.
func (n *Network) isReserved(id peer.ID) bool {
	n.mu.Lock()
	_, ok := n.reserved[id]
	n.mu.Unlock()
	return ok
}

// Close shuts down the network and its host.
func (n *Network) Close() error {
	n.cancel()
	return n.host.Close()
}

func (n *Network) dialAndOpen(id peer.ID) error {
	s, err := n.host.NewStream(n.ctx, id, n.protocol)
	if err != nil {
		return err
	}
	if err := writeFrame(s, n.handshake); err != nil {
		s.Close()
		return fmt.Errorf("send handshake: %w", err)
	}
	n.registerStream(id, s)
	n.events <- gossip.NotificationEvent{Kind: gossip.EventStreamOpened, Peer: id, Handshake: n.handshake}
	go n.readLoop(id, s)
	return nil
}

func (n *Network) handleInboundStream(s network.Stream) {
	id := s.Conn().RemotePeer()

	handshake, err := readFrameFromReader(s, gossip.MaxStatementSize)
	if err != nil {
		s.Reset()
		return
	}

	// non-reserved mode is always Deny: a peer this node never added via
	// AddReservedPeers gets no substream, regardless of role.
	if !n.isReserved(id) {
		s.Reset()
		return
	}

	if n.roles != nil {
		accept := make(chan bool, 1)
		n.events <- gossip.NotificationEvent{
			Kind:      gossip.EventValidateInboundSubstream,
			Peer:      id,
			Handshake: handshake,
			Accept:    accept,
		}
		if ok := <-accept; !ok {
			s.Reset()
			return
		}
	}

	n.registerStream(id, s)
	n.events <- gossip.NotificationEvent{Kind: gossip.EventStreamOpened, Peer: id, Handshake: handshake}
	n.readLoop(id, s)
}

func (n *Network) registerStream(id peer.ID, s network.Stream) {
	n.mu.Lock()
	n.streams[id] = s
	count := len(n.streams)
	n.mu.Unlock()

	if n.metrics != nil {
		n.metrics.ConnectionEvents.WithLabelValues("opened").Inc()
		n.metrics.ConnectedPeers.Set(float64(count))
	}
}

func (n *Network) closeStream(id peer.ID) {
	n.mu.Lock()
	s, ok := n.streams[id]
	delete(n.streams, id)
	count := len(n.streams)
	n.mu.Unlock()

	if !ok {
		return
	}
	s.Close()
	if n.metrics != nil {
		n.metrics.ConnectionEvents.WithLabelValues("closed").Inc()
		n.metrics.ConnectedPeers.Set(float64(count))
	}
	n.events <- gossip.NotificationEvent{Kind: gossip.EventStreamClosed, Peer: id}
}

// readLoop forwards every framed payload on s as an
// EventNotificationReceived until the stream errors or closes, at which
// point it emits EventStreamClosed exactly once.
func (n *Network) readLoop(id peer.ID, s network.Stream) {
	r := bufio.NewReader(s)
	for {
		payload, err := readFrameFromReader(r, gossip.MaxStatementSize)
		if err != nil {
			n.mu.Lock()
			_, stillOpen := n.streams[id]
			delete(n.streams, id)
			count := len(n.streams)
			n.mu.Unlock()
			if stillOpen {
				if n.metrics != nil {
					n.metrics.ConnectionEvents.WithLabelValues("closed").Inc()
					n.metrics.ConnectedPeers.Set(float64(count))
				}
				n.events <- gossip.NotificationEvent{Kind: gossip.EventStreamClosed, Peer: id}
			}
			return
		}
		n.events <- gossip.NotificationEvent{Kind: gossip.EventNotificationReceived, Peer: id, Payload: payload}
	}
}
