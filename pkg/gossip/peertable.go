package gossip

import (
	"sync"

	"github.com/libp2p/go-libp2p/core/peer"
)

// Role classifies a connected peer the way the handshake resolves it. It
// governs whether the peer is ever sent statements during propagation.
type Role int

const (
	// RoleFull is an ordinary full node: receives propagated statements.
	RoleFull Role = iota
	// RoleAuthority is a block-producing node: receives propagated statements.
	RoleAuthority
	// RoleLight is a light client: never a propagation target, since it
	// has no use for statements it can't itself gossip onward.
	RoleLight
)

func (r Role) String() string {
	switch r {
	case RoleFull:
		return "full"
	case RoleAuthority:
		return "authority"
	case RoleLight:
		return "light"
	default:
		return "unknown"
	}
}

// Peer is the per-connection state the engine keeps for one connected peer:
// its resolved role and the bounded set of statement hashes it is assumed
// to already hold.
type Peer struct {
	Role  Role
	Known *KnownSet
}

// PeerTable tracks the set of peers currently eligible for gossip. Entries
// are added on NotificationStreamOpened and removed on
// NotificationStreamClosed; the table itself only ever reflects the stream
// lifecycle, never connectivity below that (a TCP connection with no
// negotiated notification substream has no PeerTable entry).
type PeerTable struct {
	mu       sync.RWMutex
	peers    map[peer.ID]*Peer
	knownCap int
}

// NewPeerTable constructs an empty table whose peers' known-statement sets
// are bounded to knownCap entries.
func NewPeerTable(knownCap int) *PeerTable {
	return &PeerTable{
		peers:    make(map[peer.ID]*Peer),
		knownCap: knownCap,
	}
}

// InsertIfAbsent adds p as a new entry for id and reports true, unless an
// entry already exists for id, in which case the table is left untouched
// and false is returned. Mirrors the debug_assert the original relies on
// to catch a double NotificationStreamOpened for the same peer; here the
// caller gets a bool back instead of a panic, and decides what to log.
func (t *PeerTable) InsertIfAbsent(id peer.ID, role Role) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.peers[id]; exists {
		return false
	}
	t.peers[id] = &Peer{
		Role:  role,
		Known: NewKnownSet(t.knownCap),
	}
	return true
}

// RemoveIfPresent deletes id's entry and reports whether one existed.
func (t *PeerTable) RemoveIfPresent(id peer.ID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.peers[id]; !exists {
		return false
	}
	delete(t.peers, id)
	return true
}

// Get returns id's entry, if connected.
func (t *PeerTable) Get(id peer.ID) (*Peer, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.peers[id]
	return p, ok
}

// Len reports the number of connected peers.
func (t *PeerTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.peers)
}

// ForEach calls fn for every connected peer. fn must not call back into
// the PeerTable (Insert/Remove would deadlock on the held read lock).
func (t *PeerTable) ForEach(fn func(id peer.ID, p *Peer)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for id, p := range t.peers {
		fn(id, p)
	}
}
