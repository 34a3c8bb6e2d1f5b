package gossip

import (
	"sync"

	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/shurlinet/statement-gossip/pkg/statement"
)

// Announcement classifies the result of announcing a statement hash on
// behalf of a peer, determining how that peer's reputation is adjusted and
// whether verification needs to be kicked off.
type Announcement int

const (
	// FirstAnnouncer means no one had announced this hash before; a
	// verification job is (or was just) started for it.
	FirstAnnouncer Announcement = iota
	// AdditionalNew means verification for this hash is already in
	// flight and this peer had not announced it before; it is added to
	// the waiting peers with no extra penalty.
	AdditionalNew
	// Duplicate means this peer had already announced this exact hash
	// while verification was still pending; it earns RepDuplicateStatement.
	Duplicate
	// QueueFull means the verification queue had no room and the
	// announcement was dropped entirely — no PendingMap entry was
	// created, so a later announcement of the same hash is treated as
	// FirstAnnouncer again.
	QueueFull
)

// PendingMap tracks, for each statement hash currently awaiting
// verification, the set of peers who announced it. It is the Go
// counterpart of a HashMap<Hash, HashSet<PeerId>> guarding a single
// verification job per hash regardless of how many peers announce it
// concurrently.
type PendingMap struct {
	mu   sync.Mutex
	byH  map[statement.Hash]map[peer.ID]struct{}
	size int
}

// NewPendingMap constructs an empty map.
func NewPendingMap() *PendingMap {
	return &PendingMap{byH: make(map[statement.Hash]map[peer.ID]struct{})}
}

// Len reports how many distinct hashes currently have a verification job
// in flight. The engine compares this against MaxPendingStatements before
// accepting a new announcement.
func (m *PendingMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byH)
}

// Announce records that who announced h. tryStart is invoked exactly once,
// synchronously, if and only if this is the first announcement of h (no
// entry exists yet) — it should attempt to submit the verification job and
// report whether the submission succeeded. If tryStart reports false (the
// validation queue was full), no entry is created and Announce returns
// QueueFull.
func (m *PendingMap) Announce(h statement.Hash, who peer.ID, tryStart func() bool) Announcement {
	m.mu.Lock()
	defer m.mu.Unlock()

	peers, exists := m.byH[h]
	if !exists {
		if !tryStart() {
			return QueueFull
		}
		m.byH[h] = map[peer.ID]struct{}{who: {}}
		return FirstAnnouncer
	}

	if _, seen := peers[who]; seen {
		return Duplicate
	}
	peers[who] = struct{}{}
	return AdditionalNew
}

// Take removes and returns the set of peers who announced h, for when
// verification of h has completed. The bool reports whether an entry
// existed; a false result (with a nil slice) indicates a bookkeeping bug
// elsewhere — every verification job in flight must have a matching entry.
func (m *PendingMap) Take(h statement.Hash) ([]peer.ID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	peers, exists := m.byH[h]
	if !exists {
		return nil, false
	}
	delete(m.byH, h)

	out := make([]peer.ID, 0, len(peers))
	for id := range peers {
		out = append(out, id)
	}
	return out, true
}
