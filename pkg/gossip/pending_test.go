package gossip

import (
	"testing"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
)

func newTestPeerID(t *testing.T) peer.ID {
	t.Helper()
	priv, _, err := crypto.GenerateKeyPair(crypto.Ed25519, -1)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	id, err := peer.IDFromPrivateKey(priv)
	if err != nil {
		t.Fatalf("IDFromPrivateKey: %v", err)
	}
	return id
}

func TestPendingMapFirstAnnouncerStartsVerification(t *testing.T) {
	m := NewPendingMap()
	h := testHash(t, 1)
	who := newTestPeerID(t)

	started := false
	got := m.Announce(h, who, func() bool { started = true; return true })

	if got != FirstAnnouncer {
		t.Errorf("Announce() = %v, want FirstAnnouncer", got)
	}
	if !started {
		t.Error("tryStart was not invoked for the first announcer")
	}
	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestPendingMapAdditionalAnnouncerDoesNotRestartVerification(t *testing.T) {
	m := NewPendingMap()
	h := testHash(t, 1)
	first, second := newTestPeerID(t), newTestPeerID(t)

	m.Announce(h, first, func() bool { return true })

	starts := 0
	got := m.Announce(h, second, func() bool { starts++; return true })

	if got != AdditionalNew {
		t.Errorf("Announce() = %v, want AdditionalNew", got)
	}
	if starts != 0 {
		t.Errorf("tryStart invoked %d times for a second announcer, want 0", starts)
	}
}

func TestPendingMapDuplicateAnnouncerIsPunished(t *testing.T) {
	m := NewPendingMap()
	h := testHash(t, 1)
	who := newTestPeerID(t)

	m.Announce(h, who, func() bool { return true })
	got := m.Announce(h, who, func() bool { return true })

	if got != Duplicate {
		t.Errorf("Announce() = %v, want Duplicate", got)
	}
}

func TestPendingMapQueueFullCreatesNoEntry(t *testing.T) {
	m := NewPendingMap()
	h := testHash(t, 1)
	who := newTestPeerID(t)

	got := m.Announce(h, who, func() bool { return false })

	if got != QueueFull {
		t.Errorf("Announce() = %v, want QueueFull", got)
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after a failed start", m.Len())
	}

	// A subsequent announcement of the same hash is treated as a fresh
	// first announcer, since no entry survived the QueueFull outcome.
	started := false
	got = m.Announce(h, who, func() bool { started = true; return true })
	if got != FirstAnnouncer || !started {
		t.Errorf("re-announcement after QueueFull should be FirstAnnouncer, got %v (started=%v)", got, started)
	}
}

func TestPendingMapTakeRemovesEntry(t *testing.T) {
	m := NewPendingMap()
	h := testHash(t, 1)
	a, b := newTestPeerID(t), newTestPeerID(t)

	m.Announce(h, a, func() bool { return true })
	m.Announce(h, b, func() bool { return true })

	peers, ok := m.Take(h)
	if !ok {
		t.Fatal("Take() reported no entry for a hash with two announcers")
	}
	if len(peers) != 2 {
		t.Errorf("Take() returned %d peers, want 2", len(peers))
	}
	if m.Len() != 0 {
		t.Errorf("Len() = %d after Take, want 0", m.Len())
	}

	if _, ok := m.Take(h); ok {
		t.Error("second Take() of the same hash should report no entry")
	}
}
