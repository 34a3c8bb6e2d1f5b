package gossip

import (
	"testing"

	"github.com/libp2p/go-libp2p/core/peer"
	"pgregory.net/rapid"
)

// TestPendingMapAnnounceSequenceInvariant models the per-peer-per-hash
// reputation invariant: across any sequence of announcements of a single
// hash, exactly one announcer ever sees FirstAnnouncer, every other
// distinct peer sees AdditionalNew exactly once, and any repeat by a peer
// that already announced sees Duplicate — never any other combination.
func TestPendingMapAnnounceSequenceInvariant(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		peerCount := rapid.IntRange(1, 5).Draw(t, "peerCount")
		peers := make([]peer.ID, peerCount)
		for i := range peers {
			peers[i] = peer.ID(string(rune('A' + i)))
		}

		seqLen := rapid.IntRange(1, 20).Draw(t, "seqLen")
		m := NewPendingMap()
		h := mustHash(1)

		seenFirst := false
		announced := make(map[peer.ID]bool)

		for i := 0; i < seqLen; i++ {
			who := peers[rapid.IntRange(0, peerCount-1).Draw(t, "who")]
			got := m.Announce(h, who, func() bool { return true })

			switch got {
			case FirstAnnouncer:
				if seenFirst {
					t.Fatalf("FirstAnnouncer reported more than once in one sequence")
				}
				seenFirst = true
				announced[who] = true
			case AdditionalNew:
				if announced[who] {
					t.Fatalf("peer %v got AdditionalNew after already being recorded as an announcer", who)
				}
				announced[who] = true
			case Duplicate:
				if !announced[who] {
					t.Fatalf("peer %v got Duplicate without a prior announcement", who)
				}
			case QueueFull:
				t.Fatalf("tryStart always succeeds in this test; QueueFull should be unreachable")
			}
		}

		if seqLen > 0 && !seenFirst {
			t.Fatal("a non-empty announcement sequence must produce exactly one FirstAnnouncer")
		}
	})
}

// TestKnownSetNeverExceedsCapacity checks the bound a propagation round
// relies on to keep per-peer memory flat regardless of how much traffic a
// single peer generates.
func TestKnownSetNeverExceedsCapacity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(t, "capacity")
		inserts := rapid.IntRange(0, 40).Draw(t, "inserts")

		s := NewKnownSet(capacity)
		for i := 0; i < inserts; i++ {
			h := mustHash(byte(i%250 + 1))
			s.Insert(h)
			if s.Len() > capacity {
				t.Fatalf("KnownSet grew to %d entries, capacity is %d", s.Len(), capacity)
			}
		}
	})
}
