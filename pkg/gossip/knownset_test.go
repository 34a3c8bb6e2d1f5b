package gossip

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

func testHash(t *testing.T, seed byte) statementHashForTest {
	t.Helper()
	return mustHash(seed)
}

// mustHash builds a deterministic test hash without needing a *testing.T,
// so it can be called from both table-driven tests and rapid property
// closures (whose *rapid.T is not a *testing.T).
func mustHash(seed byte) statementHashForTest {
	mh, err := multihash.Encode([]byte{seed, seed, seed}, multihash.IDENTITY)
	if err != nil {
		panic("mustHash: " + err.Error())
	}
	return cid.NewCidV1(cid.Raw, mh)
}

// statementHashForTest is an alias so tests don't need to import
// pkg/statement just to name the Hash type.
type statementHashForTest = cid.Cid

func TestKnownSetInsertReportsNewlyAdded(t *testing.T) {
	s := NewKnownSet(4)
	h := testHash(t, 1)

	if added := s.Insert(h); !added {
		t.Fatal("first insert should report added=true")
	}
	if added := s.Insert(h); added {
		t.Fatal("second insert of the same hash should report added=false")
	}
	if !s.Contains(h) {
		t.Fatal("Contains should report true after Insert")
	}
}

func TestKnownSetEvictsOldestOnOverflow(t *testing.T) {
	s := NewKnownSet(2)
	h1, h2, h3 := testHash(t, 1), testHash(t, 2), testHash(t, 3)

	s.Insert(h1)
	s.Insert(h2)
	s.Insert(h3) // evicts h1

	if s.Contains(h1) {
		t.Error("h1 should have been evicted")
	}
	if !s.Contains(h2) || !s.Contains(h3) {
		t.Error("h2 and h3 should still be present")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}
