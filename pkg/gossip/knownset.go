package gossip

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/shurlinet/statement-gossip/pkg/statement"
)

// KnownSet is a bounded, per-peer record of statement hashes a peer is
// assumed to already hold — either because it announced the hash to us,
// or because we already sent it the statement. Once full, inserting a new
// hash evicts the least recently touched one.
type KnownSet struct {
	cache *lru.Cache
}

// NewKnownSet constructs a KnownSet holding at most capacity hashes.
func NewKnownSet(capacity int) *KnownSet {
	c, err := lru.New(capacity)
	if err != nil {
		// lru.New only errors on capacity <= 0; PeerTable passes
		// Config.MaxKnownStatements, so a non-positive value there panics.
		panic("gossip: known-set capacity must be positive: " + err.Error())
	}
	return &KnownSet{cache: c}
}

// Insert records h as known and reports whether it was newly added (true)
// as opposed to already present (false). The Propagator uses this boolean
// to filter which statements a propagation round actually needs to send to
// a given peer; the engine records announced hashes without consulting it
// (whether an announcement is the first one is decided by PendingMap).
func (s *KnownSet) Insert(h statement.Hash) (added bool) {
	ok, _ := s.cache.ContainsOrAdd(h, struct{}{})
	return !ok
}

// Contains reports whether h is recorded as known, without affecting LRU
// recency or inserting it.
func (s *KnownSet) Contains(h statement.Hash) bool {
	return s.cache.Contains(h)
}

// Len reports the number of hashes currently recorded.
func (s *KnownSet) Len() int {
	return s.cache.Len()
}
