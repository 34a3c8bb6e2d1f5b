// Package memstore provides an in-memory statement.Store reference
// implementation. It exists to exercise the gossip engine in tests and in
// the demo node binary; a production deployment would back Store with
// real persistence and real signature verification.
package memstore

import (
	"context"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/zeebo/blake3"

	"github.com/shurlinet/statement-gossip/pkg/statement"
)

// Verifier decides whether a statement is well-formed and how urgently it
// should be rewarded when newly imported. It is the store's only
// extension point; memstore ships a trivial AcceptAll verifier for tests
// that don't care about verification outcomes.
type Verifier interface {
	Verify(s statement.Statement) (ok bool, priority statement.NetworkPriority)
}

// AcceptAll is a Verifier that accepts every statement at PriorityLow.
type AcceptAll struct{}

// Verify always reports the statement as valid and low priority.
func (AcceptAll) Verify(statement.Statement) (bool, statement.NetworkPriority) {
	return true, statement.PriorityLow
}

// Store is a goroutine-safe, unbounded in-memory statement.Store.
type Store struct {
	mu       sync.RWMutex
	verifier Verifier
	byHash   map[statement.Hash]statement.Statement
}

// New constructs a Store. A nil verifier defaults to AcceptAll.
func New(verifier Verifier) *Store {
	if verifier == nil {
		verifier = AcceptAll{}
	}
	return &Store{
		verifier: verifier,
		byHash:   make(map[statement.Hash]statement.Statement),
	}
}

// Hash computes the content hash of s as blake3(s) wrapped in a CIDv1 over
// a raw multihash, matching the content-addressing scheme used throughout
// the example pack's libp2p-adjacent code.
func (st *Store) Hash(s statement.Statement) statement.Hash {
	digest := blake3.Sum256(s)
	mh, err := multihash.Encode(digest[:], multihash.BLAKE3)
	if err != nil {
		// multihash.Encode only fails on an unregistered code or a
		// digest shorter than the code demands; BLAKE3 is registered
		// and Sum256 always returns 32 bytes, so this is unreachable.
		panic("memstore: encode blake3 multihash: " + err.Error())
	}
	return cid.NewCidV1(cid.Raw, mh)
}

// Submit verifies and imports s. Context is accepted for interface
// compatibility with stores that call out to asynchronous verification
// services; this implementation never blocks on it.
func (st *Store) Submit(_ context.Context, s statement.Statement, _ statement.Source) statement.SubmitResult {
	h := st.Hash(s)

	st.mu.Lock()
	defer st.mu.Unlock()

	if _, known := st.byHash[h]; known {
		return statement.SubmitResult{Kind: statement.SubmitKnown}
	}

	ok, priority := st.verifier.Verify(s)
	if !ok {
		return statement.SubmitResult{Kind: statement.SubmitBad}
	}

	st.byHash[h] = s
	return statement.SubmitResult{Kind: statement.SubmitNew, Priority: priority}
}

// Statement returns a previously-stored statement by hash.
func (st *Store) Statement(h statement.Hash) (statement.Statement, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.byHash[h]
	return s, ok
}

// Statements returns every statement currently held.
func (st *Store) Statements() []statement.HashedStatement {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]statement.HashedStatement, 0, len(st.byHash))
	for h, s := range st.byHash {
		out = append(out, statement.HashedStatement{Hash: h, Statement: s})
	}
	return out
}

var _ statement.Store = (*Store)(nil)
