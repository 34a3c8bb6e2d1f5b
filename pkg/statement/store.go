package statement

import "context"

// Store is the external statement store contract consumed by the gossip
// engine (spec §6). Persistence, signature verification, and priority
// classification all live on the implementation; the gossip layer only
// ever calls these four methods.
//
// Implementations must be safe for concurrent use: Statement and
// Statements are called from the gossip engine's goroutine while Submit
// is called from the verification worker's goroutine.
type Store interface {
	// Submit verifies and imports a statement. source records who handed
	// it to the store, purely for the store's own bookkeeping.
	Submit(ctx context.Context, s Statement, source Source) SubmitResult

	// Statement returns a previously-stored statement by hash, or
	// (nil, false) if unknown.
	Statement(h Hash) (Statement, bool)

	// Statements returns every statement currently held, paired with its
	// hash. Order is unspecified; the gossip layer preserves whatever
	// order it returns within a single propagation batch.
	Statements() []HashedStatement

	// Hash computes the content hash of a statement. Must be
	// deterministic and match the hash the store itself uses to key
	// Statement/Statements.
	Hash(s Statement) Hash
}

// HashedStatement pairs a statement with its hash, the shape returned by
// Store.Statements for propagation.
type HashedStatement struct {
	Hash      Hash
	Statement Statement
}
