package gossip

import "time"

// Tunable constants governing queue depth, per-peer memory, and the
// re-broadcast cadence. Values mirror the defaults a single-chain deployment
// ships with; a config file (see internal/config) can override all of them.
const (
	// MaxStatementSize bounds both a single encoded statement and (via the
	// wire codec) the whole notification payload, so a hostile peer can't
	// force unbounded allocation from a length prefix alone.
	MaxStatementSize = 1 << 20 // 1 MiB

	// MaxKnownStatements bounds the per-peer LRU set of statement hashes a
	// peer is assumed to already have. Once full, the oldest entry is
	// evicted to make room — an evicted hash may be re-announced to that
	// peer, which only costs one extra round of ANY_STATEMENT reputation
	// churn, never a correctness problem.
	MaxKnownStatements = 8192

	// MaxPendingStatements bounds how many statements may be awaiting
	// verification at once, across all peers. It exists to cap memory and
	// worst-case latency under a flood, not to bound any one peer.
	MaxPendingStatements = 8192

	// ValidationQueueCapacity bounds the channel handed to the
	// verification worker. It is sized much larger than
	// MaxPendingStatements because the queue may contain statements whose
	// hash hasn't yet produced a PendingMap entry (the entry is only
	// created once the send onto this channel has already succeeded).
	ValidationQueueCapacity = 100_000

	// PropagateTimeout is the cadence of the periodic re-broadcast tick.
	// Each tick, every statement currently in the store is offered to
	// every non-light peer that hasn't seen it yet.
	PropagateTimeout = 30 * time.Second
)

// Config bundles the tunables above so they can be loaded from a file and
// passed to NewEngine without touching the package constants (tests often
// want a smaller MaxKnownStatements or a sub-second PropagateTimeout).
type Config struct {
	MaxStatementSize        int
	MaxKnownStatements      int
	MaxPendingStatements    int
	ValidationQueueCapacity int
	PropagateTimeout        time.Duration
}

// DefaultConfig returns the tunables documented above.
func DefaultConfig() Config {
	return Config{
		MaxStatementSize:        MaxStatementSize,
		MaxKnownStatements:      MaxKnownStatements,
		MaxPendingStatements:    MaxPendingStatements,
		ValidationQueueCapacity: ValidationQueueCapacity,
		PropagateTimeout:        PropagateTimeout,
	}
}
