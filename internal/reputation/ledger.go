// Package reputation persists cumulative per-peer reputation deltas across
// restarts. The gossip engine reports deltas in memory (see
// gossip.ReputationAdjuster); this package is the durable backing store a
// node uses to remember which peers it has already penalized, so a peer
// banned yesterday doesn't start with a clean slate after a restart.
package reputation

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/shurlinet/statement-gossip/pkg/gossip"
)

// Record holds the accumulated reputation for a single peer.
type Record struct {
	PeerID     string    `json:"peer_id"`
	Cumulative int64     `json:"cumulative"`
	LastDelta  int32     `json:"last_delta"`
	LastReason string    `json:"last_reason"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Ledger is a disk-backed accumulator of reputation deltas, keyed by peer
// ID. It implements gossip.ReputationReporter so it can sit directly in an
// Engine's Deps.Reputation chain alongside (or in place of) an in-memory-only
// reporter.
type Ledger struct {
	mu        sync.RWMutex
	path      string
	records   map[string]*Record
	banThresh int64
	next      gossip.ReputationReporter
}

// NewLedger creates or loads a reputation ledger from path. next, if
// non-nil, also receives every reported delta — wire the transport's
// disconnect-on-ban logic there.
func NewLedger(path string, banThreshold int64, next gossip.ReputationReporter) *Ledger {
	l := &Ledger{
		path:      path,
		records:   make(map[string]*Record),
		banThresh: banThreshold,
		next:      next,
	}
	_ = l.Load() // best-effort; a missing or corrupt ledger just starts empty
	return l
}

// ReportPeer implements gossip.ReputationReporter. It accumulates delta into
// the peer's running total and forwards the call unchanged to the wrapped
// reporter, if any.
func (l *Ledger) ReportPeer(id peer.ID, delta int32) {
	key := id.String()

	l.mu.Lock()
	r, ok := l.records[key]
	if !ok {
		r = &Record{PeerID: key}
		l.records[key] = r
	}
	r.Cumulative += int64(delta)
	r.LastDelta = delta
	r.UpdatedAt = time.Now()
	l.mu.Unlock()

	if l.next != nil {
		l.next.ReportPeer(id, delta)
	}
}

// IsBanned reports whether id's cumulative reputation has fallen to or
// below the ledger's ban threshold.
func (l *Ledger) IsBanned(id peer.ID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[id.String()]
	return ok && r.Cumulative <= l.banThresh
}

// Get returns a copy of the record for id, or nil if untracked.
func (l *Ledger) Get(id peer.ID) *Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.records[id.String()]
	if !ok {
		return nil
	}
	copy := *r
	return &copy
}

// Count returns the number of peers tracked.
func (l *Ledger) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Load reads the ledger file from disk.
func (l *Ledger) Load() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read reputation ledger: %w", err)
	}

	var records map[string]*Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse reputation ledger: %w", err)
	}

	l.mu.Lock()
	l.records = records
	l.mu.Unlock()
	return nil
}

// Save writes the ledger file to disk atomically.
func (l *Ledger) Save() error {
	l.mu.RLock()
	data, err := json.MarshalIndent(l.records, "", "  ")
	l.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal reputation ledger: %w", err)
	}

	tmpPath := l.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
