// Package statement defines the wire-level data model for the statement
// gossip protocol: the opaque Statement payload, its content-addressed
// Hash, and the canonical sequence encoding exchanged between peers.
//
// The statement store itself (persistence, signature verification,
// priority classification) lives outside this package; statement only
// carries the shapes the store and the gossip engine agree on.
package statement

import (
	"github.com/ipfs/go-cid"
)

// Statement is an opaque, content-addressed application message. Its byte
// layout is defined by the store and is never interpreted by the gossip
// layer.
type Statement []byte

// Statements is an ordered sequence of Statement, the unit exchanged over
// the wire in a single notification.
type Statements []Statement

// Hash identifies a Statement by content. It is produced exclusively by
// the store (via Store.Hash) and treated as opaque everywhere else. Hash
// is backed by a content identifier (github.com/ipfs/go-cid), which is
// itself a comparable string value, so it can be used directly as a map
// key without a wrapper type.
type Hash = cid.Cid

// NetworkPriority classifies how aggressively a newly-imported statement
// should be rewarded when propagated from the network.
type NetworkPriority int

const (
	// PriorityLow is a statement accepted without special urgency.
	PriorityLow NetworkPriority = iota
	// PriorityHigh is a statement the store considers particularly useful
	// (e.g. it unblocks other pending statements).
	PriorityHigh
)

// Source identifies where a submitted statement originated. The gossip
// engine always submits with SourceNetwork; other values exist for the
// store's own bookkeeping (e.g. locally authored statements) and are of
// no concern to this package.
type Source int

const (
	// SourceNetwork marks a statement received from a gossiping peer.
	SourceNetwork Source = iota
	// SourceLocal marks a statement submitted by the local node itself.
	SourceLocal
)

// SubmitResult is the store's verdict on a submitted statement.
type SubmitResult struct {
	Kind     SubmitKind
	Priority NetworkPriority // meaningful only when Kind == SubmitNew
}

// SubmitKind enumerates the possible outcomes of Store.Submit.
type SubmitKind int

const (
	// SubmitNew means the statement was previously unknown and passed
	// verification. Priority distinguishes High/Low reward tiers.
	SubmitNew SubmitKind = iota
	// SubmitKnown means the statement was already present in the store.
	SubmitKnown
	// SubmitKnownExpired means the statement was known but has since
	// expired from the store's retention window.
	SubmitKnownExpired
	// SubmitIgnored means the store chose not to import the statement
	// for policy reasons unrelated to validity.
	SubmitIgnored
	// SubmitBad means verification failed; the statement is invalid.
	SubmitBad
	// SubmitInternalError means verification could not be completed due
	// to a local fault, not a fault of the submitting peer.
	SubmitInternalError
)

func (k SubmitKind) String() string {
	switch k {
	case SubmitNew:
		return "New"
	case SubmitKnown:
		return "Known"
	case SubmitKnownExpired:
		return "KnownExpired"
	case SubmitIgnored:
		return "Ignored"
	case SubmitBad:
		return "Bad"
	case SubmitInternalError:
		return "InternalError"
	default:
		return "Unknown"
	}
}
