package gossip

import (
	"github.com/libp2p/go-libp2p/core/peer"

	"github.com/shurlinet/statement-gossip/pkg/statement"
)

// Reputation deltas applied to a peer's standing in response to statement
// traffic. Values match the constants a reference statement-gossip
// deployment uses; they're tuned so that flooding duplicate or bad
// statements drowns out the small per-message cost of ordinary gossip far
// faster than good behavior can repay it.
const (
	// RepAnyStatement is charged for every statement a peer announces,
	// good or bad, to make large announcement bursts cost something
	// up front.
	RepAnyStatement = -(1 << 4) // -16

	// RepAnyStatementRefund undoes RepAnyStatement once the statement
	// turns out to already be known to the store — a courteous
	// announcement, not spam.
	RepAnyStatementRefund = 1 << 4 // +16

	// RepGoodStatement rewards a newly verified, ordinary-priority
	// statement.
	RepGoodStatement = 1 << 7 // +128

	// RepExcellentStatement rewards a newly verified, high-priority
	// statement more generously than RepGoodStatement.
	RepExcellentStatement = 1 << 8 // +256

	// RepBadStatement punishes a statement that failed verification.
	// It dominates every reward above so a single bad statement costs
	// more than dozens of good ones gain.
	RepBadStatement = -(1 << 12) // -4096

	// RepDuplicateStatement punishes re-announcing a hash the peer has
	// already announced to us once.
	RepDuplicateStatement = -(1 << 7) // -128
)

// ReputationReporter is the subset of the network layer the gossip engine
// needs to adjust peer standing. A real transport implements this against
// whatever reputation/banning mechanism it ships; tests use a recording
// fake.
type ReputationReporter interface {
	ReportPeer(id peer.ID, delta int32)
}

// ReputationAdjuster applies the constants above against a
// ReputationReporter. It exists as its own type, rather than calling
// ReportPeer directly from the engine, so every adjustment site is named
// and the mapping from SubmitKind to delta lives in one place (see
// DeltaForSubmit).
type ReputationAdjuster struct {
	reporter ReputationReporter
	metrics  *Metrics
}

// NewReputationAdjuster wraps reporter. metrics may be nil, in which case
// adjustments are applied without being counted.
func NewReputationAdjuster(reporter ReputationReporter, metrics *Metrics) *ReputationAdjuster {
	return &ReputationAdjuster{reporter: reporter, metrics: metrics}
}

func (r *ReputationAdjuster) apply(id peer.ID, delta int32, reason string) {
	if delta == 0 {
		return
	}
	r.reporter.ReportPeer(id, delta)
	if r.metrics != nil {
		r.metrics.ReputationAdjustments.WithLabelValues(reason).Inc()
	}
}

// AnyStatement charges the flat per-announcement cost.
func (r *ReputationAdjuster) AnyStatement(id peer.ID) { r.apply(id, RepAnyStatement, "any_statement") }

// AnyStatementRefund undoes AnyStatement for an already-known statement.
func (r *ReputationAdjuster) AnyStatementRefund(id peer.ID) {
	r.apply(id, RepAnyStatementRefund, "any_statement_refund")
}

// DuplicateStatement charges for re-announcing an already-announced hash.
func (r *ReputationAdjuster) DuplicateStatement(id peer.ID) {
	r.apply(id, RepDuplicateStatement, "duplicate_statement")
}

// ApplySubmitResult charges or rewards id according to how the store
// resolved a statement it submitted. It implements the exact mapping a
// reference statement-gossip handler uses:
//
//	New(high priority)  -> RepExcellentStatement
//	New(low priority)   -> RepGoodStatement
//	Known               -> RepAnyStatementRefund
//	KnownExpired        -> no change
//	Ignored             -> no change
//	Bad                 -> RepBadStatement
//	InternalError       -> no change
func (r *ReputationAdjuster) ApplySubmitResult(id peer.ID, result statement.SubmitResult) {
	r.apply(id, DeltaForSubmit(result), "submit_result_"+result.Kind.String())
}

// DeltaForSubmit maps a store verdict to the reputation delta it earns.
func DeltaForSubmit(result statement.SubmitResult) int32 {
	switch result.Kind {
	case statement.SubmitNew:
		if result.Priority == statement.PriorityHigh {
			return RepExcellentStatement
		}
		return RepGoodStatement
	case statement.SubmitKnown:
		return RepAnyStatementRefund
	case statement.SubmitBad:
		return RepBadStatement
	case statement.SubmitKnownExpired, statement.SubmitIgnored, statement.SubmitInternalError:
		return 0
	default:
		return 0
	}
}
