// Package gossip implements the statement gossip engine: a single
// select-loop goroutine that tracks connected peers, throttles flooding
// via per-peer known-statement sets, farms verification out to a bounded
// queue, adjusts peer reputation on every outcome, and periodically
// re-broadcasts the local statement store to the network.
package gossip

import (
	"context"
	"log/slog"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"golang.org/x/sync/errgroup"

	"github.com/shurlinet/statement-gossip/pkg/statement"
)

// Engine is the statement gossip protocol handler. Construct one with
// NewEngine and run it with Run; a single Engine instance owns one
// notification protocol and one store.
type Engine struct {
	cfg Config

	store      statement.Store
	peers      *PeerTable
	pending    *PendingMap
	queue      *ValidationQueue
	propagator *Propagator

	notifier NotificationService
	sync     SyncOracle
	reserved ReservedPeerManager
	roles    RoleResolver

	reputation *ReputationAdjuster
	metrics    *Metrics
	log        *slog.Logger
}

// Deps bundles the collaborators an Engine needs from the rest of the
// node: the statement store plus the transport- and sync-layer contracts
// defined in interfaces.go.
type Deps struct {
	Store      statement.Store
	Notifier   NotificationService
	Sync       SyncOracle
	Reserved   ReservedPeerManager
	Roles      RoleResolver
	Reputation ReputationReporter
	Metrics    *Metrics
	Log        *slog.Logger
}

// NewEngine constructs an Engine from cfg and deps. Metrics and Log may be
// left nil; NewEngine fills in a fresh Metrics and slog.Default in that
// case.
func NewEngine(cfg Config, deps Deps) *Engine {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = NewMetrics()
	}

	peers := NewPeerTable(cfg.MaxKnownStatements)
	return &Engine{
		cfg:        cfg,
		store:      deps.Store,
		peers:      peers,
		pending:    NewPendingMap(),
		queue:      NewValidationQueue(cfg.ValidationQueueCapacity),
		propagator: NewPropagator(peers, deps.Notifier, metrics, log),
		notifier:   deps.Notifier,
		sync:       deps.Sync,
		reserved:   deps.Reserved,
		roles:      deps.Roles,
		reputation: NewReputationAdjuster(deps.Reputation, metrics),
		metrics:    metrics,
		log:        log,
	}
}

// Run drives the engine until ctx is cancelled: one goroutine runs the
// verification worker against the store, another runs the select loop.
// Run returns when both have exited, propagating the first error (ctx
// cancellation itself is not treated as an error).
func (e *Engine) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return RunWorker(ctx, e.store, e.queue) })
	g.Go(func() error { return e.loop(ctx) })
	return g.Wait()
}

func (e *Engine) loop(ctx context.Context) error {
	ticker := time.NewTicker(e.cfg.PropagateTimeout)
	defer ticker.Stop()

	notifEvents := e.notifier.Events()
	syncEvents := e.sync.Events()
	completions := e.queue.Completions()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			e.onPropagateTimeout()

		case comp := <-completions:
			e.onCompletion(comp)

		case ev, ok := <-syncEvents:
			if !ok {
				syncEvents = nil
				continue
			}
			e.onSyncEvent(ev)

		case ev, ok := <-notifEvents:
			if !ok {
				notifEvents = nil
				continue
			}
			e.onNotificationEvent(ev)
		}
	}
}

func (e *Engine) onPropagateTimeout() {
	if e.sync.IsMajorSyncing() {
		return
	}
	e.propagator.PropagateAll(e.store.Statements())
}

func (e *Engine) onSyncEvent(ev SyncEvent) {
	switch ev.Kind {
	case EventInitialPeers:
		if err := e.reserved.AddReservedPeers(ev.Peers); err != nil {
			e.log.Warn("add initial reserved peers", "error", err, "count", len(ev.Peers))
		}
	case EventPeerConnected:
		if err := e.reserved.AddReservedPeers([]peer.ID{ev.Peer}); err != nil {
			e.log.Warn("add reserved peer", "peer", ev.Peer, "error", err)
		}
	case EventPeerDisconnected:
		if err := e.reserved.RemoveReservedPeers([]peer.ID{ev.Peer}); err != nil {
			e.log.Warn("remove reserved peer", "peer", ev.Peer, "error", err)
		}
	}
}

func (e *Engine) onNotificationEvent(ev NotificationEvent) {
	switch ev.Kind {
	case EventValidateInboundSubstream:
		_, ok := e.roles.PeerRole(ev.Peer, ev.Handshake)
		ev.Accept <- ok

	case EventStreamOpened:
		role, ok := e.roles.PeerRole(ev.Peer, ev.Handshake)
		if !ok {
			e.log.Warn("stream opened for peer with unresolvable role", "peer", ev.Peer)
			return
		}
		if !e.peers.InsertIfAbsent(ev.Peer, role) {
			e.log.Warn(ErrPeerAlreadyConnected.Error(), "peer", ev.Peer)
			return
		}
		e.metrics.ConnectedPeers.Set(float64(e.peers.Len()))

	case EventStreamClosed:
		if !e.peers.RemoveIfPresent(ev.Peer) {
			e.log.Warn(ErrUnknownPeer.Error(), "peer", ev.Peer)
			return
		}
		e.metrics.ConnectedPeers.Set(float64(e.peers.Len()))

	case EventNotificationReceived:
		if e.sync.IsMajorSyncing() {
			e.log.Debug("ignoring statements received while major syncing", "peer", ev.Peer)
			return
		}
		stmts, err := statement.Decode(ev.Payload, e.cfg.MaxStatementSize)
		if err != nil {
			e.log.Debug("decode statements notification", "peer", ev.Peer, "error", err)
			return
		}
		e.onStatements(ev.Peer, stmts)
	}
}

// onStatements implements the core flood-throttling algorithm: every
// announcement costs the announcing peer a flat reputation fee, is
// recorded in that peer's known-statement set regardless of outcome, and
// triggers verification only for the first peer to announce a given hash
// while that hash has no job in flight. Peers who re-announce a hash
// already pending are punished as duplicates.
func (e *Engine) onStatements(who peer.ID, stmts statement.Statements) {
	peerEntry, ok := e.peers.Get(who)
	if !ok {
		e.log.Warn(ErrUnknownPeer.Error(), "peer", who)
		return
	}

	for _, s := range stmts {
		if e.pending.Len() >= e.cfg.MaxPendingStatements {
			e.log.Debug("pending statement limit reached, dropping remaining batch", "peer", who)
			break
		}

		h := e.store.Hash(s)
		peerEntry.Known.Insert(h)
		e.reputation.AnyStatement(who)

		switch e.pending.Announce(h, who, func() bool { return e.queue.TrySubmit(h, s) }) {
		case FirstAnnouncer, AdditionalNew:
			// Verification already running (or just started); nothing
			// further to do until it completes.
		case Duplicate:
			e.reputation.DuplicateStatement(who)
		case QueueFull:
			e.metrics.QueueDroppedTotal.Inc()
			e.log.Debug("validation queue full, dropping announcement", "peer", who)
		}
	}

	e.metrics.PendingStatements.Set(float64(e.pending.Len()))
}

func (e *Engine) onCompletion(comp Completion) {
	peers, ok := e.pending.Take(comp.Hash)
	if !ok {
		e.log.Warn(ErrPendingEntryMissing.Error())
		return
	}

	for _, id := range peers {
		e.reputation.ApplySubmitResult(id, comp.Result)
	}
	e.metrics.PendingStatements.Set(float64(e.pending.Len()))

	if comp.Result.Kind != statement.SubmitNew {
		return
	}
	if e.sync.IsMajorSyncing() {
		return
	}
	s, ok := e.store.Statement(comp.Hash)
	if !ok {
		return
	}
	e.propagator.PropagateOne(statement.HashedStatement{Hash: comp.Hash, Statement: s})
}
