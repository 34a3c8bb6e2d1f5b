package gossip

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p/core/peer"
	"go.uber.org/goleak"

	"github.com/shurlinet/statement-gossip/pkg/statement"
	"github.com/shurlinet/statement-gossip/pkg/statement/memstore"
)

type fakeSyncOracle struct {
	events  chan SyncEvent
	syncing bool
}

func newFakeSyncOracle() *fakeSyncOracle {
	return &fakeSyncOracle{events: make(chan SyncEvent, 8)}
}

func (f *fakeSyncOracle) Events() <-chan SyncEvent { return f.events }
func (f *fakeSyncOracle) IsMajorSyncing() bool      { return f.syncing }

type fakeReserved struct {
	mu      sync.Mutex
	added   []peer.ID
	removed []peer.ID
}

func (f *fakeReserved) AddReservedPeers(ids []peer.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.added = append(f.added, ids...)
	return nil
}

func (f *fakeReserved) RemoveReservedPeers(ids []peer.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, ids...)
	return nil
}

type fakeRoles struct {
	mu   sync.Mutex
	role map[peer.ID]Role
}

func newFakeRoles() *fakeRoles { return &fakeRoles{role: make(map[peer.ID]Role)} }

func (f *fakeRoles) set(id peer.ID, r Role) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.role[id] = r
}

func (f *fakeRoles) PeerRole(id peer.ID, _ []byte) (Role, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.role[id]
	return r, ok
}

type fakeReputationReporter struct {
	mu     sync.Mutex
	deltas map[peer.ID]int32
}

func newFakeReputationReporter() *fakeReputationReporter {
	return &fakeReputationReporter{deltas: make(map[peer.ID]int32)}
}

func (f *fakeReputationReporter) ReportPeer(id peer.ID, delta int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deltas[id] += delta
}

func (f *fakeReputationReporter) get(id peer.ID) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.deltas[id]
}

func connectPeer(t *testing.T, notifier *fakeNotifier, roles *fakeRoles, id peer.ID, role Role) {
	t.Helper()
	roles.set(id, role)
	notifier.events <- NotificationEvent{Kind: EventStreamOpened, Peer: id}
}

func TestEngine_FirstAnnouncerVerifiesAndRewards(t *testing.T) {
	defer goleak.VerifyNone(t)

	notifier := newFakeNotifier()
	sync := newFakeSyncOracle()
	reserved := &fakeReserved{}
	roles := newFakeRoles()
	reporter := newFakeReputationReporter()
	store := memstore.New(nil)

	cfg := DefaultConfig()
	cfg.PropagateTimeout = time.Hour // keep the periodic tick out of the way

	engine := NewEngine(cfg, Deps{
		Store:      store,
		Notifier:   notifier,
		Sync:       sync,
		Reserved:   reserved,
		Roles:      roles,
		Reputation: reporter,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()

	announcer := newTestPeerID(t)
	connectPeer(t, notifier, roles, announcer, RoleFull)

	stmt := statement.Statement("hello-world")
	payload := statement.Encode(statement.Statements{stmt})
	notifier.events <- NotificationEvent{Kind: EventNotificationReceived, Peer: announcer, Payload: payload}

	h := store.Hash(stmt)
	waitFor(t, func() bool {
		_, ok := store.Statement(h)
		return ok
	})
	waitFor(t, func() bool { return reporter.get(announcer) == RepAnyStatement+RepGoodStatement })

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("engine.Run returned error: %v", err)
	}
}

func TestEngine_DuplicateAnnouncementPunished(t *testing.T) {
	// Not goleak-checked: gatedVerifier blocks until the deferred cleanup
	// closes its release channel, so the worker goroutine may still be
	// finishing that call when the test returns.
	notifier := newFakeNotifier()
	sync := newFakeSyncOracle()
	reserved := &fakeReserved{}
	roles := newFakeRoles()
	reporter := newFakeReputationReporter()
	verifier := &gatedVerifier{release: make(chan struct{})}
	store := memstore.New(verifier)

	cfg := DefaultConfig()
	cfg.PropagateTimeout = time.Hour

	engine := NewEngine(cfg, Deps{
		Store: store, Notifier: notifier, Sync: sync,
		Reserved: reserved, Roles: roles, Reputation: reporter,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- engine.Run(ctx) }()
	defer func() {
		close(verifier.release) // let the stuck worker goroutine finish
		cancel()
		<-done
	}()

	who := newTestPeerID(t)
	connectPeer(t, notifier, roles, who, RoleFull)

	stmt := statement.Statement("slow-to-verify")
	payload := statement.Encode(statement.Statements{stmt})

	// Two announcements of the same statement from the same peer while
	// verification (deliberately) never completes: the second must be
	// charged the duplicate penalty on top of the flat per-announcement fee.
	notifier.events <- NotificationEvent{Kind: EventNotificationReceived, Peer: who, Payload: payload}
	notifier.events <- NotificationEvent{Kind: EventNotificationReceived, Peer: who, Payload: payload}

	waitFor(t, func() bool {
		return reporter.get(who) == RepAnyStatement+RepAnyStatement+RepDuplicateStatement
	})
}

// gatedVerifier blocks every Verify call until release is closed, so
// verification for a submitted statement stays pending for as long as the
// test needs — exactly what's required to exercise the Duplicate path,
// which only fires while a hash's verification job is still in flight.
type gatedVerifier struct {
	release chan struct{}
}

func (g *gatedVerifier) Verify(statement.Statement) (bool, statement.NetworkPriority) {
	<-g.release
	return true, statement.PriorityLow
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
