package gossip

import (
	"context"

	"github.com/shurlinet/statement-gossip/pkg/statement"
)

// verifyJob is one statement awaiting the store's verdict.
type verifyJob struct {
	hash statement.Hash
	stmt statement.Statement
}

// Completion is a verification job's result, fanned back to the engine's
// select loop once the worker finishes processing it. It takes the place
// of the per-job oneshot channel a futures-based design would use: every
// worker result lands on the same channel, which the engine treats as one
// more branch of its select statement.
type Completion struct {
	Hash   statement.Hash
	Result statement.SubmitResult
}

// ValidationQueue decouples statement verification (which may be slow —
// signature checks, store lookups) from the engine's single-threaded
// select loop. At most one worker goroutine drains it at a time per
// RunWorker call, so verification never runs concurrently with itself
// against the same store; callers wanting more throughput run multiple
// Store-safe workers against the same queue.
type ValidationQueue struct {
	jobs        chan verifyJob
	completions chan Completion
}

// NewValidationQueue constructs a queue whose input buffer holds at most
// capacity unprocessed jobs.
func NewValidationQueue(capacity int) *ValidationQueue {
	return &ValidationQueue{
		jobs:        make(chan verifyJob, capacity),
		completions: make(chan Completion, capacity),
	}
}

// TrySubmit enqueues (hash, stmt) for verification without blocking. It
// reports false if the queue's input buffer is full, in which case the
// caller must treat the announcement as dropped (see PendingMap.Announce's
// QueueFull outcome) rather than wait.
func (q *ValidationQueue) TrySubmit(hash statement.Hash, stmt statement.Statement) bool {
	select {
	case q.jobs <- verifyJob{hash: hash, stmt: stmt}:
		return true
	default:
		return false
	}
}

// Completions returns the channel the engine's select loop reads finished
// verification jobs from.
func (q *ValidationQueue) Completions() <-chan Completion {
	return q.completions
}

// RunWorker drains jobs, submitting each to store and publishing its
// result to Completions, until ctx is cancelled. It returns nil on
// cancellation; callers typically run it under an errgroup alongside the
// engine's own loop.
func RunWorker(ctx context.Context, store statement.Store, q *ValidationQueue) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case job := <-q.jobs:
			result := store.Submit(ctx, job.stmt, statement.SourceNetwork)
			select {
			case q.completions <- Completion{Hash: job.hash, Result: result}:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
