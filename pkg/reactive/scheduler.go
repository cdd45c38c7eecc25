package reactive

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/ripple/internal/errors"
)

// DefaultRecursionLimit is the number of times a single job may run within
// one Flush before Flush gives up.
const DefaultRecursionLimit = 100

// ErrRecursionLimit is returned by Flush when a job keeps re-queuing itself.
var ErrRecursionLimit = errors.New("R004")

// JobQueue is a deduplicating three-phase job queue. Queuing a job that is
// already waiting in the same phase is a no-op, so a job scheduled several
// times before a flush runs once.
//
// Flush drains pre jobs first, then main jobs, then post jobs, repeating
// until all phases are empty. Jobs queued while flushing run in the same
// flush.
type JobQueue struct {
	pre, main, post phase

	flushing bool
	limit    int

	logger *slog.Logger
	tracer trace.Tracer
}

// phase is one FIFO of pending jobs with membership for deduplication.
type phase struct {
	name    string
	jobs    []Job
	pending map[uint64]struct{}
}

func newPhase(name string) phase {
	return phase{name: name, pending: make(map[uint64]struct{})}
}

func (p *phase) push(j Job) bool {
	if _, ok := p.pending[j.ID()]; ok {
		return false
	}
	p.pending[j.ID()] = struct{}{}
	p.jobs = append(p.jobs, j)
	return true
}

func (p *phase) shift() (Job, bool) {
	if len(p.jobs) == 0 {
		return nil, false
	}
	j := p.jobs[0]
	p.jobs[0] = nil
	p.jobs = p.jobs[1:]
	delete(p.pending, j.ID())
	return j, true
}

// QueueOption configures a JobQueue.
type QueueOption func(*JobQueue)

// WithQueueLogger sets the queue logger.
func WithQueueLogger(logger *slog.Logger) QueueOption {
	return func(q *JobQueue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithTracer sets the tracer used for flush spans.
func WithTracer(tracer trace.Tracer) QueueOption {
	return func(q *JobQueue) {
		if tracer != nil {
			q.tracer = tracer
		}
	}
}

// WithRecursionLimit overrides DefaultRecursionLimit.
func WithRecursionLimit(n int) QueueOption {
	return func(q *JobQueue) {
		if n > 0 {
			q.limit = n
		}
	}
}

// NewJobQueue creates an empty queue.
func NewJobQueue(opts ...QueueOption) *JobQueue {
	q := &JobQueue{
		pre:    newPhase("pre"),
		main:   newPhase("main"),
		post:   newPhase("post"),
		limit:  DefaultRecursionLimit,
		logger: slog.Default().With("component", "scheduler"),
		tracer: otel.Tracer("ripple/reactive"),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Queue schedules j in the main phase. Queue has the Scheduler signature
// and can be passed to WithScheduler directly.
func (q *JobQueue) Queue(j Job) {
	q.main.push(j)
}

// QueuePre schedules j to run before main jobs.
func (q *JobQueue) QueuePre(j Job) {
	q.pre.push(j)
}

// QueuePost schedules j to run after main jobs.
func (q *JobQueue) QueuePost(j Job) {
	q.post.push(j)
}

// Len returns the number of pending jobs across all phases.
func (q *JobQueue) Len() int {
	return len(q.pre.jobs) + len(q.main.jobs) + len(q.post.jobs)
}

// Flushing reports whether a Flush is in progress.
func (q *JobQueue) Flushing() bool {
	return q.flushing
}

// Flush runs pending jobs until the queue is empty. A nested Flush call
// made by a running job returns immediately; the outer flush picks up
// anything queued.
//
// Panics from jobs propagate; jobs not yet run stay queued.
func (q *JobQueue) Flush(ctx context.Context) error {
	if q.flushing {
		return nil
	}
	q.flushing = true
	defer func() { q.flushing = false }()

	_, span := q.tracer.Start(ctx, "reactive.JobQueue.Flush")
	defer span.End()

	counts := make(map[uint64]int)
	ran := 0
	for {
		j, name, ok := q.next()
		if !ok {
			break
		}
		counts[j.ID()]++
		if counts[j.ID()] > q.limit {
			err := errors.New("R004").WithDetailf("job %d exceeded %d runs in the %s phase", j.ID(), q.limit, name)
			q.logger.Error("flush aborted", "job", j.ID(), "phase", name, "limit", q.limit)
			span.RecordError(err)
			span.SetStatus(codes.Error, "recursion limit")
			return err
		}
		j.Run()
		ran++
	}

	span.SetAttributes(attribute.Int("reactive.jobs", ran))
	return nil
}

// next pops the next job in phase order.
func (q *JobQueue) next() (Job, string, bool) {
	for _, p := range []*phase{&q.pre, &q.main, &q.post} {
		if j, ok := p.shift(); ok {
			return j, p.name, true
		}
	}
	return nil, "", false
}
