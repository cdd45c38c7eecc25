package reactive

import (
	"fmt"

	"github.com/vango-dev/ripple/internal/errors"
)

// Scheduler decides when a triggered effect re-runs. It receives the
// effect's job; calling job.Run() re-runs the effect.
type Scheduler func(job Job)

// Job is a unit of deferred work. Jobs with equal IDs are deduplicated by
// JobQueue.
type Job interface {
	ID() uint64
	Run()
}

// funcJob adapts a function to Job.
type funcJob struct {
	id uint64
	fn func()
}

func (j *funcJob) ID() uint64 { return j.id }
func (j *funcJob) Run()       { j.fn() }

// NewJob wraps fn as a Job with a fresh ID.
func NewJob(fn func()) Job {
	return &funcJob{id: nextID(), fn: fn}
}

// effectJob is the Job handed to an effect's scheduler.
type effectJob struct {
	e *Effect
}

func (j effectJob) ID() uint64 { return j.e.id }
func (j effectJob) Run()       { j.e.Run() }

// Effect is a computation that re-runs when any value it read during its
// last run changes.
type Effect struct {
	rt *Runtime
	id uint64

	// name labels the effect in logs.
	name string

	fn        func() any
	scheduler Scheduler
	lazy      bool
	onStop    func()

	// active is false once the effect has been stopped.
	active bool

	// parent is the effect that was active when this one started running.
	// Set only while running; used to detect reentrant runs.
	parent *Effect

	// deps are the dependency sets this effect is subscribed to.
	deps []*dep

	job effectJob
}

// EffectOption is an option for configuring an Effect.
type EffectOption interface {
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// WithScheduler routes triggered re-runs through s instead of running the
// effect synchronously.
//
// Example:
//
//	rt.Effect(render, reactive.WithScheduler(queue.Queue))
func WithScheduler(s Scheduler) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.scheduler = s
	})
}

// Lazy defers the first run until Run is called.
func Lazy() EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.lazy = true
	})
}

// OnStop registers fn to be called once when the effect is stopped.
func OnStop(fn func()) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.onStop = fn
	})
}

// EffectName labels the effect in logs and metrics.
func EffectName(name string) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.name = name
	})
}

// Effect creates an effect running fn. Unless Lazy is given, fn runs
// immediately.
//
// Example:
//
//	rt.Effect(func() {
//	    fmt.Println("Count is:", state.Get("count"))
//	})
func (rt *Runtime) Effect(fn func(), opts ...EffectOption) *Effect {
	return rt.NewEffect(func() any {
		fn()
		return nil
	}, opts...)
}

// NewEffect creates an effect whose Run returns fn's result.
func (rt *Runtime) NewEffect(fn func() any, opts ...EffectOption) *Effect {
	e := &Effect{
		rt:     rt,
		id:     nextID(),
		fn:     fn,
		active: true,
	}
	e.job = effectJob{e: e}

	for _, opt := range opts {
		opt.applyEffect(e)
	}

	if !e.lazy {
		e.Run()
	}
	return e
}

// ID returns the unique identifier for this effect.
func (e *Effect) ID() uint64 {
	return e.id
}

// Name returns the effect's label, or a generated one.
func (e *Effect) Name() string {
	if e.name != "" {
		return e.name
	}
	return fmt.Sprintf("effect-%d", e.id)
}

// Active reports whether the effect has not been stopped.
func (e *Effect) Active() bool {
	return e.active
}

// Job returns the job that re-runs this effect.
func (e *Effect) Job() Job {
	return e.job
}

// Run executes the effect function under dependency tracking and returns
// its result.
//
// If the effect is already on the chain of running effects, Run returns
// nil without executing. Tracking is enabled for the duration of the run
// even when the caller paused it. A stopped effect executes fn without
// tracking.
// Panics from fn propagate after the tracking state is restored.
func (e *Effect) Run() any {
	if !e.active {
		e.rt.PauseTracking()
		defer e.rt.ResetTracking()
		return e.fn()
	}

	rt := e.rt
	for p := rt.active; p != nil; p = p.parent {
		if p == e {
			rt.reentrySuppressed(e)
			return nil
		}
	}

	e.parent = rt.active
	rt.active = e
	rt.stack = append(rt.stack, e)
	rt.EnableTracking()
	e.cleanup()

	defer func() {
		rt.ResetTracking()
		rt.stack = rt.stack[:len(rt.stack)-1]
		if n := len(rt.stack); n > 0 {
			rt.active = rt.stack[n-1]
		} else {
			rt.active = nil
		}
		e.parent = nil
	}()

	rt.observer.EffectRun(e)
	return e.fn()
}

// Stop permanently deactivates the effect, removing all its subscriptions.
// Stop is idempotent.
func (e *Effect) Stop() {
	if !e.active {
		return
	}
	e.cleanup()
	e.active = false
	if e.onStop != nil {
		e.onStop()
	}
}

// cleanup removes the effect from every dependency set it belongs to.
func (e *Effect) cleanup() {
	for _, d := range e.deps {
		d.remove(e)
	}
	e.deps = e.deps[:0]
}

// forget drops d from the effect's subscription list after d was discarded
// by Runtime.Dispose.
func (e *Effect) forget(d *dep) {
	for i, existing := range e.deps {
		if existing == d {
			e.deps = append(e.deps[:i], e.deps[i+1:]...)
			return
		}
	}
}

// depCount returns the number of dependency sets the effect belongs to.
func (e *Effect) depCount() int {
	return len(e.deps)
}

// ErrReentrySuppressed carries the code logged for a skipped reentrant run.
var ErrReentrySuppressed = errors.New("R002")

// reentrySuppressed reports a skipped reentrant run.
func (rt *Runtime) reentrySuppressed(e *Effect) {
	rt.observer.ReentrySuppressed(e)
	if rt.debug {
		rt.logger.Debug("reentrant effect run suppressed",
			"code", ErrReentrySuppressed.Code,
			"effect", e.Name(),
			"depth", len(rt.stack))
	}
}
