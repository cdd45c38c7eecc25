package reactive

import (
	"context"
	"log/slog"
	"slices"
)

// Observer receives notifications about graph activity.
// The metrics package provides a Prometheus-backed implementation.
type Observer interface {
	// EffectRun is called each time an effect body executes under tracking.
	EffectRun(e *Effect)
	// Triggered is called once per Trigger with the number of effects notified.
	Triggered(kind ChangeKind, effects int)
	// ReentrySuppressed is called when an effect run is skipped because the
	// effect is already on the active chain.
	ReentrySuppressed(e *Effect)
}

type noopObserver struct{}

func (noopObserver) EffectRun(*Effect)         {}
func (noopObserver) Triggered(ChangeKind, int) {}
func (noopObserver) ReentrySuppressed(*Effect) {}

// Runtime is the dependency graph and tracking context shared by every
// wrapper, effect and computed value created from it.
//
// A Runtime is not safe for concurrent use.
type Runtime struct {
	// targets maps raw target -> key -> subscribed effects.
	targets map[any]map[Key]*dep

	// active is the effect currently executing, nil outside any effect.
	active *Effect

	// stack holds the chain of running effects, innermost last.
	stack []*Effect

	// shouldTrack gates Track; trackStack saves prior states.
	shouldTrack bool
	trackStack  []bool

	// proxies caches one wrapper per raw target per flavor.
	proxies [flavorCount]map[any]Proxy

	queue    *JobQueue
	logger   *slog.Logger
	observer Observer

	// debug enables warnings for rejected readonly writes and
	// suppressed reentrant runs.
	debug bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithObserver installs an Observer for graph activity.
func WithObserver(o Observer) Option {
	return func(rt *Runtime) {
		if o != nil {
			rt.observer = o
		}
	}
}

// WithDebug enables development diagnostics.
func WithDebug(debug bool) Option {
	return func(rt *Runtime) {
		rt.debug = debug
	}
}

// WithJobQueue replaces the runtime's job queue.
func WithJobQueue(q *JobQueue) Option {
	return func(rt *Runtime) {
		if q != nil {
			rt.queue = q
		}
	}
}

// NewRuntime creates an empty dependency graph.
func NewRuntime(opts ...Option) *Runtime {
	rt := &Runtime{
		targets:     make(map[any]map[Key]*dep),
		shouldTrack: true,
		logger:      slog.Default().With("component", "reactive"),
		observer:    noopObserver{},
	}
	for i := range rt.proxies {
		rt.proxies[i] = make(map[any]Proxy)
	}
	for _, opt := range opts {
		opt(rt)
	}
	if rt.queue == nil {
		rt.queue = NewJobQueue(WithQueueLogger(rt.logger))
	}
	return rt
}

// Logger returns the runtime logger.
func (rt *Runtime) Logger() *slog.Logger {
	return rt.logger
}

// Queue returns the job queue used for pre and post flush work.
func (rt *Runtime) Queue() *JobQueue {
	return rt.queue
}

// Flush drains the runtime's job queue.
func (rt *Runtime) Flush() error {
	return rt.queue.Flush(context.Background())
}

// ActiveEffect returns the effect currently executing, or nil.
func (rt *Runtime) ActiveEffect() *Effect {
	return rt.active
}

// Track records that the active effect depends on (target, key).
// It is a no-op when tracking is paused or no effect is running.
func (rt *Runtime) Track(target any, key Key) {
	if !rt.shouldTrack || rt.active == nil || !rt.active.active {
		return
	}
	key = canonicalKey(key)
	keys, ok := rt.targets[target]
	if !ok {
		keys = make(map[Key]*dep)
		rt.targets[target] = keys
	}
	d, ok := keys[key]
	if !ok {
		d = newDep()
		keys[key] = d
	}
	if d.add(rt.active) {
		rt.active.deps = append(rt.active.deps, d)
	}
}

// Trigger notifies the effects that depend on (target, key).
//
// The running effect is never notified of its own writes. Synchronous
// effects run before Trigger returns, in subscription order; effects with a
// scheduler are handed to it instead.
func (rt *Runtime) Trigger(target any, key Key, kind ChangeKind, newValue any) {
	key = canonicalKey(key)
	keys, ok := rt.targets[target]
	if !ok {
		rt.observer.Triggered(kind, 0)
		return
	}

	var run []*Effect
	seen := make(map[*Effect]struct{})
	collect := func(d *dep) {
		if d == nil {
			return
		}
		for _, e := range d.effects {
			if e == rt.active {
				continue
			}
			if _, dup := seen[e]; dup {
				continue
			}
			seen[e] = struct{}{}
			run = append(run, e)
		}
	}

	_, isMap := target.(*HashMap)
	_, isList := target.(*List)

	if kind == OpClear {
		for _, d := range keys {
			collect(d)
		}
	} else {
		collect(keys[key])
	}

	switch kind {
	case OpAdd, OpDelete:
		collect(keys[IterateKey])
		if isMap {
			collect(keys[MapKeyIterateKey])
		}
	case OpSet:
		if isMap {
			collect(keys[IterateKey])
		}
	}

	if kind == OpAdd && isList {
		collect(keys[LengthKey])
	}

	if isList && key == LengthKey {
		if newLen, ok := newValue.(int); ok {
			var truncated []int
			for k := range keys {
				if idx, ok := k.(int); ok && idx >= newLen {
					truncated = append(truncated, idx)
				}
			}
			slices.Sort(truncated)
			for _, idx := range truncated {
				collect(keys[idx])
			}
		}
	}

	rt.observer.Triggered(kind, len(run))

	for _, e := range run {
		if e.scheduler != nil {
			e.scheduler(e.job)
		} else {
			e.Run()
		}
	}
}

// PauseTracking suspends Track until the matching ResetTracking.
func (rt *Runtime) PauseTracking() {
	rt.trackStack = append(rt.trackStack, rt.shouldTrack)
	rt.shouldTrack = false
}

// EnableTracking resumes Track until the matching ResetTracking.
func (rt *Runtime) EnableTracking() {
	rt.trackStack = append(rt.trackStack, rt.shouldTrack)
	rt.shouldTrack = true
}

// ResetTracking restores the tracking state saved by the last
// PauseTracking or EnableTracking.
func (rt *Runtime) ResetTracking() {
	n := len(rt.trackStack)
	if n == 0 {
		rt.shouldTrack = true
		return
	}
	rt.shouldTrack = rt.trackStack[n-1]
	rt.trackStack = rt.trackStack[:n-1]
}

// IsTracking reports whether a read right now would record a dependency.
func (rt *Runtime) IsTracking() bool {
	return rt.shouldTrack && rt.active != nil
}

// Untracked runs fn without recording dependencies.
//
// Example:
//
//	rt.Untracked(func() {
//	    // Reading here won't subscribe the running effect
//	    fmt.Println(state.Get("count"))
//	})
func (rt *Runtime) Untracked(fn func()) {
	rt.PauseTracking()
	defer rt.ResetTracking()
	fn()
}

// Dispose removes every dependency recorded for target and drops its
// cached wrappers. Effects subscribed to it stop being notified of its
// changes.
func (rt *Runtime) Dispose(target any) {
	target = ToRaw(target)
	if keys, ok := rt.targets[target]; ok {
		for _, d := range keys {
			for _, e := range d.effects {
				e.forget(d)
			}
		}
		delete(rt.targets, target)
	}
	for i := range rt.proxies {
		delete(rt.proxies[i], target)
	}
}

// depCount returns the number of effects subscribed to (target, key).
func (rt *Runtime) depCount(target any, key Key) int {
	keys, ok := rt.targets[target]
	if !ok {
		return 0
	}
	if d, ok := keys[canonicalKey(key)]; ok {
		return d.len()
	}
	return 0
}
