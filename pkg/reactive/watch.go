package reactive

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// FlushMode selects when a watch handler runs after its source changes.
type FlushMode uint8

const (
	// FlushSync runs the handler inside the triggering write.
	FlushSync FlushMode = iota
	// FlushPre queues the handler on the runtime's pre-flush queue.
	FlushPre
	// FlushPost queues the handler on the runtime's post-flush queue.
	// Writes before the next Flush coalesce into one handler call.
	FlushPost
)

// String returns the flush mode name.
func (m FlushMode) String() string {
	switch m {
	case FlushSync:
		return "sync"
	case FlushPre:
		return "pre"
	case FlushPost:
		return "post"
	default:
		return "unknown"
	}
}

// InvalidateFunc registers a cleanup to run before the handler's next call
// or when the watch is stopped. Only the last registration is kept.
type InvalidateFunc func(cleanup func())

// WatchHandler receives the new and previous source values.
type WatchHandler[T any] func(newValue, oldValue T, onInvalidate InvalidateFunc)

type watchOptions struct {
	immediate bool
	flush     FlushMode
	name      string
}

// WatchOption configures Watch and WatchTarget.
type WatchOption func(*watchOptions)

// Immediate calls the handler once at registration with the zero value as
// the old value.
func Immediate() WatchOption {
	return func(o *watchOptions) {
		o.immediate = true
	}
}

// WithFlush sets the flush mode. The default is FlushSync.
func WithFlush(mode FlushMode) WatchOption {
	return func(o *watchOptions) {
		o.flush = mode
	}
}

// WatchName labels the watch's effect in logs.
func WatchName(name string) WatchOption {
	return func(o *watchOptions) {
		o.name = name
	}
}

// WatchHandle controls a registered watch.
type WatchHandle struct {
	effect  *Effect
	cleanup func()
}

// Stop detaches the watch and runs any pending cleanup.
func (h *WatchHandle) Stop() {
	h.effect.Stop()
}

// Effect returns the effect that tracks the watch source.
func (h *WatchHandle) Effect() *Effect {
	return h.effect
}

// Watch calls handler whenever a value read by source changes.
//
// Example:
//
//	reactive.Watch(rt, func() int { return state.Get("count").(int) },
//	    func(n, o int, _ reactive.InvalidateFunc) {
//	        fmt.Printf("count: %d -> %d\n", o, n)
//	    })
func Watch[T any](rt *Runtime, source func() T, handler WatchHandler[T], opts ...WatchOption) *WatchHandle {
	var o watchOptions
	for _, opt := range opts {
		opt(&o)
	}

	h := &WatchHandle{}
	onInvalidate := func(fn func()) {
		h.cleanup = fn
	}

	var oldValue T
	call := func() {
		if !h.effect.Active() {
			return
		}
		newValue, _ := h.effect.Run().(T)
		if h.cleanup != nil {
			cleanup := h.cleanup
			h.cleanup = nil
			cleanup()
		}
		handler(newValue, oldValue, onInvalidate)
		oldValue = newValue
	}
	job := NewJob(call)

	var scheduler Scheduler
	switch o.flush {
	case FlushPre:
		scheduler = func(Job) { rt.queue.QueuePre(job) }
	case FlushPost:
		scheduler = func(Job) { rt.queue.QueuePost(job) }
	default:
		scheduler = func(Job) { call() }
	}

	effectOpts := []EffectOption{
		Lazy(),
		WithScheduler(scheduler),
		OnStop(func() {
			if h.cleanup != nil {
				cleanup := h.cleanup
				h.cleanup = nil
				cleanup()
			}
		}),
	}
	if o.name != "" {
		effectOpts = append(effectOpts, EffectName(o.name))
	}
	h.effect = rt.NewEffect(func() any { return source() }, effectOpts...)

	if o.immediate {
		call()
	} else {
		oldValue, _ = h.effect.Run().(T)
	}
	return h
}

// WatchTarget calls handler whenever anything reachable from target
// changes. target is traversed deeply on every run; the handler receives
// target itself as both values.
func WatchTarget(rt *Runtime, target any, handler WatchHandler[any], opts ...WatchOption) *WatchHandle {
	return Watch(rt, func() any {
		traverse(target, mapset.NewThreadUnsafeSet[any]())
		return target
	}, handler, opts...)
}

// traverse reads every value reachable from v so that the running effect
// depends on all of it.
func traverse(v any, seen mapset.Set[any]) {
	switch t := v.(type) {
	case *Object, *Array, *Map, *Set:
		if !seen.Add(t) {
			return
		}
	case refCell:
		if !seen.Add(t) {
			return
		}
		traverse(t.getAny(), seen)
		return
	default:
		return
	}

	switch t := v.(type) {
	case *Object:
		for _, k := range t.Keys() {
			traverse(t.Get(k), seen)
		}
	case *Array:
		for _, item := range t.Values() {
			traverse(item, seen)
		}
	case *Map:
		if t.raw.weak {
			return
		}
		for _, e := range t.Entries() {
			traverse(e.Key, seen)
			traverse(e.Value, seen)
		}
	case *Set:
		if t.raw.weak {
			return
		}
		for _, item := range t.Values() {
			traverse(item, seen)
		}
	}
}
