// Package reactive provides transparent dependency tracking between mutable
// containers and the computations that read them.
//
// A Runtime owns the dependency graph. Containers are wrapped by the runtime
// so that reads record a dependency for the running effect and writes notify
// every effect that read the changed key.
//
// # Core Types
//
// Object, Array, Map and Set wrap raw Record, List, HashMap and HashSet
// targets:
//
//	rt := reactive.NewRuntime()
//	state := rt.Reactive(reactive.NewRecord("count", 0)).(*reactive.Object)
//
//	rt.Effect(func() {
//	    fmt.Println("count is", state.Get("count"))
//	})
//
//	state.Put("count", 1) // effect re-runs synchronously
//
// Computed is a lazily evaluated, cached derived value:
//
//	doubled := reactive.NewComputed(rt, func() int {
//	    return state.Get("count").(int) * 2
//	})
//	doubled.Get() // computes on first read, cached afterwards
//
// Watch runs a handler when a source changes:
//
//	reactive.Watch(rt, func() int { return state.Get("count").(int) },
//	    func(next, prev int, onInvalidate reactive.InvalidateFunc) {
//	        fmt.Println(prev, "->", next)
//	    })
//
// # Flavors
//
// Every raw target has at most one wrapper per flavor: Mutable, Shallow,
// Readonly and ShallowReadonly. Deep flavors wrap nested containers lazily
// on read. Readonly wrappers reject writes and do not track reads.
//
// # Scheduling
//
// Effects re-run synchronously inside the write that triggered them unless
// they carry a Scheduler. JobQueue is a deduplicating scheduler with pre,
// main and post phases drained by Flush.
//
// # Thread Safety
//
// A Runtime and everything it wraps must be used from a single goroutine.
// Use one Runtime per goroutine (or per session) for concurrent workloads.
package reactive
