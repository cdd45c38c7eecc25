package reactive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type watchCall struct {
	New, Old int
}

func TestWatch(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1, "b", 1)

	var calls []watchCall
	Watch(rt, func() int { return obj.Get("a").(int) }, func(n, o int, _ InvalidateFunc) {
		calls = append(calls, watchCall{n, o})
	})

	if len(calls) != 0 {
		t.Fatalf("handler should not run at registration, got %v", calls)
	}

	incr(obj, "a")
	incr(obj, "b")
	if diff := cmp.Diff([]watchCall{{2, 1}}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchImmediate(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1)

	var calls []watchCall
	Watch(rt, func() int { return obj.Get("a").(int) }, func(n, o int, _ InvalidateFunc) {
		calls = append(calls, watchCall{n, o})
	}, Immediate())

	incr(obj, "a")
	want := []watchCall{{1, 0}, {2, 1}}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchFlushPostCoalesces(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1)

	var calls []watchCall
	Watch(rt, func() int { return obj.Get("a").(int) }, func(n, o int, _ InvalidateFunc) {
		calls = append(calls, watchCall{n, o})
	}, WithFlush(FlushPost))

	incr(obj, "a")
	incr(obj, "a")
	if len(calls) != 0 {
		t.Fatalf("post handler should wait for flush, got %v", calls)
	}

	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if diff := cmp.Diff([]watchCall{{3, 1}}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}

	incr(obj, "a")
	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if diff := cmp.Diff([]watchCall{{3, 1}, {4, 3}}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchFlushPreRunsBeforePost(t *testing.T) {
	rt := NewRuntime()
	ref := NewRef(rt, 0)

	var order []string
	Watch(rt, ref.Get, func(int, int, InvalidateFunc) {
		order = append(order, "post")
	}, WithFlush(FlushPost))
	Watch(rt, ref.Get, func(int, int, InvalidateFunc) {
		order = append(order, "pre")
	}, WithFlush(FlushPre))

	ref.Set(1)
	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if diff := cmp.Diff([]string{"pre", "post"}, order); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestWatchOnInvalidate(t *testing.T) {
	rt := NewRuntime()
	ref := NewRef(rt, 0)

	var log []string
	h := Watch(rt, ref.Get, func(n, _ int, onInvalidate InvalidateFunc) {
		log = append(log, "run")
		onInvalidate(func() { log = append(log, "first cleanup") })
		onInvalidate(func() { log = append(log, "cleanup") })
	})

	ref.Set(1)
	ref.Set(2)
	h.Stop()
	h.Stop()

	want := []string{"run", "cleanup", "run", "cleanup"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("log mismatch (-want +got):\n%s", diff)
	}

	ref.Set(3)
	if len(log) != len(want) {
		t.Errorf("stopped watch should not run, got %v", log)
	}
}

func TestWatchStopCancelsQueuedHandler(t *testing.T) {
	rt := NewRuntime()
	ref := NewRef(rt, 0)

	calls := 0
	h := Watch(rt, ref.Get, func(int, int, InvalidateFunc) {
		calls++
	}, WithFlush(FlushPost))

	ref.Set(1)
	h.Stop()
	if err := rt.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if calls != 0 {
		t.Errorf("stopped watch should not run queued handler, got %d calls", calls)
	}
}

func TestWatchTargetDeep(t *testing.T) {
	rt := NewRuntime()
	state := reactiveRecord(rt,
		"user", NewRecord("name", "ada"),
		"tags", NewList("a"),
	)
	list := state.Array("tags")
	lookup := rt.Reactive(NewHashMap()).(*Map)
	state.Put("lookup", lookup)

	calls := 0
	WatchTarget(rt, state, func(n, o any, _ InvalidateFunc) {
		calls++
		if n != any(state) || o != any(state) {
			t.Errorf("expected target as both values")
		}
	})

	state.Object("user").Put("name", "grace")
	list.Push("b")
	state.Map("lookup").Set("k", 1)

	if calls != 3 {
		t.Errorf("expected 3 deep changes to be observed, got %d", calls)
	}
}

func TestWatchTargetHandlesCycles(t *testing.T) {
	rt := NewRuntime()
	a := NewRecord("n", 1)
	b := NewRecord("a", a)
	a.Put("b", b)
	obj := rt.Reactive(a).(*Object)

	calls := 0
	WatchTarget(rt, obj, func(any, any, InvalidateFunc) { calls++ })

	obj.Object("b").Put("x", 1)
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}
