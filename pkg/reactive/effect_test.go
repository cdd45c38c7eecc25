package reactive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEffectTracksOnlyReadKeys(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1, "b", 1)

	runs := 0
	rt.Effect(func() {
		runs++
		_ = obj.Get("a")
	})

	incr(obj, "b")
	if runs != 1 {
		t.Errorf("write to unread key should not re-run, got %d runs", runs)
	}

	incr(obj, "a")
	if runs != 2 {
		t.Errorf("expected 2 runs after writing a, got %d", runs)
	}
}

func TestEffectCleanupDropsStaleDeps(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1, "ok", true)

	runs := 0
	value := 0
	rt.Effect(func() {
		runs++
		if obj.Get("ok").(bool) {
			value = obj.Get("a").(int)
		} else {
			value = 999999
		}
	})

	if runs != 1 || value != 1 {
		t.Fatalf("expected runs=1 value=1, got runs=%d value=%d", runs, value)
	}

	obj.Put("a", 2)
	if runs != 2 || value != 2 {
		t.Errorf("expected runs=2 value=2, got runs=%d value=%d", runs, value)
	}

	// Same value does not trigger
	obj.Put("a", 2)
	if runs != 2 {
		t.Errorf("unchanged write should not re-run, got %d runs", runs)
	}

	obj.Put("ok", false)
	if runs != 3 || value != 999999 {
		t.Errorf("expected runs=3 value=999999, got runs=%d value=%d", runs, value)
	}

	obj.Put("a", 100)
	if runs != 3 {
		t.Errorf("stale dependency on a should be gone, got %d runs", runs)
	}
}

func TestEffectReadWriteSameKeyRunsOnce(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1)

	runs := 0
	rt.Effect(func() {
		runs++
		incr(obj, "a")
	})

	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}
	if got := obj.Get("a"); got != 2 {
		t.Errorf("expected a=2, got %v", got)
	}

	obj.Put("a", 10)
	if runs != 2 {
		t.Errorf("expected exactly one re-run per external write, got %d", runs)
	}
	if got := obj.Get("a"); got != 11 {
		t.Errorf("expected a=11, got %v", got)
	}
}

func TestEffectNested(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1, "b", 2)

	outer, inner := 0, 0
	rt.Effect(func() {
		outer++
		rt.Effect(func() {
			inner++
			incr(obj, "b")
		})
		incr(obj, "a")
	})

	steps := []struct {
		name string
		act  func()
		want []int
	}{
		{"initial", func() {}, []int{1, 1}},
		{"a++", func() { incr(obj, "a") }, []int{2, 3}},
		{"b++", func() { incr(obj, "b") }, []int{2, 7}},
	}
	for _, step := range steps {
		step.act()
		if diff := cmp.Diff(step.want, []int{outer, inner}); diff != "" {
			t.Errorf("%s: run counts mismatch (-want +got):\n%s", step.name, diff)
		}
	}
}

func TestEffectInnerReadsAttributeToInner(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1, "b", 1)

	outer, inner := 0, 0
	rt.Effect(func() {
		outer++
		_ = obj.Get("a")
		rt.Effect(func() {
			inner++
			_ = obj.Get("b")
		})
	})

	incr(obj, "b")
	if outer != 1 {
		t.Errorf("outer should not depend on b, got %d runs", outer)
	}
	if inner != 2 {
		t.Errorf("expected inner to re-run, got %d runs", inner)
	}
}

func TestEffectScheduler(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1)

	var pending []Job
	runs := 0
	rt.Effect(func() {
		_ = obj.Get("a")
		runs++
	}, WithScheduler(func(j Job) {
		pending = append(pending, j)
	}))

	incr(obj, "a")
	incr(obj, "a")
	if runs != 1 {
		t.Fatalf("scheduled effect should not run synchronously, got %d runs", runs)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 scheduled jobs, got %d", len(pending))
	}

	for _, j := range pending {
		j.Run()
	}
	if runs != 3 {
		t.Errorf("expected 3 runs, got %d", runs)
	}
}

func TestEffectLazy(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1)

	runs := 0
	e := rt.Effect(func() {
		runs++
		_ = obj.Get("a")
	}, Lazy())

	if runs != 0 {
		t.Fatalf("lazy effect ran at creation")
	}
	e.Run()
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}
	incr(obj, "a")
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestEffectRunReturnsResult(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 21)

	e := rt.NewEffect(func() any {
		return obj.Get("a").(int) * 2
	}, Lazy())

	if got := e.Run(); got != 42 {
		t.Errorf("expected 42, got %v", got)
	}
}

func TestEffectStop(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1)

	runs, stops := 0, 0
	e := rt.Effect(func() {
		runs++
		_ = obj.Get("a")
	}, OnStop(func() { stops++ }))

	e.Stop()
	e.Stop()
	if stops != 1 {
		t.Errorf("OnStop should fire once, got %d", stops)
	}
	if e.Active() {
		t.Error("expected stopped effect to be inactive")
	}

	incr(obj, "a")
	if runs != 1 {
		t.Errorf("stopped effect should not re-run, got %d runs", runs)
	}

	// Still callable, but reads are not tracked
	e.Run()
	if runs != 2 {
		t.Errorf("expected direct call to run, got %d runs", runs)
	}
	if n := rt.depCount(obj.Raw(), "a"); n != 0 {
		t.Errorf("stopped effect should not subscribe, got %d subscribers", n)
	}
}

func TestEffectStoppedInsideActiveEffectDoesNotTrack(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1)

	stopped := rt.Effect(func() { _ = obj.Get("a") }, Lazy())
	stopped.Stop()

	rt.Effect(func() {
		stopped.Run()
	})

	if n := rt.depCount(obj.Raw(), "a"); n != 0 {
		t.Errorf("reads inside a stopped effect should not track, got %d subscribers", n)
	}
}

func TestEffectPanicRestoresState(t *testing.T) {
	rt := NewRuntime()
	obj := reactiveRecord(rt, "a", 1)

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		rt.Effect(func() {
			_ = obj.Get("a")
			panic("boom")
		})
	}()

	if rt.ActiveEffect() != nil {
		t.Error("active effect should be restored after panic")
	}
	if len(rt.stack) != 0 {
		t.Errorf("effect stack should be empty, got %d", len(rt.stack))
	}

	// A fresh effect still tracks normally
	runs := 0
	rt.Effect(func() {
		runs++
		_ = obj.Get("a")
	})
	obj.Put("b", 1)
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}
}

func TestEffectReentrySuppressedIsObserved(t *testing.T) {
	obs := &countingObserver{}
	rt := NewRuntime(WithObserver(obs), WithDebug(true))
	obj := reactiveRecord(rt, "x", 0, "y", 0)

	rt.Effect(func() {
		obj.Put("y", obj.Get("x").(int)+1)
	}, EffectName("x-to-y"))
	rt.Effect(func() {
		obj.Put("x", obj.Get("y").(int)+1)
	}, EffectName("y-to-x"))

	if obs.suppressed != 1 {
		t.Errorf("expected 1 suppressed reentry, got %d", obs.suppressed)
	}
	if obs.runs != 3 {
		t.Errorf("expected 3 effect runs, got %d", obs.runs)
	}
}

func TestEffectName(t *testing.T) {
	rt := NewRuntime()

	named := rt.Effect(func() {}, EffectName("render"))
	if named.Name() != "render" {
		t.Errorf("expected name render, got %q", named.Name())
	}

	anon := rt.Effect(func() {})
	if anon.Name() == "" || anon.Name() == named.Name() {
		t.Errorf("expected generated name, got %q", anon.Name())
	}
	if anon.ID() == named.ID() {
		t.Error("expected distinct effect IDs")
	}
}
