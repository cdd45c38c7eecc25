package reactive

// reactiveRecord wraps a new record holding kv.
func reactiveRecord(rt *Runtime, kv ...any) *Object {
	return rt.Reactive(NewRecord(kv...)).(*Object)
}

// reactiveList wraps a new list holding items.
func reactiveList(rt *Runtime, items ...any) *Array {
	return rt.Reactive(NewList(items...)).(*Array)
}

// incr adds one to the int stored under key.
func incr(o *Object, key string) {
	o.Put(key, o.Get(key).(int)+1)
}

// countingObserver records observer callbacks.
type countingObserver struct {
	runs       int
	triggers   int
	notified   int
	suppressed int
}

func (o *countingObserver) EffectRun(*Effect) { o.runs++ }

func (o *countingObserver) Triggered(_ ChangeKind, effects int) {
	o.triggers++
	o.notified += effects
}

func (o *countingObserver) ReentrySuppressed(*Effect) { o.suppressed++ }
