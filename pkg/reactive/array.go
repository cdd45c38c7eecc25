package reactive

// Array wraps a *List. Index reads track the index, Len and iteration track
// LengthKey, and writes notify index and length subscribers.
type Array struct {
	rt     *Runtime
	raw    *List
	flavor Flavor
}

// Raw returns the wrapped list.
func (a *Array) Raw() any { return a.raw }

// List returns the wrapped list.
func (a *Array) List() *List { return a.raw }

// Flavor returns the wrapper's flavor.
func (a *Array) Flavor() Flavor { return a.flavor }

// Runtime returns the owning runtime.
func (a *Array) Runtime() *Runtime { return a.rt }

func (a *Array) track(key Key) {
	if !a.flavor.IsReadonly() {
		a.rt.Track(a.raw, key)
	}
}

// Get returns the item at index i, or nil when i is out of range.
func (a *Array) Get(i int) any {
	a.track(i)
	v, _ := a.raw.At(i)
	return a.rt.wrapChild(v, a.flavor)
}

// Object returns the *Object at index i, or nil.
func (a *Array) Object(i int) *Object {
	v, _ := a.Get(i).(*Object)
	return v
}

// Len returns the number of items.
func (a *Array) Len() int {
	a.track(LengthKey)
	return a.raw.Len()
}

// Keys returns the valid indices.
func (a *Array) Keys() []int {
	a.track(LengthKey)
	out := make([]int, a.raw.Len())
	for i := range out {
		out[i] = i
	}
	return out
}

// Values returns every item, tracking the length and each index.
func (a *Array) Values() []any {
	n := a.Len()
	out := make([]any, n)
	for i := range out {
		out[i] = a.Get(i)
	}
	return out
}

// Set stores v at index i. Writing at or past the end grows the list and is
// reported as an addition.
func (a *Array) Set(i int, v any) bool {
	if a.flavor.IsReadonly() {
		a.rt.rejectWrite("set", i)
		return false
	}
	return a.set(i, v)
}

// SetLen truncates or pads the list. Shrinking notifies subscribers of every
// removed index as well as the length.
func (a *Array) SetLen(n int) bool {
	if a.flavor.IsReadonly() {
		a.rt.rejectWrite("set", LengthKey)
		return false
	}
	return a.setLen(n)
}

// Push appends items and returns the new length.
func (a *Array) Push(items ...any) int {
	if a.flavor.IsReadonly() {
		a.rt.rejectWrite("push", LengthKey)
		return a.raw.Len()
	}
	a.rt.PauseTracking()
	defer a.rt.ResetTracking()

	n := a.raw.Len()
	for i, item := range items {
		a.set(n+i, item)
	}
	a.setLen(n + len(items))
	return a.raw.Len()
}

// Pop removes and returns the last item, or nil if the list is empty.
func (a *Array) Pop() any {
	if a.flavor.IsReadonly() {
		a.rt.rejectWrite("pop", LengthKey)
		return nil
	}
	a.rt.PauseTracking()
	defer a.rt.ResetTracking()

	n := a.raw.Len()
	if n == 0 {
		return nil
	}
	v, _ := a.raw.At(n - 1)
	a.remove(n - 1)
	a.setLen(n - 1)
	return a.rt.wrapChild(v, a.flavor)
}

// Shift removes and returns the first item, or nil if the list is empty.
func (a *Array) Shift() any {
	if a.flavor.IsReadonly() {
		a.rt.rejectWrite("shift", LengthKey)
		return nil
	}
	a.rt.PauseTracking()
	defer a.rt.ResetTracking()

	n := a.raw.Len()
	if n == 0 {
		return nil
	}
	first, _ := a.raw.At(0)
	for k := 1; k < n; k++ {
		v, _ := a.raw.At(k)
		a.set(k-1, v)
	}
	a.remove(n - 1)
	a.setLen(n - 1)
	return a.rt.wrapChild(first, a.flavor)
}

// Unshift prepends items and returns the new length.
func (a *Array) Unshift(items ...any) int {
	if a.flavor.IsReadonly() {
		a.rt.rejectWrite("unshift", LengthKey)
		return a.raw.Len()
	}
	a.rt.PauseTracking()
	defer a.rt.ResetTracking()

	n, count := a.raw.Len(), len(items)
	for k := n; k > 0; k-- {
		v, _ := a.raw.At(k - 1)
		a.set(k+count-1, v)
	}
	for j, item := range items {
		a.set(j, item)
	}
	a.setLen(n + count)
	return a.raw.Len()
}

// Splice removes deleteCount items at start, inserts items in their place
// and returns the removed items. A negative start counts from the end.
func (a *Array) Splice(start, deleteCount int, items ...any) []any {
	if a.flavor.IsReadonly() {
		a.rt.rejectWrite("splice", start)
		return nil
	}
	a.rt.PauseTracking()
	defer a.rt.ResetTracking()

	n := a.raw.Len()
	switch {
	case start < 0:
		start = max(n+start, 0)
	case start > n:
		start = n
	}
	deleteCount = min(max(deleteCount, 0), n-start)

	removed := make([]any, deleteCount)
	for k := range removed {
		v, _ := a.raw.At(start + k)
		removed[k] = a.rt.wrapChild(v, a.flavor)
	}

	count := len(items)
	switch {
	case count < deleteCount:
		for k := start; k < n-deleteCount; k++ {
			v, _ := a.raw.At(k + deleteCount)
			a.set(k+count, v)
		}
		for k := n; k > n-deleteCount+count; k-- {
			a.remove(k - 1)
		}
	case count > deleteCount:
		for k := n - deleteCount; k > start; k-- {
			v, _ := a.raw.At(k + deleteCount - 1)
			a.set(k+count-1, v)
		}
	}
	for i, item := range items {
		a.set(start+i, item)
	}
	a.setLen(n - deleteCount + count)
	return removed
}

// Includes reports whether the list holds v. Both v and its raw target are
// searched for.
func (a *Array) Includes(v any) bool {
	return a.search(v, 1, sameValueZero) >= 0
}

// IndexOf returns the first index holding v, or -1.
func (a *Array) IndexOf(v any) int {
	return a.search(v, 1, strictEqual)
}

// LastIndexOf returns the last index holding v, or -1.
func (a *Array) LastIndexOf(v any) int {
	return a.search(v, -1, strictEqual)
}

// search tracks every index, then looks for v as given and, failing that,
// for its raw target.
func (a *Array) search(v any, dir int, eq func(a, b any) bool) int {
	n := a.Len()
	for i := 0; i < n; i++ {
		a.track(i)
	}
	if i := a.raw.find(v, dir, eq); i >= 0 {
		return i
	}
	if raw := ToRaw(v); raw != v {
		return a.raw.find(raw, dir, eq)
	}
	return -1
}

func (l *List) find(v any, dir int, eq func(a, b any) bool) int {
	n := len(l.items)
	for k := 0; k < n; k++ {
		i := k
		if dir < 0 {
			i = n - 1 - k
		}
		if eq(l.items[i], v) {
			return i
		}
	}
	return -1
}

func (a *Array) set(i int, v any) bool {
	v = storeValue(v, a.flavor)
	old, had := a.raw.At(i)
	if !a.raw.Put(i, v) {
		return false
	}
	switch {
	case !had:
		a.rt.Trigger(a.raw, i, OpAdd, v)
	case hasChanged(old, v):
		a.rt.Trigger(a.raw, i, OpSet, v)
	}
	return true
}

func (a *Array) remove(i int) bool {
	_, had := a.raw.At(i)
	if !a.raw.Clear(i) {
		return false
	}
	if had {
		a.rt.Trigger(a.raw, i, OpDelete, nil)
	}
	return true
}

func (a *Array) setLen(n int) bool {
	old := a.raw.Len()
	if !a.raw.Resize(n) {
		return false
	}
	if old != n {
		a.rt.Trigger(a.raw, LengthKey, OpSet, n)
	}
	return true
}
