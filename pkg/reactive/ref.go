package reactive

// refCell is implemented by *Ref, *ObjectRef and *Computed. Records unwrap
// cells on read and write through them on assignment.
type refCell interface {
	getAny() any
	setAny(v any)
}

// Ref is a single reactive value cell.
type Ref[T any] struct {
	rt      *Runtime
	value   T
	shallow bool
}

// NewRef creates a cell holding v. Container values are stored raw and
// returned wrapped when T can hold the wrapper (for example T = any).
func NewRef[T any](rt *Runtime, v T) *Ref[T] {
	r := &Ref[T]{rt: rt}
	r.value = r.store(v)
	return r
}

// NewShallowRef creates a cell that stores and returns v as given.
func NewShallowRef[T any](rt *Runtime, v T) *Ref[T] {
	return &Ref[T]{rt: rt, value: v, shallow: true}
}

// Get returns the value and tracks the cell.
func (r *Ref[T]) Get() T {
	r.rt.Track(r, ValueKey)
	return r.load()
}

// Peek returns the value without tracking.
func (r *Ref[T]) Peek() T {
	return r.load()
}

// Set stores v and notifies subscribers if it changed.
func (r *Ref[T]) Set(v T) {
	v = r.store(v)
	if !hasChanged(any(r.value), any(v)) {
		return
	}
	r.value = v
	r.rt.Trigger(r, ValueKey, OpSet, v)
}

// Update sets the value to fn applied to the current value.
func (r *Ref[T]) Update(fn func(T) T) {
	r.Set(fn(r.Peek()))
}

// Trigger notifies subscribers without changing the value. Useful for
// shallow refs whose contents were mutated in place.
func (r *Ref[T]) Trigger() {
	r.rt.Trigger(r, ValueKey, OpSet, r.value)
}

func (r *Ref[T]) store(v T) T {
	if r.shallow {
		return v
	}
	if raw, ok := storeValue(any(v), Mutable).(T); ok {
		return raw
	}
	return v
}

func (r *Ref[T]) load() T {
	if r.shallow {
		return r.value
	}
	if w, ok := r.rt.wrapChild(any(r.value), Mutable).(T); ok {
		return w
	}
	return r.value
}

func (r *Ref[T]) getAny() any { return r.Get() }

func (r *Ref[T]) setAny(v any) {
	if v == nil {
		var zero T
		r.Set(zero)
		return
	}
	if t, ok := v.(T); ok {
		r.Set(t)
	}
}

// ObjectRef is a cell bound to one key of an *Object. Reads and writes go
// through the object, so they track and trigger the object's key.
type ObjectRef struct {
	obj *Object
	key string
}

// ToRef returns a cell bound to key of obj.
func ToRef(obj *Object, key string) *ObjectRef {
	return &ObjectRef{obj: obj, key: key}
}

// Get reads the bound key.
func (r *ObjectRef) Get() any { return r.obj.Get(r.key) }

// Set writes the bound key.
func (r *ObjectRef) Set(v any) bool { return r.obj.Put(r.key, v) }

func (r *ObjectRef) getAny() any  { return r.Get() }
func (r *ObjectRef) setAny(v any) { r.Set(v) }

// IsRef reports whether v is a value cell (*Ref, *ObjectRef or *Computed).
func IsRef(v any) bool {
	_, ok := v.(refCell)
	return ok
}

// Unref returns the value of a cell, or v itself if it is not a cell.
func Unref(v any) any {
	if cell, ok := v.(refCell); ok {
		return cell.getAny()
	}
	return v
}
