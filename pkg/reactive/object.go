package reactive

// Object wraps a *Record. Reads through Get track the key for the running
// effect; writes through Put and Delete notify subscribers.
type Object struct {
	rt     *Runtime
	raw    *Record
	flavor Flavor
}

// Raw returns the wrapped record.
func (o *Object) Raw() any { return o.raw }

// Record returns the wrapped record.
func (o *Object) Record() *Record { return o.raw }

// Flavor returns the wrapper's flavor.
func (o *Object) Flavor() Flavor { return o.flavor }

// Runtime returns the owning runtime.
func (o *Object) Runtime() *Runtime { return o.rt }

// Get returns the value of key, following the prototype chain. Nested
// containers are wrapped according to the wrapper's flavor.
//
// The reserved keys FlagRaw, FlagIsReactive, FlagIsReadonly and
// FlagIsShallow return introspection values without tracking.
func (o *Object) Get(key string) any {
	return o.get(key, o)
}

func (o *Object) get(key string, receiver *Object) any {
	switch key {
	case FlagRaw:
		if receiver == o {
			return o.raw
		}
	case FlagIsReactive:
		return !o.flavor.IsReadonly()
	case FlagIsReadonly:
		return o.flavor.IsReadonly()
	case FlagIsShallow:
		return o.flavor.IsShallow()
	}

	if !o.flavor.IsReadonly() {
		o.rt.Track(o.raw, key)
	}

	value, ok := o.raw.Own(key)
	if !ok {
		switch p := o.raw.proto.(type) {
		case *Object:
			return p.get(key, receiver)
		case *Record:
			value, _ = p.Lookup(key)
		}
	}

	if cell, ok := value.(refCell); ok && !o.flavor.IsShallow() {
		return cell.getAny()
	}
	return o.rt.wrapChild(value, o.flavor)
}

// Lookup is Get with a presence flag.
func (o *Object) Lookup(key string) (any, bool) {
	ok := o.Has(key)
	return o.Get(key), ok
}

// Object returns the nested *Object stored under key, or nil.
func (o *Object) Object(key string) *Object {
	v, _ := o.Get(key).(*Object)
	return v
}

// Array returns the nested *Array stored under key, or nil.
func (o *Object) Array(key string) *Array {
	v, _ := o.Get(key).(*Array)
	return v
}

// Map returns the nested *Map stored under key, or nil.
func (o *Object) Map(key string) *Map {
	v, _ := o.Get(key).(*Map)
	return v
}

// Set returns the nested *Set stored under key, or nil.
func (o *Object) Set(key string) *Set {
	v, _ := o.Get(key).(*Set)
	return v
}

// Put stores value under key and notifies subscribers if the value changed.
// It returns false if the write was rejected (readonly wrapper or frozen
// record).
func (o *Object) Put(key string, value any) bool {
	return o.set(key, value, o)
}

func (o *Object) set(key string, value any, receiver *Object) bool {
	if o.flavor.IsReadonly() {
		o.rt.rejectWrite("set", key)
		return false
	}

	old, _ := o.raw.Lookup(key)
	value = storeValue(value, o.flavor)
	if !o.flavor.IsShallow() {
		old = ToRaw(old)
		if cell, isRef := old.(refCell); isRef && !IsRef(value) && receiver == o {
			cell.setAny(value)
			return true
		}
	}

	kind := OpAdd
	if o.raw.HasOwn(key) {
		kind = OpSet
	}

	var ok bool
	switch {
	case o.raw.HasOwn(key) && receiver == o:
		ok = o.raw.Put(key, value)
	case o.raw.HasOwn(key):
		ok = !o.raw.frozen && receiver.raw.Put(key, value)
	default:
		if p, isObj := o.raw.proto.(*Object); isObj {
			ok = p.set(key, value, receiver)
		} else {
			ok = receiver.raw.Put(key, value)
		}
	}

	if ok && receiver == o && (kind == OpAdd || hasChanged(old, value)) {
		o.rt.Trigger(o.raw, key, kind, value)
	}
	return ok
}

// Has reports whether key is present on the record or its prototypes.
func (o *Object) Has(key string) bool {
	if !o.flavor.IsReadonly() {
		o.rt.Track(o.raw, key)
	}
	if o.raw.HasOwn(key) {
		return true
	}
	switch p := o.raw.proto.(type) {
	case *Object:
		return p.Has(key)
	case *Record:
		_, ok := p.Lookup(key)
		return ok
	}
	return false
}

// Delete removes key and notifies subscribers if it existed.
func (o *Object) Delete(key string) bool {
	if o.flavor.IsReadonly() {
		o.rt.rejectWrite("delete", key)
		return false
	}
	had := o.raw.HasOwn(key)
	ok := o.raw.Remove(key)
	if had && ok {
		o.rt.Trigger(o.raw, key, OpDelete, nil)
	}
	return ok
}

// Keys returns the record's own keys, tracking enumeration.
func (o *Object) Keys() []string {
	if !o.flavor.IsReadonly() {
		o.rt.Track(o.raw, IterateKey)
	}
	return o.raw.Keys()
}

// Len returns the number of own keys, tracking enumeration.
func (o *Object) Len() int {
	if !o.flavor.IsReadonly() {
		o.rt.Track(o.raw, IterateKey)
	}
	return o.raw.Len()
}
