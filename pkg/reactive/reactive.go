package reactive

import "github.com/vango-dev/ripple/internal/errors"

// Flavor selects how a wrapper treats reads and writes.
type Flavor uint8

const (
	// Mutable wrappers track reads, trigger on writes, and wrap nested
	// containers on read.
	Mutable Flavor = iota
	// Shallow wrappers track and trigger but return nested containers raw.
	Shallow
	// Readonly wrappers reject writes, do not track, and wrap nested
	// containers as readonly.
	Readonly
	// ShallowReadonly wrappers reject writes, do not track, and return
	// nested containers raw.
	ShallowReadonly

	flavorCount
)

// String returns a human-readable name for the flavor.
func (f Flavor) String() string {
	switch f {
	case Mutable:
		return "mutable"
	case Shallow:
		return "shallow"
	case Readonly:
		return "readonly"
	case ShallowReadonly:
		return "shallow-readonly"
	default:
		return "unknown"
	}
}

// IsReadonly reports whether writes are rejected.
func (f Flavor) IsReadonly() bool {
	return f == Readonly || f == ShallowReadonly
}

// IsShallow reports whether nested containers are returned unwrapped.
func (f Flavor) IsShallow() bool {
	return f == Shallow || f == ShallowReadonly
}

// Proxy is implemented by every wrapper: *Object, *Array, *Map and *Set.
type Proxy interface {
	// Raw returns the wrapped target.
	Raw() any
	// Flavor returns the wrapper's flavor.
	Flavor() Flavor
	// Runtime returns the runtime that owns the wrapper.
	Runtime() *Runtime
}

// Reactive returns the deep mutable wrapper for target.
//
// Targets that are not containers, were passed to MarkRaw, or are frozen or
// non-extensible are returned unchanged. Wrapping a wrapper returns it.
func (rt *Runtime) Reactive(target any) any {
	return rt.Wrap(target, Mutable)
}

// ShallowReactive returns the shallow mutable wrapper for target.
func (rt *Runtime) ShallowReactive(target any) any {
	return rt.Wrap(target, Shallow)
}

// Readonly returns the deep readonly wrapper for target.
func (rt *Runtime) Readonly(target any) any {
	return rt.Wrap(target, Readonly)
}

// ShallowReadonly returns the shallow readonly wrapper for target.
func (rt *Runtime) ShallowReadonly(target any) any {
	return rt.Wrap(target, ShallowReadonly)
}

// Wrap returns the wrapper of the given flavor for target, creating and
// caching it on first use.
//
// A readonly wrapper requested for a mutable wrapper is built over the
// mutable wrapper's raw target. Any other wrapper is returned as-is.
func (rt *Runtime) Wrap(target any, flavor Flavor) any {
	if p, ok := target.(Proxy); ok {
		if flavor.IsReadonly() && !p.Flavor().IsReadonly() {
			target = p.Raw()
		} else {
			return p
		}
	}

	kind := classify(target)
	if kind == kindInvalid {
		return target
	}

	cache := rt.proxies[flavor]
	if existing, ok := cache[target]; ok {
		return existing
	}

	var p Proxy
	switch t := target.(type) {
	case *Record:
		p = &Object{rt: rt, raw: t, flavor: flavor}
	case *List:
		p = &Array{rt: rt, raw: t, flavor: flavor}
	case *HashMap:
		p = &Map{rt: rt, raw: t, flavor: flavor}
	case *HashSet:
		p = &Set{rt: rt, raw: t, flavor: flavor}
	default:
		return target
	}
	cache[target] = p
	return p
}

// ToRaw returns the raw target behind a wrapper, unwrapping repeatedly.
// Other values are returned unchanged.
func ToRaw(v any) any {
	for {
		p, ok := v.(Proxy)
		if !ok {
			return v
		}
		v = p.Raw()
	}
}

// IsProxy reports whether v is a wrapper of any flavor.
func IsProxy(v any) bool {
	_, ok := v.(Proxy)
	return ok
}

// IsReactive reports whether v is a mutable (deep or shallow) wrapper.
func IsReactive(v any) bool {
	p, ok := v.(Proxy)
	return ok && !p.Flavor().IsReadonly()
}

// IsReadonly reports whether v is a readonly (deep or shallow) wrapper.
func IsReadonly(v any) bool {
	p, ok := v.(Proxy)
	return ok && p.Flavor().IsReadonly()
}

// IsShallow reports whether v is a shallow (mutable or readonly) wrapper.
func IsShallow(v any) bool {
	p, ok := v.(Proxy)
	return ok && p.Flavor().IsShallow()
}

// wrapChild applies the parent's flavor to a value read from a container.
// Stored wrappers keep their own flavor.
func (rt *Runtime) wrapChild(v any, flavor Flavor) any {
	if _, ok := v.(Proxy); ok {
		return v
	}
	if flavor.IsShallow() || !isTarget(v) {
		return v
	}
	if flavor.IsReadonly() {
		return rt.Readonly(v)
	}
	return rt.Reactive(v)
}

// storeValue converts a value written through a wrapper to what is stored
// in the raw container. Deep flavors unwrap mutable wrappers and keep
// readonly ones, so a readonly view stays readonly when read back.
func storeValue(v any, flavor Flavor) any {
	if flavor.IsShallow() || IsReadonly(v) {
		return v
	}
	return ToRaw(v)
}

// ErrReadonlyWrite carries the code logged for a rejected readonly write.
var ErrReadonlyWrite = errors.New("R001")

// rejectWrite logs a rejected readonly write in debug mode.
func (rt *Runtime) rejectWrite(op string, key any) {
	if rt.debug {
		rt.logger.Warn("write to readonly target rejected",
			"code", ErrReadonlyWrite.Code,
			"op", op,
			"key", key)
	}
}
