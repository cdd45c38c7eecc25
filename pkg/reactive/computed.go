package reactive

// Computed is a lazily evaluated, cached value derived from reactive reads.
//
// The getter does not run until the first Get. Later Gets return the cached
// value until one of the getter's dependencies changes; the change only
// marks the value dirty and notifies the computed's own subscribers.
type Computed[T any] struct {
	rt     *Runtime
	effect *Effect
	value  T
	dirty  bool
	setter func(T)
}

// ComputedOption configures a Computed.
type ComputedOption[T any] func(*Computed[T])

// WithSetter makes the computed writable: Set forwards to fn.
func WithSetter[T any](fn func(T)) ComputedOption[T] {
	return func(c *Computed[T]) {
		c.setter = fn
	}
}

// NewComputed creates a computed value over getter.
//
// Example:
//
//	double := reactive.NewComputed(rt, func() int {
//	    return state.Get("count").(int) * 2
//	})
func NewComputed[T any](rt *Runtime, getter func() T, opts ...ComputedOption[T]) *Computed[T] {
	c := &Computed[T]{rt: rt, dirty: true}
	for _, opt := range opts {
		opt(c)
	}
	c.effect = rt.NewEffect(func() any {
		c.value = getter()
		c.dirty = false
		return nil
	}, Lazy(), WithScheduler(func(Job) {
		if !c.dirty {
			c.dirty = true
			rt.Trigger(c, ValueKey, OpSet, nil)
		}
	}))
	return c
}

// Get returns the current value, recomputing it if a dependency changed.
// A Get from inside the computed's own getter returns the cached value and
// leaves the computed dirty.
func (c *Computed[T]) Get() T {
	c.rt.Track(c, ValueKey)
	if c.dirty {
		c.effect.Run()
	}
	return c.value
}

// Set forwards v to the setter given by WithSetter. Without a setter the
// write is rejected and Set returns false.
func (c *Computed[T]) Set(v T) bool {
	if c.setter == nil {
		c.rt.rejectWrite("set", ValueKey)
		return false
	}
	c.setter(v)
	return true
}

// Dirty reports whether the next Get will recompute.
func (c *Computed[T]) Dirty() bool {
	return c.dirty
}

// Effect returns the underlying lazy effect.
func (c *Computed[T]) Effect() *Effect {
	return c.effect
}

// Stop detaches the computed from its dependencies. Later Gets return the
// last cached value.
func (c *Computed[T]) Stop() {
	c.effect.Stop()
	c.dirty = false
}

func (c *Computed[T]) getAny() any { return c.Get() }

func (c *Computed[T]) setAny(v any) {
	if t, ok := v.(T); ok {
		c.Set(t)
	}
}
