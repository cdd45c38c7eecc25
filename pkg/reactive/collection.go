package reactive

import "github.com/vango-dev/ripple/internal/errors"

// Entry is a key/value pair returned by Map.Entries.
type Entry struct {
	Key   any
	Value any
}

// =============================================================================
// Map
// =============================================================================

// Map wraps a *HashMap. Keys and values are stored raw; reads return
// wrapped values according to the wrapper's flavor.
type Map struct {
	rt     *Runtime
	raw    *HashMap
	flavor Flavor
}

// Raw returns the wrapped map.
func (m *Map) Raw() any { return m.raw }

// HashMap returns the wrapped map.
func (m *Map) HashMap() *HashMap { return m.raw }

// Flavor returns the wrapper's flavor.
func (m *Map) Flavor() Flavor { return m.flavor }

// Runtime returns the owning runtime.
func (m *Map) Runtime() *Runtime { return m.rt }

func (m *Map) track(key Key) {
	if !m.flavor.IsReadonly() {
		m.rt.Track(m.raw, key)
	}
}

func (m *Map) trackIteration(key Key, op string) {
	if m.raw.weak {
		panic(errors.New("R003").WithDetailf("%s on weak map", op))
	}
	m.track(key)
}

// Get returns the value stored under key. A wrapper key matches entries
// stored under either the wrapper or its raw target.
func (m *Map) Get(key any) any {
	v, _ := m.Lookup(key)
	return v
}

// Lookup is Get with a presence flag.
func (m *Map) Lookup(key any) (any, bool) {
	rawKey := ToRaw(key)
	if rawKey != key {
		m.track(key)
	}
	m.track(rawKey)
	if v, ok := m.raw.Get(key); ok {
		return m.rt.wrapChild(v, m.flavor), true
	}
	if v, ok := m.raw.Get(rawKey); ok {
		return m.rt.wrapChild(v, m.flavor), true
	}
	return nil, false
}

// Has reports whether key is present.
func (m *Map) Has(key any) bool {
	rawKey := ToRaw(key)
	if rawKey != key {
		m.track(key)
	}
	m.track(rawKey)
	return m.raw.Has(key) || m.raw.Has(rawKey)
}

// Size returns the number of entries.
func (m *Map) Size() int {
	m.trackIteration(IterateKey, "size")
	return m.raw.Len()
}

// Set stores value under key. It returns false if the wrapper is readonly.
func (m *Map) Set(key, value any) bool {
	if m.flavor.IsReadonly() {
		m.rt.rejectWrite("set", key)
		return false
	}
	value = storeValue(value, m.flavor)
	had := m.raw.Has(key)
	if !had {
		key = ToRaw(key)
		had = m.raw.Has(key)
	}
	old, _ := m.raw.Get(key)
	m.raw.Put(key, value)
	switch {
	case !had:
		m.rt.Trigger(m.raw, key, OpAdd, value)
	case hasChanged(old, value):
		m.rt.Trigger(m.raw, key, OpSet, value)
	}
	return true
}

// Delete removes key and reports whether it was present.
func (m *Map) Delete(key any) bool {
	if m.flavor.IsReadonly() {
		m.rt.rejectWrite("delete", key)
		return false
	}
	had := m.raw.Has(key)
	if !had {
		key = ToRaw(key)
		had = m.raw.Has(key)
	}
	m.raw.Remove(key)
	if had {
		m.rt.Trigger(m.raw, key, OpDelete, nil)
	}
	return had
}

// Clear removes every entry, notifying every subscriber of the map.
func (m *Map) Clear() {
	if m.flavor.IsReadonly() {
		m.rt.rejectWrite("clear", nil)
		return
	}
	hadItems := m.raw.Len() != 0
	m.raw.Reset()
	if hadItems {
		m.rt.Trigger(m.raw, nil, OpClear, nil)
	}
}

// ForEach calls fn for each entry in insertion order.
func (m *Map) ForEach(fn func(value, key any)) {
	m.trackIteration(IterateKey, "forEach")
	for _, k := range m.raw.Keys() {
		v, _ := m.raw.Get(k)
		fn(m.rt.wrapChild(v, m.flavor), m.rt.wrapChild(k, m.flavor))
	}
}

// Keys returns the keys in insertion order. Only additions and deletions
// notify a caller that iterated keys.
func (m *Map) Keys() []any {
	m.trackIteration(MapKeyIterateKey, "keys")
	keys := m.raw.Keys()
	for i, k := range keys {
		keys[i] = m.rt.wrapChild(k, m.flavor)
	}
	return keys
}

// Values returns the values in insertion order.
func (m *Map) Values() []any {
	m.trackIteration(IterateKey, "values")
	keys := m.raw.Keys()
	out := make([]any, len(keys))
	for i, k := range keys {
		v, _ := m.raw.Get(k)
		out[i] = m.rt.wrapChild(v, m.flavor)
	}
	return out
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []Entry {
	m.trackIteration(IterateKey, "entries")
	keys := m.raw.Keys()
	out := make([]Entry, len(keys))
	for i, k := range keys {
		v, _ := m.raw.Get(k)
		out[i] = Entry{
			Key:   m.rt.wrapChild(k, m.flavor),
			Value: m.rt.wrapChild(v, m.flavor),
		}
	}
	return out
}

// =============================================================================
// Set
// =============================================================================

// Set wraps a *HashSet. Values are stored raw.
type Set struct {
	rt     *Runtime
	raw    *HashSet
	flavor Flavor
}

// Raw returns the wrapped set.
func (s *Set) Raw() any { return s.raw }

// HashSet returns the wrapped set.
func (s *Set) HashSet() *HashSet { return s.raw }

// Flavor returns the wrapper's flavor.
func (s *Set) Flavor() Flavor { return s.flavor }

// Runtime returns the owning runtime.
func (s *Set) Runtime() *Runtime { return s.rt }

func (s *Set) track(key Key) {
	if !s.flavor.IsReadonly() {
		s.rt.Track(s.raw, key)
	}
}

func (s *Set) trackIteration(op string) {
	if s.raw.weak {
		panic(errors.New("R003").WithDetailf("%s on weak set", op))
	}
	s.track(IterateKey)
}

// Has reports whether value, or its raw target, is present.
func (s *Set) Has(value any) bool {
	raw := ToRaw(value)
	if raw != value {
		s.track(value)
	}
	s.track(raw)
	return s.raw.Has(value) || s.raw.Has(raw)
}

// Add inserts value. It returns false if the wrapper is readonly.
func (s *Set) Add(value any) bool {
	if s.flavor.IsReadonly() {
		s.rt.rejectWrite("add", value)
		return false
	}
	value = ToRaw(value)
	if s.raw.Add(value) {
		s.rt.Trigger(s.raw, value, OpAdd, value)
	}
	return true
}

// Delete removes value and reports whether it was present.
func (s *Set) Delete(value any) bool {
	if s.flavor.IsReadonly() {
		s.rt.rejectWrite("delete", value)
		return false
	}
	had := s.raw.Has(value)
	if !had {
		value = ToRaw(value)
		had = s.raw.Has(value)
	}
	s.raw.Remove(value)
	if had {
		s.rt.Trigger(s.raw, value, OpDelete, nil)
	}
	return had
}

// Size returns the number of values.
func (s *Set) Size() int {
	s.trackIteration("size")
	return s.raw.Len()
}

// Clear removes every value, notifying every subscriber of the set.
func (s *Set) Clear() {
	if s.flavor.IsReadonly() {
		s.rt.rejectWrite("clear", nil)
		return
	}
	hadItems := s.raw.Len() != 0
	s.raw.Reset()
	if hadItems {
		s.rt.Trigger(s.raw, nil, OpClear, nil)
	}
}

// ForEach calls fn for each value in insertion order.
func (s *Set) ForEach(fn func(value any)) {
	s.trackIteration("forEach")
	for _, v := range s.raw.Values() {
		fn(s.rt.wrapChild(v, s.flavor))
	}
}

// Values returns the values in insertion order.
func (s *Set) Values() []any {
	s.trackIteration("values")
	values := s.raw.Values()
	for i, v := range values {
		values[i] = s.rt.wrapChild(v, s.flavor)
	}
	return values
}
