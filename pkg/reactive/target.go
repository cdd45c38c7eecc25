package reactive

import (
	"reflect"

	"github.com/vango-dev/ripple/internal/errors"
)

// targetFlags carries the wrapping-related state shared by all raw targets.
type targetFlags struct {
	// skip marks the target as never wrapped (MarkRaw).
	skip bool
	// sealed forbids adding keys; frozen additionally forbids changing or
	// removing them.
	sealed bool
	frozen bool
}

// IsExtensible reports whether new keys may be added.
func (f *targetFlags) IsExtensible() bool { return !f.sealed }

// IsFrozen reports whether the target is immutable.
func (f *targetFlags) IsFrozen() bool { return f.frozen }

// PreventExtensions forbids adding new keys. Non-extensible targets are
// never wrapped.
func (f *targetFlags) PreventExtensions() { f.sealed = true }

// Freeze makes the target immutable. Frozen targets are never wrapped.
func (f *targetFlags) Freeze() {
	f.sealed = true
	f.frozen = true
}

func (f *targetFlags) flags() *targetFlags { return f }

// rawTarget is implemented by every container the runtime can wrap.
type rawTarget interface {
	flags() *targetFlags
}

// MarkRaw flags target so that the runtime never wraps it and returns it.
// Values that are not wrappable targets are returned unchanged.
func MarkRaw[T any](target T) T {
	if t, ok := any(target).(rawTarget); ok {
		t.flags().skip = true
	}
	return target
}

// targetKind is the wrapping strategy for a raw value.
type targetKind uint8

const (
	kindInvalid targetKind = iota
	kindCommon
	kindCollection
)

// classify returns the wrapping strategy for v. Skipped and
// non-extensible targets are invalid.
func classify(v any) targetKind {
	t, ok := v.(rawTarget)
	if !ok {
		return kindInvalid
	}
	f := t.flags()
	if f.skip || f.sealed {
		return kindInvalid
	}
	switch v.(type) {
	case *Record, *List:
		return kindCommon
	case *HashMap, *HashSet:
		return kindCollection
	}
	return kindInvalid
}

// isTarget reports whether v is a raw container of any kind.
func isTarget(v any) bool {
	switch v.(type) {
	case *Record, *List, *HashMap, *HashSet:
		return true
	}
	return false
}

// =============================================================================
// Record
// =============================================================================

// Record is an insertion-ordered, string-keyed mutable record. A record may
// inherit keys from a prototype (a *Record or a wrapping *Object).
type Record struct {
	targetFlags

	keys   []string
	values map[string]any
	proto  any
}

// NewRecord creates a record from alternating key/value arguments.
//
//	rec := NewRecord("a", 1, "ok", true)
func NewRecord(kv ...any) *Record {
	if len(kv)%2 != 0 {
		panic(errors.New("R006").WithDetailf("odd number of arguments: %d", len(kv)))
	}
	r := &Record{values: make(map[string]any, len(kv)/2)}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(errors.New("R006").WithDetailf("key at position %d is %T", i, kv[i]))
		}
		r.Put(key, kv[i+1])
	}
	return r
}

// Own returns the value stored directly on the record.
func (r *Record) Own(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// HasOwn reports whether key is stored directly on the record.
func (r *Record) HasOwn(key string) bool {
	_, ok := r.values[key]
	return ok
}

// Lookup returns the value for key, following the prototype chain without
// tracking.
func (r *Record) Lookup(key string) (any, bool) {
	if v, ok := r.values[key]; ok {
		return v, true
	}
	switch p := r.proto.(type) {
	case *Record:
		return p.Lookup(key)
	case *Object:
		return p.raw.Lookup(key)
	}
	return nil, false
}

// Put stores value under key. It fails on frozen records and for new keys
// on non-extensible records.
func (r *Record) Put(key string, value any) bool {
	if r.frozen {
		return false
	}
	if _, ok := r.values[key]; !ok {
		if r.sealed {
			return false
		}
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	return true
}

// Remove deletes key. It fails on frozen records.
func (r *Record) Remove(key string) bool {
	if r.frozen {
		return false
	}
	if _, ok := r.values[key]; !ok {
		return true
	}
	delete(r.values, key)
	for i, k := range r.keys {
		if k == key {
			r.keys = append(r.keys[:i], r.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the record's own keys in insertion order.
func (r *Record) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of own keys.
func (r *Record) Len() int {
	return len(r.keys)
}

// SetPrototype sets the record's prototype to a *Record, an *Object, or nil.
func (r *Record) SetPrototype(proto any) {
	switch proto.(type) {
	case nil, *Record, *Object:
		r.proto = proto
	default:
		panic(errors.New("R006").WithDetailf("prototype must be *Record or *Object, got %T", proto))
	}
}

// Prototype returns the record's prototype, or nil.
func (r *Record) Prototype() any {
	return r.proto
}

// =============================================================================
// List
// =============================================================================

// List is an ordered, index-addressed mutable list.
type List struct {
	targetFlags

	items []any
}

// NewList creates a list holding items.
func NewList(items ...any) *List {
	l := &List{items: make([]any, len(items))}
	copy(l.items, items)
	return l
}

// At returns the item at index i.
func (l *List) At(i int) (any, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

// Put stores value at index i, growing the list with nil items if needed.
func (l *List) Put(i int, value any) bool {
	if l.frozen || i < 0 {
		return false
	}
	if i >= len(l.items) {
		if l.sealed {
			return false
		}
		l.items = append(l.items, make([]any, i+1-len(l.items))...)
	}
	l.items[i] = value
	return true
}

// Clear empties the slot at index i without changing the length.
func (l *List) Clear(i int) bool {
	if l.frozen {
		return false
	}
	if i >= 0 && i < len(l.items) {
		l.items[i] = nil
	}
	return true
}

// Resize sets the length, truncating or padding with nil items.
func (l *List) Resize(n int) bool {
	if l.frozen || n < 0 {
		return false
	}
	switch {
	case n < len(l.items):
		clear(l.items[n:])
		l.items = l.items[:n]
	case n > len(l.items):
		if l.sealed {
			return false
		}
		l.items = append(l.items, make([]any, n-len(l.items))...)
	}
	return true
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.items)
}

// Values returns a copy of the items.
func (l *List) Values() []any {
	out := make([]any, len(l.items))
	copy(out, l.items)
	return out
}

// =============================================================================
// HashMap
// =============================================================================

// HashMap is an insertion-ordered map over comparable keys. All NaN keys
// are the same key. A weak map accepts only pointer keys and cannot be
// iterated.
type HashMap struct {
	targetFlags

	weak    bool
	keys    []any
	entries map[any]any
}

// NewHashMap creates an empty map.
func NewHashMap() *HashMap {
	return &HashMap{entries: make(map[any]any)}
}

// NewWeakMap creates an empty weak map.
func NewWeakMap() *HashMap {
	m := NewHashMap()
	m.weak = true
	return m
}

// IsWeak reports whether the map is a weak map.
func (m *HashMap) IsWeak() bool {
	return m.weak
}

// Get returns the value stored under key.
func (m *HashMap) Get(key any) (any, bool) {
	v, ok := m.entries[canonicalKey(key)]
	return v, ok
}

// Has reports whether key is present.
func (m *HashMap) Has(key any) bool {
	_, ok := m.entries[canonicalKey(key)]
	return ok
}

// Put stores value under key.
func (m *HashMap) Put(key, value any) {
	if m.weak {
		checkWeakKey(key)
	}
	ck := canonicalKey(key)
	if _, ok := m.entries[ck]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[ck] = value
}

// Remove deletes key and reports whether it was present.
func (m *HashMap) Remove(key any) bool {
	ck := canonicalKey(key)
	if _, ok := m.entries[ck]; !ok {
		return false
	}
	delete(m.entries, ck)
	m.keys = removeKey(m.keys, key)
	return true
}

// Len returns the number of entries.
func (m *HashMap) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *HashMap) Keys() []any {
	out := make([]any, len(m.keys))
	copy(out, m.keys)
	return out
}

// Reset removes every entry.
func (m *HashMap) Reset() {
	m.keys = nil
	m.entries = make(map[any]any)
}

// =============================================================================
// HashSet
// =============================================================================

// HashSet is an insertion-ordered set of comparable values. All NaN values
// are the same member. A weak set accepts only pointer values and cannot
// be iterated.
type HashSet struct {
	targetFlags

	weak    bool
	values  []any
	members map[any]struct{}
}

// NewHashSet creates a set holding values.
func NewHashSet(values ...any) *HashSet {
	s := &HashSet{members: make(map[any]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// NewWeakSet creates an empty weak set.
func NewWeakSet() *HashSet {
	s := NewHashSet()
	s.weak = true
	return s
}

// IsWeak reports whether the set is a weak set.
func (s *HashSet) IsWeak() bool {
	return s.weak
}

// Has reports whether value is present.
func (s *HashSet) Has(value any) bool {
	_, ok := s.members[canonicalKey(value)]
	return ok
}

// Add inserts value and reports whether it was new.
func (s *HashSet) Add(value any) bool {
	if s.weak {
		checkWeakKey(value)
	}
	cv := canonicalKey(value)
	if _, ok := s.members[cv]; ok {
		return false
	}
	s.members[cv] = struct{}{}
	s.values = append(s.values, value)
	return true
}

// Remove deletes value and reports whether it was present.
func (s *HashSet) Remove(value any) bool {
	cv := canonicalKey(value)
	if _, ok := s.members[cv]; !ok {
		return false
	}
	delete(s.members, cv)
	s.values = removeKey(s.values, value)
	return true
}

// Len returns the number of values.
func (s *HashSet) Len() int {
	return len(s.values)
}

// Values returns the values in insertion order.
func (s *HashSet) Values() []any {
	out := make([]any, len(s.values))
	copy(out, s.values)
	return out
}

// Reset removes every value.
func (s *HashSet) Reset() {
	s.values = nil
	s.members = make(map[any]struct{})
}

func removeKey(keys []any, key any) []any {
	for i, k := range keys {
		if sameValueZero(k, key) {
			return append(keys[:i], keys[i+1:]...)
		}
	}
	return keys
}

// checkWeakKey panics unless key is a non-nil pointer.
func checkWeakKey(key any) {
	v := reflect.ValueOf(key)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		panic(errors.New("R005").WithDetailf("got %T", key))
	}
}
