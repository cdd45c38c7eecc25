package reactive

import (
	"math"
	"reflect"
)

// hasChanged reports whether a write of next over prev is a change.
// Two NaNs are equal here so that NaN writes do not re-trigger forever.
func hasChanged(prev, next any) bool {
	if isNaN(prev) && isNaN(next) {
		return false
	}
	return !strictEqual(prev, next)
}

// strictEqual compares by identity for pointers and by value for other
// comparable values. Uncomparable values are never equal. NaN is not
// equal to itself.
func strictEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// sameValueZero is strictEqual except that NaN equals NaN.
func sameValueZero(a, b any) bool {
	if isNaN(a) && isNaN(b) {
		return true
	}
	return strictEqual(a, b)
}

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// nanKey stands in for every NaN used as a map key or dependency key.
type nanKey struct{}

// canonicalKey maps every NaN to a single key so that NaN keys find each
// other under SameValueZero. Other keys are returned unchanged.
func canonicalKey(k any) any {
	if isNaN(k) {
		return nanKey{}
	}
	return k
}
