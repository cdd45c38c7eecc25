package reactive

// ChangeKind classifies a write reported to Trigger.
type ChangeKind uint8

const (
	// OpSet replaces the value of an existing key.
	OpSet ChangeKind = iota + 1
	// OpAdd introduces a new key (or a list index at or past the length).
	OpAdd
	// OpDelete removes an existing key.
	OpDelete
	// OpClear removes every key of a collection at once.
	OpClear
)

// String returns a human-readable name for the change kind.
func (k ChangeKind) String() string {
	switch k {
	case OpSet:
		return "set"
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// Key identifies an observed slot of a target: a record field name, a list
// index, a map key, LengthKey, ValueKey, or one of the iteration sentinels.
type Key = any

// iterationKey is the type of the synthetic iteration sentinels.
// Pointer identity keeps them distinct from every user key.
type iterationKey struct {
	name string
}

func (k *iterationKey) String() string { return k.name }

var (
	// IterateKey is tracked by enumeration and notified whenever the set of
	// keys changes (and, for maps, when any value changes).
	IterateKey Key = &iterationKey{name: "iterate"}

	// MapKeyIterateKey is tracked by key-only map iteration and notified only
	// when keys are added or removed.
	MapKeyIterateKey Key = &iterationKey{name: "map-keys-iterate"}
)

const (
	// LengthKey is the key under which list length reads are tracked.
	LengthKey = "length"

	// ValueKey is the single key of Ref and Computed cells.
	ValueKey = "value"
)

// Reserved introspection keys answered by Object.Get without tracking.
const (
	FlagRaw        = "__v_raw"
	FlagIsReactive = "__v_isReactive"
	FlagIsReadonly = "__v_isReadonly"
	FlagIsShallow  = "__v_isShallow"
)
