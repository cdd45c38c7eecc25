package reconcile

// OpKind is the type of a recorded reconciliation operation.
type OpKind uint8

const (
	OpPatch   OpKind = 0x01 // Update a matched node in place
	OpMount   OpKind = 0x02 // Insert a new node before an anchor
	OpMove    OpKind = 0x03 // Reposition an existing node before an anchor
	OpUnmount OpKind = 0x04 // Remove a node
)

// String returns the string representation of the OpKind.
func (k OpKind) String() string {
	switch k {
	case OpPatch:
		return "patch"
	case OpMount:
		return "mount"
	case OpMove:
		return "move"
	case OpUnmount:
		return "unmount"
	default:
		return "unknown"
	}
}

// Op is one recorded operation.
type Op[N any] struct {
	Kind   OpKind
	Prev   *N // Matched previous node (OpPatch)
	Node   N  // Target node
	Anchor *N // Insert before this node; nil means the end (OpMount, OpMove)
}

// Stats summarizes one reconciliation.
type Stats struct {
	Patched   int
	Mounted   int
	Moved     int
	Unmounted int
	// Stable is the length of the increasing run left in place when the
	// middle window needed moves.
	Stable int
}

// Total returns the number of callback invocations.
func (s Stats) Total() int {
	return s.Patched + s.Mounted + s.Moved + s.Unmounted
}
