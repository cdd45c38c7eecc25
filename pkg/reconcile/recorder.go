package reconcile

import (
	"slices"

	"github.com/vango-dev/ripple/internal/errors"
)

// Recorder is an Ops implementation that records every operation.
//
//	rec := reconcile.NewRecorder[Item]()
//	reconcile.Reconcile(prev, next, keyOf, rec.Ops())
//	for _, op := range rec.Records() { ... }
type Recorder[N any] struct {
	records []Op[N]
}

// NewRecorder creates an empty recorder.
func NewRecorder[N any]() *Recorder[N] {
	return &Recorder[N]{}
}

// Ops returns callbacks that append to the recorder.
func (r *Recorder[N]) Ops() Ops[N] {
	return Ops[N]{
		Patch: func(prev *N, next N, anchor *N) {
			if prev == nil {
				r.records = append(r.records, Op[N]{Kind: OpMount, Node: next, Anchor: clonePtr(anchor)})
				return
			}
			r.records = append(r.records, Op[N]{Kind: OpPatch, Prev: clonePtr(prev), Node: next})
		},
		Move: func(node N, anchor *N) {
			r.records = append(r.records, Op[N]{Kind: OpMove, Node: node, Anchor: clonePtr(anchor)})
		},
		Unmount: func(node N) {
			r.records = append(r.records, Op[N]{Kind: OpUnmount, Node: node})
		},
	}
}

// Records returns the recorded operations in call order.
func (r *Recorder[N]) Records() []Op[N] {
	return slices.Clone(r.records)
}

// Count returns the number of recorded operations of kind.
func (r *Recorder[N]) Count(kind OpKind) int {
	n := 0
	for _, op := range r.records {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards all records.
func (r *Recorder[N]) Reset() {
	r.records = r.records[:0]
}

func clonePtr[N any](p *N) *N {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Replay applies ops to a copy of prev, locating nodes and anchors by key,
// and returns the resulting sequence. Replaying the operations of a
// reconciliation from prev to next yields next.
func Replay[N any, K comparable](prev []N, ops []Op[N], key func(N) K) ([]N, error) {
	out := slices.Clone(prev)

	indexOf := func(k K) int {
		return slices.IndexFunc(out, func(n N) bool { return key(n) == k })
	}
	insertAt := func(anchor *N) (int, error) {
		if anchor == nil {
			return len(out), nil
		}
		i := indexOf(key(*anchor))
		if i < 0 {
			return 0, errors.New("R103").WithDetailf("anchor %v not in sequence", key(*anchor))
		}
		return i, nil
	}

	for n, op := range ops {
		switch op.Kind {
		case OpPatch:
			i := indexOf(key(*op.Prev))
			if i < 0 {
				return nil, errors.New("R103").WithDetailf("op %d: patched node %v not in sequence", n, key(*op.Prev))
			}
			out[i] = op.Node
		case OpMount:
			i, err := insertAt(op.Anchor)
			if err != nil {
				return nil, err
			}
			out = slices.Insert(out, i, op.Node)
		case OpMove:
			from := indexOf(key(op.Node))
			if from < 0 {
				return nil, errors.New("R103").WithDetailf("op %d: moved node %v not in sequence", n, key(op.Node))
			}
			out = slices.Delete(out, from, from+1)
			i, err := insertAt(op.Anchor)
			if err != nil {
				return nil, err
			}
			out = slices.Insert(out, i, op.Node)
		case OpUnmount:
			i := indexOf(key(op.Node))
			if i < 0 {
				return nil, errors.New("R103").WithDetailf("op %d: unmounted node %v not in sequence", n, key(op.Node))
			}
			out = slices.Delete(out, i, i+1)
		}
	}
	return out, nil
}
