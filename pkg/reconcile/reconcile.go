package reconcile

import (
	"context"
	"log/slog"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/ripple/internal/errors"
)

var (
	// ErrDuplicateKey is returned in strict mode when a key appears twice in
	// one sequence.
	ErrDuplicateKey = errors.New("R101")

	// ErrMissingCallback is returned when one of the Ops callbacks is nil.
	ErrMissingCallback = errors.New("R102")
)

// Ops are the callbacks through which a reconciliation is realized.
type Ops[N any] struct {
	// Patch updates prev to match next in place. A nil prev means next is
	// new and must be mounted before anchor (nil anchor: at the end).
	Patch func(prev *N, next N, anchor *N)
	// Move repositions an already patched node before anchor (nil anchor:
	// at the end).
	Move func(node N, anchor *N)
	// Unmount removes a node that has no counterpart in the next sequence.
	Unmount func(node N)
}

func (o Ops[N]) validate() error {
	var missing []string
	if o.Patch == nil {
		missing = append(missing, "Patch")
	}
	if o.Move == nil {
		missing = append(missing, "Move")
	}
	if o.Unmount == nil {
		missing = append(missing, "Unmount")
	}
	if len(missing) > 0 {
		return errors.New("R102").WithDetailf("nil %s", strings.Join(missing, ", "))
	}
	return nil
}

// Observer receives a summary of every reconciliation.
// The metrics package provides a Prometheus-backed implementation.
type Observer interface {
	Reconciled(s Stats)
}

type noopObserver struct{}

func (noopObserver) Reconciled(Stats) {}

type config struct {
	strict   bool
	logger   *slog.Logger
	tracer   trace.Tracer
	observer Observer
}

// Option configures a Reconciler.
type Option func(*config)

// WithStrict enables the duplicate-key precondition check.
func WithStrict(strict bool) Option {
	return func(c *config) {
		c.strict = strict
	}
}

// WithLogger sets the reconciler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTracer sets the tracer used for per-call spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *config) {
		if tracer != nil {
			c.tracer = tracer
		}
	}
}

// WithObserver installs an Observer.
func WithObserver(o Observer) Option {
	return func(c *config) {
		if o != nil {
			c.observer = o
		}
	}
}

// Reconciler diffs keyed sequences of N identified by keys of type K.
// A Reconciler holds no per-call state and may be reused.
type Reconciler[N any, K comparable] struct {
	config
	key func(N) K
}

// New creates a Reconciler that identifies nodes with key.
func New[N any, K comparable](key func(N) K, opts ...Option) *Reconciler[N, K] {
	r := &Reconciler[N, K]{
		key: key,
		config: config{
			logger:   slog.Default().With("component", "reconcile"),
			tracer:   otel.Tracer("ripple/reconcile"),
			observer: noopObserver{},
		},
	}
	for _, opt := range opts {
		opt(&r.config)
	}
	return r
}

// Reconcile transforms prev into next with the default Reconciler.
// It panics if a callback in ops is nil.
func Reconcile[N any, K comparable](prev, next []N, key func(N) K, ops Ops[N]) Stats {
	s, err := New(key).Reconcile(context.Background(), prev, next, ops)
	if err != nil {
		panic(err)
	}
	return s
}

// Reconcile transforms prev into next by invoking ops.
//
// The common prefix and suffix are patched in place. If only insertions or
// only removals remain, they are applied directly. Otherwise every old node
// in the middle window is patched against its match or unmounted, and the
// window is walked backward mounting new nodes and moving every matched
// node that is not part of the longest run already in order.
func (r *Reconciler[N, K]) Reconcile(ctx context.Context, prev, next []N, ops Ops[N]) (Stats, error) {
	if err := ops.validate(); err != nil {
		return Stats{}, err
	}
	if r.strict {
		if err := r.checkUnique("prev", prev); err != nil {
			return Stats{}, err
		}
		if err := r.checkUnique("next", next); err != nil {
			return Stats{}, err
		}
	}

	_, span := r.tracer.Start(ctx, "reconcile.Reconcile", trace.WithAttributes(
		attribute.Int("reconcile.prev", len(prev)),
		attribute.Int("reconcile.next", len(next)),
	))
	defer span.End()

	s := r.reconcile(prev, next, ops)

	span.SetAttributes(
		attribute.Int("reconcile.patched", s.Patched),
		attribute.Int("reconcile.mounted", s.Mounted),
		attribute.Int("reconcile.moved", s.Moved),
		attribute.Int("reconcile.unmounted", s.Unmounted),
	)
	r.observer.Reconciled(s)
	if s.Moved > 0 {
		r.logger.Debug("sequence reordered",
			"prev", len(prev),
			"next", len(next),
			"moved", s.Moved,
			"stable", s.Stable)
	}
	return s, nil
}

func (r *Reconciler[N, K]) reconcile(prev, next []N, ops Ops[N]) Stats {
	var s Stats
	j := 0
	oldEnd, newEnd := len(prev)-1, len(next)-1

	// Common prefix
	for j <= oldEnd && j <= newEnd && r.key(prev[j]) == r.key(next[j]) {
		ops.Patch(&prev[j], next[j], nil)
		s.Patched++
		j++
	}

	// Common suffix
	for j <= oldEnd && j <= newEnd && r.key(prev[oldEnd]) == r.key(next[newEnd]) {
		ops.Patch(&prev[oldEnd], next[newEnd], nil)
		s.Patched++
		oldEnd--
		newEnd--
	}

	switch {
	case j > oldEnd && j > newEnd:
		// Already aligned
	case j > oldEnd:
		anchor := anchorAt(next, newEnd+1)
		for i := j; i <= newEnd; i++ {
			ops.Patch(nil, next[i], anchor)
			s.Mounted++
		}
	case j > newEnd:
		for i := j; i <= oldEnd; i++ {
			ops.Unmount(prev[i])
			s.Unmounted++
		}
	default:
		r.reconcileMiddle(prev, next, j, oldEnd, newEnd, ops, &s)
	}
	return s
}

// reconcileMiddle handles the window [j, oldEnd] x [j, newEnd] where both
// sides are non-empty and neither end matches.
func (r *Reconciler[N, K]) reconcileMiddle(prev, next []N, j, oldEnd, newEnd int, ops Ops[N], s *Stats) {
	count := newEnd - j + 1

	// source[i-j] is the old index matched to next[i], or -1.
	source := make([]int, count)
	for i := range source {
		source[i] = -1
	}

	index := make(map[K]int, count)
	for i := j; i <= newEnd; i++ {
		index[r.key(next[i])] = i
	}

	moved := false
	lastIndex := j
	for i := j; i <= oldEnd; i++ {
		ni, ok := index[r.key(prev[i])]
		if !ok {
			ops.Unmount(prev[i])
			s.Unmounted++
			continue
		}
		ops.Patch(&prev[i], next[ni], nil)
		s.Patched++
		source[ni-j] = i
		if ni < lastIndex {
			moved = true
		} else {
			lastIndex = ni
		}
	}

	var seq []int
	if moved {
		seq = Sequence(source)
		s.Stable = len(seq)
	}

	k := len(seq) - 1
	for i := newEnd; i >= j; i-- {
		pos := i - j
		anchor := anchorAt(next, i+1)
		switch {
		case source[pos] == -1:
			ops.Patch(nil, next[i], anchor)
			s.Mounted++
		case !moved:
			// Matched nodes are already in order
		case k < 0 || seq[k] != pos:
			ops.Move(next[i], anchor)
			s.Moved++
		default:
			k--
		}
	}
}

// checkUnique returns ErrDuplicateKey if two nodes in seq share a key.
func (r *Reconciler[N, K]) checkUnique(name string, seq []N) error {
	seen := mapset.NewThreadUnsafeSetWithSize[K](len(seq))
	for i, n := range seq {
		k := r.key(n)
		if !seen.Add(k) {
			return errors.New("R101").
				WithDetailf("%s[%d] repeats key %v", name, i, k).
				Wrap(ErrDuplicateKey)
		}
	}
	return nil
}

// anchorAt returns a pointer to seq[i], or nil past the end.
func anchorAt[N any](seq []N, i int) *N {
	if i < len(seq) {
		return &seq[i]
	}
	return nil
}
