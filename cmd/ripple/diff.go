package main

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vango-dev/ripple/internal/errors"
	"github.com/vango-dev/ripple/pkg/reconcile"
)

// =============================================================================
// ripple diff
// =============================================================================

type diffOptions struct {
	format string
	strict bool
	all    bool
}

func diffCmd(a *app) *cobra.Command {
	var opts diffOptions

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Print the operations that turn one keyed sequence into another",
		Long: `Reconcile two keyed sequences and print the operations.

Each file holds a list of scalars or of mappings with a "key" field,
in JSON or YAML (chosen by extension):

  [{"key": "a", "label": "Alpha"}, {"key": "b"}]

Patches that leave an item unchanged are hidden unless --all is set.
The operations are replayed against <old> before printing; a mismatch
is reported as an error.

Examples:
  ripple diff old.json new.json
  ripple diff old.yaml new.yaml --format json
  ripple diff old.json new.json --strict`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict") {
				opts.strict = a.cfg.Reconcile.Strict
			}
			return runDiff(cmd.Context(), a, cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Reject sequences with duplicate keys")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "Include patches that change nothing")

	return cmd
}

func runDiff(ctx context.Context, a *app, w io.Writer, oldPath, newPath string, opts diffOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return errors.New("X003").WithDetailf("unknown format %q", opts.format)
	}

	prev, err := readItems(oldPath)
	if err != nil {
		return err
	}
	next, err := readItems(newPath)
	if err != nil {
		return err
	}

	ops, stats, err := a.diff(ctx, prev, next, opts.strict)
	if err != nil {
		return err
	}
	if !opts.all {
		ops = slices.DeleteFunc(ops, func(op reconcile.Op[item]) bool {
			return op.Kind == reconcile.OpPatch && sameContent(*op.Prev, op.Node)
		})
	}

	if opts.format == "json" {
		return writeJSON(w, ops, stats)
	}
	writeText(w, ops, stats)
	return nil
}

// diff reconciles prev into next, verifies the recorded operations by
// replaying them, and returns them.
func (a *app) diff(ctx context.Context, prev, next []item, strict bool) ([]reconcile.Op[item], reconcile.Stats, error) {
	r := a.reconciler(strict)
	rec := reconcile.NewRecorder[item]()

	stats, err := r.Reconcile(ctx, prev, next, rec.Ops())
	if err != nil {
		return nil, reconcile.Stats{}, err
	}

	ops := rec.Records()
	got, err := reconcile.Replay(prev, ops, keyOf)
	if err != nil {
		return nil, reconcile.Stats{}, err
	}
	if !slices.Equal(itemKeys(got), itemKeys(next)) {
		return nil, reconcile.Stats{}, errors.New("R103").
			WithDetailf("replay produced %v, want %v", itemKeys(got), itemKeys(next))
	}
	return ops, stats, nil
}

func (a *app) reconciler(strict bool) *reconcile.Reconciler[item, string] {
	opts := []reconcile.Option{
		reconcile.WithStrict(strict),
		reconcile.WithLogger(a.logger.With("component", "reconcile")),
	}
	if a.collector != nil {
		opts = append(opts, reconcile.WithObserver(a.collector))
	}
	return reconcile.New(keyOf, opts...)
}

func anchorText(anchor *item) string {
	if anchor == nil {
		return "at end"
	}
	return "before " + anchor.Key
}

func writeText(w io.Writer, ops []reconcile.Op[item], stats reconcile.Stats) {
	for _, op := range ops {
		switch op.Kind {
		case reconcile.OpMount, reconcile.OpMove:
			fmt.Fprintf(w, "  %-8s %s %s\n", op.Kind, op.Node.Key, anchorText(op.Anchor))
		default:
			fmt.Fprintf(w, "  %-8s %s\n", op.Kind, op.Node.Key)
		}
	}
	fmt.Fprintln(w, summary(stats))
}

func summary(s reconcile.Stats) string {
	var parts []string
	add := func(n int, word string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, word))
		}
	}
	add(s.Mounted, "mounted")
	add(s.Moved, "moved")
	add(s.Unmounted, "unmounted")
	add(s.Patched, "patched")
	if len(parts) == 0 {
		return "no changes"
	}
	out := strings.Join(parts, ", ")
	if s.Moved > 0 {
		out += fmt.Sprintf(" (%d kept in place)", s.Stable)
	}
	return out
}

type jsonOp struct {
	Op     string         `json:"op"`
	Key    string         `json:"key"`
	Anchor *string        `json:"anchor,omitempty"`
	Item   map[string]any `json:"item,omitempty"`
}

type jsonStats struct {
	Patched   int `json:"patched"`
	Mounted   int `json:"mounted"`
	Moved     int `json:"moved"`
	Unmounted int `json:"unmounted"`
	Stable    int `json:"stable"`
}

type jsonDiff struct {
	Ops   []jsonOp  `json:"ops"`
	Stats jsonStats `json:"stats"`
}

func writeJSON(w io.Writer, ops []reconcile.Op[item], stats reconcile.Stats) error {
	out := jsonDiff{
		Ops: make([]jsonOp, 0, len(ops)),
		Stats: jsonStats{
			Patched:   stats.Patched,
			Mounted:   stats.Mounted,
			Moved:     stats.Moved,
			Unmounted: stats.Unmounted,
			Stable:    stats.Stable,
		},
	}
	for _, op := range ops {
		o := jsonOp{Op: op.Kind.String(), Key: op.Node.Key}
		if op.Anchor != nil {
			o.Anchor = &op.Anchor.Key
		}
		if op.Kind == reconcile.OpPatch || op.Kind == reconcile.OpMount {
			o.Item = op.Node.Fields
		}
		out.Ops = append(out.Ops, o)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
