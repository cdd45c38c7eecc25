package main

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/vango-dev/ripple/pkg/reactive"
	"github.com/vango-dev/ripple/pkg/reconcile"
)

// =============================================================================
// ripple simulate
// =============================================================================

func simulateCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "simulate <file>...",
		Short: "Feed successive sequences through a reactive list",
		Long: `Load each file into a reactive list in turn and print what a
post-flush watcher reconciles after every step.

The list starts empty, so the first step mounts every item. The runtime
honours the runtime.debug and runtime.recursionLimit settings, and the
reconciler honours reconcile.strict.

Examples:
  ripple simulate v1.json v2.json v3.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), a, cmd.OutOrStdout(), args, all)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include patches that change nothing")

	return cmd
}

func runSimulate(ctx context.Context, a *app, w io.Writer, paths []string, all bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	steps := make([][]item, len(paths))
	for i, path := range paths {
		items, err := readItems(path)
		if err != nil {
			return err
		}
		steps[i] = items
	}

	rt := a.runtime()
	list := rt.Reactive(reactive.NewList()).(*reactive.Array)
	r := a.reconciler(a.cfg.Reconcile.Strict)

	var (
		step   int
		runErr error
	)
	h := reactive.Watch(rt,
		func() []item {
			vals := list.Values()
			out := make([]item, len(vals))
			for i, v := range vals {
				out[i] = v.(item)
			}
			return out
		},
		func(next, prev []item, _ reactive.InvalidateFunc) {
			rec := reconcile.NewRecorder[item]()
			stats, err := r.Reconcile(ctx, prev, next, rec.Ops())
			if err != nil {
				runErr = err
				return
			}
			ops := rec.Records()
			if !all {
				ops = slices.DeleteFunc(ops, func(op reconcile.Op[item]) bool {
					return op.Kind == reconcile.OpPatch && sameContent(*op.Prev, op.Node)
				})
			}
			fmt.Fprintf(w, "step %d: %s\n", step, paths[step-1])
			writeText(w, ops, stats)
		},
		reactive.WithFlush(reactive.FlushPost),
		reactive.WatchName("simulate"),
	)
	defer h.Stop()

	for i, items := range steps {
		step = i + 1
		vals := make([]any, len(items))
		for j, it := range items {
			vals[j] = it
		}
		list.Splice(0, list.Len(), vals...)

		if err := rt.Flush(); err != nil {
			return err
		}
		if runErr != nil {
			return runErr
		}
	}

	success(w, "%d steps applied", len(steps))
	return nil
}

// runtime builds a reactivity runtime from the loaded configuration.
func (a *app) runtime() *reactive.Runtime {
	q := reactive.NewJobQueue(
		reactive.WithQueueLogger(a.logger.With("component", "scheduler")),
		reactive.WithRecursionLimit(a.cfg.Runtime.RecursionLimit),
	)
	opts := []reactive.Option{
		reactive.WithLogger(a.logger.With("component", "reactive")),
		reactive.WithDebug(a.cfg.Runtime.Debug),
		reactive.WithJobQueue(q),
	}
	if a.collector != nil {
		opts = append(opts, reactive.WithObserver(a.collector))
	}
	return reactive.NewRuntime(opts...)
}
