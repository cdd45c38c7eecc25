package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/ripple/internal/errors"
	"github.com/vango-dev/ripple/pkg/reconcile"
)

func lisCmd() *cobra.Command {
	var values bool

	cmd := &cobra.Command{
		Use:   "lis <n>...",
		Short: "Print a longest increasing subsequence",
		Long: `Print the positions of a longest strictly increasing subsequence
of the given integers. Negative integers mark unmatched slots and are
skipped, as in the reconciler's source array. Use -- when the first
integer is negative.

Examples:
  ripple lis 2 0 1          # 1 2
  ripple lis -v 3 -1 1 2    # 1 2
  ripple lis -- -1 3 1 2    # 2 3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := make([]int, len(args))
			for i, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil {
					return errors.New("X003").WithDetailf("lis expects integers, got %q", arg)
				}
				src[i] = n
			}

			seq := reconcile.Sequence(src)
			out := make([]string, len(seq))
			for i, pos := range seq {
				if values {
					out[i] = strconv.Itoa(src[pos])
				} else {
					out[i] = strconv.Itoa(pos)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(out, " "))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&values, "values", "v", false, "Print the values instead of their positions")
	// Negative numbers are arguments, not flags.
	cmd.Flags().SetInterspersed(false)

	return cmd
}
