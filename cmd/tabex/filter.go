package main

import (
	"github.com/spf13/cobra"

	"github.com/tabexcli/tabex/pkg/driver"
)

var (
	filterParallel bool
	filterThreads  int
)

func init() {
	cmd := newFilterCmd()
	cmd.Flags().BoolVar(&filterParallel, "parallel", false, "evaluate rows across a CPU-sized worker pool")
	cmd.Flags().IntVar(&filterThreads, "threads", 0, "evaluate rows across exactly this many workers (overrides --parallel)")
	rootCmd.AddCommand(cmd)
}

func newFilterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter <expression> [input-file]",
		Short: "Keep only the rows for which an expression is truthy",
		Long: `filter evaluates an expression against every row and keeps the row iff
the result is truthy. As in map mode, a row evaluation error is always
fatal.

Example:
  tabex filter 'col("age") > 18' people.csv`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFilter(cmd, args)
		},
	}
}

func runFilter(cmd *cobra.Command, args []string) error {
	opts, err := baseOptions(args, driver.ModeFilter)
	if err != nil {
		return err
	}
	opts.ErrorPolicy = driver.PolicyPanic
	opts.Parallelization = parseParallelization(filterParallel, filterThreads)
	return driver.Run(cmd.Context(), opts)
}
