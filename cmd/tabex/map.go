package main

import (
	"github.com/spf13/cobra"

	"github.com/tabexcli/tabex/pkg/driver"
)

var (
	mapParallel bool
	mapThreads  int
)

func init() {
	cmd := newMapCmd()
	cmd.Flags().BoolVar(&mapParallel, "parallel", false, "evaluate rows across a CPU-sized worker pool")
	cmd.Flags().IntVar(&mapThreads, "threads", 0, "evaluate rows across exactly this many workers (overrides --parallel)")
	rootCmd.AddCommand(cmd)
}

func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map <expression> [input-file]",
		Short: "Evaluate an expression against every row, appending the result",
		Long: `map evaluates an expression against every row and writes its value as a
new cell appended to the output row. A row evaluation error is always fatal
— there is no --errors flag in map mode, since the only recoverable failure
is a concretization error, which already aborts before any row is read.

Example:
  tabex map 'col("a") + col("b")' data.csv`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(cmd, args)
		},
	}
}

func runMap(cmd *cobra.Command, args []string) error {
	opts, err := baseOptions(args, driver.ModeMap)
	if err != nil {
		return err
	}
	opts.ErrorPolicy = driver.PolicyPanic
	opts.Parallelization = parseParallelization(mapParallel, mapThreads)
	return driver.Run(cmd.Context(), opts)
}
