package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabexcli/tabex/pkg/driver"
)

var (
	foreachParallel bool
	foreachThreads  int
	foreachErrors   string
)

func init() {
	cmd := newForeachCmd()
	cmd.Flags().BoolVar(&foreachParallel, "parallel", false, "evaluate rows across a CPU-sized worker pool")
	cmd.Flags().IntVar(&foreachThreads, "threads", 0, "evaluate rows across exactly this many workers (overrides --parallel)")
	cmd.Flags().StringVar(&foreachErrors, "errors", "panic", "row error policy: panic, ignore, or log")
	rootCmd.AddCommand(cmd)
}

func newForeachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "foreach <expression> [input-file]",
		Short: "Evaluate an expression against every row, for effect",
		Long: `foreach evaluates an expression against every row and discards the
result — only the configured error policy is observable. No output rows are
written.

Example:
  tabex foreach 'col("age") > 0' people.csv
  tabex foreach 'try(1 / col("count"))' --errors log counts.csv`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runForeach(cmd, args)
		},
	}
}

func runForeach(cmd *cobra.Command, args []string) error {
	opts, err := baseOptions(args, driver.ModeForeach)
	if err != nil {
		return err
	}
	policy, err := parseErrorPolicy(foreachErrors)
	if err != nil {
		return err
	}
	opts.ErrorPolicy = policy
	opts.Parallelization = parseParallelization(foreachParallel, foreachThreads)
	return driver.Run(cmd.Context(), opts)
}

func parseErrorPolicy(name string) (driver.ErrorPolicy, error) {
	switch name {
	case "panic":
		return driver.PolicyPanic, nil
	case "ignore":
		return driver.PolicyIgnore, nil
	case "log":
		return driver.PolicyLog, nil
	default:
		return 0, fmt.Errorf("unknown error policy %q: expected panic, ignore, or log", name)
	}
}
