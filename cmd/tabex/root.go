package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tabexcli/tabex/pkg/driver"
)

var (
	flagOutput    string
	flagNoHeaders bool
	flagDelimiter string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:     "tabex",
	Short:   "Evaluate expressions against CSV rows",
	Version: "0.1.0",
	Long: `tabex compiles an expression once against a CSV file's header and
evaluates it against every row, in foreach, map, or filter mode.`,
}

func init() {
	rootCmd.PersistentFlags().
		StringVarP(&flagOutput, "output", "o", "", "write output to this file instead of stdout")
	rootCmd.PersistentFlags().
		BoolVar(&flagNoHeaders, "no-headers", false, "treat the first row as data, synthesizing positional column names")
	rootCmd.PersistentFlags().
		StringVarP(&flagDelimiter, "delimiter", "d", ",", "single-byte CSV field delimiter")
	rootCmd.PersistentFlags().
		BoolVarP(&flagVerbose, "verbose", "v", false, "log per-row warnings to stderr under --errors log")

	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetOutput(os.Stderr)
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseDelimiter(s string) (byte, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("--delimiter must be exactly one byte, got %q", s)
	}
	return s[0], nil
}

func parseParallelization(parallel bool, threads int) driver.Parallelization {
	switch {
	case threads > 0:
		return driver.ParallelCount(threads)
	case parallel:
		return driver.ParallelAuto()
	default:
		return driver.ParallelNone()
	}
}

// baseOptions builds the driver.Options fields shared by every subcommand.
// args is "<expression>" or "<expression> <input-file>"; with no input file,
// the driver reads from stdin.
func baseOptions(args []string, mode driver.Mode) (driver.Options, error) {
	if len(args) < 1 || len(args) > 2 {
		return driver.Options{}, fmt.Errorf("expected an expression and an optional input file, got %d argument(s)", len(args))
	}
	delim, err := parseDelimiter(flagDelimiter)
	if err != nil {
		return driver.Options{}, err
	}

	opts := driver.Options{
		Expression: args[0],
		NoHeaders:  flagNoHeaders,
		Delimiter:  delim,
		Mode:       mode,
	}
	if len(args) == 2 {
		opts.Input = &args[1]
	}
	if flagOutput != "" {
		opts.Output = &flagOutput
	}
	if !flagVerbose {
		logrus.SetLevel(logrus.ErrorLevel)
	}
	return opts, nil
}
