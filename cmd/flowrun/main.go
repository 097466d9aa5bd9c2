// Command flowrun interprets a flow file and materializes one named
// component's output on standard output.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/flowrun/internal/display"
	"github.com/aledsdavies/flowrun/internal/eval"
	"github.com/aledsdavies/flowrun/internal/flow"
)

func main() {
	var (
		noColor bool
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:           "flowrun <flowfile> <component>",
		Short:         "Evaluate a component from a flow file onto stdout",
		Args:          cobra.ExactArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], args[1], verbose)
		},
	}

	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the final component's resolved kind before evaluating")

	if err := rootCmd.Execute(); err != nil {
		display.FormatError(os.Stderr, err, display.ShouldUseColor(noColor))
		os.Exit(1)
	}
}

func run(flowPath, component string, verbose bool) error {
	file, err := os.Open(flowPath)
	if err != nil {
		return fmt.Errorf("opening flow file: %w", err)
	}
	defer file.Close()

	cat, err := flow.Parse(file)
	if err != nil {
		return err
	}

	if verbose {
		if kind, _, ok := cat.Lookup(component); ok {
			fmt.Fprintf(os.Stderr, "evaluating %q as %s\n", component, kind)
		}
	}

	// A Ctrl-C during a long-running node cancels its exec.Cmd the same
	// way os/exec.CommandContext is designed to be used, even though the
	// interpreter has no cooperative cancellation of its own otherwise.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return eval.New(cat).Evaluate(ctx, component, os.Stdout)
}
