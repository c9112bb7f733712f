package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jba/sharing/counters"
	"github.com/jba/sharing/join"
	"github.com/jba/sharing/readonly"
	"github.com/jba/sharing/report"
	"github.com/jba/sharing/transform"
)

func newSquareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "square [int...]",
		Short: "Square each integer in place, splitting the slice among goroutines",
		Args:  cobra.ArbitraryArgs,
		RunE:  runSquare,
	}
	cmd.Flags().Int("workers", 0, "Number of goroutines (default GOMAXPROCS)")
	return cmd
}

func runSquare(cmd *cobra.Command, args []string) error {
	v, err := parseInts(args)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	workers, _ := cmd.Flags().GetInt("workers")
	logger := newLogger(cmd)

	before := slices.Clone(v)
	logger.Debug("squaring", "n", len(v), "workers", workers)
	if err := transform.Square(cmd.Context(), v, workers); err != nil {
		return taskError("square", err)
	}
	return report.Write(cmd.OutOrStdout(), format, report.Result{Name: "square", Before: before, After: v})
}

func newIncrementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "increment [int...]",
		Short: "Increment each integer from its own goroutine under one shared mutex",
		Args:  cobra.ArbitraryArgs,
		RunE:  runIncrement,
	}
}

func runIncrement(cmd *cobra.Command, args []string) error {
	v, err := parseInts(args)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	logger.Debug("incrementing", "tasks", len(v))
	got, err := counters.Run(v)
	if err != nil {
		return taskError("increment", err)
	}
	return report.Write(cmd.OutOrStdout(), format, report.Result{Name: "increment", Before: v, After: got})
}

func newReadonlyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "readonly [int...]",
		Short: "Read each integer from its own goroutine, without a lock",
		Args:  cobra.ArbitraryArgs,
		RunE:  runReadonly,
	}
}

func runReadonly(cmd *cobra.Command, args []string) error {
	v, err := parseInts(args)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd)

	// Each goroutine writes only its own element of lines.
	lines := make([]string, len(v))
	err = readonly.FanOut(cmd.Context(), v, func(_ context.Context, i, x int) error {
		logger.Debug("read", "index", i, "value", x)
		lines[i] = fmt.Sprintf("%d: %d", i, x)
		return nil
	})
	if err != nil {
		return taskError("readonly", err)
	}
	if format != report.Text {
		return report.Write(cmd.OutOrStdout(), format, report.Result{Name: "readonly", Before: v, After: v})
	}
	for _, l := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), l)
	}
	return nil
}

func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map [int...]",
		Short: "Increment each integer sequentially into a new slice",
		Args:  cobra.ArbitraryArgs,
		RunE:  runMap,
	}
}

func runMap(cmd *cobra.Command, args []string) error {
	v, err := parseInts(args)
	if err != nil {
		return err
	}
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	return report.Write(cmd.OutOrStdout(), format, report.Result{Name: "map", Before: v, After: transform.Increment(v)})
}

// taskError converts a failed run into an ExitError naming each
// index that could not be confirmed.
func taskError(name string, err error) error {
	fs := join.Failures(err)
	if len(fs) == 0 {
		return exitError(exitFailure, "%s: %v", name, err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d task(s) failed; result discarded", name, len(fs))
	for _, f := range fs {
		fmt.Fprintf(&b, "\n  index %d: %v", f.Task, f.Err)
	}
	return exitError(exitFailure, "%s", b.String())
}
