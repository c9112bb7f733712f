// Package cli implements the sharing command.
package cli

import (
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jba/sharing/report"
)

// defaultCount is the length of the input used when no integers are given.
const defaultCount = 20

// NewRootCmd returns the sharing command. Run without a subcommand,
// it squares 0 through 19 in parallel.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sharing [int...]",
		Short: "Demonstrate shared-memory access patterns",
		Long: `sharing runs one shared-memory access pattern over a slice of integers
and prints the result. Without a subcommand it squares the integers
0 through 19 in parallel.`,
		Args:          cobra.ArbitraryArgs,
		RunE:          runSquare,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	root.PersistentFlags().String("format", string(report.Text), "Output format: text | markdown | html")
	root.Flags().Int("workers", 0, "Number of goroutines (default GOMAXPROCS)")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitError(exitUsage, "%v", err)
	})

	root.AddCommand(newSquareCmd())
	root.AddCommand(newIncrementCmd())
	root.AddCommand(newReadonlyCmd())
	root.AddCommand(newMapCmd())
	return root
}

// newLogger returns a logger writing to the command's stderr, tagged
// with an id for this invocation.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	return slog.New(h).With("run_id", uuid.NewString(), "cmd", cmd.Name())
}

func outputFormat(cmd *cobra.Command) (report.Format, error) {
	s, _ := cmd.Flags().GetString("format")
	f, err := report.ParseFormat(s)
	if err != nil {
		return "", exitError(exitUsage, "%v", err)
	}
	return f, nil
}

// parseInts parses args as decimal integers.
// With no args it returns 0 through defaultCount-1.
func parseInts(args []string) ([]int, error) {
	if len(args) == 0 {
		v := make([]int, defaultCount)
		for i := range v {
			v[i] = i
		}
		return v, nil
	}
	v := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, exitError(exitUsage, "argument %d: %q is not an integer", i+1, a)
		}
		v[i] = n
	}
	return v, nil
}
