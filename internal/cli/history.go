package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bpdiary/internal/view"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Order    string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show readings grouped by day",
		Long: `Show readings grouped by calendar day, one line per morning and evening.

When a slot was recorded more than once the first reading recorded for it
is shown and the others are counted.

Examples:
  bpdiary history
  bpdiary history --order asc`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	addDatabaseFlag(cmd, &opts.Database)
	cmd.Flags().StringVar(&opts.Order, "order", string(view.Descending), "day order (asc|desc)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts.RootOptions, opts.Database, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	formatter := sess.formatter

	order, err := view.ParseSortOrder(opts.Order)
	if err != nil {
		return formatter.Fail(ExitFailure, ErrCodeInvalidArgs, "invalid --order", err)
	}

	readings, err := sess.store.FetchAll(sess.ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to fetch readings", err)
	}

	days := view.GroupByDay(readings, order)
	formatter.VerboseLog("Grouped %d reading(s) into %d day(s)", len(readings), len(days))

	if formatter.JSON() {
		return formatter.Success(days)
	}

	w := formatter.Writer
	if len(days) == 0 {
		fmt.Fprintln(w, "No readings.")
		return nil
	}
	for i, day := range days {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDay(w, day)
	}
	return nil
}
