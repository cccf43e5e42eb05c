package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bpdiary/internal/reading"
)

// earliestDate stands in for an open --from bound.
const earliestDate reading.Date = "0001-01-01"

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Database string
	From     string
	To       string
}

// ListResult is the JSON payload of the list command.
type ListResult struct {
	Readings []reading.Reading `json:"readings"`
	Count    int               `json:"count"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List readings, most recent first",
		Long: `List stored readings, most recently recorded first.

With --from and/or --to only readings filed under a date in that inclusive
range are listed. A missing --from means the beginning of the diary, a
missing --to means today.

Examples:
  bpdiary list
  bpdiary list --from 2024-01-01 --to 2024-01-31
  bpdiary list --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	addDatabaseFlag(cmd, &opts.Database)
	cmd.Flags().StringVar(&opts.From, "from", "", "first date to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.To, "to", "", "last date to include (YYYY-MM-DD)")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts.RootOptions, opts.Database, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	formatter := sess.formatter

	var readings []reading.Reading
	if opts.From == "" && opts.To == "" {
		readings, err = sess.store.FetchAll(sess.ctx)
	} else {
		start, end := earliestDate, reading.DateOf(sess.localNow())
		if opts.From != "" {
			if start, err = reading.ParseDate(opts.From); err != nil {
				return formatter.Fail(ExitFailure, ErrCodeInvalidArgs, "invalid --from", err)
			}
		}
		if opts.To != "" {
			if end, err = reading.ParseDate(opts.To); err != nil {
				return formatter.Fail(ExitFailure, ErrCodeInvalidArgs, "invalid --to", err)
			}
		}
		formatter.VerboseLog("Fetching readings from %s to %s", start, end)
		readings, err = sess.store.FetchByDateRange(sess.ctx, start, end)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to fetch readings", err)
	}

	if formatter.JSON() {
		return formatter.Success(ListResult{Readings: readings, Count: len(readings)})
	}

	w := formatter.Writer
	if len(readings) == 0 {
		fmt.Fprintln(w, "No readings.")
		return nil
	}
	for _, r := range readings {
		writeReadingLine(w, r)
	}
	fmt.Fprintf(w, "%d reading(s)\n", len(readings))
	return nil
}
