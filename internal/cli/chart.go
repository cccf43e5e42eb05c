package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bpdiary/internal/reading"
	"github.com/roach88/bpdiary/internal/view"
)

// ChartOptions holds flags for the chart command.
type ChartOptions struct {
	*RootOptions
	Database string
	End      string
	Days     int // 0 means the configured window
}

// NewChartCommand creates the chart command.
func NewChartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChartOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Show the trend over a window of days",
		Long: `Show morning and evening pressure for every day of a window.

The window always spans exactly --days days ending at --end (today by
default). Days without a reading show "-" in text output and null in JSON;
they are never reported as zero.

Examples:
  bpdiary chart
  bpdiary chart --days 7 --end 2024-01-31
  bpdiary chart --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(opts, cmd)
		},
	}

	addDatabaseFlag(cmd, &opts.Database)
	cmd.Flags().StringVar(&opts.End, "end", "", "last day of the window (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&opts.Days, "days", 0, "window size in days (default from config, 30)")

	return cmd
}

func runChart(opts *ChartOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts.RootOptions, opts.Database, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	formatter := sess.formatter

	end := view.ChartWindowEnd(sess.localNow())
	if opts.End != "" {
		if end, err = reading.ParseDate(opts.End); err != nil {
			return formatter.Fail(ExitFailure, ErrCodeInvalidArgs, "invalid --end", err)
		}
	}

	days := sess.cfg.Chart.Days
	if cmd.Flags().Changed("days") {
		if opts.Days <= 0 || opts.Days > view.MaxWindow {
			return formatter.Fail(ExitFailure, ErrCodeInvalidArgs,
				fmt.Sprintf("invalid --days: must be between 1 and %d", view.MaxWindow), nil)
		}
		days = opts.Days
	}

	readings, err := sess.store.FetchAll(sess.ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to fetch readings", err)
	}

	series := view.BuildChartSeries(readings, end, days)
	formatter.VerboseLog("Charted %d day(s) ending %s from %d reading(s)", len(series.Points), end, len(readings))

	if formatter.JSON() {
		return formatter.Success(series)
	}

	writeChart(formatter.Writer, series)
	return nil
}
