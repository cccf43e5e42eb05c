package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bpdiary/internal/reading"
	"github.com/roach88/bpdiary/internal/store"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Database  string
	Systolic  int
	Diastolic int
	Pulse     int
	Notes     string
	Slot      string // defaults from the current hour
	Date      string // defaults to today
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a blood pressure reading",
		Long: `Record a blood pressure reading.

The reading is filed under today's date and the current part of the day
(morning before noon, evening after) unless --date or --slot say otherwise.
Values are checked before anything is written:

  systolic   50-250 mmHg
  diastolic  30-150 mmHg
  pulse      30-200 bpm (optional)

Examples:
  bpdiary add --systolic 128 --diastolic 84
  bpdiary add --systolic 142 --diastolic 91 --pulse 70 --notes "after coffee"
  bpdiary add --systolic 118 --diastolic 76 --date 2024-01-09 --slot evening`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	addDatabaseFlag(cmd, &opts.Database)
	cmd.Flags().IntVar(&opts.Systolic, "systolic", 0, "systolic pressure in mmHg (required)")
	_ = cmd.MarkFlagRequired("systolic")
	cmd.Flags().IntVar(&opts.Diastolic, "diastolic", 0, "diastolic pressure in mmHg (required)")
	_ = cmd.MarkFlagRequired("diastolic")
	cmd.Flags().IntVar(&opts.Pulse, "pulse", 0, "pulse in beats per minute")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "free-form note")
	cmd.Flags().StringVar(&opts.Slot, "slot", "", "time of day (morning|evening)")
	cmd.Flags().StringVar(&opts.Date, "date", "", "calendar day (YYYY-MM-DD)")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts.RootOptions, opts.Database, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	formatter := sess.formatter

	now := sess.localNow()

	draft := reading.Draft{
		Date:      reading.DateOf(now),
		TimeSlot:  reading.SlotAt(now),
		Systolic:  opts.Systolic,
		Diastolic: opts.Diastolic,
		Notes:     opts.Notes,
	}
	if opts.Date != "" {
		draft.Date = reading.Date(opts.Date)
	}
	if opts.Slot != "" {
		slot, err := reading.ParseTimeSlot(opts.Slot)
		if err != nil {
			return formatter.Fail(ExitFailure, ErrCodeInvalidArgs, "invalid --slot", err)
		}
		draft.TimeSlot = slot
	}
	if cmd.Flags().Changed("pulse") {
		draft.Pulse = reading.IntPtr(opts.Pulse)
	}

	if err := draft.Validate(); err != nil {
		var verr *reading.ValidationError
		if errors.As(err, &verr) {
			if formatter.JSON() {
				_ = formatter.Error(ErrCodeInvalidReading, "invalid reading", verr.Problems)
			}
			return WrapExitError(ExitFailure, "reading rejected", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to validate reading", err)
	}

	rec, err := sess.store.Insert(sess.ctx, draft)
	if err != nil {
		if errors.Is(err, store.ErrWriteConflict) {
			return formatter.Fail(ExitCommandError, ErrCodeWriteConflict, "failed to insert reading", err)
		}
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to insert reading", err)
	}
	formatter.VerboseLog("Stored reading %s at %d", rec.ID, rec.CreatedAt)

	if formatter.JSON() {
		return formatter.Success(rec)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Added %s (%s)\n", rec.ID, rec.Status().Label())
	return nil
}
