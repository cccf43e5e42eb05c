package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	Database string
}

// DeleteResult is the JSON payload of the delete command.
type DeleteResult struct {
	ID string `json:"id"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a reading by id",
		Long: `Delete a reading by the id shown in "bpdiary list".

Deleting an id that does not exist, or was already deleted, succeeds.

Example:
  bpdiary delete 2024-01-10-morning-1704873600000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, args[0], cmd)
		},
	}

	addDatabaseFlag(cmd, &opts.Database)

	return cmd
}

func runDelete(opts *DeleteOptions, id string, cmd *cobra.Command) error {
	sess, err := openSession(opts.RootOptions, opts.Database, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()
	formatter := sess.formatter

	if err := sess.store.DeleteByID(sess.ctx, id); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStorage, "failed to delete reading", err)
	}

	if formatter.JSON() {
		return formatter.Success(DeleteResult{ID: id})
	}
	fmt.Fprintf(formatter.Writer, "Deleted %s\n", id)
	return nil
}
