package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRenameCommand(opts *rootOptions) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Rename a member on a date's sheet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			oldName, newName := args[0], args[1]
			day := argDate(nil)
			if date != "" {
				day = date
			}

			sess, err := app.Ledger.NewSession(day)
			if err != nil {
				return err
			}
			if err := sess.Rename(oldName, newName); err != nil {
				return err
			}
			if _, err := sess.Commit(); err != nil {
				return err
			}

			app.recordMutation("rename", day, oldName+" -> "+newName)
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s on %s\n", oldName, newName, day)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "ledger date (default today)")

	return cmd
}
