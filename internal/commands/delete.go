package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <date> [name]",
		Short: "Delete a date's ledger, or one member's record on it",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			date := args[0]
			if len(args) == 2 {
				name := args[1]
				found, err := app.Ledger.DeleteMember(date, name)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("no record for %s on %s", name, date)
				}
				app.recordMutation("member delete", date, name)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s from %s\n", name, date)
				return nil
			}

			if err := app.Ledger.DeleteDate(date); err != nil {
				return err
			}
			app.recordMutation("day delete", date, "")
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", date)
			return nil
		},
	}

	return cmd
}
