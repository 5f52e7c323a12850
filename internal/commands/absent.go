package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAbsentCommand(opts *rootOptions) *cobra.Command {
	var date string
	var clear bool

	cmd := &cobra.Command{
		Use:   "absent <name>",
		Short: "Mark a member absent on a date's sheet",
		Long: `Mark a member absent: their editable columns are zeroed while interest
keeps accruing. --clear undoes the mark and restores the cached deposit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			name := args[0]
			day := argDate(nil)
			if date != "" {
				day = date
			}

			sess, err := app.Ledger.NewSession(day)
			if err != nil {
				return err
			}

			action := "absent"
			if clear {
				action = "absent clear"
				err = sess.ClearAbsent(name)
			} else {
				err = sess.MarkAbsent(name)
			}
			if err != nil {
				return err
			}
			if _, err := sess.Commit(); err != nil {
				return err
			}

			app.recordMutation(action, day, name)
			if clear {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is present on %s\n", name, day)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s marked absent on %s\n", name, day)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "ledger date (default today)")
	cmd.Flags().BoolVar(&clear, "clear", false, "clear an absent mark")

	return cmd
}
