package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tech-hub161/samity/internal/backup"
	"github.com/tech-hub161/samity/internal/period"
)

func newBackupCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export every stored key as a single JSON backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			path := out
			if path == "" {
				path = "samity-backup-" + time.Now().Format(period.DateFormat) + ".json"
			}

			sum, err := backup.ExportFile(app.Store, path)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d keys (%d dates) to %s\n", sum.Keys, sum.Dates, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default samity-backup-<today>.json)")

	return cmd
}

func newRestoreCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "restore <file>",
		Short: "Replace all stored data with a backup's contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			sum, err := backup.RestoreFile(app.Store, args[0])
			if err != nil {
				return err
			}

			app.recordMutation("restore", sum.LatestDate, fmt.Sprintf("%d keys from %s", sum.Keys, args[0]))
			if sum.LatestDate != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %d keys, latest ledger %s\n", sum.Keys, sum.LatestDate)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Restored %d keys\n", sum.Keys)
			}
			return nil
		},
	}
}

func newClearCommand(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored ledger and expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force {
				return fmt.Errorf("refusing to clear all data without --force")
			}

			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.Store.ClearAll(); err != nil {
				return err
			}

			app.recordMutation("clear", "", "")
			fmt.Fprintln(cmd.OutOrStdout(), "Cleared all data")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deleting everything")

	return cmd
}
