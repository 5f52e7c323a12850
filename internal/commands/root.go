package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tech-hub161/samity/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "samity",
		Short:   "Savings group ledger keeping",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newDayCommand(opts),
		newEntryCommand(opts),
		newAbsentCommand(opts),
		newRenameCommand(opts),
		newDeleteCommand(opts),
		newReportCommand(opts),
		newExportCommand(opts),
		newBackupCommand(opts),
		newRestoreCommand(opts),
		newClearCommand(opts),
	)

	return rootCmd
}
