package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tech-hub161/samity/internal/report"
)

func newExportCommand(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [date]",
		Short: "Export a date's ledger table as CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			date := argDate(args)
			view, err := app.Ledger.LoadForDate(date)
			if err != nil {
				return err
			}
			if !view.Saved {
				return fmt.Errorf("no saved ledger for %s", date)
			}

			path := out
			if path == "" {
				path = filepath.Join(app.Dir, "exports", "samity-"+date+".csv")
			}
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating export dir: %w", err)
			}
			if err := report.SaveCSV(path, report.DayTable(view)); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default exports/samity-<date>.csv)")

	return cmd
}
