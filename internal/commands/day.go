package commands

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tech-hub161/samity/internal/importer"
	"github.com/tech-hub161/samity/internal/period"
	"github.com/tech-hub161/samity/internal/report"
)

func newDayCommand(opts *rootOptions) *cobra.Command {
	dayCmd := &cobra.Command{
		Use:   "day",
		Short: "Work with one date's ledger sheet",
	}
	dayCmd.AddCommand(
		newDayShowCommand(opts),
		newDaySaveCommand(opts),
		newDayImportCommand(opts),
	)
	return dayCmd
}

// argDate returns the date argument, defaulting to today.
func argDate(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return time.Now().Format(period.DateFormat)
}

func newDayShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [date]",
		Short: "Show a date's sheet, drafted from the prior ledger when unsaved",
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

			out := cmd.OutOrStdout()
			printTable(out, report.DayTable(view))

			state := "draft"
			if view.Saved {
				state = "saved"
			}
			dates, err := app.Store.Dates()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s sheet, %d dates on record\n", state, len(dates))
			fmt.Fprintf(out, "Opening balance: %s\n", view.OpeningBalance.Round(0))
			if view.Expense != nil {
				fmt.Fprintf(out, "Expense: %s (%s)\n", view.Expense.Amount.Round(0), view.Expense.Name)
			}
			fmt.Fprintf(out, "Outstanding: %s\n", view.Outstanding().Round(0))
			return nil
		},
	}
}

func newDaySaveCommand(opts *rootOptions) *cobra.Command {
	var expenseName string
	var expenseAmount string

	cmd := &cobra.Command{
		Use:   "save [date]",
		Short: "Finalize and save a date's sheet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			date := argDate(args)
			sess, err := app.Ledger.NewSession(date)
			if err != nil {
				return err
			}

			if expenseAmount != "" {
				amount, err := decimal.NewFromString(expenseAmount)
				if err != nil {
					return fmt.Errorf("parsing expense amount %q: %w", expenseAmount, err)
				}
				if err := sess.SetExpense(expenseName, amount); err != nil {
					return err
				}
			}

			final, err := sess.Commit()
			if err != nil {
				return err
			}

			app.recordMutation("day save", date, fmt.Sprintf("%d members", len(final)))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s with %d members\n", date, len(final))
			return nil
		},
	}

	cmd.Flags().StringVar(&expenseName, "expense-name", "", "expense description")
	cmd.Flags().StringVar(&expenseAmount, "expense-amount", "", "expense amount")

	return cmd
}

func newDayImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <date> <file>",
		Short: "Import a day-sheet CSV and save it under a date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			date, path := args[0], args[1]
			rows, err := importer.ParseFile(path)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("day sheet %s has no rows", path)
			}

			final, err := app.Ledger.Save(date, rows, nil)
			if err != nil {
				return err
			}

			app.recordMutation("day import", date, fmt.Sprintf("%d members from %s", len(final), path))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d members into %s\n", len(final), date)
			return nil
		},
	}
}
