package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/tech-hub161/samity/internal/members"
	"github.com/tech-hub161/samity/internal/report"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate stored ledgers into period and customer reports",
	}
	reportCmd.AddCommand(
		newReportYearCommand(opts),
		newReportMonthCommand(opts),
		newReportWeekCommand(opts),
		newReportRangeCommand(opts),
		newReportCustomerCommand(opts),
		newReportAbsenceCommand(opts),
	)
	return reportCmd
}

// emitTable writes a table to the terminal, or to a CSV file when requested.
func emitTable(cmd *cobra.Command, csvPath string, t report.Table) error {
	if csvPath != "" {
		if err := report.SaveCSV(csvPath, t); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", csvPath)
		return nil
	}
	printTable(cmd.OutOrStdout(), t)
	return nil
}

func parseMonthArg(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing month %q (want YYYY-MM): %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

func newReportYearCommand(opts *rootOptions) *cobra.Command {
	var byCustomer bool
	var csvPath string

	cmd := &cobra.Command{
		Use:   "year <yyyy>",
		Short: "Yearly report across every stored date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parsing year %q: %w", args[0], err)
			}

			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			rep, err := app.Reports.Year(year)
			if err != nil {
				return err
			}
			if byCustomer {
				title := fmt.Sprintf("Customer Summary: %d", year)
				return emitTable(cmd, csvPath, report.SummaryTable(title, report.Customers(rep.Days)))
			}
			return emitTable(cmd, csvPath, report.PeriodTable(rep))
		},
	}

	cmd.Flags().BoolVar(&byCustomer, "by-customer", false, "fold the period into per-customer sums")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the table to a CSV file")
	return cmd
}

func newReportMonthCommand(opts *rootOptions) *cobra.Command {
	var byCustomer bool
	var csvPath string

	cmd := &cobra.Command{
		Use:   "month <yyyy-mm>",
		Short: "Monthly report with per-week subtotals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}

			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			mr, err := app.Reports.Month(year, month)
			if err != nil {
				return err
			}
			if byCustomer {
				title := fmt.Sprintf("Customer Summary: %s %d", month, year)
				return emitTable(cmd, csvPath, report.SummaryTable(title, report.Customers(mr.Days)))
			}
			if err := emitTable(cmd, csvPath, report.PeriodTable(&mr.Report)); err != nil {
				return err
			}
			if csvPath == "" {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out)
				for _, sub := range mr.WeekSubtotals {
					fmt.Fprintf(out, "%s: deposit %s, loan %s\n", sub.Label, sub.Deposit.Round(0), sub.NewLoan.Round(0))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&byCustomer, "by-customer", false, "fold the period into per-customer sums")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the table to a CSV file")
	return cmd
}

func newReportWeekCommand(opts *rootOptions) *cobra.Command {
	var details bool
	var csvPath string

	cmd := &cobra.Command{
		Use:   "week <yyyy-mm> <n>",
		Short: "Weekly report for week n of a month",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, month, err := parseMonthArg(args[0])
			if err != nil {
				return err
			}
			week, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("parsing week %q: %w", args[1], err)
			}

			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			rep, err := app.Reports.Week(year, month, week)
			if err != nil {
				return err
			}
			if err := emitTable(cmd, csvPath, report.PeriodTable(rep)); err != nil {
				return err
			}

			if details && csvPath == "" {
				wd, err := app.Reports.WeekDetails(year, month, week)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "\nCollected: %s\n", wd.Totals.Total.Round(0))
				fmt.Fprintf(out, "Expenses: %s\n", wd.Expenses.Round(0))
				fmt.Fprintf(out, "Outstanding: %s\n", wd.Outstanding.Round(0))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&details, "details", false, "append week-wide sums and expenses")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the table to a CSV file")
	return cmd
}

func newReportRangeCommand(opts *rootOptions) *cobra.Command {
	var byCustomer bool
	var csvPath string

	cmd := &cobra.Command{
		Use:   "range <start> <end>",
		Short: "Report over an inclusive date range",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			rep, err := app.Reports.Range(args[0], args[1])
			if err != nil {
				return err
			}
			if byCustomer {
				title := fmt.Sprintf("Customer Summary: %s to %s", args[0], args[1])
				return emitTable(cmd, csvPath, report.SummaryTable(title, report.Customers(rep.Days)))
			}
			return emitTable(cmd, csvPath, report.PeriodTable(rep))
		},
	}

	cmd.Flags().BoolVar(&byCustomer, "by-customer", false, "fold the period into per-customer sums")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the table to a CSV file")
	return cmd
}

func newReportCustomerCommand(opts *rootOptions) *cobra.Command {
	var start, end string
	var csvPath string

	cmd := &cobra.Command{
		Use:   "customer [name]",
		Short: "One member's history, or the full roster when no name is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if len(args) == 0 {
				return printRoster(cmd, app)
			}

			name := args[0]
			entries, err := app.Reports.History(name, start, end)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no records for %s", name)
			}
			return emitTable(cmd, csvPath, report.HistoryTable(name, entries))
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start date, inclusive")
	cmd.Flags().StringVar(&end, "end", "", "end date, inclusive")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the table to a CSV file")
	return cmd
}

func printRoster(cmd *cobra.Command, app *App) error {
	svc, err := members.Load(app.Store)
	if err != nil {
		return err
	}
	dates, err := app.Store.Dates()
	if err != nil {
		return err
	}

	t := report.Table{
		Title:   fmt.Sprintf("Roster: %d members across %d dates", len(svc.All()), len(dates)),
		Columns: []string{"Name", "Khata", "First Seen", "Last Seen", "Days", "Loan Balance"},
	}
	for _, m := range svc.All() {
		t.Rows = append(t.Rows, []string{
			m.Name,
			m.Khata,
			m.FirstSeen,
			m.LastSeen,
			strconv.Itoa(m.DaysRecorded),
			m.LoanBalance.Round(0).String(),
		})
	}
	printTable(cmd.OutOrStdout(), t)

	if borrowers := svc.Borrowers(); len(borrowers) > 0 {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "\nOutstanding loans:")
		for _, m := range borrowers {
			fmt.Fprintf(out, "  %s: %s (since %s)\n", m.Name, m.LoanBalance.Round(0), m.LoanIssueDate)
		}
	}
	return nil
}

func newReportAbsenceCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "absence <name>",
		Short: "A member's attendance history and missed deposits",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			sum, err := app.Reports.Absence(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Absence Summary: %s\n", sum.Name)
			fmt.Fprintf(out, "Missed days: %d\n", sum.MissedDays)
			fmt.Fprintf(out, "Regular deposit: %s\n", sum.RegularDeposit.Round(0))
			fmt.Fprintf(out, "Missed deposits: %s\n", sum.MissedDeposit.Round(0))
			fmt.Fprintf(out, "Total fines: %s\n", sum.TotalFine.Round(0))
			return nil
		},
	}
}
