package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tech-hub161/samity/internal/ledger"
	"github.com/tech-hub161/samity/internal/model"
)

// amountFlag parses an optional decimal flag. Empty means "leave unchanged".
func amountFlag(name, value string) (*decimal.Decimal, error) {
	if value == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("parsing --%s %q: %w", name, value, err)
	}
	return &d, nil
}

func newEntryCommand(opts *rootOptions) *cobra.Command {
	var date string
	var khata string
	var deposit, loan, fine, due, parisodh string

	cmd := &cobra.Command{
		Use:   "entry <name>",
		Short: "Record a member's columns on a date's sheet",
		Long: `Record a member's editable columns on a date's sheet. Interest, total and
the running loan balance are derived; an unknown name joins the sheet.`,
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

			if model.FindRecord(sess.Records(), name) < 0 {
				if _, err := sess.AddMember(name, khata); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to %s\n", name, day)
			} else if khata != "" {
				if err := sess.SetKhata(name, khata); err != nil {
					return err
				}
			}

			amounts := ledger.Amounts{}
			for _, f := range []struct {
				flag  string
				value string
				dst   **decimal.Decimal
			}{
				{"deposit", deposit, &amounts.Deposit},
				{"loan", loan, &amounts.NewLoan},
				{"fine", fine, &amounts.Fine},
				{"due", due, &amounts.Due},
				{"parisodh", parisodh, &amounts.Repayment},
			} {
				d, err := amountFlag(f.flag, f.value)
				if err != nil {
					return err
				}
				*f.dst = d
			}

			rec, err := sess.Update(name, amounts)
			if err != nil {
				return err
			}
			if _, err := sess.Commit(); err != nil {
				return err
			}

			app.recordMutation("entry", day, fmt.Sprintf("%s total %s", rec.Name, rec.Total))
			fmt.Fprintf(cmd.OutOrStdout(), "%s on %s: total %s, loan balance %s\n",
				rec.Name, day, rec.Total, rec.LoanBalance)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "ledger date (default today)")
	cmd.Flags().StringVar(&khata, "khata", "", "khata (passbook) number")
	cmd.Flags().StringVar(&deposit, "deposit", "", "deposit amount")
	cmd.Flags().StringVar(&loan, "loan", "", "new loan issued")
	cmd.Flags().StringVar(&fine, "fine", "", "fine amount")
	cmd.Flags().StringVar(&due, "due", "", "due amount")
	cmd.Flags().StringVar(&parisodh, "parisodh", "", "loan repayment amount")

	return cmd
}
