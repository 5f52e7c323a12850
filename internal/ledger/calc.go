// Package ledger implements the daily ledger rules: per-row derivation of
// interest, totals and the running loan balance, carry-forward drafts for
// dates with no saved data, and validated saves.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tech-hub161/samity/internal/model"
	"github.com/tech-hub161/samity/internal/period"
)

// Rules control interest accrual on carried loan balances.
type Rules struct {
	InterestRate decimal.Decimal // simple weekly rate charged on the carried balance
	GraceDays    int             // days after loan issue before interest starts
}

// DefaultRules returns the group's standing terms: 1% weekly after a 7-day
// grace period.
func DefaultRules() Rules {
	return Rules{InterestRate: decimal.NewFromFloat(0.01), GraceDays: 7}
}

// Calculate derives Interest, Total and LoanBalance for one row from the
// member's most recent prior record. Interest accrues only while the carried
// balance is positive, a loan issue date exists, and the grace period has
// elapsed; it is simple interest on the carried balance, not compounded
// within the week. The loan issue date is stamped the first time a new loan
// is entered and is never cleared, even when the balance returns to zero.
func Calculate(rec model.MemberRecord, prior *model.MemberRecord, asOf time.Time, rules Rules) model.MemberRecord {
	prevBalance := decimal.Zero
	if prior != nil {
		prevBalance = prior.LoanBalance
	}

	if rec.NewLoan.IsPositive() && rec.LoanIssueDate == "" {
		rec.LoanIssueDate = period.FormatDate(asOf)
	}

	rec.Interest = decimal.Zero
	if prevBalance.IsPositive() && rec.LoanIssueDate != "" {
		if issued, err := period.ParseDate(rec.LoanIssueDate); err == nil {
			if period.DaysBetween(issued, asOf) >= rules.GraceDays {
				rec.Interest = prevBalance.Mul(rules.InterestRate).Round(0)
			}
		}
	}

	rec.Total = rec.Deposit.
		Add(rec.Fine).
		Add(rec.Due).
		Add(rec.Interest).
		Add(rec.Repayment).
		Round(0)
	rec.LoanBalance = prevBalance.Add(rec.NewLoan).Sub(rec.Repayment).Round(0)
	return rec
}
