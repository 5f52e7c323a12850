package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tech-hub161/samity/internal/model"
	"github.com/tech-hub161/samity/internal/period"
)

// Totals accumulates every summable column. Running loan balances are not
// summed anywhere; a balance is a point-in-time value, meaningless as a
// period aggregate.
type Totals struct {
	Deposit   decimal.Decimal
	NewLoan   decimal.Decimal
	Fine      decimal.Decimal
	Due       decimal.Decimal
	Interest  decimal.Decimal
	Repayment decimal.Decimal
	Total     decimal.Decimal
}

func (t *Totals) add(r model.MemberRecord) {
	t.Deposit = t.Deposit.Add(r.Deposit)
	t.NewLoan = t.NewLoan.Add(r.NewLoan)
	t.Fine = t.Fine.Add(r.Fine)
	t.Due = t.Due.Add(r.Due)
	t.Interest = t.Interest.Add(r.Interest)
	t.Repayment = t.Repayment.Add(r.Repayment)
	t.Total = t.Total.Add(r.Total)
}

// Report is a period's ledgers in chronological order plus their grand
// totals.
type Report struct {
	Title  string
	Days   []DayLedger
	Totals Totals
}

func newReport(title string, days []DayLedger) *Report {
	r := &Report{Title: title, Days: days}
	for _, d := range days {
		for _, rec := range d.Records {
			r.Totals.add(rec)
		}
	}
	return r
}

// Year aggregates every ledger stored under one year.
func (e *Engine) Year(year int) (*Report, error) {
	g, err := e.Grouping()
	if err != nil {
		return nil, err
	}
	yg, err := g.Year(year)
	if err != nil {
		return nil, err
	}
	return newReport(fmt.Sprintf("Yearly Report: %d", year), yg.Days()), nil
}

// WeekSubtotal is one week's deposit and loan volume, exposed by the month
// view for charting.
type WeekSubtotal struct {
	Week    int
	Label   string
	Deposit decimal.Decimal
	NewLoan decimal.Decimal
}

// MonthReport is a month's ledgers plus per-week subtotals.
type MonthReport struct {
	Report
	WeekSubtotals []WeekSubtotal
}

// Month aggregates every ledger stored under one month.
func (e *Engine) Month(year int, month time.Month) (*MonthReport, error) {
	g, err := e.Grouping()
	if err != nil {
		return nil, err
	}
	mg, err := g.Month(year, month)
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Monthly Report: %s, %d", month, year)
	mr := &MonthReport{Report: *newReport(title, mg.Days())}
	for _, w := range mg.Weeks {
		sub := WeekSubtotal{Week: w.Week, Label: w.Label}
		for _, d := range w.Days {
			for _, rec := range d.Records {
				sub.Deposit = sub.Deposit.Add(rec.Deposit)
				sub.NewLoan = sub.NewLoan.Add(rec.NewLoan)
			}
		}
		mr.WeekSubtotals = append(mr.WeekSubtotals, sub)
	}
	return mr, nil
}

// Week lists one week bucket's ledgers date by date. A week view is a
// concatenation, not a sum; WeekDetails carries the sums.
func (e *Engine) Week(year int, month time.Month, week int) (*Report, error) {
	g, err := e.Grouping()
	if err != nil {
		return nil, err
	}
	wg, err := g.Week(year, month, week)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Weekly Report: %s, %s %d", wg.Label, month, year)
	return newReport(title, wg.Days), nil
}

// WeekDetails sums every numeric field across a week bucket and nets the
// week's expenses into an outstanding figure.
type WeekDetails struct {
	Totals      Totals
	Expenses    decimal.Decimal
	Outstanding decimal.Decimal
}

// WeekDetails computes the week-wide sums for the details view.
func (e *Engine) WeekDetails(year int, month time.Month, week int) (*WeekDetails, error) {
	rep, err := e.Week(year, month, week)
	if err != nil {
		return nil, err
	}

	d := &WeekDetails{Totals: rep.Totals}
	for _, dayLedger := range rep.Days {
		exp, err := e.store.Expense(dayLedger.Date)
		if err != nil {
			return nil, err
		}
		if exp != nil {
			d.Expenses = d.Expenses.Add(exp.Amount)
		}
	}
	d.Outstanding = d.Totals.Total.Sub(d.Expenses)
	return d, nil
}

// Range aggregates every ledger whose date falls within [start, end], both
// inclusive.
func (e *Engine) Range(start, end string) (*Report, error) {
	if _, err := period.ParseDate(start); err != nil {
		return nil, err
	}
	if _, err := period.ParseDate(end); err != nil {
		return nil, err
	}
	if end < start {
		return nil, fmt.Errorf("range end %s is before start %s", end, start)
	}

	dates, err := e.store.Dates()
	if err != nil {
		return nil, err
	}

	var days []DayLedger
	for _, date := range dates {
		if date < start || date > end {
			continue
		}
		records, err := e.store.Ledger(date)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			continue
		}
		t, _ := period.ParseDate(date)
		days = append(days, DayLedger{Date: date, Weekday: t.Weekday().String(), Records: records})
	}
	return newReport(fmt.Sprintf("Range Report: %s to %s", start, end), days), nil
}

// CustomerSummary is one member's sums over a period.
type CustomerSummary struct {
	Name  string
	Khata string
	Totals
}

// Customers folds a set of day ledgers into per-member sums, keyed by
// normalized name and sorted by name. The khata shown is the most recent
// one on record within the period.
func Customers(days []DayLedger) []CustomerSummary {
	byName := make(map[string]*CustomerSummary)
	for _, d := range days {
		for _, rec := range d.Records {
			key := strings.ToLower(strings.TrimSpace(rec.Name))
			cs, ok := byName[key]
			if !ok {
				cs = &CustomerSummary{Name: rec.Name}
				byName[key] = cs
			}
			if rec.Khata != "" {
				cs.Khata = rec.Khata
			}
			cs.add(rec)
		}
	}

	out := make([]CustomerSummary, 0, len(byName))
	for _, cs := range byName {
		out = append(out, *cs)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// HistoryEntry is one member's record on one date.
type HistoryEntry struct {
	Date   string
	Record model.MemberRecord
}

// History returns a member's chronological records, optionally bounded by an
// inclusive date range (empty bounds are open). An unknown member yields an
// empty history, not an error.
func (e *Engine) History(name, start, end string) ([]HistoryEntry, error) {
	dates, err := e.store.Dates()
	if err != nil {
		return nil, err
	}

	var entries []HistoryEntry
	for _, date := range dates {
		if (start != "" && date < start) || (end != "" && date > end) {
			continue
		}
		records, err := e.store.Ledger(date)
		if err != nil {
			return nil, err
		}
		if i := model.FindRecord(records, name); i >= 0 {
			entries = append(entries, HistoryEntry{Date: date, Record: records[i]})
		}
	}
	return entries, nil
}

// AbsenceSummary describes a member's attendance history: how many stored
// dates they missed (explicit flag or zero deposit), the deposit volume those
// misses represent, and their lifetime fines.
type AbsenceSummary struct {
	Name           string
	MissedDays     int
	RegularDeposit decimal.Decimal // last non-zero deposit on record
	MissedDeposit  decimal.Decimal
	TotalFine      decimal.Decimal
}

// Absence scans a member's full history for the absence details view.
func (e *Engine) Absence(name string) (*AbsenceSummary, error) {
	entries, err := e.History(name, "", "")
	if err != nil {
		return nil, err
	}

	sum := &AbsenceSummary{Name: name}
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Record.Deposit.IsPositive() {
			sum.RegularDeposit = entries[i].Record.Deposit
			break
		}
	}

	for _, entry := range entries {
		if entry.Record.Absent || entry.Record.Deposit.IsZero() {
			sum.MissedDays++
			sum.MissedDeposit = sum.MissedDeposit.Add(sum.RegularDeposit)
		}
		sum.TotalFine = sum.TotalFine.Add(entry.Record.Fine)
	}
	return sum, nil
}
