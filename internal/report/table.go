package report

import (
	"github.com/shopspring/decimal"

	"github.com/tech-hub161/samity/internal/ledger"
	"github.com/tech-hub161/samity/internal/model"
)

// Table is the single hand-off structure between the aggregation engine and
// any renderer (terminal, CSV, PDF). Renderers never reach back into the
// engine.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	Footer  []string // optional column-wise sums; empty when absent
}

// Column order is fixed across every report.
var ledgerColumns = []string{
	"Name", "Khata", "Deposit", "Loan", "Fine", "Due",
	"Interest", "Parisodh", "Total", "Total Loan",
}

// cell rounds at the projection boundary only; aggregation upstream keeps
// exact decimals.
func cell(d decimal.Decimal) string {
	return d.Round(0).String()
}

func recordRow(r model.MemberRecord) []string {
	return []string{
		r.Name,
		r.Khata,
		cell(r.Deposit),
		cell(r.NewLoan),
		cell(r.Fine),
		cell(r.Due),
		cell(r.Interest),
		cell(r.Repayment),
		cell(r.Total),
		cell(r.LoanBalance),
	}
}

// totalsFooter sums every numeric column; the running balance column is
// deliberately left blank.
func totalsFooter(t Totals) []string {
	return []string{
		"Total",
		"",
		cell(t.Deposit),
		cell(t.NewLoan),
		cell(t.Fine),
		cell(t.Due),
		cell(t.Interest),
		cell(t.Repayment),
		cell(t.Total),
		"",
	}
}

// DayTable projects a single date's ledger with a summary footer.
func DayTable(view *ledger.DayView) Table {
	t := Table{
		Title:   "Daily Ledger: " + view.Date,
		Columns: ledgerColumns,
	}
	var totals Totals
	for _, r := range view.Records {
		t.Rows = append(t.Rows, recordRow(r))
		totals.add(r)
	}
	t.Footer = totalsFooter(totals)
	return t
}

// PeriodTable projects a period report: every day's rows in chronological
// order with a grand-total footer.
func PeriodTable(rep *Report) Table {
	t := Table{
		Title:   rep.Title,
		Columns: ledgerColumns,
	}
	for _, d := range rep.Days {
		for _, r := range d.Records {
			t.Rows = append(t.Rows, recordRow(r))
		}
	}
	t.Footer = totalsFooter(rep.Totals)
	return t
}

// SummaryTable projects per-customer sums. Running balances are omitted
// above day granularity, so that column stays blank.
func SummaryTable(title string, summaries []CustomerSummary) Table {
	t := Table{
		Title:   title,
		Columns: ledgerColumns,
	}
	var grand Totals
	for _, cs := range summaries {
		t.Rows = append(t.Rows, []string{
			cs.Name,
			cs.Khata,
			cell(cs.Deposit),
			cell(cs.NewLoan),
			cell(cs.Fine),
			cell(cs.Due),
			cell(cs.Interest),
			cell(cs.Repayment),
			cell(cs.Total),
			"",
		})
		grand.Deposit = grand.Deposit.Add(cs.Deposit)
		grand.NewLoan = grand.NewLoan.Add(cs.NewLoan)
		grand.Fine = grand.Fine.Add(cs.Fine)
		grand.Due = grand.Due.Add(cs.Due)
		grand.Interest = grand.Interest.Add(cs.Interest)
		grand.Repayment = grand.Repayment.Add(cs.Repayment)
		grand.Total = grand.Total.Add(cs.Total)
	}
	t.Footer = totalsFooter(grand)
	return t
}

// HistoryTable projects one member's chronological records with a leading
// date column. Day-level rows keep their running balance.
func HistoryTable(name string, entries []HistoryEntry) Table {
	t := Table{
		Title:   "Customer History: " + name,
		Columns: append([]string{"Date"}, ledgerColumns...),
	}
	var totals Totals
	for _, entry := range entries {
		t.Rows = append(t.Rows, append([]string{entry.Date}, recordRow(entry.Record)...))
		totals.add(entry.Record)
	}
	t.Footer = append([]string{""}, totalsFooter(totals)...)
	return t
}
