// Package importer parses day-sheet CSV files into member records. A day
// sheet carries only the editable columns; interest, totals and running
// balances are derived when the sheet is saved.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tech-hub161/samity/internal/model"
)

const (
	numFields   = 7
	colName     = 0
	colKhata    = 1
	colDeposit  = 2
	colLoan     = 3
	colFine     = 4
	colDue      = 5
	colParisodh = 6
)

// Header is the expected first row of a day sheet.
const Header = "name,khata,deposit,loan,fine,due,parisodh"

// Parse reads a day-sheet CSV and returns the editable fields of each row.
func Parse(r io.Reader) ([]model.MemberRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading day sheet CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	if !strings.EqualFold(strings.Join(records[0], ","), Header) {
		return nil, fmt.Errorf("unexpected header %q, want %q", strings.Join(records[0], ","), Header)
	}

	var out []model.MemberRecord
	for i, rec := range records[1:] {
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// ParseFile reads a day sheet from disk.
func ParseFile(path string) ([]model.MemberRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening day sheet: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

func parseRow(rec []string) (model.MemberRecord, error) {
	name := strings.TrimSpace(rec[colName])
	if name == "" {
		return model.MemberRecord{}, fmt.Errorf("empty name")
	}

	row := model.MemberRecord{Name: name, Khata: strings.TrimSpace(rec[colKhata])}

	fields := []struct {
		col  int
		name string
		dst  *decimal.Decimal
	}{
		{colDeposit, "deposit", &row.Deposit},
		{colLoan, "loan", &row.NewLoan},
		{colFine, "fine", &row.Fine},
		{colDue, "due", &row.Due},
		{colParisodh, "parisodh", &row.Repayment},
	}
	for _, f := range fields {
		d, err := parseAmount(rec[f.col])
		if err != nil {
			return model.MemberRecord{}, fmt.Errorf("parsing %s %q: %w", f.name, rec[f.col], err)
		}
		*f.dst = d
	}
	return row, nil
}

// parseAmount reads a whole-unit amount. Blank cells read as zero; fractions
// are rounded the way hand entry is.
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount")
	}
	return d.Round(0), nil
}
