package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MemberRecord is one member's row for one ledger date. Deposit, NewLoan,
// Fine, Due and Repayment are entered by the user; Interest, Total and
// LoanBalance are derived and never edited directly. The JSON field names
// are frozen to the backup format, so old backups restore cleanly.
type MemberRecord struct {
	Name          string          `json:"name"`
	Khata         string          `json:"khata"`
	Deposit       decimal.Decimal `json:"deposit"`
	NewLoan       decimal.Decimal `json:"loan"`
	Fine          decimal.Decimal `json:"fine"`
	Due           decimal.Decimal `json:"due"`
	Interest      decimal.Decimal `json:"interest"`
	Repayment     decimal.Decimal `json:"parisodh"`
	Total         decimal.Decimal `json:"total"`
	LoanBalance   decimal.Decimal `json:"totalLoan"`
	LoanIssueDate string          `json:"loanIssueDate,omitempty"` // ISO date, empty if no loan taken yet
	Absent        bool            `json:"isAbsent,omitempty"`

	// WasPreviouslyAbsent flags carried-forward draft rows whose prior entry
	// was absent or had a zero deposit. UI hint only, never persisted.
	WasPreviouslyAbsent bool `json:"-"`
}

// SameName reports whether the record belongs to the given member name.
// Member names are unique per date, compared case-insensitively.
func (r MemberRecord) SameName(name string) bool {
	return strings.EqualFold(r.Name, name)
}

// HasLoan reports whether the member carries a positive outstanding balance.
func (r MemberRecord) HasLoan() bool {
	return r.LoanBalance.IsPositive()
}

// FindRecord returns the index of the record matching name (case-insensitive),
// or -1.
func FindRecord(records []MemberRecord, name string) int {
	for i, r := range records {
		if r.SameName(name) {
			return i
		}
	}
	return -1
}

// DailyLedger is the ordered set of member records saved under one date.
type DailyLedger struct {
	Date    string
	Records []MemberRecord
}
