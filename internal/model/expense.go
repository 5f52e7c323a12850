package model

import "github.com/shopspring/decimal"

// ExpenseEntry is the optional group expense recorded alongside one date's
// ledger. It only feeds the cash-outstanding figure; it is not a member row.
type ExpenseEntry struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}
