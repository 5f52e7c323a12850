package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tech-hub161/samity/internal/model"
	"github.com/tech-hub161/samity/internal/period"
)

// Session is one in-memory editing pass over a single date. Edits (including
// renames) only touch the session; nothing reaches the store until Commit.
type Session struct {
	svc     *Service
	date    string
	asOf    time.Time
	records []model.MemberRecord
	prior   []model.MemberRecord
	expense model.ExpenseEntry

	// deposits cached when a member is marked absent, so un-marking
	// restores the entered value.
	depositCache map[string]decimal.Decimal
}

// NewSession loads a date (saved or draft) into an edit session.
func (s *Service) NewSession(date string) (*Session, error) {
	view, err := s.LoadForDate(date)
	if err != nil {
		return nil, err
	}
	prior, _, err := s.Prior(date)
	if err != nil {
		return nil, err
	}
	asOf, err := period.ParseDate(date)
	if err != nil {
		return nil, ValidationError{Reason: err.Error()}
	}

	sess := &Session{
		svc:          s,
		date:         date,
		asOf:         asOf,
		records:      view.Records,
		prior:        prior,
		depositCache: make(map[string]decimal.Decimal),
	}
	if view.Expense != nil {
		sess.expense = *view.Expense
	}
	return sess, nil
}

// Date returns the session's ledger date.
func (sess *Session) Date() string { return sess.date }

// Records returns the session's current rows.
func (sess *Session) Records() []model.MemberRecord { return sess.records }

// Expense returns the session's expense entry.
func (sess *Session) Expense() model.ExpenseEntry { return sess.expense }

func (sess *Session) priorFor(name string) *model.MemberRecord {
	if i := model.FindRecord(sess.prior, name); i >= 0 {
		return &sess.prior[i]
	}
	return nil
}

func (sess *Session) recalc(i int) {
	sess.records[i] = Calculate(sess.records[i], sess.priorFor(sess.records[i].Name), sess.asOf, sess.svc.rules)
}

func (sess *Session) find(name string) (int, error) {
	i := model.FindRecord(sess.records, name)
	if i < 0 {
		return -1, ValidationError{Name: name, Reason: "not in this date's ledger"}
	}
	return i, nil
}

// Amounts carries one edit. Nil fields leave the current value unchanged.
// Entered amounts are rounded to whole units before any derivation.
type Amounts struct {
	Deposit   *decimal.Decimal
	NewLoan   *decimal.Decimal
	Fine      *decimal.Decimal
	Due       *decimal.Decimal
	Repayment *decimal.Decimal
}

// Update applies an edit to a member's row and recalculates it.
func (sess *Session) Update(name string, a Amounts) (model.MemberRecord, error) {
	i, err := sess.find(name)
	if err != nil {
		return model.MemberRecord{}, err
	}

	fields := []struct {
		name string
		src  *decimal.Decimal
		dst  *decimal.Decimal
	}{
		{"deposit", a.Deposit, &sess.records[i].Deposit},
		{"loan", a.NewLoan, &sess.records[i].NewLoan},
		{"fine", a.Fine, &sess.records[i].Fine},
		{"due", a.Due, &sess.records[i].Due},
		{"parisodh", a.Repayment, &sess.records[i].Repayment},
	}

	// Reject the whole edit before writing anything, so a bad field never
	// leaves the row half-updated.
	for _, f := range fields {
		if f.src != nil && f.src.IsNegative() {
			return model.MemberRecord{}, ValidationError{Name: name, Reason: f.name + " cannot be negative"}
		}
	}
	for _, f := range fields {
		if f.src != nil {
			*f.dst = f.src.Round(0)
		}
	}

	sess.recalc(i)
	return sess.records[i], nil
}

// SetKhata updates a member's khata reference.
func (sess *Session) SetKhata(name, khata string) error {
	i, err := sess.find(name)
	if err != nil {
		return err
	}
	sess.records[i].Khata = khata
	return nil
}

// AddMember appends a new row. A returning member (matched case-insensitively
// in the prior ledger) keeps their khata, running balance and loan issue
// date; anyone else starts from zero.
func (sess *Session) AddMember(name, khata string) (model.MemberRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.MemberRecord{}, ValidationError{Reason: "name cannot be empty"}
	}
	if model.FindRecord(sess.records, name) >= 0 {
		return model.MemberRecord{}, ValidationError{Name: name, Reason: "duplicate member name"}
	}

	rec := model.MemberRecord{Name: name, Khata: khata}
	if p := sess.priorFor(name); p != nil {
		if khata == "" {
			rec.Khata = p.Khata
		}
		rec.LoanBalance = p.LoanBalance
		rec.LoanIssueDate = p.LoanIssueDate
	}

	sess.records = append(sess.records, rec)
	sess.recalc(len(sess.records) - 1)
	return sess.records[len(sess.records)-1], nil
}

// Rename changes a member's display name within the session only; it takes
// effect in storage on the next Commit.
func (sess *Session) Rename(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return ValidationError{Reason: "name cannot be empty"}
	}

	i, err := sess.find(oldName)
	if err != nil {
		return err
	}
	if j := model.FindRecord(sess.records, newName); j >= 0 && j != i {
		return ValidationError{Name: newName, Reason: "duplicate member name"}
	}

	sess.records[i].Name = newName
	return nil
}

// MarkAbsent zeroes a member's editable amounts for this date and flags the
// row. The entered deposit is cached so ClearAbsent can restore it. An
// absent row still participates in every calculation with zeroed inputs.
func (sess *Session) MarkAbsent(name string) error {
	i, err := sess.find(name)
	if err != nil {
		return err
	}

	r := &sess.records[i]
	if r.Absent {
		return nil
	}
	sess.depositCache[strings.ToLower(r.Name)] = r.Deposit

	r.Deposit = decimal.Zero
	r.NewLoan = decimal.Zero
	r.Fine = decimal.Zero
	r.Due = decimal.Zero
	r.Repayment = decimal.Zero
	r.Absent = true
	sess.recalc(i)
	return nil
}

// ClearAbsent un-marks a member and restores the cached deposit.
func (sess *Session) ClearAbsent(name string) error {
	i, err := sess.find(name)
	if err != nil {
		return err
	}

	r := &sess.records[i]
	if !r.Absent {
		return nil
	}
	if cached, ok := sess.depositCache[strings.ToLower(r.Name)]; ok {
		r.Deposit = cached
	}
	r.Absent = false
	sess.recalc(i)
	return nil
}

// RemoveMember drops a row from the session.
func (sess *Session) RemoveMember(name string) error {
	i, err := sess.find(name)
	if err != nil {
		return err
	}
	sess.records = append(sess.records[:i], sess.records[i+1:]...)
	return nil
}

// SetExpense records the day's group expense.
func (sess *Session) SetExpense(name string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ValidationError{Reason: "expense cannot be negative"}
	}
	sess.expense = model.ExpenseEntry{Name: name, Amount: amount.Round(0)}
	return nil
}

// Commit recalculates, validates and saves the session's rows and expense.
func (sess *Session) Commit() ([]model.MemberRecord, error) {
	return sess.svc.Save(sess.date, sess.records, &sess.expense)
}
