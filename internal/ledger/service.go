package ledger

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tech-hub161/samity/internal/model"
	"github.com/tech-hub161/samity/internal/period"
	"github.com/tech-hub161/samity/internal/store"
)

// Service provides the store-backed ledger operations. It holds no state of
// its own; every call re-derives from the store.
type Service struct {
	store *store.Store
	rules Rules
	log   zerolog.Logger
}

// NewService creates a ledger Service.
func NewService(st *store.Store, rules Rules, log zerolog.Logger) *Service {
	return &Service{store: st, rules: rules, log: log}
}

// Rules returns the interest rules the service applies.
func (s *Service) Rules() Rules { return s.rules }

// Store returns the underlying record store.
func (s *Service) Store() *store.Store { return s.store }

// DayView is what the UI renders for one date: either the saved ledger
// (authoritative) or a draft carried forward from the most recent prior
// date.
type DayView struct {
	Date           string
	Records        []model.MemberRecord
	Expense        *model.ExpenseEntry
	Saved          bool
	OpeningBalance decimal.Decimal // cumulative (totals - expenses) of all earlier dates
}

// TotalSum returns the sum of the Total column.
func (v *DayView) TotalSum() decimal.Decimal {
	sum := decimal.Zero
	for _, r := range v.Records {
		sum = sum.Add(r.Total)
	}
	return sum
}

// Outstanding returns the group's cash position as of this view. An unsaved
// draft only shows the balance carried from previous days; once saved, the
// day's own net is included.
func (v *DayView) Outstanding() decimal.Decimal {
	if !v.Saved {
		return v.OpeningBalance
	}
	expense := decimal.Zero
	if v.Expense != nil {
		expense = v.Expense.Amount
	}
	return v.OpeningBalance.Add(v.TotalSum()).Sub(expense)
}

// Prior returns the ledger of the most recent stored date strictly before
// date, along with that date. Returns nil and an empty date when no earlier
// ledger exists.
func (s *Service) Prior(date string) ([]model.MemberRecord, string, error) {
	dates, err := s.store.Dates()
	if err != nil {
		return nil, "", err
	}

	priorDate := ""
	for _, d := range dates {
		if d >= date {
			break
		}
		priorDate = d
	}
	if priorDate == "" {
		return nil, "", nil
	}

	records, err := s.store.Ledger(priorDate)
	if err != nil {
		return nil, "", err
	}
	return records, priorDate, nil
}

// LoadForDate returns the saved ledger for a date verbatim, or synthesizes a
// draft from the most recent prior date: deposits are carried for fast
// repeat entry, the running balance and loan issue date carry unchanged, and
// the variable fields reset to zero pending user edits.
func (s *Service) LoadForDate(date string) (*DayView, error) {
	if _, err := period.ParseDate(date); err != nil {
		return nil, ValidationError{Reason: err.Error()}
	}

	opening, err := s.openingBalance(date)
	if err != nil {
		return nil, err
	}

	expense, err := s.store.Expense(date)
	if err != nil {
		return nil, err
	}

	saved, err := s.store.Ledger(date)
	if err != nil {
		return nil, err
	}
	if len(saved) > 0 {
		return &DayView{Date: date, Records: saved, Expense: expense, Saved: true, OpeningBalance: opening}, nil
	}

	prior, _, err := s.Prior(date)
	if err != nil {
		return nil, err
	}

	draft := make([]model.MemberRecord, 0, len(prior))
	for _, p := range prior {
		draft = append(draft, model.MemberRecord{
			Name:                p.Name,
			Khata:               p.Khata,
			Deposit:             p.Deposit,
			LoanBalance:         p.LoanBalance,
			LoanIssueDate:       p.LoanIssueDate,
			WasPreviouslyAbsent: p.Absent || p.Deposit.IsZero(),
		})
	}
	return &DayView{Date: date, Records: draft, Expense: expense, OpeningBalance: opening}, nil
}

// Save recalculates every row against the prior ledger, validates the result
// and atomically overwrites the date's key. The finalized rows are returned.
// A non-nil expense entry is saved alongside under the parallel namespace.
func (s *Service) Save(date string, records []model.MemberRecord, expense *model.ExpenseEntry) ([]model.MemberRecord, error) {
	asOf, err := period.ParseDate(date)
	if err != nil {
		return nil, ValidationError{Reason: err.Error()}
	}

	prior, _, err := s.Prior(date)
	if err != nil {
		return nil, err
	}

	final := make([]model.MemberRecord, len(records))
	for i, r := range records {
		var p *model.MemberRecord
		if j := model.FindRecord(prior, r.Name); j >= 0 {
			p = &prior[j]
		}
		final[i] = Calculate(r, p, asOf, s.rules)
	}

	if verrs := ValidateLedger(final); len(verrs) > 0 {
		return nil, joinValidationErrors(verrs)
	}

	if err := s.store.SetLedger(date, final); err != nil {
		return nil, err
	}
	if expense != nil {
		// An empty entry clears the date's expense, like an empty ledger
		// clears its date key.
		if expense.Name == "" && expense.Amount.IsZero() {
			if err := s.store.DeleteExpense(date); err != nil {
				return nil, err
			}
		} else if err := s.store.SetExpense(date, *expense); err != nil {
			return nil, err
		}
	}

	s.log.Info().Str("date", date).Int("members", len(final)).Msg("ledger saved")
	return final, nil
}

// DeleteDate removes a date's ledger and its expense entry.
func (s *Service) DeleteDate(date string) error {
	if err := s.store.DeleteLedger(date); err != nil {
		return err
	}
	if err := s.store.DeleteExpense(date); err != nil {
		return err
	}
	s.log.Info().Str("date", date).Msg("ledger deleted")
	return nil
}

// DeleteMember removes one member's record from a saved date. Removing the
// last record removes the date key itself. Reports whether a record matched.
func (s *Service) DeleteMember(date, name string) (bool, error) {
	records, err := s.store.Ledger(date)
	if err != nil {
		return false, err
	}

	i := model.FindRecord(records, name)
	if i < 0 {
		return false, nil
	}

	records = append(records[:i], records[i+1:]...)
	if err := s.store.SetLedger(date, records); err != nil {
		return false, err
	}
	s.log.Info().Str("date", date).Str("member", name).Msg("member record deleted")
	return true, nil
}

func (s *Service) openingBalance(date string) (decimal.Decimal, error) {
	dates, err := s.store.Dates()
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, d := range dates {
		if d >= date {
			break
		}
		records, err := s.store.Ledger(d)
		if err != nil {
			return decimal.Zero, err
		}
		for _, r := range records {
			balance = balance.Add(r.Total)
		}
		expense, err := s.store.Expense(d)
		if err != nil {
			return decimal.Zero, err
		}
		if expense != nil {
			balance = balance.Sub(expense.Amount)
		}
	}
	return balance, nil
}
