// Package members builds a roster index over every stored ledger. The store
// keeps records per date; this package answers "who has ever been a member"
// style questions for the CLI and reports.
package members

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tech-hub161/samity/internal/store"
)

// Member is one person's roster entry, folded across all dates they appear
// on. Khata and loan figures reflect the most recent record.
type Member struct {
	Name          string
	Khata         string
	FirstSeen     string
	LastSeen      string
	LoanBalance   decimal.Decimal
	LoanIssueDate string
	DaysRecorded  int
}

// Service provides in-memory lookup over the roster.
type Service struct {
	members []Member
	byName  map[string]int
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Load scans every stored date and builds a Service.
func Load(st *store.Store) (*Service, error) {
	dates, err := st.Dates()
	if err != nil {
		return nil, err
	}

	byName := make(map[string]*Member)
	for _, date := range dates {
		records, err := st.Ledger(date)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			key := normalize(rec.Name)
			if key == "" {
				continue
			}
			m, ok := byName[key]
			if !ok {
				m = &Member{Name: rec.Name, FirstSeen: date}
				byName[key] = m
			}
			// Dates arrive ascending, so the last write wins.
			m.Name = rec.Name
			m.LastSeen = date
			m.LoanBalance = rec.LoanBalance
			m.LoanIssueDate = rec.LoanIssueDate
			m.DaysRecorded++
			if rec.Khata != "" {
				m.Khata = rec.Khata
			}
		}
	}

	members := make([]Member, 0, len(byName))
	for _, m := range byName {
		members = append(members, *m)
	}
	sort.Slice(members, func(i, j int) bool {
		return normalize(members[i].Name) < normalize(members[j].Name)
	})

	idx := make(map[string]int, len(members))
	for i, m := range members {
		idx[normalize(m.Name)] = i
	}
	return &Service{members: members, byName: idx}, nil
}

// All returns the roster sorted by name.
func (s *Service) All() []Member {
	return s.members
}

// Get returns a member by name, case-insensitively.
func (s *Service) Get(name string) (Member, bool) {
	i, ok := s.byName[normalize(name)]
	if !ok {
		return Member{}, false
	}
	return s.members[i], true
}

// Exists reports whether a name is on the roster.
func (s *Service) Exists(name string) bool {
	_, ok := s.byName[normalize(name)]
	return ok
}

// Borrowers returns members carrying a positive loan balance, sorted by
// balance descending.
func (s *Service) Borrowers() []Member {
	var out []Member
	for _, m := range s.members {
		if m.LoanBalance.IsPositive() {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LoanBalance.GreaterThan(out[j].LoanBalance)
	})
	return out
}
