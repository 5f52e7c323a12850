package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tech-hub161/samity/internal/model"
)

// ValidationError describes one rejected edit or row. Validation failures
// are never partially applied.
type ValidationError struct {
	Name   string
	Reason string
}

func (e ValidationError) Error() string {
	if e.Name == "" {
		return e.Reason
	}
	return fmt.Sprintf("member %q: %s", e.Name, e.Reason)
}

// ValidateLedger checks a day's rows before save: every row has a name,
// names are unique case-insensitively, and all entered amounts are
// non-negative. The running balance may go negative (over-repayment is a
// modeling choice, not an error).
func ValidateLedger(records []model.MemberRecord) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(records))

	for _, r := range records {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			errs = append(errs, ValidationError{Reason: "name cannot be empty"})
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			errs = append(errs, ValidationError{Name: r.Name, Reason: "duplicate member name"})
		}
		seen[key] = true

		for _, f := range []struct {
			name   string
			amount decimal.Decimal
		}{
			{"deposit", r.Deposit},
			{"loan", r.NewLoan},
			{"fine", r.Fine},
			{"due", r.Due},
			{"parisodh", r.Repayment},
		} {
			if f.amount.IsNegative() {
				errs = append(errs, ValidationError{Name: r.Name, Reason: f.name + " cannot be negative"})
			}
		}
	}
	return errs
}

func joinValidationErrors(errs []ValidationError) error {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
