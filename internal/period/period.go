// Package period derives calendar buckets from ledger date keys. Dates are
// plain local calendar dates; parsing never applies a time zone shift, so a
// key like "2024-03-01" always lands on March 1st regardless of where the
// ledger is opened.
package period

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the canonical sortable layout for ledger date keys.
const DateFormat = "2006-01-02"

// Key locates one date inside the Year -> Month -> Week grouping.
type Key struct {
	Year  int
	Month time.Month
	Week  int // 1-based week-of-month bucket, not an ISO week
	Date  string
}

// ParseDate parses a "YYYY-MM-DD" key as a local calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate returns the canonical key for a date.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// WeekOfMonth returns the 1-based week bucket for a date:
// ceil((day + weekday of the 1st)/7), with Sunday as weekday 0. Buckets have
// variable length; a month can reach a 6th bucket.
func WeekOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	offset := int(first.Weekday())
	return (t.Day() + offset + 6) / 7
}

// KeyFor derives the grouping key for a date.
func KeyFor(t time.Time) Key {
	return Key{
		Year:  t.Year(),
		Month: t.Month(),
		Week:  WeekOfMonth(t),
		Date:  FormatDate(t),
	}
}

// KeyForDate parses a date key and derives its grouping key.
func KeyForDate(date string) (Key, error) {
	t, err := ParseDate(date)
	if err != nil {
		return Key{}, err
	}
	return KeyFor(t), nil
}

// WeekLabel formats a week bucket for display, e.g. "Week 3".
func WeekLabel(week int) string {
	return fmt.Sprintf("Week %d", week)
}

// CompareWeekLabels orders "Week N" labels numerically, so "Week 2" sorts
// before "Week 10".
func CompareWeekLabels(a, b string) int {
	an, aerr := strconv.Atoi(strings.TrimPrefix(a, "Week "))
	bn, berr := strconv.Atoi(strings.TrimPrefix(b, "Week "))
	if aerr != nil || berr != nil {
		return strings.Compare(a, b)
	}
	return an - bn
}

// DaysBetween returns the number of whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
