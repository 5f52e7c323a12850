// Package report rolls stored daily ledgers up into week, month, year,
// custom-range and per-customer summaries, and projects any of them into a
// generic table that renderers consume. Nothing here caches between
// requests; every report re-reads the store.
package report

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tech-hub161/samity/internal/model"
	"github.com/tech-hub161/samity/internal/period"
	"github.com/tech-hub161/samity/internal/store"
)

// DayLedger is one date's records inside a grouping.
type DayLedger struct {
	Date    string
	Weekday string
	Records []model.MemberRecord
}

// WeekGroup buckets days by the week-of-month formula.
type WeekGroup struct {
	Week  int
	Label string
	Days  []DayLedger
}

// MonthGroup holds a month's week buckets.
type MonthGroup struct {
	Month time.Month
	Weeks []WeekGroup
}

// YearGroup holds a year's months.
type YearGroup struct {
	Year   int
	Months []MonthGroup
}

// Grouping is the Year -> Month -> Week -> Date tree over every stored
// ledger, in ascending chronological order at every level. Display layers
// that want most-recent-first iterate in reverse.
type Grouping struct {
	Years []YearGroup
}

// Engine answers aggregation queries against the record store.
type Engine struct {
	store *store.Store
	log   zerolog.Logger
}

// NewEngine creates an aggregation Engine.
func NewEngine(st *store.Store, log zerolog.Logger) *Engine {
	return &Engine{store: st, log: log}
}

// Grouping builds the period tree from every stored date.
func (e *Engine) Grouping() (*Grouping, error) {
	dates, err := e.store.Dates()
	if err != nil {
		return nil, err
	}

	g := &Grouping{}
	for _, date := range dates {
		key, err := period.KeyForDate(date)
		if err != nil {
			// A stray malformed key is skipped rather than failing the
			// whole report.
			e.log.Warn().Str("date", date).Err(err).Msg("skipping malformed date key")
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
		day := DayLedger{Date: date, Weekday: t.Weekday().String(), Records: records}
		g.place(key, day)
	}
	return g, nil
}

// place appends a day into its year/month/week bucket. Dates arrive in
// ascending order, so buckets are created in order too.
func (g *Grouping) place(key period.Key, day DayLedger) {
	var year *YearGroup
	for i := range g.Years {
		if g.Years[i].Year == key.Year {
			year = &g.Years[i]
			break
		}
	}
	if year == nil {
		g.Years = append(g.Years, YearGroup{Year: key.Year})
		year = &g.Years[len(g.Years)-1]
	}

	var month *MonthGroup
	for i := range year.Months {
		if year.Months[i].Month == key.Month {
			month = &year.Months[i]
			break
		}
	}
	if month == nil {
		year.Months = append(year.Months, MonthGroup{Month: key.Month})
		month = &year.Months[len(year.Months)-1]
	}

	for i := range month.Weeks {
		if month.Weeks[i].Week == key.Week {
			month.Weeks[i].Days = append(month.Weeks[i].Days, day)
			return
		}
	}
	month.Weeks = append(month.Weeks, WeekGroup{
		Week:  key.Week,
		Label: period.WeekLabel(key.Week),
		Days:  []DayLedger{day},
	})
}

// Year returns one year's group.
func (g *Grouping) Year(year int) (*YearGroup, error) {
	for i := range g.Years {
		if g.Years[i].Year == year {
			return &g.Years[i], nil
		}
	}
	return nil, fmt.Errorf("no ledgers recorded in %d", year)
}

// Month returns one month's group.
func (g *Grouping) Month(year int, month time.Month) (*MonthGroup, error) {
	yg, err := g.Year(year)
	if err != nil {
		return nil, err
	}
	for i := range yg.Months {
		if yg.Months[i].Month == month {
			return &yg.Months[i], nil
		}
	}
	return nil, fmt.Errorf("no ledgers recorded in %s %d", month, year)
}

// Week returns one week bucket.
func (g *Grouping) Week(year int, month time.Month, week int) (*WeekGroup, error) {
	mg, err := g.Month(year, month)
	if err != nil {
		return nil, err
	}
	for i := range mg.Weeks {
		if mg.Weeks[i].Week == week {
			return &mg.Weeks[i], nil
		}
	}
	return nil, fmt.Errorf("no ledgers recorded in week %d of %s %d", week, month, year)
}

// Days flattens a year's ledgers in chronological order.
func (yg *YearGroup) Days() []DayLedger {
	var days []DayLedger
	for _, m := range yg.Months {
		days = append(days, m.Days()...)
	}
	return days
}

// Days flattens a month's ledgers in chronological order.
func (mg *MonthGroup) Days() []DayLedger {
	var days []DayLedger
	for _, w := range mg.Weeks {
		days = append(days, w.Days...)
	}
	return days
}
