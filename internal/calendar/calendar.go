// Package calendar computes trading days used to date volatility forecasts.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Calendar names accepted by New.
const (
	Weekdays = "weekdays"
	B3       = "b3"
)

// Calendar decides whether a date is a trading day.
type Calendar interface {
	Name() string
	IsTradingDay(d time.Time) bool
}

// New returns the calendar registered under name (case-insensitive).
func New(name string) (Calendar, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Weekdays:
		return weekdayCalendar{}, nil
	case B3:
		return b3Calendar{}, nil
	default:
		return nil, fmt.Errorf("unknown trading calendar %q", name)
	}
}

// MustNew is New for names known to be valid; it panics otherwise.
func MustNew(name string) Calendar {
	c, err := New(name)
	if err != nil {
		panic(err)
	}
	return c
}

// NextTradingDays returns the n trading days strictly after from, ascending.
// Dates are midnight in from's location.
func NextTradingDays(c Calendar, from time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	d := truncateToDate(from)
	for len(out) < n {
		d = d.AddDate(0, 0, 1)
		if c.IsTradingDay(d) {
			out = append(out, d)
		}
	}
	return out
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func isWeekend(d time.Time) bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// weekdayCalendar treats every Monday-Friday as a trading day.
type weekdayCalendar struct{}

func (weekdayCalendar) Name() string { return Weekdays }

func (weekdayCalendar) IsTradingDay(d time.Time) bool { return !isWeekend(d) }
