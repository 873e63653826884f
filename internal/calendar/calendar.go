package calendar

import (
	"fmt"
	"time"
)

// Calendar answers business-day questions against a set of fixed-date
// holidays. Saturdays, Sundays and configured holidays are non-working days.
type Calendar struct {
	fixed map[monthDay]string
}

type monthDay struct {
	month time.Month
	day   int
}

// New builds a calendar from holiday entries. Entries with type "movable"
// are honored only when they carry an explicit date and year; the calendar
// never computes movable holidays itself.
func New(holidays []Holiday) (*Calendar, error) {
	cal := &Calendar{fixed: make(map[monthDay]string, len(holidays))}
	for _, h := range holidays {
		month, day, err := h.monthDay()
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", h.Name, err)
		}
		cal.fixed[monthDay{month, day}] = h.Name
	}
	return cal, nil
}

// HolidayName returns the configured holiday name for a date, if any.
func (c *Calendar) HolidayName(t time.Time) (string, bool) {
	name, ok := c.fixed[monthDay{t.Month(), t.Day()}]
	return name, ok
}

// IsHoliday reports whether the date matches a fixed-date holiday.
func (c *Calendar) IsHoliday(t time.Time) bool {
	_, ok := c.HolidayName(t)
	return ok
}

// IsBusinessDay reports whether the date is a weekday that is not a holiday.
func (c *Calendar) IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !c.IsHoliday(t)
}

// AddBusinessDays returns the date of the n-th business day strictly after
// start. With n == 0 it rolls start forward (inclusive) to the nearest
// business day, so a zero-length deadline anchored on a weekend still lands
// on a working day. Negative n is an error; the walk never goes backwards.
func (c *Calendar) AddBusinessDays(start time.Time, n int) (time.Time, error) {
	if n < 0 {
		return time.Time{}, fmt.Errorf("%w: negative business day count %d", ErrInvalidCount, n)
	}
	day := dateOf(start)
	if n == 0 {
		for !c.IsBusinessDay(day) {
			day = day.AddDate(0, 0, 1)
		}
		return day, nil
	}
	counted := 0
	for counted < n {
		day = day.AddDate(0, 0, 1)
		if c.IsBusinessDay(day) {
			counted++
		}
	}
	return day, nil
}

// BusinessDaysBetween counts business days after from, up to and including
// to. The result is signed: when to precedes from the count is negative,
// which downstream deadline logic reads as "days overdue".
func (c *Calendar) BusinessDaysBetween(from, to time.Time) int {
	a, b := dateOf(from), dateOf(to)
	if b.Before(a) {
		return -c.BusinessDaysBetween(to, from)
	}
	count := 0
	for day := a.AddDate(0, 0, 1); !day.After(b); day = day.AddDate(0, 0, 1) {
		if c.IsBusinessDay(day) {
			count++
		}
	}
	return count
}

// CalendarDaysBetween counts whole calendar days from from to to, signed.
func CalendarDaysBetween(from, to time.Time) int {
	a, b := dateOf(from), dateOf(to)
	return int(b.Sub(a).Hours() / 24)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
