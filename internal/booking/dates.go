package booking

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DatePolicy decides which calendar days can be picked. Days are evaluated in
// the clinic's timezone.
type DatePolicy struct {
	loc *time.Location
	now func() time.Time
}

// NewDatePolicy builds a policy. nil arguments fall back to UTC and time.Now.
func NewDatePolicy(loc *time.Location, now func() time.Time) DatePolicy {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return DatePolicy{loc: loc, now: now}
}

// Location returns the clinic timezone.
func (p DatePolicy) Location() *time.Location {
	return p.loc
}

// Now returns the current instant.
func (p DatePolicy) Now() time.Time {
	return p.now()
}

// Day truncates t to midnight of its calendar day in the clinic timezone.
func (p DatePolicy) Day(t time.Time) time.Time {
	t = t.In(p.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.loc)
}

// Today is midnight of the current day.
func (p DatePolicy) Today() time.Time {
	return p.Day(p.now())
}

// Selectable reports whether day can be booked: not before today and not on
// a Saturday or Sunday.
func (p DatePolicy) Selectable(day time.Time) bool {
	day = p.Day(day)
	if day.Before(p.Today()) {
		return false
	}
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return true
}

// NextSelectable returns the nearest selectable day, today included.
func (p DatePolicy) NextSelectable() time.Time {
	day := p.Today()
	for !p.Selectable(day) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// SelectableDates lists the first n selectable days on or after from.
func (p DatePolicy) SelectableDates(from time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	day := p.Day(from)
	if today := p.Today(); day.Before(today) {
		day = today
	}
	out := make([]time.Time, 0, n)
	for len(out) < n {
		if p.Selectable(day) {
			out = append(out, day)
		}
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// ParseDate reads a YYYY-MM-DD day in the clinic timezone.
func (p DatePolicy) ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(raw), p.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return t, nil
}

// FormatLongDate renders a day like "May 20th, 2025".
func FormatLongDate(t time.Time) string {
	return fmt.Sprintf("%s %d%s, %d", t.Month().String(), t.Day(), ordinalSuffix(t.Day()), t.Year())
}

func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
