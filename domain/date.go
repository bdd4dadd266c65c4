package domain

import "time"

// Date is a calendar day, the only granularity this system's dates need
// (ISO 8601 YYYY-MM-DD per §6 of the spec). Modeled as its own type rather
// than a bare time.Time so callers can't accidentally compare dates with
// differing wall-clock components.
type Date struct {
	t time.Time
}

// NewDate constructs a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "YYYY-MM-DD" string. Unparseable input returns
// (zero Date, false) — callers decide per §4/§7 whether that's a
// data-shape failure (required date) or a row-level gap (optional date).
func ParseDate(s string) (Date, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, false
	}
	return Date{t: t}, true
}

func (d Date) String() string { return d.t.Format("2006-01-02") }

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(o Date) bool        { return d.t.Before(o.t) }
func (d Date) After(o Date) bool         { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool         { return d.t.Equal(o.t) }
func (d Date) BeforeOrEqual(o Date) bool { return d.Before(o) || d.Equal(o) }
func (d Date) AfterOrEqual(o Date) bool  { return d.After(o) || d.Equal(o) }

func (d Date) AddDays(n int) Date   { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{t: d.t.AddDate(0, n, 0)} }
func (d Date) AddYears(n int) Date  { return Date{t: d.t.AddDate(n, 0, 0)} }

// DaysBetween returns to - from, in whole days.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// Weekday of the week starting at weekStart containing this date, such
// that WeekDays(weekStart) always returns the 7 dates [weekStart..weekStart+6].
func WeekDays(weekStart Date) [7]Date {
	var days [7]Date
	for i := 0; i < 7; i++ {
		days[i] = weekStart.AddDays(i)
	}
	return days
}

// Overlaps reports whether [aStart, aEnd] and [bStart, bEnd] intersect,
// both closed intervals.
func Overlaps(aStart, aEnd, bStart, bEnd Date) bool {
	return aStart.BeforeOrEqual(bEnd) && bStart.BeforeOrEqual(aEnd)
}
