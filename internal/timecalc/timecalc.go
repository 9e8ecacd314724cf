package timecalc

import (
	"fmt"
	"time"
)

// DateLayout is the layout used for dates on the command line and in output.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day or location.
// It is comparable and can be used as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current date in loc.
func Today(loc *time.Location) Date {
	return DateOf(time.Now().In(loc))
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// StartOfDay returns 00:00:00 of d in loc.
func (d Date) StartOfDay(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

// Before reports whether d is strictly before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly after o.
func (d Date) After(o Date) bool { return d.Compare(o) > 0 }

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	return DateOf(d.StartOfDay(time.UTC).AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.StartOfDay(time.UTC).Weekday()
}

// IsWeekend reports whether d is a Saturday or Sunday.
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ISOWeek returns the ISO-8601 week d belongs to.
func (d Date) ISOWeek() Week {
	year, week := d.StartOfDay(time.UTC).ISOWeek()
	return Week{Year: year, Week: week}
}

func (d Date) String() string {
	return d.StartOfDay(time.UTC).Format(DateLayout)
}

// Week identifies an ISO-8601 week. Year is the ISO week-year, which differs
// from the calendar year for some days around New Year.
type Week struct {
	Year int
	Week int
}

// ParseWeek parses a label like "2026-W09". The week must exist in its
// week-year, so "2023-W53" is rejected.
func ParseWeek(s string) (Week, error) {
	var w Week
	if _, err := fmt.Sscanf(s, "%d-W%d", &w.Year, &w.Week); err != nil || w.Label() != s {
		return Week{}, fmt.Errorf("invalid ISO week %q (want YYYY-Www)", s)
	}
	if w.Week < 1 || w.Week > 53 {
		return Week{}, fmt.Errorf("invalid ISO week %q: week must be 1..53", s)
	}
	if monday, _ := w.Range(); monday.ISOWeek() != w {
		return Week{}, fmt.Errorf("invalid ISO week %q: %d has no week %d", s, w.Year, w.Week)
	}
	return w, nil
}

// Compare orders weeks chronologically.
func (w Week) Compare(o Week) int {
	if w.Year != o.Year {
		return cmpInt(w.Year, o.Year)
	}
	return cmpInt(w.Week, o.Week)
}

// Label returns a label like "2026-W09".
func (w Week) Label() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

func (w Week) String() string { return w.Label() }

// Range returns the Monday and Sunday of w.
func (w Week) Range() (Date, Date) {
	// January 4th is always in week 1 of its ISO week-year.
	jan4 := Date{Year: w.Year, Month: time.January, Day: 4}
	wd := int(jan4.Weekday())
	if wd == 0 {
		wd = 7 // treat Sunday as 7 (ISO)
	}
	monday := jan4.AddDays(-(wd - 1) + (w.Week-1)*7)
	return monday, monday.AddDays(6)
}

// FormatDuration formats d as a human-readable string like "1h 40m" or "45m" or "30s".
func FormatDuration(d time.Duration) string {
	seconds := int64(d / time.Second)
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if m > 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%ds", s)
}

// HoursMinutes splits d into whole hours and remaining whole minutes.
// Seconds are truncated.
func HoursMinutes(d time.Duration) (int64, int64) {
	minutes := int64(d / time.Minute)
	return minutes / 60, minutes % 60
}

// FormatHHMM formats d in the fixed-width report style " 3h 07m".
func FormatHHMM(d time.Duration) string {
	h, m := HoursMinutes(d)
	return fmt.Sprintf("%2dh %02dm", h, m)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
