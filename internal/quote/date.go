package quote

import (
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day without a time zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

var dateLayouts = []string{"2006-01-02", "02/01/2006"}

// ParseDate accepts ISO (2006-01-02) or Brazilian (02/01/2006) dates.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: date %q", ErrInvalidDate, s)
}

// ParseClock accepts "15:04", "15h04" or a bare hour such as "10h".
func ParseClock(s string) (Clock, error) {
	raw := strings.TrimSpace(s)
	norm := strings.ReplaceAll(strings.ToLower(raw), "h", ":")
	layout := "15:04"
	if strings.HasSuffix(norm, ":") {
		norm = strings.TrimSuffix(norm, ":")
		layout = "15"
	}
	t, err := time.Parse(layout, norm)
	if err != nil {
		return Clock{}, fmt.Errorf("%w: time %q", ErrInvalidDate, raw)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// At combines the date with a clock time in loc.
func (d Date) At(c Clock, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, c.Hour, c.Minute, 0, 0, loc)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool { return d == Date{} }

// String formats the date as dd/mm/yyyy.
func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, int(d.Month), d.Year)
}

// ISO formats the date as yyyy-mm-dd.
func (d Date) ISO() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
