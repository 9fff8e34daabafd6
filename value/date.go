package value

import (
	"fmt"
	"time"

	"github.com/arloliu/tagframe/errs"
)

// DateLayout is the ISO 8601 calendar date layout.
const DateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date year-month-day.
//
// Returns errs.ErrUnsupportedValue when the date does not exist or its year
// is outside 1 to 9999.
func NewDate(year int, month time.Month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if err := d.Validate(); err != nil {
		return Date{}, err
	}

	return d, nil
}

// Validate reports whether d names an existing calendar date whose year
// fits the four digits of DateLayout.
func (d Date) Validate() error {
	if d.Year < 1 || d.Year > 9999 || DateOf(d.Time()) != d {
		return fmt.Errorf("%w: invalid date %04d-%02d-%02d", errs.ErrUnsupportedValue, d.Year, int(d.Month), d.Day)
	}

	return nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO 8601 "YYYY-MM-DD" date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	d := DateOf(t)
	if err := d.Validate(); err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}

	return d, nil
}

// String returns the ISO 8601 representation of d.
func (d Date) String() string {
	return d.Time().Format(DateLayout)
}

// Time returns midnight UTC of d.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// timeLayouts are tried in order when parsing a datetime string. The naive
// layouts accept ISO 8601 strings without an offset, which are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// FormatTime returns the RFC 3339 representation of t with nanoseconds.
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

// ParseTime parses an ISO 8601 datetime with or without a UTC offset.
func ParseTime(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}

	return time.Time{}, fmt.Errorf("parse datetime %q: %w", s, firstErr)
}
