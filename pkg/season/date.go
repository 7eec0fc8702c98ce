// Package season models the two-season calendar: calendar dates without
// time zones, the 40..52,1..14 week axis, reporting periods and holidays.
package season

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidDate is returned when a string is not a valid YYYY-MM-DD date.
var ErrInvalidDate = errors.New("invalid calendar date")

const (
	isoLayout    = "2006-01-02"
	datePartsLen = 3
	hoursPerDay  = 24
)

// CalendarDate is a day on the proleptic Gregorian calendar, interpreted in UTC.
// It never shifts across time zones.
type CalendarDate struct {
	Year  int
	Month time.Month
	Day   int
}

// Date builds a CalendarDate from its parts.
func Date(year int, month time.Month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// FromTime truncates t to its UTC calendar day.
func FromTime(t time.Time) CalendarDate {
	y, m, d := t.UTC().Date()

	return CalendarDate{Year: y, Month: m, Day: d}
}

// ParseDate parses "YYYY-MM-DD". A trailing time part separated by 'T' or a
// space is ignored, so "2024-10-07T00:00:00Z" yields 2024-10-07.
func ParseDate(s string) (CalendarDate, error) {
	raw := strings.TrimSpace(s)

	if cut := strings.IndexAny(raw, "T "); cut > 0 {
		raw = raw[:cut]
	}

	parts := strings.Split(raw, "-")
	if len(parts) != datePartsLen {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	nums := make([]int, datePartsLen)

	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}

		nums[i] = n
	}

	d := CalendarDate{Year: nums[0], Month: time.Month(nums[1]), Day: nums[2]}

	// time.Date normalizes out-of-range parts; a round trip catches 2024-02-30.
	if FromTime(d.Time()) != d {
		return CalendarDate{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}

	return d, nil
}

// MustParseDate is ParseDate that panics on error. Intended for tables and tests.
func MustParseDate(s string) CalendarDate {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}

	return d
}

// Time returns midnight UTC of the date.
func (d CalendarDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// UnixMilli returns the epoch milliseconds of midnight UTC.
func (d CalendarDate) UnixMilli() int64 {
	return d.Time().UnixMilli()
}

// IsZero reports whether d is the zero value.
func (d CalendarDate) IsZero() bool {
	return d == CalendarDate{}
}

// Compare returns -1, 0 or +1.
func (d CalendarDate) Compare(o CalendarDate) int {
	switch {
	case d.Year != o.Year:
		return cmp.Compare(d.Year, o.Year)
	case d.Month != o.Month:
		return cmp.Compare(d.Month, o.Month)
	default:
		return cmp.Compare(d.Day, o.Day)
	}
}

// Before reports whether d is strictly earlier than o.
func (d CalendarDate) Before(o CalendarDate) bool { return d.Compare(o) < 0 }

// After reports whether d is strictly later than o.
func (d CalendarDate) After(o CalendarDate) bool { return d.Compare(o) > 0 }

// AddDays returns the date n days later (or earlier for negative n).
func (d CalendarDate) AddDays(n int) CalendarDate {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// DaysUntil returns the number of whole days from d to o.
func (d CalendarDate) DaysUntil(o CalendarDate) int {
	return int(o.Time().Sub(d.Time()).Hours() / hoursPerDay)
}

// String formats the date as YYYY-MM-DD.
func (d CalendarDate) String() string {
	return d.Time().Format(isoLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d CalendarDate) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *CalendarDate) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// UnmarshalYAML reads the raw scalar so unquoted dates are not resolved to timestamps.
func (d *CalendarDate) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}
