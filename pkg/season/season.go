package season

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownSeason is returned when a season name is neither past nor current.
var ErrUnknownSeason = errors.New("unknown season")

// Season selects one of the two compared holiday seasons.
type Season string

const (
	// Past is the season anchored at October of the anchor year.
	Past Season = "past"
	// Current is the season one year after Past.
	Current Season = "current"
)

// Seasons lists both seasons in chronological order.
var Seasons = []Season{Past, Current}

// ParseSeason parses a season name case-insensitively.
func ParseSeason(s string) (Season, error) {
	switch Season(strings.ToLower(strings.TrimSpace(s))) {
	case Past:
		return Past, nil
	case Current:
		return Current, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSeason, s)
	}
}

// Range is an inclusive calendar date window.
type Range struct {
	Start CalendarDate `json:"start"`
	End   CalendarDate `json:"end"`
}

// Contains reports whether d lies within the window, boundaries included.
func (r Range) Contains(d CalendarDate) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether [from, to] intersects the window.
func (r Range) Overlaps(from, to CalendarDate) bool {
	return !to.Before(r.Start) && !from.After(r.End)
}

const (
	seasonStartMonth = time.October
	seasonStartDay   = 1
	seasonEndMonth   = time.March
	seasonEndDay     = 31
	daysPerWeek      = 7
)

// Calendar resolves seasons, periods and holidays for one anchor year.
// Past spans Oct 1 of AnchorYear to Mar 31 of the next year; Current is
// shifted by one year.
type Calendar struct {
	AnchorYear int

	periods  []Period
	holidays []Holiday
}

// NewCalendar builds a calendar from reference data.
func NewCalendar(ref *Reference) *Calendar {
	return &Calendar{
		AnchorYear: ref.AnchorYear,
		periods:    ref.Periods,
		holidays:   ref.Holidays,
	}
}

// DefaultCalendar builds a calendar from the embedded reference data.
func DefaultCalendar() *Calendar {
	return NewCalendar(DefaultReference())
}

// StartYear returns the calendar year in which the season begins.
func (c *Calendar) StartYear(s Season) int {
	if s == Current {
		return c.AnchorYear + 1
	}

	return c.AnchorYear
}

// Range returns the Oct 1 .. Mar 31 window of the season.
func (c *Calendar) Range(s Season) Range {
	year := c.StartYear(s)

	return Range{
		Start: Date(year, seasonStartMonth, seasonStartDay),
		End:   Date(year+1, seasonEndMonth, seasonEndDay),
	}
}

// Axis returns the plotted date domain of the season. It opens one day
// before the season so that a week starting Sep 30 stays on the chart.
func (c *Calendar) Axis(s Season) Range {
	r := c.Range(s)
	r.Start = r.Start.AddDays(-1)

	return r
}

// SeasonOf returns the season a weekly row belongs to. A week counts when
// any of its seven days falls inside the season window, so the week
// starting Sep 30 belongs to the season that opens Oct 1.
func (c *Calendar) SeasonOf(weekStart CalendarDate) (Season, bool) {
	weekEnd := weekStart.AddDays(daysPerWeek - 1)

	for _, s := range Seasons {
		if c.Range(s).Overlaps(weekStart, weekEnd) {
			return s, true
		}
	}

	return "", false
}

// Periods returns the reporting periods in display order.
func (c *Calendar) Periods() []Period {
	return c.periods
}

// Period looks up a period by value.
func (c *Calendar) Period(id PeriodID) (Period, error) {
	for _, p := range c.periods {
		if p.Value == id {
			return p, nil
		}
	}

	return Period{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, id)
}

// Window returns the inclusive date window of a period in a season.
func (c *Calendar) Window(s Season, id PeriodID) (Range, error) {
	p, err := c.Period(id)
	if err != nil {
		return Range{}, err
	}

	return p.Window(s), nil
}

// Holidays returns the holiday table.
func (c *Calendar) Holidays() []Holiday {
	return c.holidays
}
