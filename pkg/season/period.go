package season

import (
	"errors"
	"time"
)

// ErrUnknownPeriod is returned when a period id is not in the reference table.
var ErrUnknownPeriod = errors.New("unknown period")

// PeriodID names a reporting period.
type PeriodID string

// Known periods.
const (
	PeriodAll         PeriodID = "all"
	PeriodPreHoliday  PeriodID = "pre-holiday"
	PeriodPeakSeason  PeriodID = "peak-season"
	PeriodPostHoliday PeriodID = "post-holiday"
)

// Boundary is one end of a period: a calendar date and its week number.
type Boundary struct {
	WeekNumber int          `json:"weekNumber" yaml:"week"`
	ISODate    CalendarDate `json:"isoDate"    yaml:"date"`
}

// Day returns the day of month.
func (b Boundary) Day() int { return b.ISODate.Day }

// Month returns the month.
func (b Boundary) Month() time.Month { return b.ISODate.Month }

// Year returns the year.
func (b Boundary) Year() int { return b.ISODate.Year }

// Period is a named sub-range of a season with explicit per-season boundaries.
type Period struct {
	Value    PeriodID            `json:"value"    yaml:"value"`
	Title    string              `json:"title"    yaml:"title"`
	Subtitle map[Season]string   `json:"subtitle" yaml:"subtitle"`
	Icon     string              `json:"icon"     yaml:"icon"`
	Start    map[Season]Boundary `json:"start"    yaml:"start"`
	End      map[Season]Boundary `json:"end"      yaml:"end"`
}

// Window returns the inclusive date window of the period in season s.
func (p Period) Window(s Season) Range {
	return Range{Start: p.Start[s].ISODate, End: p.End[s].ISODate}
}

// WeekAxis returns the period's week numbers in chronological order,
// wrapping past week 52 when the period crosses the year boundary.
func (p Period) WeekAxis(s Season) WeekAxis {
	return WeekRange(p.Start[s].WeekNumber, p.End[s].WeekNumber)
}
