package season

import "slices"

const (
	// SeasonStartWeek is the first week number of a season (early October).
	SeasonStartWeek = 40
	// SeasonEndWeek is the last week number of a season (late March).
	SeasonEndWeek = 14
	// YearLastWeek is where the axis wraps back to week 1.
	YearLastWeek = 52
)

// WeekAxis is an ordered sequence of week numbers that may wrap across the
// year boundary, e.g. 40..52,1..14. Order is chronological, not numeric.
type WeekAxis []int

// FullWeekAxis returns the 40..52,1..14 season axis.
func FullWeekAxis() WeekAxis {
	return WeekRange(SeasonStartWeek, SeasonEndWeek)
}

// WeekRange returns start..end inclusive. When end < start the range wraps:
// start..52 followed by 1..end.
func WeekRange(start, end int) WeekAxis {
	if end >= start {
		axis := make(WeekAxis, 0, end-start+1)
		for w := start; w <= end; w++ {
			axis = append(axis, w)
		}

		return axis
	}

	axis := make(WeekAxis, 0, YearLastWeek-start+1+end)
	for w := start; w <= YearLastWeek; w++ {
		axis = append(axis, w)
	}

	for w := 1; w <= end; w++ {
		axis = append(axis, w)
	}

	return axis
}

// Index returns the position of week on the axis, or -1.
func (a WeekAxis) Index(week int) int {
	return slices.Index(a, week)
}

// Contains reports whether week is on the axis.
func (a WeekAxis) Contains(week int) bool {
	return a.Index(week) >= 0
}
