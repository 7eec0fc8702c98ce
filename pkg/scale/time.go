package scale

import "github.com/Sumatoshi-tech/seasonality/pkg/season"

// Time is a linear scale over calendar dates, measured in epoch milliseconds.
type Time struct {
	Linear
}

// NewTime maps [from, to] onto [r0, r1].
func NewTime(from, to season.CalendarDate, r0, r1 float64) Time {
	return Time{Linear: NewLinear(float64(from.UnixMilli()), float64(to.UnixMilli()), r0, r1)}
}

// MapDate returns the range position of d.
func (t Time) MapDate(d season.CalendarDate) float64 {
	return t.Map(float64(d.UnixMilli()))
}
