package season

const monthsPerSeason = 6

// MonthBand is a calendar month clipped to a period window.
type MonthBand struct {
	Name      string       `json:"name"`
	ShortName string       `json:"shortName"`
	Begin     CalendarDate `json:"begin"`
	End       CalendarDate `json:"end"`
}

// Months returns the October..March months of season s that intersect the
// period window, each clipped to the window boundaries.
func (c *Calendar) Months(s Season, id PeriodID) ([]MonthBand, error) {
	window, err := c.Window(s, id)
	if err != nil {
		return nil, err
	}

	first := Date(c.StartYear(s), seasonStartMonth, 1)
	bands := make([]MonthBand, 0, monthsPerSeason)

	for i := range monthsPerSeason {
		monthStart := FromTime(first.Time().AddDate(0, i, 0))
		begin, end := monthStart, FromTime(monthStart.Time().AddDate(0, 1, -1))

		if !window.Overlaps(begin, end) {
			continue
		}

		if begin.Before(window.Start) {
			begin = window.Start
		}

		if end.After(window.End) {
			end = window.End
		}

		month := monthStart.Month

		bands = append(bands, MonthBand{
			Name:      month.String(),
			ShortName: month.String()[:3],
			Begin:     begin,
			End:       end,
		})
	}

	return bands, nil
}
