package season

const holidayLabelLayout = "Jan 2"

// Holiday is a dated annotation shown on the charts.
type Holiday struct {
	Name  string                  `json:"name"  yaml:"name"`
	Icon  string                  `json:"icon"  yaml:"icon"`
	Dates map[Season]CalendarDate `json:"dates" yaml:"dates"`
}

// Date returns the holiday date in season s.
func (h Holiday) Date(s Season) (CalendarDate, bool) {
	d, ok := h.Dates[s]

	return d, ok
}

// DisplayLabel returns the short date label shown in the holiday tooltip.
func (h Holiday) DisplayLabel(s Season) string {
	d, ok := h.Dates[s]
	if !ok {
		return ""
	}

	return d.Time().Format(holidayLabelLayout)
}
