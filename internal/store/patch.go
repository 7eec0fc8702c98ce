package store

import (
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// Patch is a partial state change in its text form, as it arrives from a
// query string, a request body or a tool call. Empty fields are left alone.
type Patch struct {
	System           string `json:"system,omitempty"`
	Country          string `json:"country,omitempty"`
	Category         string `json:"category,omitempty"`
	Vertical         string `json:"vertical,omitempty"`
	Season           string `json:"season,omitempty"`
	Period           string `json:"period,omitempty"`
	UserMetric       string `json:"userMetric,omitempty"`
	AdvertiserMetric string `json:"advertiserMetric,omitempty"`
	ResetVertical    bool   `json:"resetVertical,omitempty"`
}

// Actions parses the patch into actions. Category comes before vertical so
// an explicit vertical survives the category reset.
func (p Patch) Actions() ([]Action, error) {
	var actions []Action

	if p.ResetVertical {
		actions = append(actions, ResetVertical())
	}

	if p.System != "" {
		sys, err := dataset.ParseSystem(p.System)
		if err != nil {
			return nil, err
		}

		actions = append(actions, SetSystem(sys))
	}

	if p.Country != "" {
		actions = append(actions, SetCountry(p.Country))
	}

	if p.Category != "" {
		cat, err := dataset.ParseCategory(p.Category)
		if err != nil {
			return nil, err
		}

		actions = append(actions, SetCategory(cat))
	}

	if p.Vertical != "" {
		actions = append(actions, SetVertical(p.Vertical))
	}

	if p.Season != "" {
		s, err := season.ParseSeason(p.Season)
		if err != nil {
			return nil, err
		}

		actions = append(actions, SetSeason(s))
	}

	if p.Period != "" {
		actions = append(actions, SetPeriod(season.PeriodID(p.Period)))
	}

	if p.UserMetric != "" {
		actions = append(actions, SetUserMetric(p.UserMetric))
	}

	if p.AdvertiserMetric != "" {
		actions = append(actions, SetAdvertiserMetric(p.AdvertiserMetric))
	}

	return actions, nil
}

// Apply returns base with the patch applied. No store is touched.
func (p Patch) Apply(base State) (State, error) {
	actions, err := p.Actions()
	if err != nil {
		return State{}, err
	}

	st := base
	for _, a := range actions {
		st = a(st)
	}

	return st, nil
}
