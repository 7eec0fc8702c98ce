package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/filter"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// SeasonWeek is one week of a metric in both seasons.
type SeasonWeek struct {
	Week    int           `json:"week"`
	Past    dataset.Value `json:"past"`
	Current dataset.Value `json:"current"`
}

// SeasonMetric is one chart of the season overlay.
type SeasonMetric struct {
	Metric  report.Metric `json:"metric"`
	HasData bool          `json:"hasData"`
	Lo      float64       `json:"lo"`
	Hi      float64       `json:"hi"`
	Weeks   []SeasonWeek  `json:"weeks"`
}

// SeasonResult is the output of seasonality_season.
type SeasonResult struct {
	Tab       string           `json:"tab"`
	Selection filter.Selection `json:"selection"`
	State     filter.State     `json:"state"`
	Recovery  *filter.Recovery `json:"recovery,omitempty"`
	Metrics   []SeasonMetric   `json:"metrics"`
}

func (s *Server) handleSeason(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input SeasonInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	tab := strings.ToLower(strings.TrimSpace(input.Tab))
	if tab == "" {
		tab = TabUser
	}

	if tab != TabUser && tab != TabAdvertiser {
		return errorResult(fmt.Errorf("%w: %q", ErrUnknownTab, input.Tab))
	}

	st, err := state(store.Patch{
		Country:  input.Country,
		System:   input.System,
		Category: input.Category,
		Vertical: input.Vertical,
	})
	if err != nil {
		return errorResult(err)
	}

	b := s.deps.Holder.Load()
	if b == nil {
		return errorResult(ErrNotLoaded)
	}

	var v report.SeasonView
	if tab == TabAdvertiser {
		v = report.BuildAdvertiser(b, st.Selection, s.deps.Calendar, s.deps.Layout)
	} else {
		v = report.BuildUserSeason(b, st.Selection, s.deps.Calendar, s.deps.Layout)
	}

	return jsonResult(seasonResult(tab, v))
}

func seasonResult(tab string, v report.SeasonView) SeasonResult {
	out := SeasonResult{
		Tab:       tab,
		Selection: v.Selection,
		State:     v.State,
		Recovery:  v.Recovery,
		Metrics:   make([]SeasonMetric, 0, len(v.Charts)),
	}

	for _, c := range v.Charts {
		m := SeasonMetric{Metric: c.Metric, HasData: c.HasData, Lo: c.Lo, Hi: c.Hi, Weeks: []SeasonWeek{}}

		past := pointsByWeek(c.Past)
		current := pointsByWeek(c.Current)

		for _, w := range v.Weeks {
			p, pok := past[w]
			cur, cok := current[w]

			if !pok && !cok {
				continue
			}

			m.Weeks = append(m.Weeks, SeasonWeek{Week: w, Past: p.Value, Current: cur.Value})
		}

		out.Metrics = append(out.Metrics, m)
	}

	return out
}

// HolidayMarker is one holiday in a season period.
type HolidayMarker struct {
	Name string              `json:"name"`
	Icon string              `json:"icon"`
	Date season.CalendarDate `json:"date"`
	X    float64             `json:"x"`
}

// HolidaysResult is the output of seasonality_holidays.
type HolidaysResult struct {
	Season   season.Season   `json:"season"`
	Period   season.PeriodID `json:"period"`
	Holidays []HolidayMarker `json:"holidays"`
}

func (s *Server) handleHolidays(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input HolidaysInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	st, err := store.Patch{Season: input.Season, Period: input.Period}.Apply(store.DefaultState())
	if err != nil {
		return errorResult(err)
	}

	placements, err := report.ComparisonHolidays(s.deps.Calendar, st.Season, st.Period, s.deps.Layout)
	if err != nil {
		return errorResult(err)
	}

	out := HolidaysResult{Season: st.Season, Period: st.Period, Holidays: make([]HolidayMarker, 0, len(placements))}

	for _, p := range placements {
		d, _ := p.Holiday.Date(st.Season)
		out.Holidays = append(out.Holidays, HolidayMarker{
			Name: p.Holiday.Name,
			Icon: p.Holiday.Icon,
			Date: d,
			X:    p.EffectiveX(),
		})
	}

	return jsonResult(out)
}
