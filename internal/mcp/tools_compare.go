package mcp

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/curve"
	"github.com/Sumatoshi-tech/seasonality/pkg/filter"
	"github.com/Sumatoshi-tech/seasonality/pkg/format"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// WeekPair is one week of the comparison.
type WeekPair struct {
	report.ComparisonRow

	UserText       string `json:"userText"`
	AdvertiserText string `json:"advertiserText"`
}

// CompareResult is the output of seasonality_compare.
type CompareResult struct {
	State            store.State            `json:"state"`
	UserMetric       report.Metric          `json:"userMetric"`
	AdvertiserMetric report.Metric          `json:"advertiserMetric"`
	Window           season.Range           `json:"window"`
	NoData           bool                   `json:"noData"`
	Recovery         *filter.Recovery       `json:"recovery,omitempty"`
	Lo               float64                `json:"lo"`
	Hi               float64                `json:"hi"`
	Weeks            []WeekPair             `json:"weeks"`
	Crossings        []report.CrossingPoint `json:"crossings"`
}

// state applies the inputs on top of the default state and validates the
// resulting selection.
func state(p store.Patch) (store.State, error) {
	st, err := p.Apply(store.DefaultState())
	if err != nil {
		return store.State{}, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}

	err = validate.Struct(st.Selection)
	if err != nil {
		return store.State{}, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}

	return st, nil
}


func (s *Server) handleCompare(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	input CompareInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	st, err := state(store.Patch{
		Country:          input.Country,
		System:           input.System,
		Category:         input.Category,
		Vertical:         input.Vertical,
		Season:           input.Season,
		Period:           input.Period,
		UserMetric:       input.UserMetric,
		AdvertiserMetric: input.AdvertiserMetric,
	})
	if err != nil {
		return errorResult(err)
	}

	b := s.deps.Holder.Load()
	if b == nil {
		return errorResult(ErrNotLoaded)
	}

	v, err := report.BuildComparison(b, st, s.deps.Calendar, s.deps.Layout)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(compareResult(v))
}

func compareResult(v report.ComparisonView) CompareResult {
	out := CompareResult{
		State:            v.State,
		UserMetric:       v.UserMetric,
		AdvertiserMetric: v.AdvertiserMetric,
		Window:           v.Window,
		NoData:           v.NoData,
		Recovery:         v.Recovery,
		Weeks:            []WeekPair{},
		Crossings:        []report.CrossingPoint{},
	}

	if !v.HasDomain {
		return out
	}

	out.Lo, out.Hi = v.Lo, v.Hi

	for _, r := range v.Rows() {
		if !r.Found {
			continue
		}

		out.Weeks = append(out.Weeks, WeekPair{
			ComparisonRow:  r,
			UserText:       format.Indexed(r.User),
			AdvertiserText: format.Indexed(r.Advertiser),
		})
	}

	out.Crossings = append(out.Crossings, v.Crossings()...)

	return out
}

func pointsByWeek(c curve.Curve) map[int]curve.Point {
	out := make(map[int]curve.Point, len(c.Points))

	for _, p := range c.Points {
		if _, ok := out[p.WeekNumber]; !ok {
			out[p.WeekNumber] = p
		}
	}

	return out
}
