package server

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// ErrBadQuery is returned for malformed or out-of-range query parameters.
var ErrBadQuery = errors.New("bad query")

// viewQuery is the raw query string of a view request. Empty fields keep
// the value from the shared state.
type viewQuery struct {
	System           string `validate:"omitempty,max=16"`
	Country          string `validate:"omitempty,max=64"`
	Category         string `validate:"omitempty,max=32"`
	Vertical         string `validate:"omitempty,max=64"`
	Season           string `validate:"omitempty,oneof=past current"`
	Period           string `validate:"omitempty,max=32"`
	UserMetric       string `validate:"omitempty,max=64"`
	AdvertiserMetric string `validate:"omitempty,max=64"`

	Width  float64 `validate:"omitempty,min=200,max=4000"`
	Height float64 `validate:"omitempty,min=100,max=4000"`

	X, Y     float64
	hasHover bool
}

func parseViewQuery(v url.Values) (viewQuery, error) {
	q := viewQuery{
		System:           v.Get("system"),
		Country:          v.Get("country"),
		Category:         v.Get("category"),
		Vertical:         v.Get("vertical"),
		Season:           v.Get("season"),
		Period:           v.Get("period"),
		UserMetric:       v.Get("user_metric"),
		AdvertiserMetric: v.Get("advertiser_metric"),
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"width", &q.Width},
		{"height", &q.Height},
		{"x", &q.X},
		{"y", &q.Y},
	}

	for _, f := range floats {
		raw := v.Get(f.name)
		if raw == "" {
			continue
		}

		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return viewQuery{}, fmt.Errorf("%w: %s: %w", ErrBadQuery, f.name, err)
		}

		*f.dst = parsed
	}

	q.hasHover = v.Has("x") && v.Has("y")

	return q, nil
}

func (q viewQuery) patch() store.Patch {
	return store.Patch{
		System:           q.System,
		Country:          q.Country,
		Category:         q.Category,
		Vertical:         q.Vertical,
		Season:           q.Season,
		Period:           q.Period,
		UserMetric:       q.UserMetric,
		AdvertiserMetric: q.AdvertiserMetric,
	}
}

// resolve applies the query on top of base without touching any store. The
// result names a known period and catalogued metrics.
func (q viewQuery) resolve(base store.State, cal *season.Calendar, validate *validator.Validate) (store.State, error) {
	err := validate.Struct(q)
	if err != nil {
		return store.State{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}

	st, err := q.patch().Apply(base)
	if err != nil {
		return store.State{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}

	err = validate.Struct(st.Selection)
	if err != nil {
		return store.State{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}

	_, err = cal.Period(st.Period)
	if err != nil {
		return store.State{}, fmt.Errorf("%w: %w", ErrBadQuery, err)
	}

	_, err = report.UserMetrics.Lookup(st.UserMetric)
	if err != nil {
		return store.State{}, fmt.Errorf("%w: user metric: %w", ErrBadQuery, err)
	}

	_, err = report.AdvertiserMetrics.Lookup(st.AdvertiserMetric)
	if err != nil {
		return store.State{}, fmt.Errorf("%w: advertiser metric: %w", ErrBadQuery, err)
	}

	return st, nil
}

func (q viewQuery) options(base report.Options) report.Options {
	opts := base.WithWidth(q.Width)

	if q.Height > 0 {
		opts.Height = q.Height
	}

	return opts
}
