package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/plot"
	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/annotate"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

const maxStateBody = 1 << 16

type errorBody struct {
	Error string `json:"error"`
}

// ComparisonResponse is the body of /api/comparison.
type ComparisonResponse struct {
	View  report.ComparisonView   `json:"view"`
	Hover *report.ComparisonHover `json:"hover,omitempty"`
}

// SeasonResponse is the body of /api/season and /api/advertiser.
type SeasonResponse struct {
	View  report.SeasonView   `json:"view"`
	Hover *report.SeasonHover `json:"hover,omitempty"`
}

// HolidaysResponse is the body of /api/holidays.
type HolidaysResponse struct {
	Season   season.Season        `json:"season"`
	Period   season.PeriodID      `json:"period"`
	Holidays []annotate.Placement `json:"holidays"`
}

// MetaResponse is the body of /api/meta.
type MetaResponse struct {
	Countries         []string             `json:"countries"`
	Latest            *season.CalendarDate `json:"latest,omitempty"`
	Periods           []season.Period      `json:"periods"`
	SeasonMetrics     report.Catalog       `json:"seasonMetrics"`
	UserMetrics       report.Catalog       `json:"userMetrics"`
	AdvertiserMetrics report.Catalog       `json:"advertiserMetrics"`
	Warnings          int                  `json:"warnings"`
	State             store.State          `json:"state"`
}

func (s *Server) writeJSON(rw http.ResponseWriter, hr *http.Request, status int, value any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	encodeErr := json.NewEncoder(rw).Encode(value)
	if encodeErr != nil {
		s.logger.ErrorContext(hr.Context(), "encode response", "error", encodeErr)
	}
}

func (s *Server) writeError(rw http.ResponseWriter, hr *http.Request, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, ErrBadQuery), errors.Is(err, report.ErrUnknownMetric), errors.Is(err, season.ErrUnknownPeriod):
		status = http.StatusBadRequest
	case errors.Is(err, loader.ErrNotLoaded):
		status = http.StatusServiceUnavailable
	}

	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(hr.Context(), "request failed", "path", hr.URL.Path, "error", err)
	}

	s.writeJSON(rw, hr, status, errorBody{Error: err.Error()})
}

// request resolves the bundle, state and geometry of a view request.
func (s *Server) request(hr *http.Request) (*loader.Bundle, store.State, viewQuery, report.Options, error) {
	q, err := parseViewQuery(hr.URL.Query())
	if err != nil {
		return nil, store.State{}, q, report.Options{}, err
	}

	st, err := q.resolve(s.store.State(), s.opts.Calendar, s.validate)
	if err != nil {
		return nil, store.State{}, q, report.Options{}, err
	}

	b := s.opts.Holder.Load()
	if b == nil {
		return nil, st, q, report.Options{}, loader.ErrNotLoaded
	}

	return b, st, q, q.options(s.opts.Layout), nil
}

func (s *Server) handleComparison(rw http.ResponseWriter, hr *http.Request) {
	b, st, q, opts, err := s.request(hr)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	view, err := report.BuildComparison(b, st, s.opts.Calendar, opts)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	resp := ComparisonResponse{View: view}
	if q.hasHover {
		if h, ok := view.Hover(q.X, q.Y); ok {
			resp.Hover = &h
		}
	}

	s.writeJSON(rw, hr, http.StatusOK, resp)
}

func (s *Server) seasonView(
	rw http.ResponseWriter,
	hr *http.Request,
	build func(*loader.Bundle, store.State, report.Options) report.SeasonView,
) {
	b, st, q, opts, err := s.request(hr)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	view := build(b, st, opts)

	resp := SeasonResponse{View: view}
	if q.hasHover {
		if h, ok := view.Hover(q.X, q.Y); ok {
			resp.Hover = &h
		}
	}

	s.writeJSON(rw, hr, http.StatusOK, resp)
}

func (s *Server) handleSeason(rw http.ResponseWriter, hr *http.Request) {
	s.seasonView(rw, hr, func(b *loader.Bundle, st store.State, opts report.Options) report.SeasonView {
		return report.BuildUserSeason(b, st.Selection, s.opts.Calendar, opts)
	})
}

func (s *Server) handleAdvertiser(rw http.ResponseWriter, hr *http.Request) {
	s.seasonView(rw, hr, func(b *loader.Bundle, st store.State, opts report.Options) report.SeasonView {
		return report.BuildAdvertiser(b, st.Selection, s.opts.Calendar, opts)
	})
}

func (s *Server) handleHolidays(rw http.ResponseWriter, hr *http.Request) {
	q, err := parseViewQuery(hr.URL.Query())
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	st, err := q.resolve(s.store.State(), s.opts.Calendar, s.validate)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	placements, err := report.ComparisonHolidays(s.opts.Calendar, st.Season, st.Period, q.options(s.opts.Layout))
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	s.writeJSON(rw, hr, http.StatusOK, HolidaysResponse{Season: st.Season, Period: st.Period, Holidays: placements})
}

func (s *Server) handleMeta(rw http.ResponseWriter, hr *http.Request) {
	b := s.opts.Holder.Load()
	if b == nil {
		s.writeError(rw, hr, loader.ErrNotLoaded)

		return
	}

	s.writeJSON(rw, hr, http.StatusOK, MetaResponse{
		Countries:         dataset.CommonCountries(b.User, b.Advertiser),
		Latest:            b.Latest,
		Periods:           s.opts.Calendar.Periods(),
		SeasonMetrics:     report.SeasonMetrics,
		UserMetrics:       report.UserMetrics,
		AdvertiserMetrics: report.AdvertiserMetrics,
		Warnings:          len(b.Warnings),
		State:             s.store.State(),
	})
}

func (s *Server) handleGetState(rw http.ResponseWriter, hr *http.Request) {
	s.writeJSON(rw, hr, http.StatusOK, s.store.State())
}

// handleSetState applies a store.Patch body to the shared state after
// validating the result.
func (s *Server) handleSetState(rw http.ResponseWriter, hr *http.Request) {
	var p store.Patch

	dec := json.NewDecoder(http.MaxBytesReader(rw, hr.Body, maxStateBody))
	dec.DisallowUnknownFields()

	decodeErr := dec.Decode(&p)
	if decodeErr != nil {
		s.writeError(rw, hr, fmt.Errorf("%w: %w", ErrBadQuery, decodeErr))

		return
	}

	q := viewQuery{
		System:           p.System,
		Country:          p.Country,
		Category:         p.Category,
		Vertical:         p.Vertical,
		Season:           p.Season,
		Period:           p.Period,
		UserMetric:       p.UserMetric,
		AdvertiserMetric: p.AdvertiserMetric,
	}

	// Reject before dispatching so a bad patch leaves the state alone.
	_, err := q.resolve(s.store.State(), s.opts.Calendar, s.validate)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	actions, err := p.Actions()
	if err != nil {
		s.writeError(rw, hr, fmt.Errorf("%w: %w", ErrBadQuery, err))

		return
	}

	s.writeJSON(rw, hr, http.StatusOK, s.store.Dispatch(actions...))
}

func (s *Server) handleReportHTML(rw http.ResponseWriter, hr *http.Request) {
	b, st, _, opts, err := s.request(hr)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	cmp, err := report.BuildComparison(b, st, s.opts.Calendar, opts)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	user := report.BuildUserSeason(b, st.Selection, s.opts.Calendar, opts)
	adv := report.BuildAdvertiser(b, st.Selection, s.opts.Calendar, opts)

	rw.Header().Set("Content-Type", "text/html; charset=utf-8")

	renderErr := plot.ReportPage(cmp, user, adv, s.opts.Theme).Render(rw)
	if renderErr != nil {
		s.logger.ErrorContext(hr.Context(), "render report", "error", renderErr)
	}
}

func (s *Server) handleReportSVG(rw http.ResponseWriter, hr *http.Request) {
	b, st, _, opts, err := s.request(hr)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	cmp, err := report.BuildComparison(b, st, s.opts.Calendar, opts)
	if err != nil {
		s.writeError(rw, hr, err)

		return
	}

	rw.Header().Set("Content-Type", "image/svg+xml")

	renderErr := plot.ComparisonSVG(rw, cmp)
	if renderErr != nil {
		s.logger.ErrorContext(hr.Context(), "render svg", "error", renderErr)
	}
}
