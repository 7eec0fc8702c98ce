// Package filter selects the rows of a dataset that match the active
// selection and classifies the outcome for the caller.
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// DefaultCountry is the country selected before the user picks one.
const DefaultCountry = "USA"

// Selection is the active filter tuple.
type Selection struct {
	System   dataset.System   `json:"system"   validate:"required,oneof=IOS ANDROID"`
	Country  string           `json:"country"  validate:"required"`
	Category dataset.Category `json:"category" validate:"required,oneof=gaming consumer"`
	Vertical string           `json:"vertical" validate:"required"`
}

// DefaultSelection is the initial selection of every chart.
func DefaultSelection() Selection {
	return Selection{
		System:   dataset.SystemIOS,
		Country:  DefaultCountry,
		Category: dataset.CategoryGaming,
		Vertical: dataset.VerticalAll,
	}
}

// Matches reports whether the row belongs to the selection.
func (s Selection) Matches(r dataset.MetricRow) bool {
	return r.System == s.System &&
		r.Country == s.Country &&
		r.Category == s.Category &&
		r.Vertical == dataset.FoldVertical(s.Vertical)
}

// State classifies a filter result.
type State int

// Filter outcomes.
const (
	// NotLoaded means the dataset has not arrived yet; show a loading state.
	NotLoaded State = iota
	// NoMatch means the dataset loaded but nothing matches the selection.
	NoMatch
	// Excluded means the inclusion list rules the combination out.
	Excluded
	// OK means at least one row matched.
	OK
)

func (s State) String() string {
	switch s {
	case NoMatch:
		return "no_match"
	case Excluded:
		return "excluded"
	case OK:
		return "ok"
	default:
		return "not_loaded"
	}
}

// MarshalText encodes the state name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Result is the outcome of Apply. Rows is nil only for NotLoaded and a
// non-nil, possibly empty slice otherwise.
type Result struct {
	Rows      []dataset.MetricRow `json:"rows"`
	State     State               `json:"state"`
	Selection Selection           `json:"selection"`
}

// Empty reports whether the dataset loaded but produced no rows.
func (r Result) Empty() bool {
	return r.State == NoMatch || r.State == Excluded
}

// Apply filters ds by sel. A nil dataset yields NotLoaded. When inclusion is
// non-nil and lacks the (vertical, country, system) combination the result
// is Excluded regardless of the rows present.
func Apply(ds *dataset.Dataset, sel Selection, inclusion *dataset.InclusionSet) Result {
	if ds == nil {
		return Result{State: NotLoaded, Selection: sel}
	}

	if inclusion != nil && !inclusion.Has(sel.Vertical, sel.Country, sel.System) {
		return Result{Rows: []dataset.MetricRow{}, State: Excluded, Selection: sel}
	}

	rows := make([]dataset.MetricRow, 0)

	for _, r := range ds.Rows {
		if sel.Matches(r) {
			rows = append(rows, r)
		}
	}

	state := OK
	if len(rows) == 0 {
		state = NoMatch
	}

	return Result{Rows: rows, State: state, Selection: sel}
}

// Recovery is the corrective action offered when a selection has no data.
type Recovery struct {
	Category dataset.Category `json:"category"`
	Vertical string           `json:"vertical"`
	Message  string           `json:"message"`
	Action   string           `json:"action"`
}

// Recovery suggests switching to the aggregate vertical. ok is false when the
// result has data or has not loaded.
func (r Result) Recovery() (Recovery, bool) {
	if !r.Empty() {
		return Recovery{}, false
	}

	label := r.Selection.Vertical
	category := dataset.CategoryGaming
	scope := "Gaming or Consumer"

	if v, found := dataset.LookupVertical(r.Selection.Category, r.Selection.Vertical); found {
		label = v.Label
		category = v.Category
		scope = titleCase(string(v.Category))
	}

	return Recovery{
		Category: category,
		Vertical: dataset.VerticalAll,
		Message:  fmt.Sprintf("No sufficient data for %s in selected country and operating system.", label),
		Action:   fmt.Sprintf("to view all %s data.", scope),
	}, true
}

// ByWindow keeps rows whose week start falls in [from, to] and orders them by
// calendar date. The input is not modified.
func ByWindow(rows []dataset.MetricRow, from, to season.CalendarDate) []dataset.MetricRow {
	out := make([]dataset.MetricRow, 0, len(rows))

	for _, r := range rows {
		if r.WeekStart.Before(from) || r.WeekStart.After(to) {
			continue
		}

		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b dataset.MetricRow) int {
		return a.WeekStart.Compare(b.WeekStart)
	})

	return out
}

// BySeason keeps the rows whose week belongs to season s and orders them by
// calendar date. A week belongs to the season it overlaps.
func BySeason(rows []dataset.MetricRow, cal *season.Calendar, s season.Season) []dataset.MetricRow {
	out := make([]dataset.MetricRow, 0, len(rows))

	for _, r := range rows {
		if got, ok := cal.SeasonOf(r.WeekStart); ok && got == s {
			out = append(out, r)
		}
	}

	slices.SortStableFunc(out, func(a, b dataset.MetricRow) int {
		return a.WeekStart.Compare(b.WeekStart)
	})

	return out
}

func titleCase(s string) string {
	if s == "" {
		return s
	}

	return strings.ToUpper(s[:1]) + s[1:]
}
