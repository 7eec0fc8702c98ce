package dataset

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Sumatoshi-tech/seasonality/pkg/csvparse"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// ErrNoLatestDate is returned when the latest-data-update tab has no usable date.
var ErrNoLatestDate = errors.New("no latest update date")

// Countries returns the sorted unique non-empty countries of the dataset.
func (d *Dataset) Countries() []string {
	if d == nil {
		return nil
	}

	seen := make(map[string]bool)
	out := make([]string, 0)

	for _, r := range d.Rows {
		if r.Country == "" || seen[r.Country] {
			continue
		}

		seen[r.Country] = true
		out = append(out, r.Country)
	}

	slices.Sort(out)

	return out
}

// CommonCountries returns the sorted countries present in both datasets.
func CommonCountries(a, b *Dataset) []string {
	inB := make(map[string]bool)
	for _, c := range b.Countries() {
		inB[c] = true
	}

	out := make([]string, 0)

	for _, c := range a.Countries() {
		if inB[c] {
			out = append(out, c)
		}
	}

	return out
}

type inclusionKey struct {
	vertical string
	country  string
	system   System
}

// InclusionSet holds the (vertical, country, system) combinations allowed
// to be shown.
type InclusionSet struct {
	keys map[inclusionKey]struct{}
}

// NewInclusionSet builds the set from vertical-inclusion rows. Malformed rows
// are skipped and reported.
func NewInclusionSet(rows []csvparse.RawRow) (*InclusionSet, []Warning) {
	ds, warnings := Normalize(rows, VerticalInclusionSchema)

	set := &InclusionSet{keys: make(map[inclusionKey]struct{}, ds.Len())}
	for _, r := range ds.Rows {
		set.Add(r.Vertical, r.Country, r.System)
	}

	return set, warnings
}

// Add inserts a combination. The vertical is folded like dataset rows.
func (s *InclusionSet) Add(vertical, country string, system System) {
	if s.keys == nil {
		s.keys = make(map[inclusionKey]struct{})
	}

	s.keys[inclusionKey{vertical: FoldVertical(vertical), country: country, system: system}] = struct{}{}
}

// Has reports whether the combination is included.
func (s *InclusionSet) Has(vertical, country string, system System) bool {
	if s == nil {
		return false
	}

	_, ok := s.keys[inclusionKey{vertical: FoldVertical(vertical), country: country, system: system}]

	return ok
}

// Len returns the number of combinations.
func (s *InclusionSet) Len() int {
	if s == nil {
		return 0
	}

	return len(s.keys)
}

// LatestUpdate reads the date of the first row of the latest-data-update tab.
func LatestUpdate(rows []csvparse.RawRow) (season.CalendarDate, error) {
	if len(rows) == 0 {
		return season.CalendarDate{}, ErrNoLatestDate
	}

	idx := newHeaderIndex(headersOf(rows[0]))

	header, ok := idx.resolve(LatestUpdateSchema.Columns[FieldDate])
	if !ok {
		return season.CalendarDate{}, fmt.Errorf("%w: date column missing", ErrNoLatestDate)
	}

	d, err := season.ParseDate(rows[0][header])
	if err != nil {
		return season.CalendarDate{}, fmt.Errorf("%w: %w", ErrNoLatestDate, err)
	}

	return d, nil
}
