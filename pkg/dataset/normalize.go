package dataset

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Sumatoshi-tech/seasonality/pkg/csvparse"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

const (
	// headerLines offsets a data row index to its 1-based line in the sheet.
	headerLines = 2
	minWeek     = 1
	maxWeek     = 53
)

// Warning describes a dropped row. Line is the 1-based sheet line (header is
// line 1); zero means the whole table.
type Warning struct {
	Line   int    `json:"line"`
	Column string `json:"column"`
	Reason string `json:"reason"`
}

func (w Warning) String() string {
	if w.Line == 0 {
		return fmt.Sprintf("%s: %s", w.Column, w.Reason)
	}

	return fmt.Sprintf("line %d: %s: %s", w.Line, w.Column, w.Reason)
}

// MetricRow is one normalized weekly observation.
type MetricRow struct {
	Country    string              `json:"country"`
	System     System              `json:"system"`
	Category   Category            `json:"category"`
	Vertical   string              `json:"vertical"`
	WeekStart  season.CalendarDate `json:"week_start"`
	WeekNumber int                 `json:"week_number"`
	Values     map[string]Value    `json:"values"`
}

// Value returns the metric value, null when absent.
func (r MetricRow) Value(key string) Value {
	return r.Values[key]
}

// Dataset is a normalized sheet tab.
type Dataset struct {
	Name    string      `json:"name"`
	Metrics []string    `json:"metrics"`
	Rows    []MetricRow `json:"rows"`
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}

	return len(d.Rows)
}

// Normalize converts raw rows into typed MetricRows per schema. Rows with
// an unparseable dimension are dropped and reported; the dataset itself is
// never rejected. A schema column missing from the header drops every row
// and yields a single table-level warning.
func Normalize(rows []csvparse.RawRow, schema Schema) (*Dataset, []Warning) {
	ds := &Dataset{Name: schema.Name, Metrics: schema.MetricKeys(), Rows: make([]MetricRow, 0, len(rows))}
	if len(rows) == 0 {
		return ds, nil
	}

	idx := newHeaderIndex(headersOf(rows[0]))

	dims := make(map[Field]string, len(schema.Required))

	var warnings []Warning

	for _, field := range schema.Required {
		actual, ok := idx.resolve(schema.Columns[field])
		if !ok {
			warnings = append(warnings, Warning{Column: string(field), Reason: "column missing"})

			continue
		}

		dims[field] = actual
	}

	if len(warnings) > 0 {
		return ds, warnings
	}

	metricHeaders := make(map[string]string, len(schema.Metrics))
	for _, m := range schema.Metrics {
		if actual, ok := idx.resolve(m.Sources); ok {
			metricHeaders[m.Key] = actual
		}
	}

	for i, raw := range rows {
		row, warn, ok := normalizeRow(raw, dims, metricHeaders)
		if !ok {
			warn.Line = i + headerLines
			warnings = append(warnings, warn)

			continue
		}

		ds.Rows = append(ds.Rows, row)
	}

	return ds, warnings
}

func normalizeRow(raw csvparse.RawRow, dims map[Field]string, metrics map[string]string) (MetricRow, Warning, bool) {
	var row MetricRow

	if h, ok := dims[FieldCountry]; ok {
		row.Country = strings.TrimSpace(raw[h])
	}

	if h, ok := dims[FieldSystem]; ok {
		sys, err := ParseSystem(raw[h])
		if err != nil {
			return row, Warning{Column: h, Reason: err.Error()}, false
		}

		row.System = sys
	}

	if h, ok := dims[FieldCategory]; ok {
		cat, err := ParseCategory(raw[h])
		if err != nil {
			return row, Warning{Column: h, Reason: err.Error()}, false
		}

		row.Category = cat
	}

	if h, ok := dims[FieldVertical]; ok {
		row.Vertical = FoldVertical(raw[h])
	}

	if h, ok := dims[FieldWeekStart]; ok {
		d, err := season.ParseDate(raw[h])
		if err != nil {
			return row, Warning{Column: h, Reason: err.Error()}, false
		}

		row.WeekStart = d
	}

	if h, ok := dims[FieldWeekNumber]; ok {
		week, err := strconv.Atoi(strings.TrimSpace(raw[h]))
		if err != nil || week < minWeek || week > maxWeek {
			return row, Warning{Column: h, Reason: fmt.Sprintf("invalid week number %q", raw[h])}, false
		}

		row.WeekNumber = week
	}

	row.Values = make(map[string]Value, len(metrics))
	for key, h := range metrics {
		row.Values[key] = ParseValue(raw[h])
	}

	return row, Warning{}, true
}

func headersOf(row csvparse.RawRow) []string {
	headers := make([]string, 0, len(row))
	for h := range row {
		headers = append(headers, h)
	}

	slices.Sort(headers)

	return headers
}
