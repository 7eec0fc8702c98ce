// Package format renders metric values and dates for labels and tooltips.
// Null values always render as Placeholder.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// Placeholder stands in for values that cannot be shown.
const Placeholder = "–"

const (
	dateLayout     = "Jan 02, 2006"
	indexedSuffix  = "_indexed"
	wowSuffix      = "_wow"
	percentFactor  = 100
	oneDecimal     = 10
	trailingZeroes = ".0"
)

var compactUnits = []struct {
	limit  float64
	suffix string
}{
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "k"},
}

// Compact abbreviates large magnitudes to whole k, M or B units. Values
// under a thousand are printed as is.
func Compact(v dataset.Value) string {
	if !v.Valid {
		return Placeholder
	}

	return compact(v.Float)
}

// SignedCompact is Compact on the magnitude with a leading minus for
// negative values.
func SignedCompact(v dataset.Value) string {
	if !v.Valid {
		return Placeholder
	}

	out := compact(math.Abs(v.Float))
	if v.Float < 0 {
		return "-" + out
	}

	return out
}

// WoW renders a week-over-week ratio as a signed percentage with at most one
// decimal.
func WoW(v dataset.Value) string {
	if !v.Valid {
		return Placeholder
	}

	pct := v.Float * percentFactor

	switch {
	case pct > 0:
		return "+" + oneDecimalString(pct) + "%"
	case pct < 0:
		return oneDecimalString(pct) + "%"
	default:
		return "0%"
	}
}

// Indexed renders an index value rounded to a whole number.
func Indexed(v dataset.Value) string {
	if !v.Valid {
		return Placeholder
	}

	return strconv.FormatFloat(math.Round(v.Float), 'f', 0, 64)
}

// Plain renders the value with thousands separators.
func Plain(v dataset.Value) string {
	if !v.Valid {
		return Placeholder
	}

	return humanize.Commaf(v.Float)
}

// ForMetric picks the formatter for a metric key.
func ForMetric(metric string, v dataset.Value) string {
	switch {
	case strings.HasSuffix(metric, indexedSuffix):
		return Indexed(v)
	case strings.HasSuffix(metric, wowSuffix):
		return WoW(v)
	}

	switch metric {
	case dataset.MetricWAU, dataset.MetricDownloads, dataset.MetricRevenue:
		return Compact(v)
	case dataset.MetricTimeSpent:
		return SignedCompact(v)
	default:
		return Indexed(v)
	}
}

// Date renders a calendar date as "Jan 02, 2006".
func Date(d season.CalendarDate) string {
	if d.IsZero() {
		return Placeholder
	}

	return d.Time().Format(dateLayout)
}

// WeekLabel is the tooltip heading for a week of a given year.
func WeekLabel(week, year int) string {
	return fmt.Sprintf("Week %d in %d", week, year)
}

// WeekOf is the tooltip heading for the week starting at d.
func WeekOf(d season.CalendarDate) string {
	return "Week of " + Date(d)
}

// Starts is the secondary tooltip line for a week start.
func Starts(d season.CalendarDate) string {
	if d.IsZero() {
		return ""
	}

	return "(starts " + Date(d) + ")"
}

func compact(v float64) string {
	for _, u := range compactUnits {
		if v >= u.limit {
			return strconv.FormatFloat(math.Round(v/u.limit), 'f', 0, 64) + u.suffix
		}
	}

	return strconv.FormatFloat(v, 'f', -1, 64)
}

func oneDecimalString(v float64) string {
	s := strconv.FormatFloat(math.Round(v*oneDecimal)/oneDecimal, 'f', 1, 64)

	return strings.TrimSuffix(s, trailingZeroes)
}
