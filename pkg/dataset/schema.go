package dataset

import "strings"

// Field is a canonical dimension column.
type Field string

// Canonical dimension fields.
const (
	FieldCountry    Field = "country"
	FieldSystem     Field = "system"
	FieldCategory   Field = "category"
	FieldVertical   Field = "vertical"
	FieldWeekStart  Field = "week_start"
	FieldWeekNumber Field = "week_number"
	FieldDate       Field = "date"
)

// MetricColumn maps a canonical metric key to its accepted source headers.
type MetricColumn struct {
	Key     string
	Sources []string
}

// Schema declares how source columns map to canonical fields for one sheet tab.
// Header lookup is case-insensitive and ignores surrounding whitespace.
type Schema struct {
	Name     string
	Columns  map[Field][]string
	Required []Field
	Metrics  []MetricColumn
}

// MetricKeys returns the canonical metric keys in declaration order.
func (s Schema) MetricKeys() []string {
	keys := make([]string, len(s.Metrics))
	for i, m := range s.Metrics {
		keys[i] = m.Key
	}

	return keys
}

// Metric keys of the user-engagement tab.
const (
	MetricWAU              = "wau"
	MetricDownloads        = "downloads"
	MetricRevenue          = "revenue"
	MetricTimeSpent        = "time_spent"
	MetricWAUIndexed       = "wau_indexed"
	MetricDownloadsIndexed = "downloads_indexed"
	MetricRevenueIndexed   = "revenue_indexed"
	MetricTimeSpentIndexed = "time_spent_indexed"
)

// Metric keys of the advertiser-KPI tab.
const (
	MetricAdOpportunities = "ad_opportunities"
	MetricCPM             = "cpm_p50"
	MetricCPI             = "cpi_p50"
	MetricROAS            = "roas_d7_p50"
	MetricARPPU           = "arppu_d7_p50"
)

var dimensionColumns = map[Field][]string{
	FieldCountry:    {"country"},
	FieldSystem:     {"os", "system"},
	FieldCategory:   {"category"},
	FieldVertical:   {"vertical"},
	FieldWeekStart:  {"week_start_date", "week_start"},
	FieldWeekNumber: {"week number", "week_number"},
}

var weeklyRequired = []Field{
	FieldCountry, FieldSystem, FieldCategory, FieldVertical, FieldWeekStart, FieldWeekNumber,
}

// UserEngagementSchema maps the user-engagement tab.
var UserEngagementSchema = Schema{
	Name:     "user-engagement",
	Columns:  dimensionColumns,
	Required: weeklyRequired,
	Metrics: []MetricColumn{
		{Key: MetricWAU, Sources: []string{"median_wau", "wau"}},
		{Key: MetricDownloads, Sources: []string{"downloads", "total_downloads"}},
		{Key: MetricRevenue, Sources: []string{"revenue", "total_revenue"}},
		{Key: MetricTimeSpent, Sources: []string{"time_spent", "total_time_spent"}},
		{Key: MetricWAUIndexed, Sources: []string{"wau_indexed", "median_wau_indexed"}},
		{Key: MetricDownloadsIndexed, Sources: []string{"downloads_indexed"}},
		{Key: MetricRevenueIndexed, Sources: []string{"revenue_indexed"}},
		{Key: MetricTimeSpentIndexed, Sources: []string{"time_spent_indexed"}},
	},
}

// AdvertiserKPISchema maps the advertiser-KPI tab.
var AdvertiserKPISchema = Schema{
	Name:     "advertiser-kpis",
	Columns:  dimensionColumns,
	Required: weeklyRequired,
	Metrics: []MetricColumn{
		{Key: MetricAdOpportunities, Sources: []string{"ad_opportunities", "bids_p50"}},
		{Key: MetricCPM, Sources: []string{"cpm_p50"}},
		{Key: MetricCPI, Sources: []string{"cpi_p50"}},
		{Key: MetricROAS, Sources: []string{"roas_d7_p50"}},
		{Key: MetricARPPU, Sources: []string{"arppu_d7_p50"}},
	},
}

// VerticalInclusionSchema maps the vertical-inclusion tab.
var VerticalInclusionSchema = Schema{
	Name:     "vertical-inclusion",
	Columns:  dimensionColumns,
	Required: []Field{FieldCountry, FieldSystem, FieldVertical},
}

// LatestUpdateSchema maps the latest-data-update tab.
var LatestUpdateSchema = Schema{
	Name:     "latest-data-update",
	Columns:  map[Field][]string{FieldDate: {"date", "latest_date", "last_update"}},
	Required: []Field{FieldDate},
}

// headerIndex resolves canonical names to the actual header text of a table.
type headerIndex map[string]string

func newHeaderIndex(headers []string) headerIndex {
	idx := make(headerIndex, len(headers))
	for _, h := range headers {
		key := normalizeHeader(h)
		if _, dup := idx[key]; !dup {
			idx[key] = h
		}
	}

	return idx
}

// resolve returns the first actual header matching any candidate.
func (h headerIndex) resolve(candidates []string) (string, bool) {
	for _, c := range candidates {
		if actual, ok := h[normalizeHeader(c)]; ok {
			return actual, true
		}
	}

	return "", false
}

func normalizeHeader(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
