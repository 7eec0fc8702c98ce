// Package report composes the chart views (season, advertiser and
// comparison) from loaded data and the current selection. Views carry
// finished geometry; drawing them is left to the plot and export packages.
package report

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
)

// ErrUnknownMetric is returned for a metric key missing from a catalog.
var ErrUnknownMetric = errors.New("unknown metric")

// Metric describes one selectable series.
type Metric struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Catalog is an ordered list of metrics.
type Catalog []Metric

// SeasonMetrics are the raw user-engagement charts of the season view.
var SeasonMetrics = Catalog{
	{Key: dataset.MetricDownloads, Label: "Downloads", Title: "Downloads"},
	{Key: dataset.MetricRevenue, Label: "Revenue", Title: "Revenue"},
	{Key: dataset.MetricTimeSpent, Label: "Time spent", Title: "Time Spent"},
}

// UserMetrics are the indexed user-engagement series of the comparison view.
var UserMetrics = Catalog{
	{Key: dataset.MetricDownloadsIndexed, Label: "Downloads", Title: "Downloads, indexed"},
	{Key: dataset.MetricRevenueIndexed, Label: "Revenue", Title: "Revenue, indexed"},
	{Key: dataset.MetricTimeSpentIndexed, Label: "Time Spent", Title: "Time Spent, indexed"},
}

// AdvertiserMetrics are the advertiser KPIs.
var AdvertiserMetrics = Catalog{
	{
		Key: dataset.MetricAdOpportunities, Label: "Ad opportunities", Title: "Ad opportunities, indexed",
		Description: "Total bid requests across all supply inventory",
	},
	{
		Key: dataset.MetricCPM, Label: "CPM", Title: "CPM, indexed",
		Description: "Cost per mile (thousand) impressions",
	},
	{
		Key: dataset.MetricCPI, Label: "CPI", Title: "CPI, indexed",
		Description: "Cost per install",
	},
	{
		Key: dataset.MetricROAS, Label: "ROAS", Title: "ROAS, indexed",
		Description: "Return on Ad Spend (D7)",
	},
	{
		Key: dataset.MetricARPPU, Label: "ARPPU", Title: "ARPPU, indexed",
		Description: "Average Revenue Per Paying User (D7)",
	},
}

// Lookup returns the metric with key.
func (c Catalog) Lookup(key string) (Metric, error) {
	for _, m := range c {
		if m.Key == key {
			return m, nil
		}
	}

	return Metric{}, fmt.Errorf("%w: %q", ErrUnknownMetric, key)
}

// Keys returns the metric keys in order.
func (c Catalog) Keys() []string {
	keys := make([]string, len(c))
	for i, m := range c {
		keys[i] = m.Key
	}

	return keys
}
