// Package fixture generates small but realistic report tabs covering both
// seasons, for tests across packages.
package fixture

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Sumatoshi-tech/seasonality/internal/source"
)

// Generated week range: first Monday of the past season through the last
// Monday of the current one.
var (
	FirstWeek = time.Date(2024, time.September, 30, 0, 0, 0, 0, time.UTC)
	LastWeek  = time.Date(2026, time.March, 30, 0, 0, 0, 0, time.UTC)
)

// LatestDate is the value of the latest-update tab.
const LatestDate = "2026-03-30"

// Slice is one (country, system, category, vertical) combination.
type Slice struct {
	Country, System, Category, Vertical string
}

// Slices are the generated combinations. The consumer slice exists only in
// the user tab.
var Slices = []Slice{
	{"USA", "IOS", "gaming", "all"},
	{"USA", "IOS", "gaming", "casual"},
	{"JPN", "ANDROID", "gaming", "all"},
	{"USA", "IOS", "non-gaming", "consumer-all"},
}

// UserIndexed returns the generated downloads_indexed value of week i.
func UserIndexed(i int) float64 { return round2(100 + 20*math.Sin(float64(i)/3)) }

// AdvertiserIndexed returns the generated cpm_p50 value of week i.
func AdvertiserIndexed(i int) float64 { return round2(100 + 20*math.Cos(float64(i)/3)) }

// Weeks returns every generated Monday.
func Weeks() []time.Time {
	var out []time.Time
	for d := FirstWeek; !d.After(LastWeek); d = d.AddDate(0, 0, 7) {
		out = append(out, d)
	}

	return out
}

// UserCSV renders the user-engagement tab.
func UserCSV() string {
	var b strings.Builder

	b.WriteString("Country,OS,Category,Vertical,Week_Start_Date,Week Number,median_wau,downloads,revenue," +
		"time_spent,wau_indexed,downloads_indexed,revenue_indexed,time_spent_indexed\n")

	for _, s := range Slices {
		for i, w := range Weeks() {
			_, week := w.ISOWeek()
			idx := UserIndexed(i)

			fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%d,\"%d\",%d,%d,%.1f,%.2f,%.2f,%.2f,%.2f\n",
				s.Country, s.System, s.Category, s.Vertical, w.Format(time.DateOnly), week,
				1_200_000+i*1_000, 50_000+i*100, 250_000+i*500, float64(i)/10,
				idx, idx, idx+1, idx-1)
		}
	}

	return b.String()
}

// AdvertiserCSV renders the advertiser-KPI tab. Week 42 of the past season
// has an empty cpm_p50.
func AdvertiserCSV() string {
	var b strings.Builder

	b.WriteString("Country,OS,Category,Vertical,Week_Start_Date,Week Number,ad_opportunities,cpm_p50," +
		"cpi_p50,roas_d7_p50,arppu_d7_p50\n")

	for _, s := range Slices[:3] {
		for i, w := range Weeks() {
			_, week := w.ISOWeek()

			cpm := fmt.Sprintf("%.2f", AdvertiserIndexed(i))
			if i == 2 {
				cpm = ""
			}

			fmt.Fprintf(&b, "%s,%s,%s,%s,%s,%d,%.2f,%s,%.2f,%.2f,%.2f\n",
				s.Country, s.System, s.Category, s.Vertical, w.Format(time.DateOnly), week,
				100+float64(i%5), cpm, 95+float64(i%7), 101+float64(i%3), 99+float64(i%4))
		}
	}

	return b.String()
}

// InclusionCSV renders the vertical-inclusion tab.
func InclusionCSV() string {
	return "Country,OS,Vertical\nUSA,IOS,all\nUSA,IOS,casual\nJPN,ANDROID,all\nUSA,IOS,consumer-all\n"
}

// Source serves all generated tabs.
func Source() source.Memory {
	return source.Memory{
		source.TabUserEngagement:    UserCSV(),
		source.TabAdvertiserKPIs:    AdvertiserCSV(),
		source.TabVerticalInclusion: InclusionCSV(),
		source.TabLatestUpdate:      "date\n" + LatestDate + "\n",
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
