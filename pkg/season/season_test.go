package season_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    season.CalendarDate
		wantErr bool
	}{
		{name: "iso", input: "2024-10-07", want: season.Date(2024, time.October, 7)},
		{name: "padded whitespace", input: "  2025-01-06 ", want: season.Date(2025, time.January, 6)},
		{name: "time suffix ignored", input: "2024-12-30T00:00:00Z", want: season.Date(2024, time.December, 30)},
		{name: "unpadded parts", input: "2024-1-6", want: season.Date(2024, time.January, 6)},
		{name: "impossible day", input: "2024-02-30", wantErr: true},
		{name: "not a date", input: "week 40", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := season.ParseDate(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, season.ErrInvalidDate)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCalendarDate_NoTimeZoneShift(t *testing.T) {
	t.Parallel()

	d := season.MustParseDate("2024-12-30")

	assert.Equal(t, "2024-12-30", d.String())
	assert.Equal(t, time.UTC, d.Time().Location())
	assert.Equal(t, int64(1735516800000), d.UnixMilli())
}

func TestCalendarDate_Arithmetic(t *testing.T) {
	t.Parallel()

	d := season.MustParseDate("2024-12-30")

	assert.Equal(t, season.MustParseDate("2025-01-06"), d.AddDays(7))
	assert.Equal(t, 7, d.DaysUntil(d.AddDays(7)))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.AddDays(1).After(d))
	assert.Equal(t, 0, d.Compare(season.Date(2024, time.December, 30)))
}

func TestFullWeekAxis_WrapsAtYearEnd(t *testing.T) {
	t.Parallel()

	axis := season.FullWeekAxis()

	require.Len(t, axis, 27)
	assert.Equal(t, 40, axis[0])
	assert.Equal(t, 52, axis[12])
	assert.Equal(t, 1, axis[13])
	assert.Equal(t, 14, axis[26])
	assert.Less(t, axis.Index(52), axis.Index(1))
}

func TestWeekRange(t *testing.T) {
	t.Parallel()

	assert.Equal(t, season.WeekAxis{48, 49, 50, 51, 52, 1}, season.WeekRange(48, 1))
	assert.Equal(t, season.WeekAxis{1, 2, 3}, season.WeekRange(1, 3))
	assert.Equal(t, season.WeekAxis{5}, season.WeekRange(5, 5))
}

func TestCalendar_Range(t *testing.T) {
	t.Parallel()

	cal := season.DefaultCalendar()

	assert.Equal(t, 2024, cal.AnchorYear)
	assert.Equal(t, season.Range{
		Start: season.MustParseDate("2024-10-01"),
		End:   season.MustParseDate("2025-03-31"),
	}, cal.Range(season.Past))
	assert.Equal(t, season.Range{
		Start: season.MustParseDate("2025-10-01"),
		End:   season.MustParseDate("2026-03-31"),
	}, cal.Range(season.Current))
	assert.Equal(t, "2025-09-30", cal.Axis(season.Current).Start.String())
}

func TestCalendar_SeasonOf(t *testing.T) {
	t.Parallel()

	cal := season.DefaultCalendar()

	tests := []struct {
		name   string
		date   string
		want   season.Season
		wantOK bool
	}{
		{name: "week straddling october first", date: "2024-09-30", want: season.Past, wantOK: true},
		{name: "mid past season", date: "2024-12-30", want: season.Past, wantOK: true},
		{name: "current season", date: "2025-11-24", want: season.Current, wantOK: true},
		{name: "summer gap", date: "2025-07-07", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := cal.SeasonOf(season.MustParseDate(tt.date))
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPeriod_WeekAxis(t *testing.T) {
	t.Parallel()

	cal := season.DefaultCalendar()

	peak, err := cal.Period(season.PeriodPeakSeason)
	require.NoError(t, err)

	assert.Equal(t, season.WeekAxis{48, 49, 50, 51, 52, 1}, peak.WeekAxis(season.Past))
	assert.Equal(t, season.MustParseDate("2025-11-24"), peak.Window(season.Current).Start)
	assert.Equal(t, 24, peak.Start[season.Current].Day())
	assert.Equal(t, time.November, peak.Start[season.Current].Month())
	assert.Equal(t, 2025, peak.Start[season.Current].Year())
	assert.Equal(t, "November 24 to December 25", peak.Subtitle[season.Current])
}

func TestCalendar_UnknownPeriod(t *testing.T) {
	t.Parallel()

	_, err := season.DefaultCalendar().Window(season.Past, "summer")
	require.ErrorIs(t, err, season.ErrUnknownPeriod)
}

func TestParseSeason(t *testing.T) {
	t.Parallel()

	got, err := season.ParseSeason(" Current ")
	require.NoError(t, err)
	assert.Equal(t, season.Current, got)

	_, err = season.ParseSeason("next")
	require.ErrorIs(t, err, season.ErrUnknownSeason)
}

func TestCalendar_Months(t *testing.T) {
	t.Parallel()

	cal := season.DefaultCalendar()

	all, err := cal.Months(season.Past, season.PeriodAll)
	require.NoError(t, err)
	require.Len(t, all, 6)
	assert.Equal(t, "October", all[0].Name)
	assert.Equal(t, "Mar", all[5].ShortName)

	peak, err := cal.Months(season.Current, season.PeriodPeakSeason)
	require.NoError(t, err)
	require.Len(t, peak, 2)
	assert.Equal(t, "November", peak[0].Name)
	assert.Equal(t, season.MustParseDate("2025-11-24"), peak[0].Begin)
	assert.Equal(t, season.MustParseDate("2025-12-29"), peak[1].End)
}

func TestHolidays_DatedPerSeason(t *testing.T) {
	t.Parallel()

	holidays := season.DefaultCalendar().Holidays()
	require.NotEmpty(t, holidays)

	for _, h := range holidays {
		for _, s := range season.Seasons {
			_, ok := h.Date(s)
			assert.True(t, ok, "%s has no %s date", h.Name, s)
		}
	}

	assert.Equal(t, "Dec 25", holidays[5].DisplayLabel(season.Past))
}

func TestParseReference_SchemaViolation(t *testing.T) {
	t.Parallel()

	_, err := season.ParseReference([]byte("anchor_year: 2024\nperiods: []\nholidays: []\n"))
	require.ErrorIs(t, err, season.ErrInvalidReference)
}

func TestParseReference_EndBeforeStart(t *testing.T) {
	t.Parallel()

	doc := `anchor_year: 2024
periods:
  - value: all
    title: Show all
    start:
      past: {week: 40, date: "2024-09-30"}
      current: {week: 40, date: "2025-09-29"}
    end:
      past: {week: 14, date: "2024-03-31"}
      current: {week: 14, date: "2026-03-30"}
holidays: []
`

	_, err := season.ParseReference([]byte(doc))
	require.ErrorIs(t, err, season.ErrInvalidReference)
}

func TestLoadReferenceFile_Override(t *testing.T) {
	t.Parallel()

	doc := `anchor_year: 2025
periods:
  - value: all
    title: Show all
    start:
      past: {week: 40, date: 2025-09-29}
      current: {week: 40, date: 2026-09-28}
    end:
      past: {week: 14, date: 2026-03-30}
      current: {week: 13, date: 2027-03-29}
holidays:
  - name: Christmas
    dates: {past: 2025-12-25, current: 2026-12-25}
`

	path := filepath.Join(t.TempDir(), "calendar.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	ref, err := season.LoadReferenceFile(path)
	require.NoError(t, err)

	cal := season.NewCalendar(ref)
	assert.Equal(t, 2025, cal.AnchorYear)
	assert.Equal(t, season.MustParseDate("2026-10-01"), cal.Range(season.Current).Start)
	assert.Equal(t, season.MustParseDate("2027-03-29"), cal.Periods()[0].Window(season.Current).End)
}
