package export_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Sumatoshi-tech/seasonality/internal/export"
	"github.com/Sumatoshi-tech/seasonality/internal/fixture"
	"github.com/Sumatoshi-tech/seasonality/internal/loader"
	"github.com/Sumatoshi-tech/seasonality/internal/report"
	"github.com/Sumatoshi-tech/seasonality/internal/store"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
	"github.com/Sumatoshi-tech/seasonality/pkg/filter"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func workbook(t *testing.T) export.Workbook {
	t.Helper()

	b, err := loader.Load(t.Context(), fixture.Source(), loader.Options{})
	require.NoError(t, err)

	cal := season.DefaultCalendar()
	opts := report.DefaultOptions(report.DefaultWidth)

	st := store.DefaultState()
	st.AdvertiserMetric = dataset.MetricCPM

	cmp, err := report.BuildComparison(b, st, cal, opts)
	require.NoError(t, err)

	return export.Workbook{
		Comparison: cmp,
		Season:     report.BuildUserSeason(b, filter.DefaultSelection(), cal, opts),
		Advertiser: report.BuildAdvertiser(b, filter.DefaultSelection(), cal, opts),
	}
}

func TestWriteWorkbook(t *testing.T) {
	t.Parallel()

	wb := workbook(t)

	var buf bytes.Buffer

	require.NoError(t, export.WriteWorkbook(&buf, wb))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)

	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t,
		[]string{export.SheetComparison, export.SheetCrossings, export.SheetSeason, export.SheetAdvertiser},
		f.GetSheetList())

	rows, err := f.GetRows(export.SheetComparison)
	require.NoError(t, err)
	require.Len(t, rows, len(wb.Comparison.Weeks)+1)
	assert.Equal(t, []string{"Week", "Week start", "Downloads, indexed", "CPM, indexed"}, rows[0])
	assert.Equal(t, []string{"40", "2024-09-30", "100", "120"}, rows[1])

	// Week 42 has no CPM value.
	assert.Len(t, rows[3], 3)

	crossings, err := f.GetRows(export.SheetCrossings)
	require.NoError(t, err)
	assert.Len(t, crossings, len(wb.Comparison.Segments.Intersections)+1)
	assert.Equal(t, "After week", crossings[0][0])

	seasonRows, err := f.GetRows(export.SheetSeason)
	require.NoError(t, err)
	require.NotEmpty(t, seasonRows)
	assert.Len(t, seasonRows[0], 1+2*len(report.SeasonMetrics))
	assert.Equal(t, "Downloads (past)", seasonRows[0][1])
}

func TestComparisonPNG(t *testing.T) {
	t.Parallel()

	wb := workbook(t)

	var buf bytes.Buffer

	require.NoError(t, export.ComparisonPNG(&buf, wb.Comparison))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestComparisonPNG_NoDomain(t *testing.T) {
	t.Parallel()

	v, err := report.BuildComparison(nil, store.DefaultState(), season.DefaultCalendar(), report.DefaultOptions(report.DefaultWidth))
	require.NoError(t, err)

	var buf bytes.Buffer

	require.ErrorIs(t, export.ComparisonPNG(&buf, v), export.ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestSeasonPNG(t *testing.T) {
	t.Parallel()

	wb := workbook(t)

	var buf bytes.Buffer

	require.NoError(t, export.SeasonPNG(&buf, wb.Season, 0))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))

	require.ErrorIs(t, export.SeasonPNG(&buf, wb.Season, len(wb.Season.Charts)), export.ErrNoData)
}
