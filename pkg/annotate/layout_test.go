package annotate_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/seasonality/pkg/annotate"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

var testBounds = annotate.Bounds{Width: 1000, Left: 60, Right: 60}

func holiday(name, date string) season.Holiday {
	return season.Holiday{
		Name:  name,
		Dates: map[season.Season]season.CalendarDate{season.Current: season.MustParseDate(date)},
	}
}

// fixedX places each date at a preset inner x.
func fixedX(positions map[string]float64) annotate.DateToX {
	return func(d season.CalendarDate) float64 {
		if x, ok := positions[d.String()]; ok {
			return x
		}

		return math.NaN()
	}
}

func TestLayout_CollisionOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		gap        float64
		wantOffset float64
	}{
		{name: "close markers pushed", gap: 12, wantOffset: annotate.DefaultThreshold},
		{name: "distant markers untouched", gap: 100, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hs := []season.Holiday{
				holiday("Thanksgiving", "2025-11-27"),
				holiday("Black Friday", "2025-11-28"),
			}
			toX := fixedX(map[string]float64{"2025-11-27": 300, "2025-11-28": 300 + tt.gap})

			got := annotate.Layout(hs, season.Current, toX, testBounds, annotate.DefaultOptions(annotate.Desktop))
			require.Len(t, got, 2)

			assert.Zero(t, got[0].OffsetX)
			assert.InDelta(t, tt.wantOffset, got[1].OffsetX, 0)
			assert.InDelta(t, annotate.DefaultBaseOffsetY, got[1].OffsetY, 0)
		})
	}
}

func TestLayout_UsesEffectivePreviousX(t *testing.T) {
	t.Parallel()

	hs := []season.Holiday{
		holiday("A", "2025-12-01"),
		holiday("B", "2025-12-02"),
		holiday("C", "2025-12-03"),
	}
	// B is pushed to 345, so C at 370 is within 35 of it.
	toX := fixedX(map[string]float64{"2025-12-01": 300, "2025-12-02": 310, "2025-12-03": 370})

	got := annotate.Layout(hs, season.Current, toX, testBounds, annotate.DefaultOptions(annotate.Desktop))
	require.Len(t, got, 3)

	assert.InDelta(t, 35, got[1].OffsetX, 0)
	assert.InDelta(t, 35, got[2].OffsetX, 0)
}

func TestLayout_DropsAndSorts(t *testing.T) {
	t.Parallel()

	hs := []season.Holiday{
		holiday("Late", "2025-12-25"),
		holiday("Early", "2025-10-31"),
		holiday("Outside", "2026-03-01"),
		holiday("Unplaced", "2026-01-01"),
		{Name: "PastOnly", Dates: map[season.Season]season.CalendarDate{season.Past: season.MustParseDate("2024-12-25")}},
	}
	toX := fixedX(map[string]float64{
		"2025-12-25": 500,
		"2025-10-31": 100,
		"2026-03-01": 900,
	})

	got := annotate.Layout(hs, season.Current, toX, testBounds, annotate.DefaultOptions(annotate.Desktop))
	require.Len(t, got, 2)

	assert.Equal(t, "Early", got[0].Holiday.Name)
	assert.Equal(t, 1, got[0].Index)
	assert.InDelta(t, 160, got[0].X, 0)
	assert.Equal(t, "Late", got[1].Holiday.Name)
	assert.Equal(t, 0, got[1].Index)
}

func TestLayout_NarrowStacksVertically(t *testing.T) {
	t.Parallel()

	hs := []season.Holiday{
		holiday("Halloween", "2025-10-31"),
		holiday("Thanksgiving", "2025-11-27"),
		holiday("Black Friday", "2025-11-28"),
		holiday("New Year", "2026-01-01"),
		holiday("Valentine's day", "2026-02-14"),
	}
	toX := fixedX(map[string]float64{
		"2025-10-31": 50,
		"2025-11-27": 100,
		"2025-11-28": 105,
		"2026-01-01": 200,
		"2026-02-14": 300,
	})

	got := annotate.Layout(hs, season.Current, toX, annotate.Bounds{Width: 460, Left: 50, Right: 1},
		annotate.DefaultOptions(annotate.ViewportFor(460)))
	require.Len(t, got, 5)

	assert.Zero(t, got[0].OffsetX)
	assert.InDelta(t, 5, got[0].OffsetY, 0)
	assert.Zero(t, got[2].OffsetX, "no horizontal push on narrow viewports")
	assert.InDelta(t, 30, got[1].OffsetY, 0)
	assert.InDelta(t, 5, got[2].OffsetY, 0)

	assert.InDelta(t, 10, got[3].OffsetX, 0)
	assert.InDelta(t, 12, got[3].OffsetY, 0)
	assert.Zero(t, got[4].OffsetX)
	assert.InDelta(t, 30, got[4].OffsetY, 0)
}

func TestLayout_ExceptionsIgnoredOnDesktop(t *testing.T) {
	t.Parallel()

	hs := []season.Holiday{holiday("New Year", "2026-01-01")}
	toX := fixedX(map[string]float64{"2026-01-01": 200})

	got := annotate.Layout(hs, season.Current, toX, testBounds, annotate.DefaultOptions(annotate.Desktop))
	require.Len(t, got, 1)
	assert.Zero(t, got[0].OffsetX)
	assert.InDelta(t, 5, got[0].OffsetY, 0)
}

func TestViewportFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, annotate.Mobile, annotate.ViewportFor(375))
	assert.Equal(t, annotate.Mobile, annotate.ViewportFor(480))
	assert.Equal(t, annotate.Tablet, annotate.ViewportFor(768))
	assert.Equal(t, annotate.Desktop, annotate.ViewportFor(1280))
	assert.True(t, annotate.Tablet.Narrow())
	assert.False(t, annotate.Desktop.Narrow())
	assert.Equal(t, "mobile", annotate.Mobile.String())
}

func TestLayout_ExceptionNamesIgnoreCase(t *testing.T) {
	t.Parallel()

	opts := annotate.DefaultOptions(annotate.Tablet)
	opts.Exceptions = map[string]annotate.Offset{"diwali": {X: 4, Y: 18}}

	hs := []season.Holiday{holiday("Diwali", "2025-10-20")}
	got := annotate.Layout(hs, season.Current, fixedX(map[string]float64{"2025-10-20": 20}),
		annotate.Bounds{Width: 700, Left: 30, Right: 1}, opts)

	require.Len(t, got, 1)
	assert.Equal(t, annotate.Offset{X: 4, Y: 18}, annotate.Offset{X: got[0].OffsetX, Y: got[0].OffsetY})
}
