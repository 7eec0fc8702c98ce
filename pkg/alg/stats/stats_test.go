package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		val, lo, hi float64
		expected    float64
	}{
		{name: "within_range", val: 5.0, lo: 0.0, hi: 10.0, expected: 5.0},
		{name: "below_min", val: -1.0, lo: 0.0, hi: 10.0, expected: 0.0},
		{name: "above_max", val: 15.0, lo: 0.0, hi: 10.0, expected: 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.InDelta(t, tt.expected, Clamp(tt.val, tt.lo, tt.hi), 0.0001)
		})
	}
}

func TestClampInt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 26, Clamp(40, 0, 26))
}

func TestExtent(t *testing.T) {
	t.Parallel()

	t.Run("skips_nan", func(t *testing.T) {
		t.Parallel()

		lo, hi, ok := Extent([]float64{math.NaN(), 120, 80, math.Inf(1), 95})
		assert.True(t, ok)
		assert.InDelta(t, 80, lo, 0.0001)
		assert.InDelta(t, 120, hi, 0.0001)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		_, _, ok := Extent([]float64{math.NaN()})
		assert.False(t, ok)
	})
}

func TestMean(t *testing.T) {
	t.Parallel()

	mean, ok := Mean([]float64{100, math.NaN(), 120})
	assert.True(t, ok)
	assert.InDelta(t, 110, mean, 0.0001)

	_, ok = Mean(nil)
	assert.False(t, ok)
}
