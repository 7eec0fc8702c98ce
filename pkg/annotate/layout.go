// Package annotate places holiday markers along a chart time axis so that
// neighbouring markers stay readable.
package annotate

import (
	"math"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// Default layout constants, in pixels.
const (
	DefaultThreshold    = 35
	DefaultBaseOffsetY  = 5
	DefaultStackOffsetY = 30
)

// Offset is a fixed marker displacement.
type Offset struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// DefaultExceptions returns the per-holiday offsets used on narrow viewports.
func DefaultExceptions() map[string]Offset {
	return map[string]Offset{
		"New Year":        {X: 10, Y: 12},
		"Valentine's day": {X: 0, Y: 30},
	}
}

// Bounds describes the chart surface. Markers must land within
// [Left, Width-Right].
type Bounds struct {
	Width float64
	Left  float64
	Right float64
}

// Options tunes the layout pass.
type Options struct {
	Viewport Viewport
	// Threshold is the minimum gap on desktop; closer markers are pushed by it.
	Threshold float64
	// NarrowThreshold applies the same push on narrow viewports. Zero disables it.
	NarrowThreshold float64
	BaseOffsetY     float64
	StackOffsetY    float64
	// Exceptions override offsets by holiday name on narrow viewports.
	// Names match case-insensitively.
	Exceptions map[string]Offset
}

// DefaultOptions returns the stock options for viewport v.
func DefaultOptions(v Viewport) Options {
	return Options{
		Viewport:     v,
		Threshold:    DefaultThreshold,
		BaseOffsetY:  DefaultBaseOffsetY,
		StackOffsetY: DefaultStackOffsetY,
		Exceptions:   DefaultExceptions(),
	}
}

// DateToX maps a calendar date to an x offset inside the plot area. It may
// return NaN for dates it cannot place.
type DateToX func(season.CalendarDate) float64

// Placement is a positioned marker.
type Placement struct {
	Holiday season.Holiday `json:"holiday"`
	// Index is the holiday's position in the input list.
	Index   int     `json:"index"`
	X       float64 `json:"x"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
}

// EffectiveX is where the marker is drawn after its push.
func (p Placement) EffectiveX() float64 {
	return p.X + p.OffsetX
}

// Layout positions the holidays of season s. Markers off the visible axis are
// dropped, the rest are ordered by x and walked once left to right; a marker
// never moves an earlier one.
func Layout(holidays []season.Holiday, s season.Season, dateToX DateToX, b Bounds, opts Options) []Placement {
	placements := make([]Placement, 0, len(holidays))

	for i, h := range holidays {
		d, ok := h.Date(s)
		if !ok {
			continue
		}

		x := dateToX(d) + b.Left
		if math.IsNaN(x) || x < b.Left || x > b.Width-b.Right {
			continue
		}

		placements = append(placements, Placement{Holiday: h, Index: i, X: x})
	}

	slices.SortStableFunc(placements, func(l, r Placement) int {
		switch {
		case l.X < r.X:
			return -1
		case l.X > r.X:
			return 1
		default:
			return 0
		}
	})

	narrow := opts.Viewport.Narrow()

	threshold := opts.Threshold
	if narrow {
		threshold = opts.NarrowThreshold
	}

	for i := range placements {
		p := &placements[i]
		p.OffsetY = opts.BaseOffsetY

		if i > 0 && threshold > 0 && p.X-placements[i-1].EffectiveX() < threshold {
			p.OffsetX = threshold
		}

		if !narrow {
			continue
		}

		if i%2 == 1 {
			p.OffsetY = opts.StackOffsetY
		}

		if off, ok := exceptionFor(opts.Exceptions, p.Holiday.Name); ok {
			p.OffsetX, p.OffsetY = off.X, off.Y
		}
	}

	return placements
}

func exceptionFor(exceptions map[string]Offset, name string) (Offset, bool) {
	if off, ok := exceptions[name]; ok {
		return off, true
	}

	for k, off := range exceptions {
		if strings.EqualFold(k, name) {
			return off, true
		}
	}

	return Offset{}, false
}
