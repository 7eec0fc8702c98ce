package config

import (
	"fmt"
	"maps"

	"github.com/Sumatoshi-tech/seasonality/pkg/annotate"
	"github.com/Sumatoshi-tech/seasonality/pkg/season"
)

// positive constrains types eligible for skip-on-zero overrides.
type positive interface {
	~int | ~float64
}

// applyPositive overwrites *dst with value when value is positive.
// Zero keeps the built-in default.
func applyPositive[T positive](dst *T, value T) {
	if value > 0 {
		*dst = value
	}
}

// ViewportClass resolves layout.viewport. Auto classifies by layout.width.
func (l LayoutConfig) ViewportClass() annotate.Viewport {
	switch l.Viewport {
	case ViewportDesktop:
		return annotate.Desktop
	case ViewportTablet:
		return annotate.Tablet
	case ViewportMobile:
		return annotate.Mobile
	default:
		return annotate.ViewportFor(l.Width)
	}
}

// AnnotateOptions merges layout settings over the stock marker layout.
// Configured exceptions are added to, and override, the built-in ones.
func (l LayoutConfig) AnnotateOptions() annotate.Options {
	opts := annotate.DefaultOptions(l.ViewportClass())

	applyPositive(&opts.Threshold, l.Threshold)
	applyPositive(&opts.NarrowThreshold, l.NarrowThreshold)

	maps.Copy(opts.Exceptions, l.Exceptions)

	return opts
}

// Calendar builds the season calendar from the embedded reference, or
// reference_file when set. Period boundaries and holiday dates are fixed
// dates, so a positive anchor_year must equal the reference's own year;
// another season year needs a reference file dated for it.
func (c CalendarConfig) Calendar() (*season.Calendar, error) {
	ref := season.DefaultReference()

	if c.ReferenceFile != "" {
		loaded, err := season.LoadReferenceFile(c.ReferenceFile)
		if err != nil {
			return nil, err
		}

		ref = loaded
	}

	if c.AnchorYear > 0 && c.AnchorYear != ref.AnchorYear {
		return nil, fmt.Errorf("%w: %d, reference is dated for %d", ErrAnchorYearMismatch, c.AnchorYear, ref.AnchorYear)
	}

	return season.NewCalendar(ref), nil
}
