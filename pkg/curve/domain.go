package curve

import (
	"github.com/Sumatoshi-tech/seasonality/pkg/alg/stats"
	"github.com/Sumatoshi-tech/seasonality/pkg/dataset"
)

// Series pairs rows with the metric plotted from them.
type Series struct {
	Rows   []dataset.MetricRow
	Metric string
}

// Values returns the defined values of the series.
func (s Series) Values() []float64 {
	out := make([]float64, 0, len(s.Rows))

	for _, r := range s.Rows {
		if v := r.Value(s.Metric); v.Valid {
			out = append(out, v.Float)
		}
	}

	return out
}

// SharedDomain returns the min and max over the defined values of every
// series, so two lines share one value axis. ok is false when no series has
// a defined value.
func SharedDomain(series ...Series) (lo, hi float64, ok bool) {
	var all []float64
	for _, s := range series {
		all = append(all, s.Values()...)
	}

	return stats.Extent(all)
}

// Padded lowers the domain minimum by frac of the span, leaving headroom
// below the lowest line.
func Padded(lo, hi, frac float64) (paddedLo, paddedHi float64) {
	return lo - (hi-lo)*frac, hi
}
