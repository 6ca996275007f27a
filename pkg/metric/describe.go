// Package metric computes the scan statistics shown in summaries.
package metric

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a sample.
type Summary struct {
	Count  int
	Total  float64
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Describe computes the distribution summary of the given values.
// An empty sample yields a zero summary.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	data := make([]float64, len(values))
	copy(data, values)
	sort.Float64s(data)

	mean, stdDev := stat.MeanStdDev(data, nil)
	if len(data) == 1 {
		stdDev = 0
	}

	return Summary{
		Count:  len(data),
		Total:  lo.Sum(data),
		Mean:   mean,
		Median: stat.Quantile(0.5, stat.LinInterp, data, nil),
		StdDev: stdDev,
		Min:    data[0],
		Max:    data[len(data)-1],
	}
}
