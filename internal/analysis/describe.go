package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// NumSummary holds descriptive statistics of one numeric column.
type NumSummary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

// DescribeRows lists the statistic names in display order.
var DescribeRows = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Values returns the statistics in DescribeRows order.
func (s NumSummary) Values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max}
}

// Describe summarizes every numeric column over its present cells.
// Categorical columns are skipped; a table without numeric columns yields an empty result.
// Statistics that need more observations than available are NaN (std needs two).
func Describe(t *dataset.Table) []NumSummary {
	var out []NumSummary
	for _, c := range t.Columns {
		if c.Kind != dataset.KindNumeric {
			continue
		}
		vals := c.Present()
		s := NumSummary{Column: c.Name, Count: len(vals)}
		if len(vals) == 0 {
			nan := math.NaN()
			s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
			out = append(out, s)
			continue
		}
		sorted := append([]float64(nil), vals...)
		sort.Float64s(sorted)
		s.Mean = stat.Mean(vals, nil)
		s.Std = math.NaN()
		if len(vals) > 1 {
			s.Std = stat.StdDev(vals, nil)
		}
		s.Min = sorted[0]
		s.Max = sorted[len(sorted)-1]
		s.Q25 = quantile(sorted, 0.25)
		s.Q50 = quantile(sorted, 0.5)
		s.Q75 = quantile(sorted, 0.75)
		out = append(out, s)
	}
	return out
}

// quantile interpolates linearly between closest ranks of an ascending slice.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
