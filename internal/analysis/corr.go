package analysis

import (
	"math"

	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix.
type CorrMatrix struct {
	Columns []string
	Values  *mat.SymDense
}

// Size returns the number of columns.
func (m *CorrMatrix) Size() int { return len(m.Columns) }

// At returns r for columns i and j; NaN when undefined.
func (m *CorrMatrix) At(i, j int) float64 { return m.Values.At(i, j) }

// Correlation computes pairwise-complete Pearson correlations among the named columns.
// A pair with fewer than two shared observations, or a constant side, is NaN.
func Correlation(t *dataset.Table, names []string, scale Scale) (*CorrMatrix, error) {
	cols := make([][]float64, len(names))
	for i, name := range names {
		v, err := numericColumn(t, name, scale)
		if err != nil {
			return nil, err
		}
		cols[i] = v
	}
	n := len(names)
	sym := mat.NewSymDense(max(n, 1), nil)
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			r := pearson(cols[a], cols[b])
			if a == b && !math.IsNaN(r) {
				r = 1
			}
			sym.SetSym(a, b, r)
		}
	}
	return &CorrMatrix{Columns: append([]string(nil), names...), Values: sym}, nil
}

func pearson(x, y []float64) float64 {
	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
