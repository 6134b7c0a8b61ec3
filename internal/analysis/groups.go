package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// CategoryCount is one bar of a count plot.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ColumnMean is the mean of one column over its present cells.
type ColumnMean struct {
	Column string  `json:"column"`
	Mean   float64 `json:"mean"`
}

// BoxStats is the five-number summary of one group, with 1.5·IQR whiskers.
type BoxStats struct {
	Group        string    `json:"group"`
	N            int       `json:"n"`
	Min          float64   `json:"min"`
	Max          float64   `json:"max"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
	Outliers     []float64 `json:"outliers,omitempty"`
}

type groupKey struct {
	label string
	num   float64
	first int
}

// orderKeys sorts numeric groups by value and categorical groups by scale code,
// falling back to first appearance.
func orderKeys(keys []groupKey, c *dataset.Column, scale Scale) {
	sort.SliceStable(keys, func(i, j int) bool {
		if c.Kind == dataset.KindNumeric {
			return keys[i].num < keys[j].num
		}
		ci, oki := scale.code(keys[i].label)
		cj, okj := scale.code(keys[j].label)
		if oki && okj && ci != cj {
			return ci < cj
		}
		return keys[i].first < keys[j].first
	})
}

func collectKeys(c *dataset.Column) ([]groupKey, map[string]int) {
	var keys []groupKey
	idx := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		label := c.Cell(i)
		if _, ok := idx[label]; ok {
			continue
		}
		k := groupKey{label: label, first: i}
		if c.Kind == dataset.KindNumeric {
			k.num = c.Nums[i]
		}
		idx[label] = len(keys)
		keys = append(keys, k)
	}
	return keys, idx
}

// ValueCounts counts rows per distinct present value of a column.
func ValueCounts(t *dataset.Table, name string, scale Scale) ([]CategoryCount, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	keys, _ := collectKeys(c)
	counts := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			counts[c.Cell(i)]++
		}
	}
	orderKeys(keys, c, scale)
	out := make([]CategoryCount, len(keys))
	for i, k := range keys {
		out[i] = CategoryCount{Value: k.label, Count: counts[k.label]}
	}
	return out, nil
}

// Means returns the mean of each named numeric column, in the given order.
func Means(t *dataset.Table, names []string) ([]ColumnMean, error) {
	out := make([]ColumnMean, 0, len(names))
	for _, name := range names {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if c.Kind != dataset.KindNumeric {
			return nil, fmt.Errorf("%w: %s", ErrNotNumeric, name)
		}
		m := math.NaN()
		if vals := c.Present(); len(vals) > 0 {
			m = stat.Mean(vals, nil)
		}
		out = append(out, ColumnMean{Column: name, Mean: m})
	}
	return out, nil
}

// GroupBox groups the values of valueCol by the distinct values of byCol and
// summarizes each group. Rows missing either cell are dropped.
func GroupBox(t *dataset.Table, byCol, valueCol string, scale Scale) ([]BoxStats, error) {
	by, err := t.Column(byCol)
	if err != nil {
		return nil, err
	}
	ys, err := numericColumn(t, valueCol, scale)
	if err != nil {
		return nil, err
	}
	keys, idx := collectKeys(by)
	vals := make([][]float64, len(keys))
	for i := 0; i < by.Len(); i++ {
		if by.IsMissing(i) || math.IsNaN(ys[i]) {
			continue
		}
		g := idx[by.Cell(i)]
		vals[g] = append(vals[g], ys[i])
	}
	orderKeys(keys, by, scale)
	out := make([]BoxStats, 0, len(keys))
	for _, k := range keys {
		v := vals[idx[k.label]]
		if len(v) == 0 {
			continue
		}
		out = append(out, boxStats(k.label, v))
	}
	return out, nil
}

func boxStats(label string, vals []float64) BoxStats {
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	b := BoxStats{
		Group:  label,
		N:      len(sorted),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
	}
	iqr := b.Q3 - b.Q1
	lo, hi := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerWhisker, b.UpperWhisker = b.Q1, b.Q3
	for _, v := range sorted {
		if v < lo || v > hi {
			b.Outliers = append(b.Outliers, v)
			continue
		}
		if v < b.LowerWhisker {
			b.LowerWhisker = v
		}
		if v > b.UpperWhisker {
			b.UpperWhisker = v
		}
	}
	return b
}
