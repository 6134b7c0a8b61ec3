package analysis

import (
	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
)

// ColumnSummary is the per-column type and non-null count shown in the dataset information.
type ColumnSummary struct {
	Name    string `json:"name"`
	DType   string `json:"dtype"`
	Kind    string `json:"kind"`
	NonNull int    `json:"non_null"`
}

// MissingCount is the number of missing cells in one column.
type MissingCount struct {
	Column  string `json:"column"`
	Missing int    `json:"missing"`
}

// Head returns the first n rows rendered for display. n larger than the table is clamped.
func Head(t *dataset.Table, n int) [][]string {
	if n < 0 {
		n = 0
	}
	if rows := t.Rows(); n > rows {
		n = rows
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		out[i] = t.Row(i)
	}
	return out
}

// ColumnInfo returns dtype, kind and non-null count per column, in table order.
func ColumnInfo(t *dataset.Table) []ColumnSummary {
	out := make([]ColumnSummary, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, ColumnSummary{Name: c.Name, DType: c.DType, Kind: string(c.Kind), NonNull: c.NonNullCount()})
	}
	return out
}

// MissingCounts returns the missing-cell count per column, in table order.
func MissingCounts(t *dataset.Table) []MissingCount {
	out := make([]MissingCount, 0, len(t.Columns))
	for _, c := range t.Columns {
		out = append(out, MissingCount{Column: c.Name, Missing: c.MissingCount()})
	}
	return out
}

// TotalMissing sums a MissingCounts result.
func TotalMissing(counts []MissingCount) int {
	total := 0
	for _, c := range counts {
		total += c.Missing
	}
	return total
}
