package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the inferred kind of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindCategorical Kind = "categorical"
)

// Display dtypes, named the way dataframe tools print them.
const (
	DTypeInt    = "int64"
	DTypeFloat  = "float64"
	DTypeObject = "object"
)

// NotSpecified is the label written into missing categorical cells by preprocessing.
// Numeric coding treats it as missing unless a scale codes it explicitly.
const NotSpecified = "Not Specified"

var (
	// ErrLoad wraps every failure to open or parse the input file.
	ErrLoad = errors.New("load dataset")
	// ErrMissingColumn is returned when a referenced column is absent from the table.
	ErrMissingColumn = errors.New("missing column")
)

// Column holds the cells of one column plus its missing mask.
// Numeric columns keep values in Nums (NaN where missing); categorical columns in Strs.
type Column struct {
	Name    string
	Kind    Kind
	DType   string
	Nums    []float64
	Strs    []string
	Missing []bool
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.Missing) }

// IsMissing reports whether cell i is missing.
func (c *Column) IsMissing(i int) bool { return c.Missing[i] }

// MissingCount returns the number of missing cells.
func (c *Column) MissingCount() int {
	n := 0
	for _, m := range c.Missing {
		if m {
			n++
		}
	}
	return n
}

// NonNullCount returns the number of present cells.
func (c *Column) NonNullCount() int { return c.Len() - c.MissingCount() }

// Present returns the non-missing values of a numeric column, in row order.
func (c *Column) Present() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.Nums))
	for i, v := range c.Nums {
		if !c.Missing[i] {
			out = append(out, v)
		}
	}
	return out
}

// Cell renders cell i for display. Missing cells render as "NaN".
func (c *Column) Cell(i int) string {
	if c.Missing[i] {
		return "NaN"
	}
	if c.Kind == KindNumeric {
		return FormatNumber(c.Nums[i], c.DType)
	}
	return c.Strs[i]
}

// FormatNumber formats v the way the column dtype displays it.
func FormatNumber(v float64, dtype string) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if dtype == DTypeInt {
		return strconv.FormatInt(int64(v), 10)
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return s
}

// Table is the in-memory survey table: ordered columns of equal length.
type Table struct {
	Name     string
	Columns  []*Column
	Warnings []string
	index    map[string]int
}

// New builds a table over cols. Column names must be unique.
func New(name string, cols []*Column) *Table {
	t := &Table{Name: name, Columns: cols, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		t.index[c.Name] = i
	}
	return t
}

// Rows returns the row count.
func (t *Table) Rows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Shape returns rows and columns.
func (t *Table) Shape() (int, int) { return t.Rows(), len(t.Columns) }

// Names returns column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by exact name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return t.Columns[i], nil
}

// Require checks that every name is present and returns the first absent one as an error.
func (t *Table) Require(names ...string) error {
	for _, n := range names {
		if _, err := t.Column(n); err != nil {
			return err
		}
	}
	return nil
}

// Row renders row i for display.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.Columns))
	for j, c := range t.Columns {
		out[j] = c.Cell(i)
	}
	return out
}
