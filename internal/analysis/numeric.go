package analysis

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
)

// ErrNotNumeric is returned when a computation needs numbers and a column cannot provide them.
var ErrNotNumeric = errors.New("column is not numeric")

// Scale ordinal-codes categorical labels, e.g. "Satisfied" -> 4. Lookups ignore case.
type Scale map[string]float64

func (s Scale) code(label string) (float64, bool) {
	if len(s) == 0 {
		return 0, false
	}
	key := strings.ToLower(strings.TrimSpace(label))
	for k, v := range s {
		if strings.ToLower(strings.TrimSpace(k)) == key {
			return v, true
		}
	}
	return 0, false
}

// Numeric returns a copy of the column as numbers, NaN where missing.
// Categorical columns are coded through scale; an uncoded dataset.NotSpecified counts as
// missing and any other uncoded label is ErrNotNumeric.
func Numeric(c *dataset.Column, scale Scale) ([]float64, error) {
	out := make([]float64, c.Len())
	if c.Kind == dataset.KindNumeric {
		copy(out, c.Nums)
		for i := range out {
			if c.IsMissing(i) {
				out[i] = math.NaN()
			}
		}
		return out, nil
	}
	for i, label := range c.Strs {
		if c.IsMissing(i) {
			out[i] = math.NaN()
			continue
		}
		v, ok := scale.code(label)
		if !ok && label == dataset.NotSpecified {
			out[i] = math.NaN()
			continue
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s has uncoded value %q", ErrNotNumeric, c.Name, label)
		}
		out[i] = v
	}
	return out, nil
}

func numericColumn(t *dataset.Table, name string, scale Scale) ([]float64, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	return Numeric(c, scale)
}
