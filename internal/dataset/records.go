package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Options controls how raw records become a typed table.
type Options struct {
	// MaxRows limits rows kept; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// DecimalSeparator defaults to '.'.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// MissingTokens are cell values treated as missing in addition to the empty string.
	MissingTokens []string
	// XLSX sheet selection; SheetIndex is 1-based and used when SheetName is empty.
	SheetName  string
	SheetIndex int
}

// DefaultMissingTokens are the NA spellings recognised out of the box.
var DefaultMissingTokens = []string{
	"NA", "N/A", "n/a", "NaN", "nan", "-NaN", "-nan", "null", "NULL", "None", "#N/A", "<NA>",
}

// DefaultOptions returns the loader defaults.
func DefaultOptions() Options {
	return Options{
		MissingTokens: DefaultMissingTokens,
		SheetIndex:    1,
	}
}

// FromRecords builds a table from a header and raw string rows, inferring column kinds.
func FromRecords(name string, header []string, rows [][]string, opt Options) (*Table, error) {
	names := uniqueHeader(header)
	ncol := len(names)
	var warnings []string
	if opt.MaxRows > 0 && len(rows) > opt.MaxRows {
		warnings = append(warnings, fmt.Sprintf("kept only %d/%d rows due to max_rows", opt.MaxRows, len(rows)))
		rows = rows[:opt.MaxRows]
	}
	for i, rec := range rows {
		if len(rec) > ncol {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d", ErrLoad, i+1, len(rec), ncol)
		}
	}

	missingSet := make(map[string]struct{}, len(opt.MissingTokens)+1)
	missingSet[""] = struct{}{}
	for _, tok := range opt.MissingTokens {
		missingSet[tok] = struct{}{}
	}

	cols := make([]*Column, ncol)
	for j := 0; j < ncol; j++ {
		raw := make([]string, len(rows))
		miss := make([]bool, len(rows))
		for i, rec := range rows {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			if _, ok := missingSet[v]; ok {
				miss[i] = true
				continue
			}
			raw[i] = v
		}
		cols[j] = inferColumn(names[j], raw, miss, opt)
	}
	t := New(name, cols)
	t.Warnings = warnings
	return t, nil
}

// inferColumn decides the column kind: numeric iff every present cell parses as a number.
func inferColumn(name string, raw []string, miss []bool, opt Options) *Column {
	nums := make([]float64, len(raw))
	present, integral := 0, true
	numeric := true
	for i, v := range raw {
		if miss[i] {
			nums[i] = math.NaN()
			continue
		}
		present++
		x, isInt, ok := parseNumeric(v, opt)
		if !ok {
			numeric = false
			break
		}
		nums[i] = x
		integral = integral && isInt
	}
	if numeric && present > 0 {
		dtype := DTypeFloat
		if integral && present == len(raw) {
			dtype = DTypeInt
		}
		return &Column{Name: name, Kind: KindNumeric, DType: dtype, Nums: nums, Missing: miss}
	}
	return &Column{Name: name, Kind: KindCategorical, DType: DTypeObject, Strs: raw, Missing: miss}
}

// parseNumeric parses s honouring the configured separators.
// isInt reports whether the token was written as an integer.
func parseNumeric(s string, opt Options) (x float64, isInt bool, ok bool) {
	raw := strings.ReplaceAll(s, "\u00a0", " ")
	raw = strings.TrimSpace(raw)
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	if thou := opt.ThousandsSeparator; thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	if raw == "" {
		return 0, false, false
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return float64(i), true, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false, false
	}
	return f, false, true
}

// uniqueHeader trims names, names blank headers by position and suffixes duplicates.
func uniqueHeader(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for {
			if _, dup := seen[name]; !dup {
				break
			}
			seen[base]++
			name = fmt.Sprintf("%s.%d", base, seen[base])
		}
		seen[name] = 0
		out[i] = name
	}
	return out
}
