package preprocess

import (
	"strings"
	"testing"
	"time"

	"github.com/KaramelBytes/cafeteria-insights/internal/analysis"
	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const survey = `Department,Hygiene,Pricing,Overall_Satisfaction
CS,4,3,4
,,2,5
EE,2,,3
,,4,
ME,5,3,4
`

func load(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.ReadCSV(strings.NewReader(survey), "survey.csv", ',', dataset.DefaultOptions())
	require.NoError(t, err)
	return tbl
}

func snapshot(tbl *dataset.Table) [][]string {
	out := make([][]string, tbl.Rows())
	for i := range out {
		out[i] = tbl.Row(i)
	}
	return out
}

func TestCleanFillsMeanAndSentinel(t *testing.T) {
	tbl := load(t)
	rep := NewCleaner(nil).Clean(tbl)

	assert.Zero(t, analysis.TotalMissing(analysis.MissingCounts(tbl)))
	assert.Zero(t, analysis.TotalMissing(rep.After))
	assert.Equal(t, 6, analysis.TotalMissing(rep.Before))
	assert.Equal(t, 6, rep.CellsFilled())
	assert.NotEmpty(t, rep.ID)

	hyg, err := tbl.Column("Hygiene")
	require.NoError(t, err)
	mean := (4.0 + 2.0 + 5.0) / 3.0
	assert.Equal(t, []float64{4, mean, 2, mean, 5}, hyg.Nums)
	assert.Equal(t, "3.666667", hyg.Cell(1))

	dept, err := tbl.Column("Department")
	require.NoError(t, err)
	assert.Equal(t, Sentinel, dept.Strs[1])
	assert.Equal(t, Sentinel, dept.Strs[3])
	assert.Equal(t, "CS", dept.Strs[0])

	byColumn := map[string]Fill{}
	for _, f := range rep.Fills {
		byColumn[f.Column] = f
	}
	assert.Equal(t, StrategyMean, byColumn["Hygiene"].Strategy)
	assert.Equal(t, []int{1, 3}, byColumn["Hygiene"].Rows)
	assert.InDelta(t, mean, byColumn["Hygiene"].Mean, 1e-12)
	assert.Equal(t, StrategyConstant, byColumn["Department"].Strategy)
	assert.Equal(t, 4.0, byColumn["Overall_Satisfaction"].Mean)
}

func TestCleanUsesPreFillMean(t *testing.T) {
	tbl, err := dataset.ReadCSV(strings.NewReader("k,v\na,1\nb,\nc,\nd,\ne,5\n"), "v.csv", ',', dataset.DefaultOptions())
	require.NoError(t, err)
	NewCleaner(nil).Clean(tbl)
	col, err := tbl.Column("v")
	require.NoError(t, err)
	for _, i := range []int{1, 2, 3} {
		assert.Equal(t, 3.0, col.Nums[i], "row %d", i)
	}
}

func TestCleanIsIdempotent(t *testing.T) {
	tbl := load(t)
	c := NewCleaner(nil)
	c.Clean(tbl)
	first := snapshot(tbl)

	rep := c.Clean(tbl)
	assert.Empty(t, rep.Fills)
	assert.Equal(t, first, snapshot(tbl))
}

func TestCleanStampsRun(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tbl := load(t)
	rep := NewCleaner(nil, WithClock(func() time.Time { return at })).Clean(tbl)
	assert.Equal(t, at, rep.At)
	assert.NotEmpty(t, rep.ID)
	assert.Equal(t, 5, rep.Rows)
	assert.Equal(t, 4, rep.Columns)

	again := NewCleaner(nil).Clean(tbl)
	assert.NotEqual(t, rep.ID, again.ID)
}
