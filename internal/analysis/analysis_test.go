package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
)

var ratings = []string{"Food_Taste", "Hygiene", "Pricing", "Waiting_Time", "Meal_Variety", "Staff_Behavior"}

const surveyCSV = `Department,Food_Taste,Hygiene,Pricing,Waiting_Time,Meal_Variety,Staff_Behavior,Overall_Satisfaction
CS,4,4,3,2,4,5,4
EE,5,,2,3,5,4,5
,3,2,4,4,3,3,3
ME,2,,5,5,2,2,2
CS,4,5,3,1,4,4,4
EE,1,1,2,5,1,2,1
`

func mustTable(t *testing.T, csv string) *dataset.Table {
	t.Helper()
	tbl, err := dataset.ReadCSV(strings.NewReader(csv), "survey.csv", ',', dataset.DefaultOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	return tbl
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestHeadAndInfo(t *testing.T) {
	tbl := mustTable(t, surveyCSV)
	head := Head(tbl, 5)
	if len(head) != 5 || head[2][0] != "NaN" || head[0][2] != "4.0" {
		t.Fatalf("unexpected head: %v", head)
	}
	if got := len(Head(tbl, 100)); got != 6 {
		t.Fatalf("head should clamp to 6 rows, got %d", got)
	}
	info := ColumnInfo(tbl)
	if info[0].DType != dataset.DTypeObject || info[0].NonNull != 5 {
		t.Fatalf("Department info = %+v", info[0])
	}
	if info[2].DType != dataset.DTypeFloat || info[2].NonNull != 4 {
		t.Fatalf("Hygiene info = %+v", info[2])
	}
	miss := MissingCounts(tbl)
	if miss[0].Missing != 1 || miss[2].Missing != 2 || TotalMissing(miss) != 3 {
		t.Fatalf("missing counts = %+v", miss)
	}
}

func TestDescribeNumericOnly(t *testing.T) {
	tbl := mustTable(t, surveyCSV)
	sum := Describe(tbl)
	if len(sum) != 7 {
		t.Fatalf("expected 7 numeric columns, got %d", len(sum))
	}
	for _, s := range sum {
		if s.Column == "Department" {
			t.Fatalf("categorical column described")
		}
	}
	h := sum[1]
	if h.Column != "Hygiene" || h.Count != 4 {
		t.Fatalf("Hygiene summary = %+v", h)
	}
	// Hygiene present values: 4 2 5 1
	if !approx(h.Mean, 3) || h.Min != 1 || h.Max != 5 {
		t.Fatalf("Hygiene stats = %+v", h)
	}
	if !approx(h.Q25, 1.75) || !approx(h.Q50, 3) || !approx(h.Q75, 4.25) {
		t.Fatalf("Hygiene quartiles = %v %v %v", h.Q25, h.Q50, h.Q75)
	}
	if !approx(h.Std, math.Sqrt(10.0/3.0)) {
		t.Fatalf("Hygiene std = %v", h.Std)
	}
}

func TestDescribeWithoutNumericColumns(t *testing.T) {
	tbl := mustTable(t, "a,b\nx,y\nz,\n")
	if got := Describe(tbl); len(got) != 0 {
		t.Fatalf("expected empty describe, got %+v", got)
	}
}

func TestDescribeSingleValueStdIsNaN(t *testing.T) {
	tbl := mustTable(t, "a\n3\n")
	got := Describe(tbl)
	if len(got) != 1 || !math.IsNaN(got[0].Std) || got[0].Mean != 3 {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestValueCountsOrder(t *testing.T) {
	tbl := mustTable(t, surveyCSV)
	counts, err := ValueCounts(tbl, "Overall_Satisfaction", nil)
	if err != nil {
		t.Fatalf("ValueCounts: %v", err)
	}
	var b strings.Builder
	for _, c := range counts {
		b.WriteString(c.Value)
		b.WriteString("=")
		b.WriteString(string(rune('0' + c.Count)))
		b.WriteString(" ")
	}
	if got := strings.TrimSpace(b.String()); got != "1=1 2=1 3=1 4=2 5=1" {
		t.Fatalf("counts = %s", got)
	}

	labels := mustTable(t, "s\nHappy\nSad\nHappy\nNeutral\n")
	counts, err = ValueCounts(labels, "s", Scale{"sad": 1, "neutral": 2, "happy": 3})
	if err != nil {
		t.Fatalf("ValueCounts: %v", err)
	}
	if counts[0].Value != "Sad" || counts[2].Value != "Happy" || counts[2].Count != 2 {
		t.Fatalf("scaled order = %+v", counts)
	}
}

func TestMeans(t *testing.T) {
	tbl := mustTable(t, surveyCSV)
	means, err := Means(tbl, ratings)
	if err != nil {
		t.Fatalf("Means: %v", err)
	}
	if len(means) != 6 || means[1].Column != "Hygiene" || !approx(means[1].Mean, 3) {
		t.Fatalf("means = %+v", means)
	}
	if _, err := Means(tbl, []string{"Department"}); !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("expected ErrNotNumeric, got %v", err)
	}
	if _, err := Means(tbl, []string{"Nope"}); !errors.Is(err, dataset.ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestGroupBox(t *testing.T) {
	tbl := mustTable(t, "f,y\n1,1\n1,2\n1,3\n1,4\n1,100\n2,5\n2,\n,3\n")
	boxes, err := GroupBox(tbl, "f", "y", nil)
	if err != nil {
		t.Fatalf("GroupBox: %v", err)
	}
	if len(boxes) != 2 {
		t.Fatalf("expected 2 groups, got %+v", boxes)
	}
	b := boxes[0]
	if b.Group != "1.0" || b.N != 5 || b.Median != 3 || b.Q1 != 2 || b.Q3 != 4 {
		t.Fatalf("group 1 = %+v", b)
	}
	if len(b.Outliers) != 1 || b.Outliers[0] != 100 || b.UpperWhisker != 4 || b.LowerWhisker != 1 {
		t.Fatalf("whiskers/outliers = %+v", b)
	}
	if boxes[1].N != 1 || boxes[1].Median != 5 {
		t.Fatalf("group 2 = %+v", boxes[1])
	}
}

func TestCorrelationMatrix(t *testing.T) {
	tbl := mustTable(t, surveyCSV)
	cols := append(append([]string(nil), ratings...), "Overall_Satisfaction")
	m, err := Correlation(tbl, cols, nil)
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	if m.Size() != 7 {
		t.Fatalf("size = %d", m.Size())
	}
	for i := 0; i < 7; i++ {
		if m.At(i, i) != 1 {
			t.Fatalf("diagonal %d = %v", i, m.At(i, i))
		}
		for j := 0; j < 7; j++ {
			if m.At(i, j) != m.At(j, i) {
				t.Fatalf("not symmetric at %d,%d", i, j)
			}
		}
	}
	// Food_Taste and the target are identical columns.
	if !approx(m.At(0, 6), 1) {
		t.Fatalf("Food_Taste~Overall = %v", m.At(0, 6))
	}
}

func TestCorrelationWithCodedTarget(t *testing.T) {
	tbl := mustTable(t, "x,s\n1,Low\n2,Mid\n3,High\n")
	if _, err := Correlation(tbl, []string{"x", "s"}, nil); !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("expected ErrNotNumeric, got %v", err)
	}
	m, err := Correlation(tbl, []string{"x", "s"}, Scale{"LOW": 1, "mid": 2, "high": 3})
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	if !approx(m.At(0, 1), 1) {
		t.Fatalf("r = %v", m.At(0, 1))
	}
}

func TestCorrelationConstantColumnIsNaN(t *testing.T) {
	tbl := mustTable(t, "x,c\n1,2\n2,2\n3,2\n")
	m, err := Correlation(tbl, []string{"x", "c"}, nil)
	if err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	if !math.IsNaN(m.At(0, 1)) || !math.IsNaN(m.At(1, 1)) || m.At(0, 0) != 1 {
		t.Fatalf("unexpected matrix: %v %v %v", m.At(0, 0), m.At(0, 1), m.At(1, 1))
	}
}

func TestNumericTreatsNotSpecifiedAsMissing(t *testing.T) {
	tbl := mustTable(t, "x,s\n1,Low\n2,Not Specified\n3,High\n4,Mid\n")
	s, err := tbl.Column("s")
	if err != nil {
		t.Fatal(err)
	}
	scale := Scale{"low": 1, "mid": 2, "high": 3}
	got, err := Numeric(s, scale)
	if err != nil {
		t.Fatalf("Numeric: %v", err)
	}
	if got[0] != 1 || !math.IsNaN(got[1]) || got[2] != 3 || got[3] != 2 {
		t.Fatalf("coded = %v", got)
	}
	if _, err := Correlation(tbl, []string{"x", "s"}, scale); err != nil {
		t.Fatalf("Correlation: %v", err)
	}
	boxes, err := GroupBox(tbl, "x", "s", scale)
	if err != nil {
		t.Fatalf("GroupBox: %v", err)
	}
	if len(boxes) != 3 {
		t.Fatalf("groups = %d, want 3", len(boxes))
	}

	// An explicit code wins over the missing treatment.
	scale[dataset.NotSpecified] = 0
	got, err = Numeric(s, scale)
	if err != nil || got[1] != 0 {
		t.Fatalf("explicit code: %v %v", got, err)
	}
}
