package dashboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/cafeteria-insights/internal/analysis"
	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
	"github.com/KaramelBytes/cafeteria-insights/internal/preprocess"
)

// Settings names the survey columns the views work with.
type Settings struct {
	PreviewRows int
	Target      string
	Ratings     []string
	Scale       analysis.Scale
	ScaleMax    float64
}

// DefaultRatings are the six 1–5 rating columns of the cafeteria survey.
var DefaultRatings = []string{"Food_Taste", "Hygiene", "Pricing", "Waiting_Time", "Meal_Variety", "Staff_Behavior"}

// DefaultTarget is the overall satisfaction column.
const DefaultTarget = "Overall_Satisfaction"

// DefaultSettings returns the settings of the stock survey file.
func DefaultSettings() Settings {
	return Settings{
		PreviewRows: 5,
		Target:      DefaultTarget,
		Ratings:     append([]string(nil), DefaultRatings...),
		ScaleMax:    5,
	}
}

func overviewView(t *dataset.Table, previewRows int) []Block {
	var blocks []Block
	blocks = append(blocks, heading("Dataset Preview"), table(t.Names(), analysis.Head(t, previewRows), nil))

	rows, cols := t.Shape()
	columns := analysis.ColumnInfo(t)
	infoRows := make([][]string, len(columns))
	dtypes := map[string]int{}
	for i, c := range columns {
		infoRows[i] = []string{strconv.Itoa(i), c.Name, fmt.Sprintf("%d non-null", c.NonNull), c.DType}
		dtypes[c.DType]++
	}
	rangeIndex := fmt.Sprintf("RangeIndex: %d entries", rows)
	if rows > 0 {
		rangeIndex = fmt.Sprintf("RangeIndex: %d entries, 0 to %d", rows, rows-1)
	}
	blocks = append(blocks,
		heading("Dataset Information"),
		text(rangeIndex),
		text(fmt.Sprintf("Data columns (total %d columns):", cols)),
		table([]string{"#", "Column", "Non-Null Count", "Dtype"}, infoRows, columns),
		text("dtypes: "+dtypeSummary(dtypes)),
	)

	blocks = append(blocks, heading("Missing Values"), missingTable(analysis.MissingCounts(t)))
	return blocks
}

func dtypeSummary(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for k := range counts {
		names = append(names, k)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, k := range names {
		parts[i] = fmt.Sprintf("%s(%d)", k, counts[k])
	}
	return strings.Join(parts, ", ")
}

func missingTable(counts []analysis.MissingCount) Block {
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Column, strconv.Itoa(c.Missing)}
	}
	return table([]string{"Column", "Missing"}, rows, counts)
}

func edaView(t *dataset.Table) []Block {
	blocks := []Block{heading("Statistical Summary")}
	summaries := analysis.Describe(t)
	if len(summaries) == 0 {
		return append(blocks, info("No numeric columns to summarize."))
	}
	header := make([]string, 0, len(summaries)+1)
	header = append(header, "")
	for _, s := range summaries {
		header = append(header, s.Column)
	}
	rows := make([][]string, len(analysis.DescribeRows))
	for r, label := range analysis.DescribeRows {
		row := make([]string, 0, len(summaries)+1)
		row = append(row, label)
		for _, s := range summaries {
			row = append(row, dataset.FormatNumber(s.Values()[r], dataset.DTypeFloat))
		}
		rows[r] = row
	}
	return append(blocks, table(header, rows, nil))
}

func preprocessingView(t *dataset.Table, c *preprocess.Cleaner) ([]Block, preprocess.Report) {
	rep := c.Clean(t)
	blocks := []Block{
		heading("Data Preprocessing"),
		heading("Missing Values Before Preprocessing"),
		missingTable(rep.Before),
		success("Missing values handled successfully!"),
		heading("Missing Values After Preprocessing"),
		missingTable(rep.After),
	}

	if len(rep.Fills) == 0 {
		blocks = append(blocks, heading("Fill Summary"), info("No missing values to fill."))
	} else {
		fills := make([][]string, len(rep.Fills))
		for i, f := range rep.Fills {
			fills[i] = []string{f.Column, f.Strategy, f.Value, strconv.Itoa(f.Cells)}
		}
		blocks = append(blocks, heading("Fill Summary"), table([]string{"Column", "Strategy", "Value", "Cells"}, fills, rep))
	}

	rows := make([][]string, t.Rows())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	blocks = append(blocks,
		heading("Cleaned Dataset Preview"),
		table(t.Names(), rows, nil),
		info(fmt.Sprintf("Dataset Shape After Cleaning: %d rows × %d columns", rep.Rows, rep.Columns)),
	)
	return blocks, rep
}

var (
	findings = []string{
		"Hygiene and food taste strongly affect satisfaction",
		"Long waiting times reduce satisfaction",
		"Pricing concerns exist among students",
		"Satisfaction varies across departments",
	}
	recommendations = []string{
		"Improve hygiene standards",
		"Enhance food quality",
		"Reduce waiting time",
		"Review pricing strategy",
	}
)

func insightsView() []Block {
	return []Block{
		heading("Key Data Mining Outcomes"),
		text("Findings:"),
		{Kind: BlockList, Items: append([]string(nil), findings...)},
		text("Recommendations:"),
		{Kind: BlockList, Items: append([]string(nil), recommendations...)},
	}
}
