package dashboard

import (
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/cafeteria-insights/internal/analysis"
	"github.com/KaramelBytes/cafeteria-insights/internal/charts"
	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
)

var (
	// ErrUnknownChart is returned for a chart name outside ChartNames.
	ErrUnknownChart = errors.New("unknown chart")
	// ErrUnknownFeature is returned when the selected feature is not a rating column.
	ErrUnknownFeature = errors.New("unknown feature")
)

// Chart names.
const (
	ChartTarget      = "target"
	ChartRatings     = "ratings"
	ChartFeature     = "feature"
	ChartCorrelation = "correlation"
)

// ChartNames lists the charts in page order.
var ChartNames = []string{ChartTarget, ChartRatings, ChartFeature, ChartCorrelation}

// CorrGrid is a correlation matrix in JSON-safe form; undefined coefficients are null.
type CorrGrid struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

func corrGrid(m *analysis.CorrMatrix) CorrGrid {
	g := CorrGrid{Columns: m.Columns, Values: make([][]*float64, m.Size())}
	for i := range g.Values {
		g.Values[i] = make([]*float64, m.Size())
		for j := range g.Values[i] {
			if v := m.At(i, j); !math.IsNaN(v) {
				g.Values[i][j] = &v
			}
		}
	}
	return g
}

func (s Settings) feature(name string) (string, error) {
	if name == "" {
		if len(s.Ratings) == 0 {
			return "", fmt.Errorf("%w: no rating columns configured", ErrUnknownFeature)
		}
		return s.Ratings[0], nil
	}
	for _, r := range s.Ratings {
		if r == name {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeature, name)
}

func (s Settings) scoreLabel() string {
	return fmt.Sprintf("Average Score (1–%g)", s.ScaleMax)
}

// drawChart computes the data behind one chart and renders it.
func drawChart(t *dataset.Table, s Settings, name, feature string) ([]byte, any, error) {
	switch name {
	case ChartTarget:
		counts, err := analysis.ValueCounts(t, s.Target, s.Scale)
		if err != nil {
			return nil, nil, err
		}
		img, err := charts.CountPlot(s.Target+" Distribution", counts)
		return img, counts, err
	case ChartRatings:
		means, err := analysis.Means(t, s.Ratings)
		if err != nil {
			return nil, nil, err
		}
		img, err := charts.MeanBars("Average Cafeteria Ratings", s.scoreLabel(), means, s.ScaleMax)
		return img, means, err
	case ChartFeature:
		f, err := s.feature(feature)
		if err != nil {
			return nil, nil, err
		}
		boxes, err := analysis.GroupBox(t, f, s.Target, s.Scale)
		if err != nil {
			return nil, nil, err
		}
		img, err := charts.BoxPlot(fmt.Sprintf("%s by %s", s.Target, f), f, s.Target, boxes)
		return img, boxes, err
	case ChartCorrelation:
		cols := make([]string, 0, len(s.Ratings)+1)
		cols = append(cols, s.Ratings...)
		cols = append(cols, s.Target)
		m, err := analysis.Correlation(t, cols, s.Scale)
		if err != nil {
			return nil, nil, err
		}
		img, err := charts.Heatmap("Correlation Heatmap", m)
		return img, corrGrid(m), err
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
}

// visualizationView draws each chart on its own; a chart that cannot be drawn leaves
// an error block under its heading. Absent columns still fail the whole view.
func visualizationView(t *dataset.Table, s Settings, feature string) ([]Block, error) {
	f, err := s.feature(feature)
	if err != nil {
		return nil, err
	}
	if err := t.Require(append([]string{s.Target}, s.Ratings...)...); err != nil {
		return nil, err
	}
	headings := map[string]string{
		ChartTarget:      "Overall Satisfaction Distribution",
		ChartRatings:     "Average Cafeteria Ratings",
		ChartFeature:     "Satisfaction vs Cafeteria Features",
		ChartCorrelation: "Correlation Heatmap",
	}
	var blocks []Block
	for _, name := range ChartNames {
		blocks = append(blocks, heading(headings[name]))
		if name == ChartFeature {
			blocks = append(blocks, Block{Kind: BlockChoice, Text: "Select Feature", Options: append([]string(nil), s.Ratings...), Selected: f})
		}
		img, data, err := drawChart(t, s, name, f)
		if err != nil {
			blocks = append(blocks, errorBlock(fmt.Sprintf("Cannot draw %s chart: %v", name, err)))
			continue
		}
		b := Block{Kind: BlockChart, Chart: name, Image: img, Data: data}
		if name == ChartFeature {
			b.Feature = f
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}
