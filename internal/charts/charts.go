// Package charts renders the dashboard figures as PNG images.
package charts

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	"github.com/KaramelBytes/cafeteria-insights/internal/analysis"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

const (
	height   = 420
	barWidth = 48
)

var palette = []drawing.Color{
	drawing.ColorFromHex("4c72b0"),
	drawing.ColorFromHex("dd8452"),
	drawing.ColorFromHex("55a868"),
	drawing.ColorFromHex("c44e52"),
	drawing.ColorFromHex("8172b3"),
	drawing.ColorFromHex("937860"),
	drawing.ColorFromHex("da8bc3"),
	drawing.ColorFromHex("8c8c8c"),
}

func paletteColor(i int) drawing.Color { return palette[i%len(palette)] }

func widthFor(n int) int {
	w := n*(barWidth+24) + 160
	if w < 560 {
		return 560
	}
	return w
}

func wholeNumber(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return fmt.Sprintf("%v", v)
}

// CountPlot draws one bar per category with its row count.
func CountPlot(title string, counts []analysis.CategoryCount) ([]byte, error) {
	if len(counts) == 0 {
		return nil, ErrNoData
	}
	maxCount := 0
	bars := make([]chart.Value, len(counts))
	for i, c := range counts {
		if c.Count > maxCount {
			maxCount = c.Count
		}
		col := paletteColor(i)
		bars[i] = chart.Value{Label: c.Value, Value: float64(c.Count), Style: chart.Style{FillColor: col, StrokeColor: col}}
	}
	bc := chart.BarChart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:      widthFor(len(bars)),
		Height:     height,
		BarWidth:   barWidth,
		YAxis: chart.YAxis{
			Name:           "count",
			Range:          &chart.ContinuousRange{Min: 0, Max: math.Ceil(float64(maxCount) * 1.1)},
			ValueFormatter: wholeNumber,
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render count plot: %w", err)
	}
	return buf.Bytes(), nil
}

// MeanBars draws one bar per column mean on a fixed 0–scaleMax axis.
func MeanBars(title, yLabel string, means []analysis.ColumnMean, scaleMax float64) ([]byte, error) {
	if len(means) == 0 {
		return nil, ErrNoData
	}
	bars := make([]chart.Value, len(means))
	for i, m := range means {
		v := m.Mean
		if math.IsNaN(v) {
			v = 0
		}
		col := paletteColor(0)
		bars[i] = chart.Value{Label: m.Column, Value: v, Style: chart.Style{FillColor: col, StrokeColor: col}}
	}
	ticks := make([]chart.Tick, 0, int(scaleMax)+1)
	for v := 0.0; v <= scaleMax; v++ {
		ticks = append(ticks, chart.Tick{Value: v, Label: fmt.Sprintf("%.0f", v)})
	}
	bc := chart.BarChart{
		Title:      fmt.Sprintf("%s: %s", title, yLabel),
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:      widthFor(len(bars)) + 120,
		Height:     height,
		BarWidth:   barWidth,
		YAxis: chart.YAxis{
			Name:  yLabel,
			Range: &chart.ContinuousRange{Min: 0, Max: scaleMax},
			Ticks: ticks,
		},
		Bars: bars,
	}
	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render mean bars: %w", err)
	}
	return buf.Bytes(), nil
}

// BoxPlot draws a box-and-whisker glyph per group at x = 1..n.
func BoxPlot(title, xLabel, yLabel string, boxes []analysis.BoxStats) ([]byte, error) {
	if len(boxes) == 0 {
		return nil, ErrNoData
	}
	const half = 0.3
	lo, hi := math.Inf(1), math.Inf(-1)
	var series []chart.Series
	ticks := make([]chart.Tick, len(boxes))
	boxStyle := chart.Style{StrokeColor: paletteColor(0), StrokeWidth: 2}
	medianStyle := chart.Style{StrokeColor: paletteColor(1), StrokeWidth: 3}
	for i, b := range boxes {
		x := float64(i + 1)
		ticks[i] = chart.Tick{Value: x, Label: b.Group}
		lo = math.Min(lo, b.Min)
		hi = math.Max(hi, b.Max)
		series = append(series,
			chart.ContinuousSeries{
				Name:    b.Group,
				Style:   boxStyle,
				XValues: []float64{x - half, x + half, x + half, x - half, x - half},
				YValues: []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1},
			},
			chart.ContinuousSeries{Style: medianStyle, XValues: []float64{x - half, x + half}, YValues: []float64{b.Median, b.Median}},
			chart.ContinuousSeries{Style: boxStyle, XValues: []float64{x, x}, YValues: []float64{b.LowerWhisker, b.Q1}},
			chart.ContinuousSeries{Style: boxStyle, XValues: []float64{x, x}, YValues: []float64{b.Q3, b.UpperWhisker}},
			chart.ContinuousSeries{Style: boxStyle, XValues: []float64{x - half/2, x + half/2}, YValues: []float64{b.LowerWhisker, b.LowerWhisker}},
			chart.ContinuousSeries{Style: boxStyle, XValues: []float64{x - half/2, x + half/2}, YValues: []float64{b.UpperWhisker, b.UpperWhisker}},
		)
		if len(b.Outliers) > 0 {
			xs := make([]float64, len(b.Outliers))
			for k := range xs {
				xs[k] = x
			}
			series = append(series, chart.ContinuousSeries{
				Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: 4, DotColor: paletteColor(7)},
				XValues: xs,
				YValues: append([]float64(nil), b.Outliers...),
			})
		}
	}
	pad := (hi - lo) * 0.1
	if pad == 0 {
		pad = 1
	}
	c := chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16}},
		Width:      widthFor(len(boxes)),
		Height:     height,
		XAxis: chart.XAxis{
			Name:  xLabel,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(boxes)) + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:  yLabel,
			Range: &chart.ContinuousRange{Min: lo - pad, Max: hi + pad},
		},
		Series: series,
	}
	var buf bytes.Buffer
	if err := c.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render box plot: %w", err)
	}
	return buf.Bytes(), nil
}
