package charts

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/KaramelBytes/cafeteria-insights/internal/analysis"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	cellSize    = 72
	labelMargin = 140
	titleMargin = 36
	axisMargin  = 28
	barGap      = 20
	barWidthPx  = 16
	barLabelPx  = 44
)

var (
	coolEnd = color.RGBA{R: 59, G: 76, B: 192, A: 255}
	warmEnd = color.RGBA{R: 180, G: 4, B: 38, A: 255}
	neutral = color.RGBA{R: 221, G: 221, B: 221, A: 255}
	nanCell = color.RGBA{R: 245, G: 245, B: 245, A: 255}
	black   = color.RGBA{A: 255}
	white   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Diverging maps a coefficient in [-1, 1] onto a blue-grey-red scale.
func Diverging(r float64) color.RGBA {
	if math.IsNaN(r) {
		return nanCell
	}
	r = math.Max(-1, math.Min(1, r))
	end := warmEnd
	if r < 0 {
		end = coolEnd
		r = -r
	}
	mix := func(a, b uint8) uint8 { return uint8(math.Round(float64(a) + (float64(b)-float64(a))*r)) }
	return color.RGBA{R: mix(neutral.R, end.R), G: mix(neutral.G, end.G), B: mix(neutral.B, end.B), A: 255}
}

// Heatmap draws the matrix as an annotated grid with a colour bar.
func Heatmap(title string, m *analysis.CorrMatrix) ([]byte, error) {
	if m == nil || m.Size() == 0 {
		return nil, ErrNoData
	}
	n := m.Size()
	gridW := n * cellSize
	w := labelMargin + gridW + barGap + barWidthPx + barLabelPx
	h := titleMargin + gridW + axisMargin
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(white), image.Point{}, draw.Src)

	text(img, title, (w-measure(title))/2, 22, black)

	for i := 0; i < n; i++ {
		y0 := titleMargin + i*cellSize
		label := fit(m.Columns[i], labelMargin-10)
		text(img, label, labelMargin-8-measure(label), y0+cellSize/2+4, black)
		for j := 0; j < n; j++ {
			x0 := labelMargin + j*cellSize
			v := m.At(i, j)
			cell := image.Rect(x0+1, y0+1, x0+cellSize-1, y0+cellSize-1)
			draw.Draw(img, cell, image.NewUniform(Diverging(v)), image.Point{}, draw.Src)
			ann := "nan"
			if !math.IsNaN(v) {
				ann = fmt.Sprintf("%.2f", v)
			}
			ink := black
			if math.Abs(v) > 0.6 {
				ink = white
			}
			text(img, ann, x0+(cellSize-measure(ann))/2, y0+cellSize/2+4, ink)
		}
	}
	for j := 0; j < n; j++ {
		label := fit(m.Columns[j], cellSize-4)
		x0 := labelMargin + j*cellSize
		text(img, label, x0+(cellSize-measure(label))/2, titleMargin+gridW+18, black)
	}

	bx := labelMargin + gridW + barGap
	for y := 0; y < gridW; y++ {
		v := 1 - 2*float64(y)/float64(gridW-1)
		draw.Draw(img, image.Rect(bx, titleMargin+y, bx+barWidthPx, titleMargin+y+1), image.NewUniform(Diverging(v)), image.Point{}, draw.Src)
	}
	for _, tick := range []struct {
		label string
		y     int
	}{
		{"1.0", titleMargin + 10},
		{"0.0", titleMargin + gridW/2 + 4},
		{"-1.0", titleMargin + gridW - 2},
	} {
		text(img, tick.label, bx+barWidthPx+4, tick.y, black)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode heatmap: %w", err)
	}
	return buf.Bytes(), nil
}

func text(img draw.Image, s string, x, y int, c color.Color) {
	d := &font.Drawer{Dst: img, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func measure(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// fit shortens s with a trailing "." until it is at most px wide.
func fit(s string, px int) string {
	if measure(s) <= px {
		return s
	}
	r := []rune(s)
	for len(r) > 1 {
		r = r[:len(r)-1]
		if cand := string(r) + "."; measure(cand) <= px {
			return cand
		}
	}
	return string(r)
}
