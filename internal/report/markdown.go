// Package report renders dashboard pages as Markdown.
package report

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/cafeteria-insights/internal/dashboard"
	"github.com/KaramelBytes/cafeteria-insights/internal/utils"
	"github.com/olekukonko/tablewriter"
)

// Title heads every report.
const Title = "Campus Cafeteria Satisfaction Analysis"

// Writer renders pages to Markdown. When ChartsDir is set, chart images are
// written there and linked relative to LinkBase.
type Writer struct {
	ChartsDir string
	LinkBase  string

	written []string
}

// Charts returns the chart files written so far.
func (w *Writer) Charts() []string { return append([]string(nil), w.written...) }

// Header writes the report title block.
func (w *Writer) Header(out io.Writer, layout string) {
	fmt.Fprintf(out, "# %s\n\n", Title)
	fmt.Fprintf(out, "_Insight-driven Data Mining using EDA, Preprocessing, and Visualizations (layout: %s)_\n\n", layout)
}

// Page writes one navigation entry.
func (w *Writer) Page(out io.Writer, p *dashboard.Page) error {
	fmt.Fprintf(out, "## %s\n\n", p.Title)
	for _, b := range p.Blocks {
		switch b.Kind {
		case dashboard.BlockHeading:
			fmt.Fprintf(out, "### %s\n\n", b.Text)
		case dashboard.BlockText:
			fmt.Fprintf(out, "%s\n\n", b.Text)
		case dashboard.BlockList:
			for _, it := range b.Items {
				fmt.Fprintf(out, "- %s\n", it)
			}
			fmt.Fprintln(out)
		case dashboard.BlockSuccess:
			fmt.Fprintf(out, "> ✓ %s\n\n", b.Text)
		case dashboard.BlockInfo:
			fmt.Fprintf(out, "> %s\n\n", b.Text)
		case dashboard.BlockError:
			fmt.Fprintf(out, "> ✗ %s\n\n", b.Text)
		case dashboard.BlockTable:
			if b.Table != nil {
				fmt.Fprintf(out, "%s\n", Table(b.Table))
			}
		case dashboard.BlockChoice:
			fmt.Fprintf(out, "_%s: %s_ (options: %s)\n\n", b.Text, b.Selected, strings.Join(b.Options, ", "))
		case dashboard.BlockChart:
			if err := w.chart(out, p.Slug, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) chart(out io.Writer, slug string, b dashboard.Block) error {
	if w.ChartsDir == "" {
		fmt.Fprintf(out, "_Chart `%s` not written (use --charts-dir)._\n\n", b.Chart)
		return nil
	}
	name := slug + "-" + b.Chart
	if b.Feature != "" {
		name += "-" + b.Feature
	}
	path := filepath.Join(w.ChartsDir, name+".png")
	if err := utils.SafeWriteFile(path, b.Image); err != nil {
		return fmt.Errorf("write chart %s: %w", b.Chart, err)
	}
	w.written = append(w.written, path)
	link := path
	if w.LinkBase != "" {
		if rel, err := filepath.Rel(w.LinkBase, path); err == nil {
			link = rel
		}
	}
	fmt.Fprintf(out, "![%s](%s)\n\n", b.Chart, filepath.ToSlash(link))
	return nil
}

// Table renders a grid as a Markdown table.
func Table(g *dashboard.Grid) string {
	var buf bytes.Buffer
	tw := tablewriter.NewWriter(&buf)
	tw.SetHeader(g.Columns)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tw.SetCenterSeparator("|")
	tw.AppendBulk(g.Rows)
	tw.Render()
	return buf.String()
}
