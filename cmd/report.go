package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/cafeteria-insights/internal/report"
	"github.com/KaramelBytes/cafeteria-insights/internal/utils"
	"github.com/spf13/cobra"
)

var (
	repSections  []string
	repFeature   string
	repOutput    string
	repChartsDir string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render dashboard sections to Markdown",
	Long: `Render the dashboard sections in navigation order (or the ones named with --sections)
to Markdown. Sections render in the order given, so Preprocessing affects every later section.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		d, _, err := buildDashboard()
		if err != nil {
			return err
		}
		if err := preload(cmd, d); err != nil {
			return err
		}
		names := repSections
		if len(names) == 0 {
			for _, e := range d.Navigation().Entries() {
				names = append(names, e.Slug)
			}
		}

		linkBase := ""
		if repOutput != "" {
			linkBase = filepath.Dir(repOutput)
		}
		w := &report.Writer{ChartsDir: repChartsDir, LinkBase: linkBase}
		var buf bytes.Buffer
		w.Header(&buf, d.Navigation().Layout())
		for _, name := range names {
			page, err := d.Render(name, repFeature)
			if err != nil {
				return err
			}
			if err := w.Page(&buf, page); err != nil {
				return err
			}
		}

		if repOutput == "" {
			_, err := cmd.OutOrStdout().Write(buf.Bytes())
			return err
		}
		if err := utils.SafeWriteFile(repOutput, buf.Bytes()); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		success(cmd.ErrOrStderr(), "Wrote %s (%d sections, %d charts)", repOutput, len(names), len(w.Charts()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringSliceVar(&repSections, "sections", nil, "comma-separated section labels or slugs (default: all, in navigation order)")
	reportCmd.Flags().StringVar(&repFeature, "feature", "", "rating column for the feature chart (default: first rating)")
	reportCmd.Flags().StringVarP(&repOutput, "output", "o", "", "write Markdown to this file instead of stdout")
	reportCmd.Flags().StringVar(&repChartsDir, "charts-dir", "", "directory to write chart PNGs into")
}
