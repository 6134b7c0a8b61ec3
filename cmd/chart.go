package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/cafeteria-insights/internal/dashboard"
	"github.com/KaramelBytes/cafeteria-insights/internal/utils"
	"github.com/spf13/cobra"
)

var (
	chartFeature string
	chartOutput  string
)

var chartCmd = &cobra.Command{
	Use:   "chart <name>",
	Short: "Render one chart to PNG (" + strings.Join(dashboard.ChartNames, "|") + ")",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if chartOutput == "" {
			return fmt.Errorf("--output is required")
		}
		d, _, err := buildDashboard()
		if err != nil {
			return err
		}
		img, err := d.Chart(args[0], chartFeature)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(chartOutput, img); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
		success(cmd.ErrOrStderr(), "Wrote %s (%d bytes)", chartOutput, len(img))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chartCmd.Flags().StringVar(&chartFeature, "feature", "", "rating column for the feature chart")
	chartCmd.Flags().StringVarP(&chartOutput, "output", "o", "", "PNG file to write")
}
