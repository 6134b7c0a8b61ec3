package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/cafeteria-insights/internal/dashboard"
	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "List navigation entries for the configured layout",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no configuration loaded")
		}
		nav, err := dashboard.NewNavigation(cfg.Layout, cfg.Labels)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "layout: %s\n", nav.Layout())
		for _, e := range nav.Entries() {
			secs := make([]string, len(e.Sections))
			for i, s := range e.Sections {
				secs[i] = string(s)
			}
			fmt.Fprintf(out, "- %s: %s [%s]\n", e.Slug, e.Label, strings.Join(secs, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
}
