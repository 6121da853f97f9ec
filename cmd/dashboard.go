package cmd

import (
	"github.com/spf13/cobra"

	"github.com/teampulse/teampulse/core"
	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/internal/dashboard"
	"github.com/teampulse/teampulse/internal/outwriter"
)

// dashboardCmd renders an HTML dashboard from a previous extraction.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Render an HTML dashboard from extracted commit data.",
	Long: `Build a self-contained HTML dashboard from a commits CSV produced by
the extract command. The dashboard works offline apart from the chart
library loaded from a CDN, so it can be attached to reports or shared
directly.

Panels include weekly activity trends, per-developer quality rankings,
a weekday/hour activity heatmap, and quality-versus-volume comparisons.
When the input contains LLM enrichment columns, additional panels show
business impact, feature type and risk distributions.

Examples:
  # Render from the default commits.csv
  teampulse dashboard --org myorg

  # Custom input and output locations
  teampulse dashboard --commits-file q3.csv --dashboard-file q3.html`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		records, err := outwriter.ReadCommitRecords(cfg.CommitsFile)
		if err != nil {
			contract.LogFatal("Cannot read commits file", err)
		}

		devs := core.Aggregate(records, cfg.LargeCommitThreshold)
		if err := dashboard.Render(records, devs, cfg); err != nil {
			contract.LogFatal("Cannot render dashboard", err)
		}
	},
}
