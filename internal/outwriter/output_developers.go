package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/internal/parquet"
	"github.com/teampulse/teampulse/schema"
)

// developerCSVHeader is the fixed column order for the developers artifact.
var developerCSVHeader = []string{
	"developer", "total_commits", "avg_quality_score", "quality_label",
	"total_additions", "total_deletions", "total_changes", "avg_changes_per_commit",
	"active_days", "commits_per_active_day",
	"conventional_rate", "issue_ref_rate", "merge_rate", "revert_rate",
	"hotfix_rate", "breaking_change_rate", "large_commit_rate",
	"enriched_commits", "avg_llm_quality_score", "avg_business_impact_score",
}

// WriteDeveloperResults writes the per-developer artifact, dispatching
// on the configured output format.
func WriteDeveloperResults(devs []schema.DeveloperSummary, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.OutputJSON:
		return writeWithFile(cfg.DevelopersFile, func(w io.Writer) error {
			return writeJSON(w, devs)
		}, "Wrote developer JSON")

	case schema.OutputParquet:
		if cfg.DevelopersFile == "" {
			return fmt.Errorf("an output file is required for parquet output")
		}
		return parquet.WriteDevelopersParquet(parquet.ConvertDeveloperSummaries(devs), cfg.DevelopersFile)

	default: // CSV
		fmtFloat, _ := createFormatters(cfg.Precision)
		return writeWithFile(cfg.DevelopersFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, developerCSVHeader, func(cw *csv.Writer) error {
				for i := range devs {
					if err := cw.Write(developerCSVRow(&devs[i], fmtFloat)); err != nil {
						return fmt.Errorf("failed to write developer row: %w", err)
					}
				}
				return nil
			})
		}, "Wrote developer CSV")
	}
}

func developerCSVRow(d *schema.DeveloperSummary, fmtFloat func(float64) string) []string {
	return []string{
		d.Developer,
		strconv.Itoa(d.TotalCommits),
		fmtFloat(d.AvgQualityScore),
		contract.GetPlainLabel(d.AvgQualityScore),
		strconv.Itoa(d.TotalAdditions),
		strconv.Itoa(d.TotalDeletions),
		strconv.Itoa(d.TotalChanges()),
		fmtFloat(d.AvgChangesPerCommit()),
		strconv.Itoa(d.ActiveDays),
		fmtFloat(d.CommitsPerActiveDay()),
		fmtFloat(d.Rate(d.ConventionalCommits)),
		fmtFloat(d.Rate(d.IssueRefCommits)),
		fmtFloat(d.Rate(d.MergeCommits)),
		fmtFloat(d.Rate(d.RevertCommits)),
		fmtFloat(d.Rate(d.HotfixCommits)),
		fmtFloat(d.Rate(d.BreakingChanges)),
		fmtFloat(d.Rate(d.LargeCommits)),
		strconv.Itoa(d.EnrichedCommits),
		fmtFloat(d.AvgLLMQuality),
		fmtFloat(d.AvgBusinessImpact),
	}
}

// PrintDeveloperTable renders the ranked developer summary table to
// stdout after an extraction run. devs must already be ranked.
func PrintDeveloperTable(devs []schema.DeveloperSummary, cfg *contract.Config, totalCommits int, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	label := contract.GetPlainLabel
	if cfg.UseColors {
		label = contract.GetColorLabel
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header([]string{"Rank", "Developer", "Commits", "Avg Quality", "Label", "Conv %", "Issue %", "Active Days"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	maxName := contract.GetTerminalWidth(cfg.Width) / 3
	var data [][]string
	for i, d := range devs {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateText(d.Developer, maxName),
			strconv.Itoa(d.TotalCommits),
			fmtFloat(d.AvgQualityScore),
			label(d.AvgQualityScore),
			fmtFloat(d.Rate(d.ConventionalCommits) * 100),
			fmtFloat(d.Rate(d.IssueRefCommits) * 100),
			strconv.Itoa(d.ActiveDays),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Printf("Analyzed %d commits from %d developers in %s\n", totalCommits, len(devs), duration.Round(time.Millisecond))
	return nil
}
