package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/internal/parquet"
	"github.com/teampulse/teampulse/schema"
)

// commitCSVHeader is the fixed column order for the commits artifact.
var commitCSVHeader = []string{
	"sha", "repository", "author", "author_name", "author_email", "date", "message",
	"quality_score", "quality_label", "message_length", "message_words",
	"has_issue_ref", "follows_convention", "has_breaking_change",
	"is_merge", "is_revert", "is_hotfix",
	"additions", "deletions", "files_changed", "total_changes", "parent_count",
	"llm_quality_score", "business_impact_score", "feature_type", "complexity_level", "risk_level",
}

// WriteCommitResults writes the per-commit artifact, dispatching on the
// configured output format.
func WriteCommitResults(records []schema.CommitRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.OutputJSON:
		return writeWithFile(cfg.CommitsFile, func(w io.Writer) error {
			return writeJSON(w, records)
		}, "Wrote commit JSON")

	case schema.OutputParquet:
		if cfg.CommitsFile == "" {
			return fmt.Errorf("an output file is required for parquet output")
		}
		return parquet.WriteCommitsParquet(parquet.ConvertCommitRecords(records), cfg.CommitsFile)

	default: // CSV
		fmtFloat, fmtBool := createFormatters(cfg.Precision)
		return writeWithFile(cfg.CommitsFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, commitCSVHeader, func(cw *csv.Writer) error {
				for i := range records {
					if err := cw.Write(commitCSVRow(&records[i], fmtFloat, fmtBool)); err != nil {
						return fmt.Errorf("failed to write commit row: %w", err)
					}
				}
				return nil
			})
		}, "Wrote commit CSV")
	}
}

func commitCSVRow(rec *schema.CommitRecord, fmtFloat func(float64) string, fmtBool func(bool) string) []string {
	row := []string{
		rec.SHA,
		rec.Repository,
		rec.Author,
		rec.AuthorName,
		rec.AuthorEmail,
		rec.Date.UTC().Format(time.RFC3339),
		rec.Message,
		fmtFloat(rec.QualityScore),
		contract.GetPlainLabel(rec.QualityScore),
		strconv.Itoa(rec.MessageLength),
		strconv.Itoa(rec.MessageWords),
		fmtBool(rec.HasIssueRef),
		fmtBool(rec.FollowsConvention),
		fmtBool(rec.HasBreakingChange),
		fmtBool(rec.IsMerge),
		fmtBool(rec.IsRevert),
		fmtBool(rec.IsHotfix),
		strconv.Itoa(rec.Additions),
		strconv.Itoa(rec.Deletions),
		strconv.Itoa(rec.FilesChanged),
		strconv.Itoa(rec.TotalChanges()),
		strconv.Itoa(rec.ParentCount),
	}
	if enr := rec.Enrichment; enr != nil {
		row = append(row,
			fmtFloat(enr.QualityScore),
			fmtFloat(enr.BusinessImpactScore),
			enr.FeatureType,
			enr.ComplexityLevel,
			enr.RiskLevel,
		)
	} else {
		row = append(row, "", "", "", "", "")
	}
	return row
}
