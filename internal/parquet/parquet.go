// Package parquet provides data structures and functions for exporting
// teampulse data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/teampulse/teampulse/schema"
)

// Commit is the flat Parquet row for one analyzed commit.
type Commit struct {
	SHA        string    `parquet:"sha,snappy"`
	Repository string    `parquet:"repository,snappy"`
	Author     string    `parquet:"author,snappy"`
	AuthorName string    `parquet:"author_name,snappy"`
	Date       time.Time `parquet:"date,snappy"`
	Message    string    `parquet:"message,snappy"`

	Additions    int32 `parquet:"additions,snappy"`
	Deletions    int32 `parquet:"deletions,snappy"`
	FilesChanged int32 `parquet:"files_changed,snappy"`
	ParentCount  int32 `parquet:"parent_count,snappy"`

	QualityScore      float64 `parquet:"quality_score,snappy"`
	HasIssueRef       bool    `parquet:"has_issue_ref,snappy"`
	FollowsConvention bool    `parquet:"follows_convention,snappy"`
	IsMerge           bool    `parquet:"is_merge,snappy"`
	IsRevert          bool    `parquet:"is_revert,snappy"`
	IsHotfix          bool    `parquet:"is_hotfix,snappy"`
	HasBreakingChange bool    `parquet:"has_breaking_change,snappy"`

	// Enrichment fields are nullable; unenriched commits leave them nil.
	LLMQualityScore     *float64 `parquet:"llm_quality_score,optional,snappy"`
	BusinessImpactScore *float64 `parquet:"business_impact_score,optional,snappy"`
	FeatureType         *string  `parquet:"feature_type,optional,snappy"`
	ComplexityLevel     *string  `parquet:"complexity_level,optional,snappy"`
	RiskLevel           *string  `parquet:"risk_level,optional,snappy"`
}

// Developer is the flat Parquet row for one developer summary.
type Developer struct {
	Developer           string  `parquet:"developer,snappy"`
	TotalCommits        int32   `parquet:"total_commits,snappy"`
	TotalAdditions      int32   `parquet:"total_additions,snappy"`
	TotalDeletions      int32   `parquet:"total_deletions,snappy"`
	AvgQualityScore     float64 `parquet:"avg_quality_score,snappy"`
	MergeCommits        int32   `parquet:"merge_commits,snappy"`
	RevertCommits       int32   `parquet:"revert_commits,snappy"`
	HotfixCommits       int32   `parquet:"hotfix_commits,snappy"`
	IssueRefCommits     int32   `parquet:"issue_ref_commits,snappy"`
	ConventionalCommits int32   `parquet:"conventional_commits,snappy"`
	BreakingChanges     int32   `parquet:"breaking_changes,snappy"`
	LargeCommits        int32   `parquet:"large_commits,snappy"`
	ActiveDays          int32   `parquet:"active_days,snappy"`
	EnrichedCommits     int32   `parquet:"enriched_commits,snappy"`
	AvgLLMQuality       float64 `parquet:"avg_llm_quality_score,snappy"`
	AvgBusinessImpact   float64 `parquet:"avg_business_impact_score,snappy"`
}

// Run maps to the extract_runs history table.
type Run struct {
	RunID           int64      `parquet:"run_id,snappy"`
	Org             string     `parquet:"org,snappy"`
	StartedAt       time.Time  `parquet:"started_at,snappy"`
	EndedAt         *time.Time `parquet:"ended_at,optional,snappy"`
	LookbackDays    int32      `parquet:"lookback_days,snappy"`
	TotalCommits    int32      `parquet:"total_commits,snappy"`
	TotalDevelopers int32      `parquet:"total_developers,snappy"`
}

// Rollup maps to the developer_rollups history table.
type Rollup struct {
	RunID           int64   `parquet:"run_id,snappy"`
	Developer       string  `parquet:"developer,snappy"`
	Commits         int32   `parquet:"commits,snappy"`
	Additions       int32   `parquet:"additions,snappy"`
	Deletions       int32   `parquet:"deletions,snappy"`
	EnrichedCommits int32   `parquet:"enriched_commits,snappy"`
	AvgQualityScore float64 `parquet:"avg_quality_score,snappy"`
	AvgLLMQuality   float64 `parquet:"avg_llm_quality,snappy"`
}

// writeParquet writes any row slice to a Parquet file using struct
// schema inference.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteCommitsParquet writes commit rows to a Parquet file.
func WriteCommitsParquet(data []Commit, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteDevelopersParquet writes developer rows to a Parquet file.
func WriteDevelopersParquet(data []Developer, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRunsParquet writes history run rows to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteRollupsParquet writes history rollup rows to a Parquet file.
func WriteRollupsParquet(data []Rollup, outputPath string) error {
	return writeParquet(data, outputPath)
}

// ConvertCommitRecords converts schema.CommitRecord rows for Parquet export.
func ConvertCommitRecords(records []schema.CommitRecord) []Commit {
	result := make([]Commit, len(records))
	for i, rec := range records {
		row := Commit{
			SHA:               rec.SHA,
			Repository:        rec.Repository,
			Author:            rec.Author,
			AuthorName:        rec.AuthorName,
			Date:              rec.Date,
			Message:           rec.Message,
			Additions:         int32(rec.Additions),
			Deletions:         int32(rec.Deletions),
			FilesChanged:      int32(rec.FilesChanged),
			ParentCount:       int32(rec.ParentCount),
			QualityScore:      rec.QualityScore,
			HasIssueRef:       rec.HasIssueRef,
			FollowsConvention: rec.FollowsConvention,
			IsMerge:           rec.IsMerge,
			IsRevert:          rec.IsRevert,
			IsHotfix:          rec.IsHotfix,
			HasBreakingChange: rec.HasBreakingChange,
		}
		if enr := rec.Enrichment; enr != nil {
			row.LLMQualityScore = &enr.QualityScore
			row.BusinessImpactScore = &enr.BusinessImpactScore
			row.FeatureType = &enr.FeatureType
			row.ComplexityLevel = &enr.ComplexityLevel
			row.RiskLevel = &enr.RiskLevel
		}
		result[i] = row
	}
	return result
}

// ConvertDeveloperSummaries converts schema.DeveloperSummary rows for
// Parquet export.
func ConvertDeveloperSummaries(devs []schema.DeveloperSummary) []Developer {
	result := make([]Developer, len(devs))
	for i, d := range devs {
		result[i] = Developer{
			Developer:           d.Developer,
			TotalCommits:        int32(d.TotalCommits),
			TotalAdditions:      int32(d.TotalAdditions),
			TotalDeletions:      int32(d.TotalDeletions),
			AvgQualityScore:     d.AvgQualityScore,
			MergeCommits:        int32(d.MergeCommits),
			RevertCommits:       int32(d.RevertCommits),
			HotfixCommits:       int32(d.HotfixCommits),
			IssueRefCommits:     int32(d.IssueRefCommits),
			ConventionalCommits: int32(d.ConventionalCommits),
			BreakingChanges:     int32(d.BreakingChanges),
			LargeCommits:        int32(d.LargeCommits),
			ActiveDays:          int32(d.ActiveDays),
			EnrichedCommits:     int32(d.EnrichedCommits),
			AvgLLMQuality:       d.AvgLLMQuality,
			AvgBusinessImpact:   d.AvgBusinessImpact,
		}
	}
	return result
}

// ConvertRunInfos converts schema.RunInfo rows for Parquet export.
func ConvertRunInfos(runs []schema.RunInfo) []Run {
	result := make([]Run, len(runs))
	for i, r := range runs {
		row := Run{
			RunID:           r.RunID,
			Org:             r.Org,
			StartedAt:       r.StartedAt,
			LookbackDays:    int32(r.LookbackDays),
			TotalCommits:    int32(r.TotalCommits),
			TotalDevelopers: int32(r.TotalDevelopers),
		}
		if !r.EndedAt.IsZero() {
			ended := r.EndedAt
			row.EndedAt = &ended
		}
		result[i] = row
	}
	return result
}

// ConvertRollups converts schema.DeveloperRollup rows for Parquet export.
func ConvertRollups(rollups []schema.DeveloperRollup) []Rollup {
	result := make([]Rollup, len(rollups))
	for i, r := range rollups {
		result[i] = Rollup{
			RunID:           r.RunID,
			Developer:       r.Developer,
			Commits:         int32(r.Commits),
			Additions:       int32(r.Additions),
			Deletions:       int32(r.Deletions),
			EnrichedCommits: int32(r.EnrichedCommits),
			AvgQualityScore: r.AvgQualityScore,
			AvgLLMQuality:   r.AvgLLMQuality,
		}
	}
	return result
}
