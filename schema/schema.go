// Package schema has the shared data model for all parts of teampulse.
package schema

import "time"

// Repository is one repository of the target organization.
type Repository struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	DefaultBranch string `json:"default_branch"`
	Archived      bool   `json:"archived"`
	Private       bool   `json:"private"`
}

// CommitRecord is one normalized commit, flat so it can round-trip
// through CSV, JSON and parquet without restructuring.
type CommitRecord struct {
	SHA         string    `json:"sha"`
	Repository  string    `json:"repository"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	// Author is the canonical handle after identity resolution.
	Author      string    `json:"author"`
	Date        time.Time `json:"date"`
	Message     string    `json:"message"`
	ParentCount int       `json:"parent_count"`

	Additions    int `json:"additions"`
	Deletions    int `json:"deletions"`
	FilesChanged int `json:"files_changed"`

	QualityScore      float64 `json:"quality_score"`
	MessageLength     int     `json:"message_length"`
	MessageWords      int     `json:"message_words"`
	HasIssueRef       bool    `json:"has_issue_ref"`
	FollowsConvention bool    `json:"follows_convention"`
	HasBreakingChange bool    `json:"has_breaking_change"`
	IsMerge           bool    `json:"is_merge"`
	IsRevert          bool    `json:"is_revert"`
	IsHotfix          bool    `json:"is_hotfix"`

	// Enrichment is nil until the LLM stage populates it.
	Enrichment *Enrichment `json:"enrichment,omitempty"`
}

// TotalChanges returns additions plus deletions.
func (c *CommitRecord) TotalChanges() int {
	return c.Additions + c.Deletions
}

// CommitDetail holds the per-commit stats and patch text fetched on demand.
type CommitDetail struct {
	Additions    int
	Deletions    int
	FilesChanged int
	Patch        string
}

// Enrichment holds the optional LLM-derived fields of a commit.
// Fields mirror the JSON contract returned by the model.
type Enrichment struct {
	QualityScore        float64  `json:"llm_quality_score"`
	BusinessImpactScore float64  `json:"business_impact_score"`
	FeatureType         string   `json:"feature_type"`
	ComplexityLevel     string   `json:"complexity_level"`
	RiskLevel           string   `json:"risk_level"`
	CodeAreas           []string `json:"code_areas,omitempty"`
	KeyChanges          []string `json:"key_changes,omitempty"`
	Strengths           []string `json:"strengths,omitempty"`
	Risks               []string `json:"risks,omitempty"`
}

// WeekActivity is one ISO-week bucket of a developer's activity.
type WeekActivity struct {
	Week            string  `json:"week"` // e.g. "2026-W34"
	Commits         int     `json:"commits"`
	Additions       int     `json:"additions"`
	Deletions       int     `json:"deletions"`
	AvgQualityScore float64 `json:"avg_quality_score"`
}

// DeveloperSummary aggregates the commits of one canonical developer.
type DeveloperSummary struct {
	Developer string `json:"developer"`

	TotalCommits   int `json:"total_commits"`
	TotalAdditions int `json:"total_additions"`
	TotalDeletions int `json:"total_deletions"`

	AvgQualityScore float64 `json:"avg_quality_score"`

	MergeCommits        int `json:"merge_commits"`
	RevertCommits       int `json:"revert_commits"`
	HotfixCommits       int `json:"hotfix_commits"`
	IssueRefCommits     int `json:"issue_ref_commits"`
	ConventionalCommits int `json:"conventional_commits"`
	BreakingChanges     int `json:"breaking_changes"`
	LargeCommits        int `json:"large_commits"`

	ActiveDays int `json:"active_days"`

	// LLM means are computed over enriched commits only.
	EnrichedCommits   int     `json:"enriched_commits"`
	AvgLLMQuality     float64 `json:"avg_llm_quality_score"`
	AvgBusinessImpact float64 `json:"avg_business_impact_score"`

	Weeks []WeekActivity `json:"weeks,omitempty"`
}

// TotalChanges returns total additions plus deletions across all commits.
func (d *DeveloperSummary) TotalChanges() int {
	return d.TotalAdditions + d.TotalDeletions
}

// AvgChangesPerCommit returns mean line churn per commit.
func (d *DeveloperSummary) AvgChangesPerCommit() float64 {
	if d.TotalCommits == 0 {
		return 0
	}
	return float64(d.TotalChanges()) / float64(d.TotalCommits)
}

// CommitsPerActiveDay returns commit density over days with activity.
func (d *DeveloperSummary) CommitsPerActiveDay() float64 {
	if d.ActiveDays == 0 {
		return 0
	}
	return float64(d.TotalCommits) / float64(d.ActiveDays)
}

// Rate returns count/TotalCommits, guarding the empty case.
func (d *DeveloperSummary) Rate(count int) float64 {
	if d.TotalCommits == 0 {
		return 0
	}
	return float64(count) / float64(d.TotalCommits)
}

// ExtractResult is the outcome of one full extraction run.
type ExtractResult struct {
	Commits    []CommitRecord     `json:"commits"`
	Developers []DeveloperSummary `json:"developers"`
	Warnings   []string           `json:"warnings,omitempty"`
}
