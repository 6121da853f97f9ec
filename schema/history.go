package schema

import "time"

// RunInfo is one recorded extraction run.
type RunInfo struct {
	RunID           int64     `json:"run_id"`
	Org             string    `json:"org"`
	StartedAt       time.Time `json:"started_at"`
	EndedAt         time.Time `json:"ended_at"`
	LookbackDays    int       `json:"lookback_days"`
	TotalCommits    int       `json:"total_commits"`
	TotalDevelopers int       `json:"total_developers"`
}

// DeveloperRollup is one per-developer row recorded for a run.
type DeveloperRollup struct {
	RunID           int64   `json:"run_id"`
	Developer       string  `json:"developer"`
	Commits         int     `json:"commits"`
	Additions       int     `json:"additions"`
	Deletions       int     `json:"deletions"`
	EnrichedCommits int     `json:"enriched_commits"`
	AvgQualityScore float64 `json:"avg_quality_score"`
	AvgLLMQuality   float64 `json:"avg_llm_quality"`
}
