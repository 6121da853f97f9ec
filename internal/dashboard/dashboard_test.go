package dashboard

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

func dashCommit(sha string, day, hour int, score float64) schema.CommitRecord {
	return schema.CommitRecord{
		SHA:          sha,
		Repository:   "api",
		Author:       "alice smith",
		QualityScore: score,
		Date:         time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC),
	}
}

// TestRenderWritesHTML verifies the full render path produces a
// standalone file with the inlined payload.
func TestRenderWritesHTML(t *testing.T) {
	cfg := &contract.Config{
		Org:           "myorg",
		DashboardFile: filepath.Join(t.TempDir(), "dashboard.html"),
	}
	records := []schema.CommitRecord{
		dashCommit("aaa", 2, 10, 8),
		dashCommit("bbb", 3, 14, 6),
	}
	devs := []schema.DeveloperSummary{
		{Developer: "alice smith", TotalCommits: 2, AvgQualityScore: 7, ActiveDays: 2},
	}

	require.NoError(t, Render(records, devs, cfg))

	blob, err := os.ReadFile(cfg.DashboardFile)
	require.NoError(t, err)
	content := string(blob)

	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "plotly-2.35.2.min.js")
	assert.Contains(t, content, "myorg")
	assert.Contains(t, content, `"alice smith"`)
	assert.Contains(t, content, `"weekly"`)
	assert.NotContains(t, content, `"llm"`, "no enrichment means no LLM panels")
}

// TestBuildPayloadTotals covers the headline numbers and ordering.
func TestBuildPayloadTotals(t *testing.T) {
	cfg := &contract.Config{Org: "myorg"}
	records := []schema.CommitRecord{
		dashCommit("aaa", 2, 10, 8),
		dashCommit("bbb", 3, 14, 4),
	}
	devs := []schema.DeveloperSummary{
		{Developer: "bob", TotalCommits: 1, AvgQualityScore: 4},
		{Developer: "alice smith", TotalCommits: 3, AvgQualityScore: 8},
	}

	p := buildPayload(records, devs, cfg)

	assert.Equal(t, "myorg", p.Org)
	assert.Equal(t, 2, p.TotalCommits)
	assert.Equal(t, 2, p.TotalDevs)
	assert.InDelta(t, 6.0, p.AvgQuality, 0.001)

	require.Len(t, p.Developers, 2)
	assert.Equal(t, "alice smith", p.Developers[0].Developer, "ranked by average quality")
	assert.Nil(t, p.LLM)
}

// TestWeeklyTrend folds commits into sorted ISO-week buckets.
func TestWeeklyTrend(t *testing.T) {
	records := []schema.CommitRecord{
		// 2026-03-02 is the Monday of W10; 2026-03-09 starts W11.
		{Date: time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC), QualityScore: 6, Additions: 5},
		{Date: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), QualityScore: 8, Additions: 10},
		{Date: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), QualityScore: 4, Deletions: 3},
	}

	weekly := weeklyTrend(records)
	require.Len(t, weekly, 2)

	assert.Equal(t, "2026-W10", weekly[0].Week)
	assert.Equal(t, 2, weekly[0].Commits)
	assert.Equal(t, 10, weekly[0].Additions)
	assert.Equal(t, 3, weekly[0].Deletions)
	assert.InDelta(t, 6.0, weekly[0].AvgQuality, 0.001)

	assert.Equal(t, "2026-W11", weekly[1].Week)
	assert.Equal(t, 1, weekly[1].Commits)
}

// TestActivityHeatmap places commits on the UTC weekday/hour grid.
func TestActivityHeatmap(t *testing.T) {
	records := []schema.CommitRecord{
		// 2026-03-02 is a Monday.
		{Date: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)},
		{Date: time.Date(2026, 3, 2, 9, 45, 0, 0, time.UTC)},
		{Date: time.Date(2026, 3, 7, 23, 0, 0, 0, time.UTC)}, // Saturday
	}

	grid := activityHeatmap(records)
	require.Len(t, grid, 7)
	assert.Equal(t, 2, grid[int(time.Monday)][9])
	assert.Equal(t, 1, grid[int(time.Saturday)][23])
	assert.Zero(t, grid[int(time.Sunday)][0])
}

// TestRadarSeriesNormalization checks axes stay within [0,1] and the
// busiest developer pins the relative axes.
func TestRadarSeriesNormalization(t *testing.T) {
	devs := []schema.DeveloperSummary{
		{Developer: "alice", TotalCommits: 10, AvgQualityScore: 8, ConventionalCommits: 5, IssueRefCommits: 10, ActiveDays: 4, TotalAdditions: 100},
		{Developer: "bob", TotalCommits: 5, AvgQualityScore: 5, ActiveDays: 2, TotalAdditions: 50},
	}

	series := radarSeriesFor(devs)
	require.Len(t, series, 2)

	alice := series[0]
	assert.Equal(t, "alice", alice.Developer)
	require.Len(t, alice.Values, len(radarAxes))
	assert.InDelta(t, 0.8, alice.Values[0], 0.001) // quality / 10
	assert.InDelta(t, 0.5, alice.Values[1], 0.001) // conventional rate
	assert.InDelta(t, 1.0, alice.Values[2], 0.001) // issue ref rate
	assert.InDelta(t, 1.0, alice.Values[3], 0.001) // most active days
	assert.InDelta(t, 1.0, alice.Values[4], 0.001) // most changes

	bob := series[1]
	assert.InDelta(t, 0.5, bob.Values[3], 0.001)
	assert.InDelta(t, 0.5, bob.Values[4], 0.001)
}

// TestLLMPanels verifies panels appear only with enriched commits and
// buckets sort by count then name.
func TestLLMPanels(t *testing.T) {
	records := []schema.CommitRecord{
		{SHA: "a", Enrichment: &schema.Enrichment{FeatureType: "feature", RiskLevel: "low"}},
		{SHA: "b", Enrichment: &schema.Enrichment{FeatureType: "feature", RiskLevel: "medium"}},
		{SHA: "c", Enrichment: &schema.Enrichment{FeatureType: "bugfix", RiskLevel: "low"}},
		{SHA: "d"},
	}
	devs := []schema.DeveloperSummary{
		{Developer: "alice", EnrichedCommits: 3, AvgLLMQuality: 7, AvgBusinessImpact: 6},
		{Developer: "bob"},
	}

	panels := llmPanelsFor(records, devs)
	require.NotNil(t, panels)

	require.Len(t, panels.FeatureTypes, 2)
	assert.Equal(t, bucketCount{Name: "feature", Count: 2}, panels.FeatureTypes[0])
	assert.Equal(t, bucketCount{Name: "bugfix", Count: 1}, panels.FeatureTypes[1])

	require.Len(t, panels.RiskLevels, 2)
	assert.Equal(t, "low", panels.RiskLevels[0].Name)

	require.Len(t, panels.Impact, 1, "developers without enriched commits are skipped")
	assert.Equal(t, "alice", panels.Impact[0].Developer)

	assert.Nil(t, llmPanelsFor([]schema.CommitRecord{{SHA: "x"}}, devs))
}
