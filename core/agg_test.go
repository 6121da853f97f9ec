package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/teampulse/schema"
)

func commitAt(author string, day int, hour int, score float64) schema.CommitRecord {
	return schema.CommitRecord{
		SHA:          "sha",
		Author:       author,
		Date:         time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC),
		QualityScore: score,
	}
}

// TestAggregatePartition checks that every record lands in exactly one
// summary and totals add up.
func TestAggregatePartition(t *testing.T) {
	records := []schema.CommitRecord{
		commitAt("alice", 2, 9, 8),
		commitAt("alice", 2, 15, 6),
		commitAt("alice", 3, 10, 7),
		commitAt("bob", 2, 11, 5),
	}
	records[0].Additions = 100
	records[0].Deletions = 40
	records[1].IsMerge = true
	records[2].HasIssueRef = true

	devs := Aggregate(records, schema.LargeCommitThreshold)
	require.Len(t, devs, 2)

	// Sorted by handle.
	assert.Equal(t, "alice", devs[0].Developer)
	assert.Equal(t, "bob", devs[1].Developer)

	alice := devs[0]
	assert.Equal(t, 3, alice.TotalCommits)
	assert.Equal(t, 100, alice.TotalAdditions)
	assert.Equal(t, 40, alice.TotalDeletions)
	assert.Equal(t, 1, alice.MergeCommits)
	assert.Equal(t, 1, alice.IssueRefCommits)
	assert.Equal(t, 2, alice.ActiveDays)
	assert.InDelta(t, 7.0, alice.AvgQualityScore, 0.001)

	total := 0
	for _, d := range devs {
		total += d.TotalCommits
	}
	assert.Equal(t, len(records), total)
}

// TestAggregateLLMMeans verifies enrichment means cover enriched
// commits only, never the full commit count.
func TestAggregateLLMMeans(t *testing.T) {
	records := []schema.CommitRecord{
		commitAt("alice", 2, 9, 8),
		commitAt("alice", 2, 10, 8),
		commitAt("alice", 3, 9, 8),
	}
	records[0].Enrichment = &schema.Enrichment{QualityScore: 9, BusinessImpactScore: 7}
	records[1].Enrichment = &schema.Enrichment{QualityScore: 5, BusinessImpactScore: 3}

	devs := Aggregate(records, schema.LargeCommitThreshold)
	require.Len(t, devs, 1)

	assert.Equal(t, 2, devs[0].EnrichedCommits)
	assert.InDelta(t, 7.0, devs[0].AvgLLMQuality, 0.001)
	assert.InDelta(t, 5.0, devs[0].AvgBusinessImpact, 0.001)
}

// TestAggregateWeeks checks the weekly buckets are sorted ascending and
// carry per-week quality means.
func TestAggregateWeeks(t *testing.T) {
	records := []schema.CommitRecord{
		commitAt("alice", 2, 9, 8),  // 2026-03-02 is ISO week 10
		commitAt("alice", 9, 9, 4),  // week 11
		commitAt("alice", 10, 9, 6), // week 11
	}

	devs := Aggregate(records, schema.LargeCommitThreshold)
	require.Len(t, devs, 1)
	require.Len(t, devs[0].Weeks, 2)

	assert.Equal(t, "2026-W10", devs[0].Weeks[0].Week)
	assert.Equal(t, "2026-W11", devs[0].Weeks[1].Week)
	assert.Equal(t, 2, devs[0].Weeks[1].Commits)
	assert.InDelta(t, 5.0, devs[0].Weeks[1].AvgQualityScore, 0.001)
}

// TestAggregateEmpty returns an empty slice, not nil panics.
func TestAggregateEmpty(t *testing.T) {
	devs := Aggregate(nil, schema.LargeCommitThreshold)
	assert.Empty(t, devs)
}

// TestTopDevelopers verifies ordering, the handle tie-break, and that
// the input slice is not mutated.
func TestTopDevelopers(t *testing.T) {
	devs := []schema.DeveloperSummary{
		{Developer: "carol", AvgQualityScore: 6},
		{Developer: "alice", AvgQualityScore: 8},
		{Developer: "bob", AvgQualityScore: 8},
	}

	top := TopDevelopers(devs, 2)
	require.Len(t, top, 2)
	assert.Equal(t, "alice", top[0].Developer, "tie broken by handle")
	assert.Equal(t, "bob", top[1].Developer)

	// Input order preserved.
	assert.Equal(t, "carol", devs[0].Developer)

	all := TopDevelopers(devs, 0)
	assert.Len(t, all, 3, "non-positive limit returns everyone")
}

// TestISOWeek covers the year-boundary bucketing.
func TestISOWeek(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{
			name:     "mid-year",
			date:     time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
			expected: "2026-W34",
		},
		{
			name:     "late December belongs to next ISO year",
			date:     time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC),
			expected: "2025-W01",
		},
		{
			name:     "early January can belong to previous ISO year",
			date:     time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: "2026-W53",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ISOWeek(tt.date))
		})
	}
}
