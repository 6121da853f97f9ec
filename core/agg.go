package core

import (
	"fmt"
	"sort"
	"time"

	"github.com/teampulse/teampulse/schema"
)

// devAccumulator collects running totals for one canonical developer.
type devAccumulator struct {
	summary    schema.DeveloperSummary
	days       map[string]struct{}
	weeks      map[string]*weekAccumulator
	scoreSum   float64
	llmQuality float64
	llmImpact  float64
}

type weekAccumulator struct {
	activity schema.WeekActivity
	scoreSum float64
}

// Aggregate partitions post-exclusion commit records by canonical
// handle and folds them into per-developer summaries. Every record
// lands in exactly one summary; LLM means cover enriched commits only.
// The result is sorted by developer handle for deterministic output.
func Aggregate(records []schema.CommitRecord, largeThreshold int) []schema.DeveloperSummary {
	accs := make(map[string]*devAccumulator)

	for i := range records {
		rec := &records[i]
		acc, ok := accs[rec.Author]
		if !ok {
			acc = &devAccumulator{
				summary: schema.DeveloperSummary{Developer: rec.Author},
				days:    make(map[string]struct{}),
				weeks:   make(map[string]*weekAccumulator),
			}
			accs[rec.Author] = acc
		}

		s := &acc.summary
		s.TotalCommits++
		s.TotalAdditions += rec.Additions
		s.TotalDeletions += rec.Deletions
		acc.scoreSum += rec.QualityScore

		if rec.IsMerge {
			s.MergeCommits++
		}
		if rec.IsRevert {
			s.RevertCommits++
		}
		if rec.IsHotfix {
			s.HotfixCommits++
		}
		if rec.HasIssueRef {
			s.IssueRefCommits++
		}
		if rec.FollowsConvention {
			s.ConventionalCommits++
		}
		if rec.HasBreakingChange {
			s.BreakingChanges++
		}
		if rec.TotalChanges() >= largeThreshold {
			s.LargeCommits++
		}
		if rec.Enrichment != nil {
			s.EnrichedCommits++
			acc.llmQuality += rec.Enrichment.QualityScore
			acc.llmImpact += rec.Enrichment.BusinessImpactScore
		}

		acc.days[rec.Date.UTC().Format("2006-01-02")] = struct{}{}

		week := ISOWeek(rec.Date)
		wa, ok := acc.weeks[week]
		if !ok {
			wa = &weekAccumulator{activity: schema.WeekActivity{Week: week}}
			acc.weeks[week] = wa
		}
		wa.activity.Commits++
		wa.activity.Additions += rec.Additions
		wa.activity.Deletions += rec.Deletions
		wa.scoreSum += rec.QualityScore
	}

	out := make([]schema.DeveloperSummary, 0, len(accs))
	for _, acc := range accs {
		s := acc.summary
		if s.TotalCommits > 0 {
			s.AvgQualityScore = acc.scoreSum / float64(s.TotalCommits)
		}
		if s.EnrichedCommits > 0 {
			s.AvgLLMQuality = acc.llmQuality / float64(s.EnrichedCommits)
			s.AvgBusinessImpact = acc.llmImpact / float64(s.EnrichedCommits)
		}
		s.ActiveDays = len(acc.days)

		s.Weeks = make([]schema.WeekActivity, 0, len(acc.weeks))
		for _, wa := range acc.weeks {
			a := wa.activity
			if a.Commits > 0 {
				a.AvgQualityScore = wa.scoreSum / float64(a.Commits)
			}
			s.Weeks = append(s.Weeks, a)
		}
		sort.Slice(s.Weeks, func(i, j int) bool { return s.Weeks[i].Week < s.Weeks[j].Week })

		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Developer < out[j].Developer })
	return out
}

// TopDevelopers returns the n highest-scoring developers, ordered by
// mean quality score descending with handle ascending as tie-break.
func TopDevelopers(devs []schema.DeveloperSummary, n int) []schema.DeveloperSummary {
	ranked := make([]schema.DeveloperSummary, len(devs))
	copy(ranked, devs)
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].AvgQualityScore != ranked[j].AvgQualityScore {
			return ranked[i].AvgQualityScore > ranked[j].AvgQualityScore
		}
		return ranked[i].Developer < ranked[j].Developer
	})
	if n > 0 && n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// ISOWeek formats a timestamp as its ISO 8601 week, e.g. "2026-W34".
// The ISO year is used, so late-December commits can bucket into week 1
// of the following year.
func ISOWeek(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
