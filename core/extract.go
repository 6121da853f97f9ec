package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

// RunExtract performs one full extraction run: repository enumeration,
// commit listing, identity resolution, scoring, optional detail fetch
// and enrichment, and aggregation. Per-repository and per-commit
// failures become warnings; only enumeration failure and cancellation
// are fatal. On a nil error the result is complete and sorted.
func RunExtract(ctx context.Context, cfg *contract.Config, client contract.HostClient, enricher contract.Enricher, mgr contract.CacheManager) (*schema.ExtractResult, error) {
	started := time.Now().UTC()

	repos, err := client.ListOrgRepos(ctx)
	if err != nil {
		return nil, fmt.Errorf("list repositories for %s: %w", cfg.Org, err)
	}

	result := &schema.ExtractResult{}

	records, warnings := collectCommits(ctx, cfg, client, repos)
	result.Warnings = append(result.Warnings, warnings...)

	records = resolveAndScore(cfg, records)

	var diffs map[string]string
	if cfg.FetchStats || cfg.LLMEnabled {
		var detailWarnings []string
		diffs, detailWarnings = fetchDetails(ctx, cfg, client, records)
		result.Warnings = append(result.Warnings, detailWarnings...)
	}

	sortRecords(records)

	// A cancelled run must not produce partial outputs.
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("extraction interrupted: %w", err)
	}

	if cfg.LLMEnabled && enricher != nil {
		var store contract.CacheStore
		if mgr != nil {
			store = mgr.GetEnrichmentStore()
		}
		result.Warnings = append(result.Warnings, EnrichCommits(ctx, cfg, records, diffs, enricher, store)...)
	}

	result.Commits = records
	result.Developers = Aggregate(records, cfg.LargeCommitThreshold)

	if mgr != nil {
		if warn := recordRun(cfg, mgr.GetHistoryStore(), started, result); warn != "" {
			result.Warnings = append(result.Warnings, warn)
		}
	}

	return result, nil
}

// collectCommits lists commits across all candidate repositories with a
// bounded worker pool. A failed repository is skipped with one warning.
func collectCommits(ctx context.Context, cfg *contract.Config, client contract.HostClient, repos []schema.Repository) ([]schema.CommitRecord, []string) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		records  []schema.CommitRecord
		warnings []string
	)

	jobs := make(chan schema.Repository)
	workers := cfg.Workers
	if workers > len(repos) {
		workers = len(repos)
	}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for repo := range jobs {
				if ctx.Err() != nil {
					continue
				}
				commits, err := client.ListCommits(ctx, repo.Name, cfg.StartTime, cfg.EndTime)
				mu.Lock()
				if err != nil {
					warnings = append(warnings, fmt.Sprintf("skipping repository %s: %v", repo.Name, err))
				} else {
					records = append(records, commits...)
				}
				mu.Unlock()
			}
		}()
	}

	for _, repo := range repos {
		if repo.Archived && !cfg.IncludeArchived {
			continue
		}
		jobs <- repo
	}
	close(jobs)
	wg.Wait()

	return records, warnings
}

// resolveAndScore canonicalizes author identities, drops excluded
// identities, and computes the rule-based quality fields.
func resolveAndScore(cfg *contract.Config, records []schema.CommitRecord) []schema.CommitRecord {
	resolver := NewResolver(cfg.AuthorMapping, cfg.ExcludeAuthors)

	kept := records[:0]
	for _, rec := range records {
		if resolver.Excluded(rec.AuthorName, rec.AuthorEmail) {
			continue
		}
		rec.Author = resolver.Canonicalize(rec.AuthorName, rec.AuthorEmail)
		rec.MessageLength = len(rec.Message)
		rec.MessageWords = CountWords(rec.Message)
		rec.HasIssueRef = HasIssueRef(rec.Message)
		rec.FollowsConvention = FollowsConvention(contract.FirstLine(rec.Message))
		rec.HasBreakingChange = HasBreakingChange(rec.Message)
		rec.IsMerge = rec.ParentCount > 1
		rec.IsRevert = IsRevert(rec.Message)
		rec.IsHotfix = IsHotfix(rec.Message)
		rec.QualityScore = ScoreMessage(rec.Message, rec.ParentCount, cfg.Weights, cfg.MinMessageLength, cfg.IdealMessageLength)
		kept = append(kept, rec)
	}
	return kept
}

// fetchDetails pulls line stats and patch text for each commit with a
// bounded worker pool. A failed fetch leaves the record's stats zero
// and adds one warning.
func fetchDetails(ctx context.Context, cfg *contract.Config, client contract.HostClient, records []schema.CommitRecord) (map[string]string, []string) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		warnings []string
	)
	diffs := make(map[string]string, len(records))

	jobs := make(chan int)
	workers := cfg.Workers
	if workers > len(records) {
		workers = len(records)
	}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}
				rec := &records[i]
				detail, err := client.GetCommitDetail(ctx, rec.Repository, rec.SHA)
				if err != nil {
					mu.Lock()
					warnings = append(warnings, fmt.Sprintf("stats unavailable for %s@%s: %v", rec.Repository, shortSHA(rec.SHA), err))
					mu.Unlock()
					continue
				}
				rec.Additions = detail.Additions
				rec.Deletions = detail.Deletions
				rec.FilesChanged = detail.FilesChanged
				mu.Lock()
				diffs[rec.SHA] = detail.Patch
				mu.Unlock()
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return diffs, warnings
}

// sortRecords orders records by (timestamp, sha) so identical inputs
// always serialize identically.
func sortRecords(records []schema.CommitRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Date.Equal(records[j].Date) {
			return records[i].Date.Before(records[j].Date)
		}
		return records[i].SHA < records[j].SHA
	})
}

// recordRun persists the run and its per-developer rollups. History is
// best-effort; failures warn instead of failing the run.
func recordRun(cfg *contract.Config, store contract.HistoryStore, started time.Time, result *schema.ExtractResult) string {
	if store == nil {
		return ""
	}
	params := map[string]any{
		"org":           cfg.Org,
		"lookback_days": cfg.LookbackDays,
		"llm_enabled":   cfg.LLMEnabled,
	}
	runID, err := store.BeginRun(started, params)
	if err != nil {
		return fmt.Sprintf("history not recorded: %v", err)
	}
	for _, dev := range result.Developers {
		if err := store.RecordDeveloper(runID, dev); err != nil {
			return fmt.Sprintf("history rollups incomplete: %v", err)
		}
	}
	if err := store.EndRun(runID, time.Now().UTC(), len(result.Commits), len(result.Developers)); err != nil {
		return fmt.Sprintf("history run not finalized: %v", err)
	}
	return ""
}
