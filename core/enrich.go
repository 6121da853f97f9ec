package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

// promptVersion is stored in the cache version column. Bumping it
// invalidates every cached enrichment after a prompt change.
const promptVersion = 1

// EnrichmentCacheKey derives the cache key for one commit. The prompt
// version is part of the key material so distinct prompt generations
// never alias.
func EnrichmentCacheKey(sha string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(fmt.Sprintf("%s:%d", sha, promptVersion))))
}

// EnrichCommits fills rec.Enrichment for every record that lacks a
// fresh cache entry, issuing at most one live request per commit SHA.
// A transport or auth failure degrades the stage for the rest of the
// run with a single warning; a malformed response skips only that
// commit. Returned warnings never abort the run.
func EnrichCommits(ctx context.Context, cfg *contract.Config, records []schema.CommitRecord, diffs map[string]string, enricher contract.Enricher, store contract.CacheStore) []string {
	var warnings []string

	// Resolve cache hits up front and group the remaining indexes by
	// SHA so one live call serves duplicate records.
	pending := make(map[string][]int)
	var order []string
	for i := range records {
		if enr := checkEnrichmentCache(store, records[i].SHA, cfg.CacheTTL()); enr != nil {
			records[i].Enrichment = enr
			continue
		}
		if _, seen := pending[records[i].SHA]; !seen {
			order = append(order, records[i].SHA)
		}
		pending[records[i].SHA] = append(pending[records[i].SHA], i)
	}
	if len(pending) == 0 || enricher == nil {
		return warnings
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		degraded atomic.Bool
		degOnce  sync.Once
	)
	jobs := make(chan string)

	workers := cfg.LLMWorkers
	if workers > len(pending) {
		workers = len(pending)
	}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sha := range jobs {
				if degraded.Load() || ctx.Err() != nil {
					continue
				}
				idx := pending[sha][0]
				enr, err := enricher.AnalyzeCommit(ctx, records[idx], diffs[sha])
				if err != nil {
					if errors.Is(err, contract.ErrMalformedResponse) {
						mu.Lock()
						warnings = append(warnings, fmt.Sprintf("enrichment skipped for %s: %v", shortSHA(sha), err))
						mu.Unlock()
						continue
					}
					degraded.Store(true)
					degOnce.Do(func() {
						mu.Lock()
						warnings = append(warnings, fmt.Sprintf("enrichment disabled for the rest of the run: %v", err))
						mu.Unlock()
					})
					continue
				}
				storeEnrichment(store, sha, enr)
				for _, i := range pending[sha] {
					records[i].Enrichment = enr
				}
			}
		}()
	}

	for _, sha := range order {
		jobs <- sha
	}
	close(jobs)
	wg.Wait()

	return warnings
}

// checkEnrichmentCache returns a fresh cached enrichment, or nil on any
// miss (absent, stale, version mismatch, unparseable).
func checkEnrichmentCache(store contract.CacheStore, sha string, ttl time.Duration) *schema.Enrichment {
	if store == nil {
		return nil
	}
	data, version, ts, err := store.Get(EnrichmentCacheKey(sha))
	if err != nil {
		return nil // Cache miss
	}

	if version == promptVersion && time.Since(time.Unix(ts, 0)) <= ttl {
		var enr schema.Enrichment
		if err := json.Unmarshal(data, &enr); err == nil {
			return &enr
		}
	}
	return nil // Stale or version mismatch
}

// storeEnrichment writes through to the cache immediately after a
// successful call, so an interrupt later in the run loses nothing.
func storeEnrichment(store contract.CacheStore, sha string, enr *schema.Enrichment) {
	if store == nil {
		return
	}
	if data, err := json.Marshal(enr); err == nil {
		_ = store.Set(EnrichmentCacheKey(sha), data, promptVersion, time.Now().Unix())
	}
}

func shortSHA(sha string) string {
	if len(sha) > 8 {
		return sha[:8]
	}
	return sha
}
