// Package contract defines the interfaces and configuration shared by
// all teampulse components.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/teampulse/teampulse/schema"
)

// ErrMalformedResponse marks an enrichment response that could not be
// parsed into the expected JSON contract. Callers use errors.Is to
// distinguish it from transport failures, which degrade the whole stage.
var ErrMalformedResponse = errors.New("malformed enrichment response")

// HostClient fetches repositories and commits from a code host.
type HostClient interface {
	// ListOrgRepos returns every repository of the configured organization.
	ListOrgRepos(ctx context.Context) ([]schema.Repository, error)

	// ListCommits returns the commits of repo authored inside [since, until),
	// without stats. Records come back with raw author fields only.
	ListCommits(ctx context.Context, repo string, since, until time.Time) ([]schema.CommitRecord, error)

	// GetCommitDetail fetches line stats and patch text for one commit.
	GetCommitDetail(ctx context.Context, repo, sha string) (schema.CommitDetail, error)
}

// Enricher produces LLM-derived fields for one commit.
type Enricher interface {
	AnalyzeCommit(ctx context.Context, commit schema.CommitRecord, diff string) (*schema.Enrichment, error)
}

// CacheStore is a versioned key-value store with per-entry timestamps.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, data []byte, version int, ts int64) error
	Close() error
	GetStatus() (schema.CacheStatus, error)
}

// HistoryStore records extraction runs and per-developer rollups.
type HistoryStore interface {
	BeginRun(startTime time.Time, params map[string]any) (int64, error)
	EndRun(runID int64, endTime time.Time, totalCommits, totalDevelopers int) error
	RecordDeveloper(runID int64, dev schema.DeveloperSummary) error
	ListRuns(limit int) ([]schema.RunInfo, error)
	ListRollups(runID int64) ([]schema.DeveloperRollup, error)
	Close() error
	GetStatus() (schema.HistoryStatus, error)
}

// CacheManager hands out the configured stores. Either getter may
// return nil when the backend is "none".
type CacheManager interface {
	GetEnrichmentStore() CacheStore
	GetHistoryStore() HistoryStore
}
