package schema

import "time"

// CacheStatus describes the state of the enrichment cache backend.
type CacheStatus struct {
	Backend         DatabaseBackend
	Connected       bool
	TotalEntries    int64
	OldestEntryTime time.Time
	LastEntryTime   time.Time
	TableSizeBytes  int64
}

// HistoryStatus describes the state of the run-history backend.
type HistoryStatus struct {
	Backend       DatabaseBackend
	Connected     bool
	TotalRuns     int64
	TotalRollups  int64
	LastRunID     int64
	LastRunTime   time.Time
	SchemaVersion uint
	SchemaDirty   bool
}
