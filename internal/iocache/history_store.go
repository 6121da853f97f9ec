package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

// Table names for run-history tracking.
const (
	extractRunsTable      = "extract_runs"
	developerRollupsTable = "developer_rollups"
)

// timeFormat is how timestamps are stored in the history tables,
// identical across backends so rows stay portable.
const timeFormat = time.RFC3339Nano

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified
// backend, bringing the schema to the latest migration.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.BackendNone {
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openBackendDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := migrateUp(db, backend); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// placeholders renders $1..$n for PostgreSQL and ?,?,... otherwise.
func (hs *HistoryStoreImpl) placeholders(n int) []any {
	out := make([]any, n)
	for i := range out {
		if hs.backend == schema.BackendPostgreSQL {
			out[i] = fmt.Sprintf("$%d", i+1)
		} else {
			out[i] = "?"
		}
	}
	return out
}

// BeginRun creates a new extraction run row and returns its ID.
// The ID is allocated as max+1 inside this process; the CLI is the
// only writer so no cross-process coordination is needed.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, params map[string]any) (int64, error) {
	if hs.backend == schema.BackendNone || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(params)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}
	org, _ := params["org"].(string)
	lookbackDays, _ := params["lookback_days"].(int)

	table := quoteTableName(extractRunsTable, hs.backend)

	var runID int64
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(MAX(run_id), 0) + 1 FROM %s", table)).Scan(&runID); err != nil {
		return 0, fmt.Errorf("failed to allocate run id: %w", err)
	}

	p := hs.placeholders(5)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, org, started_at, lookback_days, config_params) VALUES (%s, %s, %s, %s, %s)`,
		table, p[0], p[1], p[2], p[3], p[4])
	if _, err := hs.db.Exec(query, runID, org, startTime.UTC().Format(timeFormat), lookbackDays, string(configJSON)); err != nil {
		return 0, fmt.Errorf("failed to insert extraction run: %w", err)
	}
	return runID, nil
}

// EndRun finalizes an extraction run with its totals.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalCommits, totalDevelopers int) error {
	if hs.backend == schema.BackendNone || hs.db == nil {
		return nil
	}

	p := hs.placeholders(4)
	query := fmt.Sprintf(`UPDATE %s SET ended_at = %s, total_commits = %s, total_developers = %s WHERE run_id = %s`,
		quoteTableName(extractRunsTable, hs.backend), p[0], p[1], p[2], p[3])
	if _, err := hs.db.Exec(query, endTime.UTC().Format(timeFormat), totalCommits, totalDevelopers, runID); err != nil {
		return fmt.Errorf("failed to finalize extraction run: %w", err)
	}
	return nil
}

// RecordDeveloper stores one per-developer rollup row for a run.
func (hs *HistoryStoreImpl) RecordDeveloper(runID int64, dev schema.DeveloperSummary) error {
	if hs.backend == schema.BackendNone || hs.db == nil {
		return nil
	}

	p := hs.placeholders(8)
	query := fmt.Sprintf(`INSERT INTO %s (run_id, developer, commits, additions, deletions, enriched_commits, avg_quality_score, avg_llm_quality)
		VALUES (%s, %s, %s, %s, %s, %s, %s, %s)`,
		quoteTableName(developerRollupsTable, hs.backend),
		p[0], p[1], p[2], p[3], p[4], p[5], p[6], p[7])
	_, err := hs.db.Exec(query,
		runID, dev.Developer, dev.TotalCommits, dev.TotalAdditions, dev.TotalDeletions,
		dev.EnrichedCommits, dev.AvgQualityScore, dev.AvgLLMQuality)
	if err != nil {
		return fmt.Errorf("failed to insert developer rollup: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first. limit <= 0
// returns everything.
func (hs *HistoryStoreImpl) ListRuns(limit int) ([]schema.RunInfo, error) {
	if hs.backend == schema.BackendNone || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, org, started_at, ended_at, lookback_days, total_commits, total_developers
		FROM %s ORDER BY run_id DESC`, quoteTableName(extractRunsTable, hs.backend))
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.RunInfo
	for rows.Next() {
		var run schema.RunInfo
		var startedAt string
		var endedAt sql.NullString
		var lookback, commits, devs sql.NullInt64
		if err := rows.Scan(&run.RunID, &run.Org, &startedAt, &endedAt, &lookback, &commits, &devs); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		run.StartedAt, _ = time.Parse(timeFormat, startedAt)
		if endedAt.Valid {
			run.EndedAt, _ = time.Parse(timeFormat, endedAt.String)
		}
		run.LookbackDays = int(lookback.Int64)
		run.TotalCommits = int(commits.Int64)
		run.TotalDevelopers = int(devs.Int64)
		out = append(out, run)
	}
	return out, rows.Err()
}

// ListRollups returns the developer rollups for one run, or for all
// runs when runID <= 0.
func (hs *HistoryStoreImpl) ListRollups(runID int64) ([]schema.DeveloperRollup, error) {
	if hs.backend == schema.BackendNone || hs.db == nil {
		return nil, nil
	}

	table := quoteTableName(developerRollupsTable, hs.backend)
	query := fmt.Sprintf(`SELECT run_id, developer, commits, additions, deletions, enriched_commits, avg_quality_score, avg_llm_quality FROM %s`, table)
	args := []any{}
	if runID > 0 {
		query += fmt.Sprintf(" WHERE run_id = %s", hs.placeholders(1)[0])
		args = append(args, runID)
	}
	query += " ORDER BY run_id, developer"

	rows, err := hs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rollups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []schema.DeveloperRollup
	for rows.Next() {
		var r schema.DeveloperRollup
		if err := rows.Scan(&r.RunID, &r.Developer, &r.Commits, &r.Additions, &r.Deletions,
			&r.EnrichedCommits, &r.AvgQualityScore, &r.AvgLLMQuality); err != nil {
			return nil, fmt.Errorf("failed to scan rollup row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:   hs.backend,
		Connected: hs.db != nil,
	}

	if hs.backend == schema.BackendNone || hs.db == nil {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(extractRunsTable, hs.backend))
	if err := hs.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	rollupsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(developerRollupsTable, hs.backend))
	if err := hs.db.QueryRow(rollupsQuery).Scan(&status.TotalRollups); err != nil {
		return status, fmt.Errorf("failed to get total rollups: %w", err)
	}

	if status.TotalRuns > 0 {
		lastQuery := fmt.Sprintf("SELECT run_id, started_at FROM %s ORDER BY run_id DESC LIMIT 1",
			quoteTableName(extractRunsTable, hs.backend))
		var startedAt string
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastRunID, &startedAt); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime, _ = time.Parse(timeFormat, startedAt)
	}

	// The migrate version table is the source of truth for the schema.
	versionQuery := fmt.Sprintf("SELECT version, dirty FROM %s", quoteTableName("schema_migrations", hs.backend))
	var version uint
	var dirty bool
	if err := hs.db.QueryRow(versionQuery).Scan(&version, &dirty); err == nil {
		status.SchemaVersion = version
		status.SchemaDirty = dirty
	}

	return status, nil
}
