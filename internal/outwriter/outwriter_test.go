package outwriter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

func outputConfig(dir string, mode schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:         mode,
		CommitsFile:    filepath.Join(dir, "commits.csv"),
		DevelopersFile: filepath.Join(dir, "developers.csv"),
		Precision:      contract.DefaultPrecision,
	}
}

func sampleRecords() []schema.CommitRecord {
	return []schema.CommitRecord{
		{
			SHA:               "aaa111",
			Repository:        "api",
			Author:            "alice smith",
			AuthorName:        "Alice Smith",
			AuthorEmail:       "alice@corp.example",
			Date:              time.Date(2026, 2, 3, 10, 30, 0, 0, time.UTC),
			Message:           "feat(api): add pagination #12",
			QualityScore:      9.5,
			MessageLength:     29,
			MessageWords:      4,
			HasIssueRef:       true,
			FollowsConvention: true,
			Additions:         40,
			Deletions:         12,
			FilesChanged:      3,
			ParentCount:       1,
			Enrichment: &schema.Enrichment{
				QualityScore:        8,
				BusinessImpactScore: 6,
				FeatureType:         schema.FeatureTypeFeature,
				ComplexityLevel:     "medium",
				RiskLevel:           "low",
			},
		},
		{
			SHA:         "bbb222",
			Repository:  "web",
			Author:      "bob",
			AuthorName:  "Bob",
			AuthorEmail: "bob@corp.example",
			Date:        time.Date(2026, 2, 4, 11, 0, 0, 0, time.UTC),
			Message:     "Merge branch 'main'",
			IsMerge:     true,
			ParentCount: 2,
		},
	}
}

// TestWriteCommitResultsRoundtrip writes a commits CSV and reads it back,
// covering both enriched and plain rows.
func TestWriteCommitResultsRoundtrip(t *testing.T) {
	dir := t.TempDir()
	cfg := outputConfig(dir, schema.OutputCSV)
	records := sampleRecords()

	require.NoError(t, WriteCommitResults(records, cfg))

	got, err := ReadCommitRecords(cfg.CommitsFile)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "aaa111", got[0].SHA)
	assert.Equal(t, "alice smith", got[0].Author)
	assert.Equal(t, records[0].Date, got[0].Date)
	assert.InDelta(t, 9.5, got[0].QualityScore, 0.001)
	assert.True(t, got[0].HasIssueRef)
	assert.Equal(t, 40, got[0].Additions)
	assert.Equal(t, 1, got[0].ParentCount)

	require.NotNil(t, got[0].Enrichment)
	assert.InDelta(t, 8.0, got[0].Enrichment.QualityScore, 0.001)
	assert.Equal(t, schema.FeatureTypeFeature, got[0].Enrichment.FeatureType)
	assert.Equal(t, "low", got[0].Enrichment.RiskLevel)

	assert.True(t, got[1].IsMerge)
	assert.Nil(t, got[1].Enrichment, "blank enrichment columns stay nil")
}

// TestWriteCommitResultsJSON verifies the JSON output mode produces a
// parseable array.
func TestWriteCommitResultsJSON(t *testing.T) {
	dir := t.TempDir()
	cfg := outputConfig(dir, schema.OutputJSON)
	cfg.CommitsFile = filepath.Join(dir, "commits.json")

	require.NoError(t, WriteCommitResults(sampleRecords(), cfg))

	blob, err := os.ReadFile(cfg.CommitsFile)
	require.NoError(t, err)

	var got []schema.CommitRecord
	require.NoError(t, json.Unmarshal(blob, &got))
	require.Len(t, got, 2)
	assert.Equal(t, "aaa111", got[0].SHA)
	require.NotNil(t, got[0].Enrichment)
	assert.Equal(t, "medium", got[0].Enrichment.ComplexityLevel)
}

// TestWriteDeveloperResultsCSV checks the developers artifact lands on
// disk with the expected header.
func TestWriteDeveloperResultsCSV(t *testing.T) {
	dir := t.TempDir()
	cfg := outputConfig(dir, schema.OutputCSV)

	devs := []schema.DeveloperSummary{
		{Developer: "alice smith", TotalCommits: 2, TotalAdditions: 40, AvgQualityScore: 7.5, ActiveDays: 2},
	}
	require.NoError(t, WriteDeveloperResults(devs, cfg))

	blob, err := os.ReadFile(cfg.DevelopersFile)
	require.NoError(t, err)
	content := string(blob)
	assert.Contains(t, content, "developer,total_commits")
	assert.Contains(t, content, "alice smith,2,")
}

// TestWriteFileAtomic verifies the rename dance leaves exactly the final
// artifact in the directory.
func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dashboard.html")

	require.NoError(t, WriteFileAtomic(target, []byte("<html></html>"), "Wrote dashboard"))

	blob, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", string(blob))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "dashboard.html", entries[0].Name())
}

// TestWriteCommitResultsParquetNeedsFile verifies parquet refuses stdout.
func TestWriteCommitResultsParquetNeedsFile(t *testing.T) {
	cfg := outputConfig(t.TempDir(), schema.OutputParquet)
	cfg.CommitsFile = ""

	err := WriteCommitResults(sampleRecords(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output file is required")
}

// TestReadCommitRecordsMissingFile verifies a helpful open error.
func TestReadCommitRecordsMissingFile(t *testing.T) {
	_, err := ReadCommitRecords(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open")
}

// TestCreateFormatters checks precision handling and spreadsheet-style
// booleans.
func TestCreateFormatters(t *testing.T) {
	fmtFloat, fmtBool := createFormatters(2)
	assert.Equal(t, "7.50", fmtFloat(7.5))
	assert.Equal(t, "0.00", fmtFloat(0))
	assert.Equal(t, "TRUE", fmtBool(true))
	assert.Equal(t, "FALSE", fmtBool(false))

	fmtFloat0, _ := createFormatters(0)
	assert.Equal(t, "8", fmtFloat0(7.6))
}
