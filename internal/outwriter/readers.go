package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

// csvRow wraps a CSV record with its header index for named access.
type csvRow struct {
	index  map[string]int
	fields []string
}

func (r csvRow) str(name string) string {
	i, ok := r.index[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return r.fields[i]
}

func (r csvRow) intVal(name string) (int, error) {
	s := r.str(name)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func (r csvRow) floatVal(name string) (float64, error) {
	s := r.str(name)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func (r csvRow) boolVal(name string) (bool, error) {
	s := r.str(name)
	if s == "" {
		return false, nil
	}
	return contract.ParseBoolString(s)
}

// readCSVRows opens a CSV file and invokes fn once per data row.
func readCSVRows(path string, fn func(csvRow) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	reader := csv.NewReader(f)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read CSV header from %s: %w", path, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read CSV row: %w", err)
		}
		if err := fn(csvRow{index: index, fields: fields}); err != nil {
			return fmt.Errorf("line %d of %s: %w", line, path, err)
		}
	}
}

// ReadCommitRecords parses a commits CSV previously produced by
// WriteCommitResults back into records. Blank enrichment columns yield
// a nil Enrichment.
func ReadCommitRecords(path string) ([]schema.CommitRecord, error) {
	var records []schema.CommitRecord
	err := readCSVRows(path, func(row csvRow) error {
		rec := schema.CommitRecord{
			SHA:         row.str("sha"),
			Repository:  row.str("repository"),
			Author:      row.str("author"),
			AuthorName:  row.str("author_name"),
			AuthorEmail: row.str("author_email"),
			Message:     row.str("message"),
		}

		if s := row.str("date"); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return fmt.Errorf("bad date %q: %w", s, err)
			}
			rec.Date = t
		}

		var err error
		if rec.QualityScore, err = row.floatVal("quality_score"); err != nil {
			return err
		}
		if rec.MessageLength, err = row.intVal("message_length"); err != nil {
			return err
		}
		if rec.MessageWords, err = row.intVal("message_words"); err != nil {
			return err
		}
		if rec.HasIssueRef, err = row.boolVal("has_issue_ref"); err != nil {
			return err
		}
		if rec.FollowsConvention, err = row.boolVal("follows_convention"); err != nil {
			return err
		}
		if rec.HasBreakingChange, err = row.boolVal("has_breaking_change"); err != nil {
			return err
		}
		if rec.IsMerge, err = row.boolVal("is_merge"); err != nil {
			return err
		}
		if rec.IsRevert, err = row.boolVal("is_revert"); err != nil {
			return err
		}
		if rec.IsHotfix, err = row.boolVal("is_hotfix"); err != nil {
			return err
		}
		if rec.Additions, err = row.intVal("additions"); err != nil {
			return err
		}
		if rec.Deletions, err = row.intVal("deletions"); err != nil {
			return err
		}
		if rec.FilesChanged, err = row.intVal("files_changed"); err != nil {
			return err
		}
		if rec.ParentCount, err = row.intVal("parent_count"); err != nil {
			return err
		}

		if row.str("llm_quality_score") != "" {
			enr := &schema.Enrichment{
				FeatureType:     row.str("feature_type"),
				ComplexityLevel: row.str("complexity_level"),
				RiskLevel:       row.str("risk_level"),
			}
			if enr.QualityScore, err = row.floatVal("llm_quality_score"); err != nil {
				return err
			}
			if enr.BusinessImpactScore, err = row.floatVal("business_impact_score"); err != nil {
				return err
			}
			rec.Enrichment = enr
		}

		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
