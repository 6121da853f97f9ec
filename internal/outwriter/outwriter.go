// Package outwriter serializes extraction results to CSV, JSON,
// Parquet and terminal tables.
package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// writeWithFile handles the common pattern of writing an output file.
// File writes go through a temp file in the target directory followed
// by a rename, so readers never observe a partially written artifact.
// An empty path writes to stdout directly.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	if outputFile == "" {
		return writer(os.Stdout)
	}

	dir := filepath.Dir(outputFile)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputFile)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	werr := writer(tmp)
	cerr := tmp.Close()
	if werr != nil {
		_ = os.Remove(tmpName)
		return werr
	}
	if cerr != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", cerr)
	}
	if err := os.Rename(tmpName, outputFile); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	return nil
}

// writeFileAtomic is writeWithFile for pre-rendered content, used by
// the dashboard renderer.
func WriteFileAtomic(outputFile string, content []byte, successMsg string) error {
	return writeWithFile(outputFile, func(w io.Writer) error {
		_, err := w.Write(content)
		return err
	}, successMsg)
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV
// writer, writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	return writeRows(csvWriter)
}

// createFormatters creates the common formatter closures used across
// multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtBool func(bool) string) {
	fmtFloat = func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
	fmtBool = func(v bool) string {
		if v {
			return "TRUE"
		}
		return "FALSE"
	}
	return fmtFloat, fmtBool
}
