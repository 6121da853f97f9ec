package iocache

import (
	"errors"
	"fmt"

	"github.com/teampulse/teampulse/internal/parquet"
)

// ExecuteHistoryExport exports the run history to Parquet files.
func ExecuteHistoryExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	store := Manager.GetHistoryStore()
	if store == nil {
		return errors.New("history store is not configured")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total rollups: %d\n", status.TotalRollups)

	runs, err := store.ListRuns(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	rollups, err := store.ListRollups(0)
	if err != nil {
		return fmt.Errorf("failed to retrieve rollups: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunInfos(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	rollupsFile := outputFile + ".rollups.parquet"
	if err := parquet.WriteRollupsParquet(parquet.ConvertRollups(rollups), rollupsFile); err != nil {
		return fmt.Errorf("failed to write rollups: %w", err)
	}
	fmt.Printf("Exported %d rollups to: %s\n", len(rollups), rollupsFile)

	return nil
}
