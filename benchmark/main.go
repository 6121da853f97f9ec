// Package main provides a performance benchmarking tool for the scoring
// and aggregation pipeline. It generates synthetic commit datasets of
// increasing size, times scoring, aggregation and ranking separately,
// and emits CSV output for performance analysis and documentation.
//
// Usage: go run benchmark/main.go [output-csv]
//
//	output-csv: File to write benchmark results to (default stdout)
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/teampulse/teampulse/core"
	"github.com/teampulse/teampulse/schema"
)

// BenchmarkResult holds the timings for one dataset size.
type BenchmarkResult struct {
	Commits       int
	ScoreTime     time.Duration
	AggregateTime time.Duration
	RankTime      time.Duration
}

// datasetSizes are the synthetic dataset sizes to sweep.
var datasetSizes = []int{1000, 10000, 100000, 500000}

// runsPerSize controls how many timed runs are averaged per size.
const runsPerSize = 5

var messagePool = []string{
	"feat(api): add pagination to the commits endpoint #12",
	"fix: handle empty repository response",
	"Merge branch 'main' into release",
	"wip",
	"refactor(core): split aggregation out of extraction\n\nKeeps the stages independently testable.",
	"hotfix: patch login crash in session layer",
	"docs: describe the enrichment cache lifecycle",
	"Revert \"feat: enable parallel fetch\"",
}

var authorPool = []string{"alice smith", "bob", "carol", "dave", "erin", "frank"}

func main() {
	var out *os.File
	switch len(os.Args) {
	case 1:
		out = os.Stdout
	case 2:
		f, err := os.Create(os.Args[1])
		if err != nil {
			fmt.Printf("Failed to create output file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		out = f
	default:
		fmt.Printf("Usage: %s [output-csv]\n", os.Args[0])
		os.Exit(1)
	}

	weights := schema.DefaultScoreWeights()
	results := make([]BenchmarkResult, 0, len(datasetSizes))
	for _, size := range datasetSizes {
		records := generateCommits(size)
		res := BenchmarkResult{Commits: size}

		for run := 0; run < runsPerSize; run++ {
			res.ScoreTime += timeIt(func() {
				for i := range records {
					records[i].QualityScore = core.ScoreMessage(
						records[i].Message, records[i].ParentCount, weights,
						schema.MinMessageLength, schema.IdealMessageLength)
				}
			})
			var devs []schema.DeveloperSummary
			res.AggregateTime += timeIt(func() {
				devs = core.Aggregate(records, schema.LargeCommitThreshold)
			})
			res.RankTime += timeIt(func() {
				core.TopDevelopers(devs, 25)
			})
		}
		res.ScoreTime /= runsPerSize
		res.AggregateTime /= runsPerSize
		res.RankTime /= runsPerSize
		results = append(results, res)

		fmt.Fprintf(os.Stderr, "done: %d commits (score %s, aggregate %s, rank %s)\n",
			size, res.ScoreTime, res.AggregateTime, res.RankTime)
	}

	if err := writeResults(out, results); err != nil {
		fmt.Printf("Failed to write results: %v\n", err)
		os.Exit(1)
	}
}

func timeIt(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

// generateCommits builds a deterministic synthetic dataset. No RNG so
// runs are comparable across machines and revisions.
func generateCommits(n int) []schema.CommitRecord {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]schema.CommitRecord, n)
	for i := range records {
		msg := messagePool[i%len(messagePool)]
		parents := 1
		if i%11 == 0 {
			parents = 2
		}
		records[i] = schema.CommitRecord{
			SHA:         fmt.Sprintf("%040x", i),
			Repository:  fmt.Sprintf("repo-%d", i%7),
			Author:      authorPool[i%len(authorPool)],
			Message:     msg,
			ParentCount: parents,
			Date:        base.Add(time.Duration(i) * 13 * time.Minute),
			Additions:   (i % 400) + 1,
			Deletions:   i % 90,
		}
	}
	return records
}

func writeResults(out *os.File, results []BenchmarkResult) error {
	w := csv.NewWriter(out)
	defer w.Flush()

	if err := w.Write([]string{"commits", "score_ms", "aggregate_ms", "rank_ms"}); err != nil {
		return err
	}
	for _, r := range results {
		row := []string{
			fmt.Sprintf("%d", r.Commits),
			fmt.Sprintf("%.2f", float64(r.ScoreTime.Microseconds())/1000),
			fmt.Sprintf("%.2f", float64(r.AggregateTime.Microseconds())/1000),
			fmt.Sprintf("%.2f", float64(r.RankTime.Microseconds())/1000),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}
