// Package dashboard renders a self-contained HTML report from
// extraction artifacts. All chart data is inlined as JSON so the file
// can be opened directly or shared without a server.
package dashboard

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"
	"time"

	"github.com/teampulse/teampulse/core"
	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/internal/outwriter"
	"github.com/teampulse/teampulse/schema"
)

//go:embed template.html
var dashboardTemplate string

// topRadarDevelopers caps the radar chart so it stays readable.
const topRadarDevelopers = 5

// payload is the JSON blob handed to the template's chart scripts.
type payload struct {
	Org          string           `json:"org"`
	GeneratedAt  string           `json:"generated_at"`
	TotalCommits int              `json:"total_commits"`
	TotalDevs    int              `json:"total_developers"`
	AvgQuality   float64          `json:"avg_quality"`
	Weekly       []weekPoint      `json:"weekly"`
	Developers   []developerPoint `json:"developers"`
	Heatmap      [][]int          `json:"heatmap"` // [7][24] weekday x hour
	Radar        []radarSeries    `json:"radar"`
	LLM          *llmPanels       `json:"llm,omitempty"`
}

type weekPoint struct {
	Week       string  `json:"week"`
	Commits    int     `json:"commits"`
	Additions  int     `json:"additions"`
	Deletions  int     `json:"deletions"`
	AvgQuality float64 `json:"avg_quality"`
}

type developerPoint struct {
	Developer    string  `json:"developer"`
	Commits      int     `json:"commits"`
	AvgQuality   float64 `json:"avg_quality"`
	TotalChanges int     `json:"total_changes"`
	ActiveDays   int     `json:"active_days"`
}

type radarSeries struct {
	Developer string    `json:"developer"`
	Values    []float64 `json:"values"` // matches radarAxes order
}

type llmPanels struct {
	Impact       []impactPoint  `json:"impact"`
	FeatureTypes []bucketCount  `json:"feature_types"`
	RiskLevels   []bucketCount  `json:"risk_levels"`
}

type impactPoint struct {
	Developer  string  `json:"developer"`
	LLMQuality float64 `json:"llm_quality"`
	Impact     float64 `json:"impact"`
	Enriched   int     `json:"enriched"`
}

type bucketCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// radarAxes is the fixed dimension order for the radar chart.
var radarAxes = []string{"Quality", "Conventional", "Issue refs", "Activity", "Volume"}

// Render builds the dashboard HTML and writes it to cfg.DashboardFile.
func Render(records []schema.CommitRecord, devs []schema.DeveloperSummary, cfg *contract.Config) error {
	p := buildPayload(records, devs, cfg)

	blob, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode dashboard data: %w", err)
	}

	tmpl, err := template.New("dashboard").Parse(dashboardTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse dashboard template: %w", err)
	}

	var buf bytes.Buffer
	ctx := struct {
		Org         string
		GeneratedAt string
		Data        template.JS
		RadarAxes   template.JS
	}{
		Org:         p.Org,
		GeneratedAt: p.GeneratedAt,
		Data:        template.JS(blob),
		RadarAxes:   template.JS(mustMarshal(radarAxes)),
	}
	if err := tmpl.Execute(&buf, ctx); err != nil {
		return fmt.Errorf("failed to render dashboard: %w", err)
	}

	return outwriter.WriteFileAtomic(cfg.DashboardFile, buf.Bytes(), "Wrote dashboard")
}

func mustMarshal(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}

func buildPayload(records []schema.CommitRecord, devs []schema.DeveloperSummary, cfg *contract.Config) payload {
	p := payload{
		Org:          cfg.Org,
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		TotalCommits: len(records),
		TotalDevs:    len(devs),
		Weekly:       weeklyTrend(records),
		Heatmap:      activityHeatmap(records),
	}

	var qualitySum float64
	for i := range records {
		qualitySum += records[i].QualityScore
	}
	if len(records) > 0 {
		p.AvgQuality = qualitySum / float64(len(records))
	}

	ranked := core.TopDevelopers(devs, len(devs))
	for _, d := range ranked {
		p.Developers = append(p.Developers, developerPoint{
			Developer:    d.Developer,
			Commits:      d.TotalCommits,
			AvgQuality:   d.AvgQualityScore,
			TotalChanges: d.TotalChanges(),
			ActiveDays:   d.ActiveDays,
		})
	}
	p.Radar = radarSeriesFor(ranked)
	p.LLM = llmPanelsFor(records, ranked)
	return p
}

// weeklyTrend folds commits into ISO-week buckets sorted ascending.
func weeklyTrend(records []schema.CommitRecord) []weekPoint {
	buckets := make(map[string]*weekPoint)
	sums := make(map[string]float64)
	for i := range records {
		week := core.ISOWeek(records[i].Date)
		wp, ok := buckets[week]
		if !ok {
			wp = &weekPoint{Week: week}
			buckets[week] = wp
		}
		wp.Commits++
		wp.Additions += records[i].Additions
		wp.Deletions += records[i].Deletions
		sums[week] += records[i].QualityScore
	}

	weeks := make([]string, 0, len(buckets))
	for w := range buckets {
		weeks = append(weeks, w)
	}
	sort.Strings(weeks)

	out := make([]weekPoint, 0, len(weeks))
	for _, w := range weeks {
		wp := buckets[w]
		wp.AvgQuality = sums[w] / float64(wp.Commits)
		out = append(out, *wp)
	}
	return out
}

// activityHeatmap counts commits per UTC weekday and hour.
func activityHeatmap(records []schema.CommitRecord) [][]int {
	grid := make([][]int, 7)
	for d := range grid {
		grid[d] = make([]int, 24)
	}
	for i := range records {
		t := records[i].Date.UTC()
		grid[int(t.Weekday())][t.Hour()]++
	}
	return grid
}

// radarSeriesFor normalizes the top developers onto [0,1] axes so
// shapes are comparable regardless of team size.
func radarSeriesFor(ranked []schema.DeveloperSummary) []radarSeries {
	n := topRadarDevelopers
	if len(ranked) < n {
		n = len(ranked)
	}
	top := ranked[:n]

	maxDays, maxChanges := 1, 1
	for _, d := range top {
		if d.ActiveDays > maxDays {
			maxDays = d.ActiveDays
		}
		if d.TotalChanges() > maxChanges {
			maxChanges = d.TotalChanges()
		}
	}

	out := make([]radarSeries, 0, n)
	for _, d := range top {
		out = append(out, radarSeries{
			Developer: d.Developer,
			Values: []float64{
				d.AvgQualityScore / 10,
				d.Rate(d.ConventionalCommits),
				d.Rate(d.IssueRefCommits),
				float64(d.ActiveDays) / float64(maxDays),
				float64(d.TotalChanges()) / float64(maxChanges),
			},
		})
	}
	return out
}

// llmPanelsFor builds the enrichment panels, or nil when no commit in
// the input carries enrichment data.
func llmPanelsFor(records []schema.CommitRecord, ranked []schema.DeveloperSummary) *llmPanels {
	features := make(map[string]int)
	risks := make(map[string]int)
	enriched := 0
	for i := range records {
		enr := records[i].Enrichment
		if enr == nil {
			continue
		}
		enriched++
		features[enr.FeatureType]++
		risks[enr.RiskLevel]++
	}
	if enriched == 0 {
		return nil
	}

	panels := &llmPanels{
		FeatureTypes: sortedBuckets(features),
		RiskLevels:   sortedBuckets(risks),
	}
	for _, d := range ranked {
		if d.EnrichedCommits == 0 {
			continue
		}
		panels.Impact = append(panels.Impact, impactPoint{
			Developer:  d.Developer,
			LLMQuality: d.AvgLLMQuality,
			Impact:     d.AvgBusinessImpact,
			Enriched:   d.EnrichedCommits,
		})
	}
	return panels
}

func sortedBuckets(counts map[string]int) []bucketCount {
	out := make([]bucketCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, bucketCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}
