// Package llm implements commit enrichment with the Anthropic API.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

// DefaultModel is used when the config does not pin one.
const DefaultModel = "claude-sonnet-4-5-20250929"

const systemPrompt = `You are a senior engineer reviewing commits for quality and business impact.
Respond with a single JSON object and nothing else. Schema:
{
  "llm_quality_score": <number 0-10>,
  "business_impact_score": <number 0-10>,
  "feature_type": "feature|bugfix|refactoring|documentation|testing|maintenance",
  "complexity_level": "low|medium|high|very_high",
  "risk_level": "low|medium|high",
  "code_areas": [<strings>],
  "key_changes": [<strings>],
  "strengths": [<strings>],
  "risks": [<strings>]
}`

// AnthropicEnricher implements contract.Enricher over the Messages API.
type AnthropicEnricher struct {
	client       anthropic.Client
	model        string
	maxDiffChars int
}

var _ contract.Enricher = &AnthropicEnricher{} // Compile-time check

// NewAnthropicEnricher builds an enricher for the given key and model.
func NewAnthropicEnricher(apiKey, model string, maxDiffChars int) *AnthropicEnricher {
	if model == "" {
		model = DefaultModel
	}
	return &AnthropicEnricher{
		client:       anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:        model,
		maxDiffChars: maxDiffChars,
	}
}

// AnalyzeCommit implements the Enricher interface. Transport and auth
// errors come back unwrapped so the caller can degrade the stage; an
// unparseable response wraps contract.ErrMalformedResponse.
func (e *AnthropicEnricher) AnalyzeCommit(ctx context.Context, commit schema.CommitRecord, diff string) (*schema.Enrichment, error) {
	message, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(e.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt, CacheControl: anthropic.NewCacheControlEphemeralParam()},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(e.buildPrompt(commit, diff))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return ParseEnrichment(block.Text)
		}
	}
	return nil, fmt.Errorf("%w: no text content in response", contract.ErrMalformedResponse)
}

// buildPrompt assembles the user prompt from the commit metadata and a
// truncated diff.
func (e *AnthropicEnricher) buildPrompt(commit schema.CommitRecord, diff string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", commit.Repository)
	fmt.Fprintf(&b, "Commit: %s\n", commit.SHA)
	fmt.Fprintf(&b, "Files changed: %d (+%d/-%d)\n", commit.FilesChanged, commit.Additions, commit.Deletions)
	fmt.Fprintf(&b, "Message:\n%s\n", commit.Message)
	if diff != "" {
		if e.maxDiffChars > 0 && len(diff) > e.maxDiffChars {
			diff = diff[:e.maxDiffChars] + "\n[diff truncated]"
		}
		fmt.Fprintf(&b, "\nDiff:\n%s\n", diff)
	}
	b.WriteString("\nAnalyze this commit per the JSON schema.")
	return b.String()
}
