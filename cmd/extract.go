package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teampulse/teampulse/core"
	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/internal/ghclient"
	"github.com/teampulse/teampulse/internal/iocache"
	"github.com/teampulse/teampulse/internal/llm"
	"github.com/teampulse/teampulse/internal/outwriter"
)

// extractCmd pulls commit history and produces the analysis artifacts.
var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Pull and score commit history for a GitHub organization.",
	Long: `Pull commit history from every repository in a GitHub organization,
score each commit message for quality, and write per-commit and
per-developer artifacts.

The quality score rewards issue references, conventional commit style,
descriptive summary lines and commit bodies, and penalizes vague or
hotfix messages. Scores range from 0 to 10.

With --llm, each commit is additionally analyzed by an LLM for business
impact, complexity and risk. Enrichment results are cached so repeated
runs only pay for new commits.

Examples:
  # Analyze the last 90 days of an organization
  teampulse extract --org myorg

  # Include code stats and write JSON artifacts
  teampulse extract --org myorg --fetch-stats --output json

  # Enrich commits with LLM analysis
  TEAMPULSE_LLM_API_KEY=sk-... teampulse extract --org myorg --llm

  # Track run history for trend analysis
  teampulse extract --org myorg --history-backend sqlite`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := cfg.RequireAuth(); err != nil {
			contract.LogFatal("Cannot run extraction", err)
		}

		client := ghclient.New(cfg.Token, cfg.Org, cfg.RetryAttempts)

		var enricher contract.Enricher
		if cfg.LLMEnabled {
			enricher = llm.NewAnthropicEnricher(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxDiffChars)
		}

		started := time.Now()
		result, err := core.RunExtract(rootCtx, cfg, client, enricher, iocache.Manager)
		if err != nil {
			contract.LogFatal("Cannot run extraction", err)
		}

		if err := outwriter.WriteCommitResults(result.Commits, cfg); err != nil {
			contract.LogFatal("Cannot write commit results", err)
		}
		if err := outwriter.WriteDeveloperResults(result.Developers, cfg); err != nil {
			contract.LogFatal("Cannot write developer results", err)
		}

		ranked := core.TopDevelopers(result.Developers, cfg.ResultLimit)
		if err := outwriter.PrintDeveloperTable(ranked, cfg, len(result.Commits), time.Since(started)); err != nil {
			contract.LogFatal("Cannot print developer table", err)
		}

		// Partial failures (skipped repos, failed enrichments) degrade
		// rather than abort; surface them after the results.
		for _, w := range result.Warnings {
			fmt.Fprintf(os.Stderr, "Warn %s\n", w)
		}
	},
}
