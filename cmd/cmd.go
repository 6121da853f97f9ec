// Package cmd defines the command-line interface for teampulse.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("org", "o", "", "GitHub organization to analyze")
	rootCmd.PersistentFlags().String("token", "", "GitHub API token (prefer TEAMPULSE_TOKEN env var)")
	rootCmd.PersistentFlags().Int("lookback-days", contract.DefaultLookbackDays, "Number of days of commit history to analyze")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of developers to display")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	rootCmd.PersistentFlags().Int("retries", contract.DefaultRetries, "Retry attempts for failed API calls")
	rootCmd.PersistentFlags().String("output", string(schema.OutputCSV), "Output format: csv or json or parquet")
	rootCmd.PersistentFlags().String("commits-file", "commits.csv", "Path to write the per-commit artifact")
	rootCmd.PersistentFlags().String("developers-file", "developers.csv", "Path to write the per-developer artifact")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.BackendSQLite), "Enrichment cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", string(schema.BackendNone), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for run history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of extractCmd to Viper
	extractCmd.Flags().Bool("include-archived", false, "Include archived repositories in the analysis")
	extractCmd.Flags().Bool("fetch-stats", false, "Fetch per-commit additions/deletions/file counts (slower)")
	extractCmd.Flags().Bool("llm", false, "Enrich commits with LLM analysis (requires API key)")
	extractCmd.Flags().String("llm-api-key", "", "Anthropic API key (prefer TEAMPULSE_LLM_API_KEY env var)")
	extractCmd.Flags().String("llm-model", "claude-sonnet-4-5", "Anthropic model name")
	extractCmd.Flags().Int("llm-workers", contract.DefaultLLMWorkers, "Number of concurrent enrichment workers")
	extractCmd.Flags().Int("llm-cache-days", contract.DefaultCacheDays, "Enrichment cache freshness window in days")
	extractCmd.Flags().Int("llm-max-diff-chars", contract.DefaultMaxDiffChars, "Maximum diff characters sent per commit")
	if err := viper.BindPFlags(extractCmd.Flags()); err != nil {
		contract.LogFatal("Error binding extract flags", err)
	}

	// Bind all flags of dashboardCmd to Viper
	dashboardCmd.Flags().String("dashboard-file", "dashboard.html", "Path to write the HTML dashboard")
	if err := viper.BindPFlags(dashboardCmd.Flags()); err != nil {
		contract.LogFatal("Error binding dashboard flags", err)
	}

	// Bind all flags of historyExportCmd to Viper
	historyExportCmd.Flags().String("output-file", "", "Prefix for the exported Parquet files")
	if err := viper.BindPFlags(historyExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history export flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
