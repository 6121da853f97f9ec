package contract

import (
	"fmt"
	"maps"
	"runtime"
	"strings"
	"time"

	"github.com/teampulse/teampulse/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays = 90
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 2
	DefaultCacheDays    = 7
	DefaultLLMWorkers   = 4
	DefaultMaxDiffChars = 8000
	DefaultRetries      = 3
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// WeightsRawInput holds custom scoring weight overrides from the YAML
// config file. Float pointers distinguish "absent" from zero.
type WeightsRawInput struct {
	IssueRef     *float64 `mapstructure:"issue_ref"`
	Conventional *float64 `mapstructure:"conventional"`
	GoodLength   *float64 `mapstructure:"good_length"`
	IdealLength  *float64 `mapstructure:"ideal_length"`
	HasBody      *float64 `mapstructure:"has_body"`
	NotMerge     *float64 `mapstructure:"not_merge"`
	Vague        *float64 `mapstructure:"vague"`
	Hotfix       *float64 `mapstructure:"hotfix"`
}

// Config holds the runtime configuration for a run.
// This struct is the final, validated config and is threaded explicitly
// through every stage.
type Config struct {
	Org          string
	Token        string
	StartTime    time.Time
	EndTime      time.Time
	LookbackDays int

	Workers       int
	RetryAttempts int

	Output         schema.OutputMode
	CommitsFile    string
	DevelopersFile string
	DashboardFile  string
	ResultLimit    int
	Precision      int
	Width          int // Terminal width override (0 = auto-detect)
	UseColors      bool

	IncludeArchived bool
	FetchStats      bool

	// AuthorMapping keys and values are normalized (lowercased, trimmed)
	// and targets are flattened so canonicalization is idempotent.
	AuthorMapping  map[string]string
	ExcludeAuthors []string

	MinMessageLength     int
	IdealMessageLength   int
	LargeCommitThreshold int
	Weights              schema.ScoreWeights

	LLMEnabled      bool
	LLMAPIKey       string
	LLMModel        string
	LLMWorkers      int
	LLMCacheDays    int
	LLMMaxDiffChars int

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Org              string `mapstructure:"org"`
	Token            string `mapstructure:"token"`
	LookbackDays     int    `mapstructure:"lookback-days"`
	Workers          int    `mapstructure:"workers"`
	Retries          int    `mapstructure:"retries"`
	Output           string `mapstructure:"output"`
	CommitsFile      string `mapstructure:"commits-file"`
	DevelopersFile   string `mapstructure:"developers-file"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`

	// --- Fields from extractCmd.Flags() ---
	IncludeArchived bool   `mapstructure:"include-archived"`
	FetchStats      bool   `mapstructure:"fetch-stats"`
	LLMEnabled      bool   `mapstructure:"llm"`
	LLMAPIKey       string `mapstructure:"llm-api-key"`
	LLMModel        string `mapstructure:"llm-model"`
	LLMWorkers      int    `mapstructure:"llm-workers"`
	LLMCacheDays    int    `mapstructure:"llm-cache-days"`
	LLMMaxDiffChars int    `mapstructure:"llm-max-diff-chars"`

	// --- Fields from dashboardCmd.Flags() ---
	DashboardFile string `mapstructure:"dashboard-file"`

	// --- Identity settings from config file ---
	AuthorMapping  map[string]string `mapstructure:"author-mapping"`
	ExcludeAuthors []string          `mapstructure:"exclude-authors"`

	// --- Scoring settings from config file ---
	MinMessageLength     int             `mapstructure:"min-message-length"`
	IdealMessageLength   int             `mapstructure:"ideal-message-length"`
	LargeCommitThreshold int             `mapstructure:"large-commit-threshold"`
	Weights              WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.AuthorMapping != nil {
		clone.AuthorMapping = make(map[string]string, len(c.AuthorMapping))
		maps.Copy(clone.AuthorMapping, c.AuthorMapping)
	}
	if c.ExcludeAuthors != nil {
		clone.ExcludeAuthors = make([]string, len(c.ExcludeAuthors))
		copy(clone.ExcludeAuthors, c.ExcludeAuthors)
	}
	return &clone
}

// CacheTTL returns the enrichment cache freshness window.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.LLMCacheDays) * 24 * time.Hour
}

// ProcessAndValidate performs all parsing and validation on the raw
// inputs and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeWindow(cfg, input); err != nil {
		return err
	}
	if err := processIdentity(cfg, input); err != nil {
		return err
	}
	if err := processScoring(cfg, input); err != nil {
		return err
	}
	if err := processEnrichment(cfg, input); err != nil {
		return err
	}
	return validateBackendConfigs(cfg, input)
}

// RequireAuth checks the fields only network-bound commands need.
// Kept out of ProcessAndValidate so offline commands (dashboard, cache)
// work without a token.
func (c *Config) RequireAuth() error {
	if c.Org == "" {
		return fmt.Errorf("org is required (set --org or TEAMPULSE_ORG)")
	}
	if c.Token == "" {
		return fmt.Errorf("token is required (set --token or TEAMPULSE_TOKEN)")
	}
	return nil
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Org = strings.TrimSpace(input.Org)
	cfg.Token = strings.TrimSpace(input.Token)
	cfg.CommitsFile = input.CommitsFile
	cfg.DevelopersFile = input.DevelopersFile
	cfg.DashboardFile = input.DashboardFile
	cfg.IncludeArchived = input.IncludeArchived
	cfg.FetchStats = input.FetchStats
	cfg.Width = input.Width

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Retries < 0 {
		return fmt.Errorf("retries cannot be negative (received %d)", input.Retries)
	}
	cfg.RetryAttempts = input.Retries

	// --- Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > 6 {
		return fmt.Errorf("precision must be between 0 and 6 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be csv, json, parquet", input.Output)
	}

	return nil
}

// processTimeWindow derives the [StartTime, EndTime) extraction window
// from the lookback days.
func processTimeWindow(cfg *Config, input *ConfigRawInput) error {
	if input.LookbackDays <= 0 {
		return fmt.Errorf("lookback-days must be greater than 0 (received %d)", input.LookbackDays)
	}
	cfg.LookbackDays = input.LookbackDays
	cfg.EndTime = time.Now().UTC()
	cfg.StartTime = cfg.EndTime.Add(-time.Duration(input.LookbackDays) * 24 * time.Hour)
	return nil
}

// processIdentity normalizes the author mapping and exclusion set.
// Mapping keys and targets are lowercased and trimmed, and targets are
// flattened through the mapping so resolving a canonical handle again
// returns the same handle.
func processIdentity(cfg *Config, input *ConfigRawInput) error {
	normalized := make(map[string]string, len(input.AuthorMapping))
	for k, v := range input.AuthorMapping {
		key := NormalizeIdentity(k)
		target := NormalizeIdentity(v)
		if key == "" || target == "" {
			return fmt.Errorf("author-mapping entries cannot be empty (got %q: %q)", k, v)
		}
		normalized[key] = target
	}

	// Flatten chains like a->b, b->c so every target is terminal.
	// Bounded by map size; a longer walk means a cycle.
	for key, target := range normalized {
		seen := 0
		for {
			next, ok := normalized[target]
			if !ok || next == target {
				break
			}
			target = next
			seen++
			if seen > len(normalized) {
				return fmt.Errorf("author-mapping contains a cycle involving %q", key)
			}
		}
		normalized[key] = target
	}
	cfg.AuthorMapping = normalized

	cfg.ExcludeAuthors = make([]string, 0, len(input.ExcludeAuthors))
	for _, a := range input.ExcludeAuthors {
		if n := NormalizeIdentity(a); n != "" {
			cfg.ExcludeAuthors = append(cfg.ExcludeAuthors, n)
		}
	}
	return nil
}

// processScoring merges weight overrides over the defaults and
// validates the length thresholds.
func processScoring(cfg *Config, input *ConfigRawInput) error {
	if input.MinMessageLength <= 0 {
		return fmt.Errorf("min-message-length must be greater than 0 (received %d)", input.MinMessageLength)
	}
	if input.IdealMessageLength < input.MinMessageLength {
		return fmt.Errorf("ideal-message-length (%d) cannot be below min-message-length (%d)",
			input.IdealMessageLength, input.MinMessageLength)
	}
	if input.LargeCommitThreshold <= 0 {
		return fmt.Errorf("large-commit-threshold must be greater than 0 (received %d)", input.LargeCommitThreshold)
	}
	cfg.MinMessageLength = input.MinMessageLength
	cfg.IdealMessageLength = input.IdealMessageLength
	cfg.LargeCommitThreshold = input.LargeCommitThreshold

	w := schema.DefaultScoreWeights()
	if input.Weights.IssueRef != nil {
		w.IssueRef = *input.Weights.IssueRef
	}
	if input.Weights.Conventional != nil {
		w.Conventional = *input.Weights.Conventional
	}
	if input.Weights.GoodLength != nil {
		w.GoodLength = *input.Weights.GoodLength
	}
	if input.Weights.IdealLength != nil {
		w.IdealLength = *input.Weights.IdealLength
	}
	if input.Weights.HasBody != nil {
		w.HasBody = *input.Weights.HasBody
	}
	if input.Weights.NotMerge != nil {
		w.NotMerge = *input.Weights.NotMerge
	}
	if input.Weights.Vague != nil {
		w.Vague = *input.Weights.Vague
	}
	if input.Weights.Hotfix != nil {
		w.Hotfix = *input.Weights.Hotfix
	}
	for name, v := range map[string]float64{
		"issue_ref": w.IssueRef, "conventional": w.Conventional,
		"good_length": w.GoodLength, "ideal_length": w.IdealLength,
		"has_body": w.HasBody, "not_merge": w.NotMerge,
		"vague": w.Vague, "hotfix": w.Hotfix,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s cannot be negative (received %.2f); penalties are subtracted by the scorer", name, v)
		}
	}
	cfg.Weights = w
	return nil
}

// processEnrichment validates the LLM settings.
func processEnrichment(cfg *Config, input *ConfigRawInput) error {
	cfg.LLMEnabled = input.LLMEnabled
	cfg.LLMAPIKey = strings.TrimSpace(input.LLMAPIKey)
	cfg.LLMModel = strings.TrimSpace(input.LLMModel)

	if input.LLMWorkers <= 0 {
		return fmt.Errorf("llm-workers must be greater than 0 (received %d)", input.LLMWorkers)
	}
	cfg.LLMWorkers = input.LLMWorkers

	if input.LLMCacheDays <= 0 {
		return fmt.Errorf("llm-cache-days must be greater than 0 (received %d)", input.LLMCacheDays)
	}
	cfg.LLMCacheDays = input.LLMCacheDays

	if input.LLMMaxDiffChars < 0 {
		return fmt.Errorf("llm-max-diff-chars cannot be negative (received %d)", input.LLMMaxDiffChars)
	}
	cfg.LLMMaxDiffChars = input.LLMMaxDiffChars

	if cfg.LLMEnabled {
		if cfg.LLMAPIKey == "" {
			return fmt.Errorf("llm-api-key is required when --llm is set (or TEAMPULSE_LLM_API_KEY)")
		}
		if cfg.LLMModel == "" {
			return fmt.Errorf("llm-model is required when --llm is set")
		}
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.BackendSQLite, schema.BackendNone:
		return nil
	case schema.BackendMySQL:
		if connStr == "" {
			return fmt.Errorf("connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.BackendPostgreSQL:
		if connStr == "" {
			return fmt.Errorf("connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	// Cache and history must not share one SQLite file; the migrate
	// version table would collide with the cache table's lifecycle.
	if cfg.CacheBackend == schema.BackendSQLite && cfg.HistoryBackend == schema.BackendSQLite {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		historyPath := cfg.HistoryDBConnect
		if historyPath == "" {
			historyPath = GetHistoryDBFilePath()
		}
		if cachePath == historyPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// NormalizeIdentity lowercases and trims a raw author identity.
func NormalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
