package schema

// OutputMode determines the serialization format for tabular artifacts.
type OutputMode string

// Output modes for extraction artifacts.
const (
	OutputCSV     OutputMode = "csv"
	OutputJSON    OutputMode = "json"
	OutputParquet OutputMode = "parquet"
)

// ValidOutputModes is the allowlist used during config validation.
var ValidOutputModes = map[OutputMode]struct{}{
	OutputCSV:     {},
	OutputJSON:    {},
	OutputParquet: {},
}

// DatabaseBackend selects the storage engine for cache and history stores.
type DatabaseBackend string

// Database backends.
const (
	BackendSQLite     DatabaseBackend = "sqlite"
	BackendMySQL      DatabaseBackend = "mysql"
	BackendPostgreSQL DatabaseBackend = "postgresql"
	BackendNone       DatabaseBackend = "none"
)

// ValidDatabaseBackends is the allowlist used during config validation.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	BackendSQLite:     {},
	BackendMySQL:      {},
	BackendPostgreSQL: {},
	BackendNone:       {},
}

// Feature types the enrichment model may assign.
const (
	FeatureTypeFeature       = "feature"
	FeatureTypeBugfix        = "bugfix"
	FeatureTypeRefactoring   = "refactoring"
	FeatureTypeDocumentation = "documentation"
	FeatureTypeTesting       = "testing"
	FeatureTypeMaintenance   = "maintenance"
)

// ValidFeatureTypes is the allowlist for parsed enrichment responses.
var ValidFeatureTypes = map[string]struct{}{
	FeatureTypeFeature:       {},
	FeatureTypeBugfix:        {},
	FeatureTypeRefactoring:   {},
	FeatureTypeDocumentation: {},
	FeatureTypeTesting:       {},
	FeatureTypeMaintenance:   {},
}

// ValidComplexityLevels is the allowlist for parsed enrichment responses.
var ValidComplexityLevels = map[string]struct{}{
	"low":       {},
	"medium":    {},
	"high":      {},
	"very_high": {},
}

// ValidRiskLevels is the allowlist for parsed enrichment responses.
var ValidRiskLevels = map[string]struct{}{
	"low":    {},
	"medium": {},
	"high":   {},
}
