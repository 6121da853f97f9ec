package schema

// ScoreWeights holds the contribution of each message-quality signal.
// Penalty weights are stored positive and subtracted by the scorer.
type ScoreWeights struct {
	Base         float64 `json:"base"`
	IssueRef     float64 `json:"issue_ref"`
	Conventional float64 `json:"conventional"`
	GoodLength   float64 `json:"good_length"`
	IdealLength  float64 `json:"ideal_length"`
	HasBody      float64 `json:"has_body"`
	NotMerge     float64 `json:"not_merge"`
	Vague        float64 `json:"vague"`
	Hotfix       float64 `json:"hotfix"`
}

// DefaultScoreWeights returns the stock weighting.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		Base:         5.0,
		IssueRef:     2.0,
		Conventional: 1.5,
		GoodLength:   1.0,
		IdealLength:  0.5,
		HasBody:      0.5,
		NotMerge:     0.5,
		Vague:        1.0,
		Hotfix:       0.5,
	}
}

// Message length thresholds for the length signals.
const (
	MinMessageLength   = 10
	IdealMessageLength = 50
	MaxSummaryLength   = 72
)

// LargeCommitThreshold is the default churn above which a commit counts
// as large in developer summaries.
const LargeCommitThreshold = 500
