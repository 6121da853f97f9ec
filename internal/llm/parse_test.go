package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teampulse/teampulse/internal/contract"
)

const validResponse = `{
	"llm_quality_score": 7.5,
	"business_impact_score": 6,
	"feature_type": "feature",
	"complexity_level": "medium",
	"risk_level": "low",
	"code_areas": ["auth", "session"],
	"key_changes": ["token refresh before expiry"],
	"strengths": ["clear scope"],
	"risks": ["no integration test"]
}`

// TestParseEnrichment covers the tolerated input shapes.
func TestParseEnrichment(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "bare JSON object",
			text: validResponse,
		},
		{
			name: "json code fence",
			text: "```json\n" + validResponse + "\n```",
		},
		{
			name: "plain code fence",
			text: "```\n" + validResponse + "\n```",
		},
		{
			name: "surrounding prose",
			text: "Here is my analysis:\n" + validResponse + "\nLet me know if you need more detail.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enr, err := ParseEnrichment(tt.text)
			require.NoError(t, err)
			assert.InDelta(t, 7.5, enr.QualityScore, 0.001)
			assert.InDelta(t, 6.0, enr.BusinessImpactScore, 0.001)
			assert.Equal(t, "feature", enr.FeatureType)
			assert.Equal(t, "medium", enr.ComplexityLevel)
			assert.Equal(t, "low", enr.RiskLevel)
			assert.Equal(t, []string{"auth", "session"}, enr.CodeAreas)
		})
	}
}

// TestParseEnrichmentNormalizesEnums checks enum values are lowercased
// and trimmed before validation.
func TestParseEnrichmentNormalizesEnums(t *testing.T) {
	text := `{
		"llm_quality_score": 5,
		"business_impact_score": 5,
		"feature_type": " Bugfix ",
		"complexity_level": "HIGH",
		"risk_level": "Medium"
	}`

	enr, err := ParseEnrichment(text)
	require.NoError(t, err)
	assert.Equal(t, "bugfix", enr.FeatureType)
	assert.Equal(t, "high", enr.ComplexityLevel)
	assert.Equal(t, "medium", enr.RiskLevel)
}

// TestParseEnrichmentMalformed checks every failure mode wraps the
// malformed-response sentinel.
func TestParseEnrichmentMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "no JSON at all",
			text: "I cannot analyze this commit.",
		},
		{
			name: "empty input",
			text: "",
		},
		{
			name: "broken JSON",
			text: `{"llm_quality_score": 7.5,`,
		},
		{
			name: "quality score out of range",
			text: `{"llm_quality_score": 11, "business_impact_score": 5, "feature_type": "feature", "complexity_level": "low", "risk_level": "low"}`,
		},
		{
			name: "negative impact score",
			text: `{"llm_quality_score": 5, "business_impact_score": -1, "feature_type": "feature", "complexity_level": "low", "risk_level": "low"}`,
		},
		{
			name: "unknown feature type",
			text: `{"llm_quality_score": 5, "business_impact_score": 5, "feature_type": "magic", "complexity_level": "low", "risk_level": "low"}`,
		},
		{
			name: "unknown complexity level",
			text: `{"llm_quality_score": 5, "business_impact_score": 5, "feature_type": "feature", "complexity_level": "extreme", "risk_level": "low"}`,
		},
		{
			name: "unknown risk level",
			text: `{"llm_quality_score": 5, "business_impact_score": 5, "feature_type": "feature", "complexity_level": "low", "risk_level": "critical"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enr, err := ParseEnrichment(tt.text)
			assert.Nil(t, enr)
			assert.ErrorIs(t, err, contract.ErrMalformedResponse)
		})
	}
}
