package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/teampulse/teampulse/internal/contract"
	"github.com/teampulse/teampulse/schema"
)

// ParseEnrichment extracts and validates the JSON enrichment object
// from raw model output. Code fences and surrounding prose are
// tolerated; anything else wraps contract.ErrMalformedResponse.
func ParseEnrichment(text string) (*schema.Enrichment, error) {
	payload := extractJSONObject(text)
	if payload == "" {
		return nil, fmt.Errorf("%w: no JSON object found", contract.ErrMalformedResponse)
	}

	var enr schema.Enrichment
	if err := json.Unmarshal([]byte(payload), &enr); err != nil {
		return nil, fmt.Errorf("%w: %v", contract.ErrMalformedResponse, err)
	}
	if err := validateEnrichment(&enr); err != nil {
		return nil, fmt.Errorf("%w: %v", contract.ErrMalformedResponse, err)
	}
	return &enr, nil
}

// extractJSONObject returns the outermost {...} span of the text,
// stripping markdown code fences first.
func extractJSONObject(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
	}
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}

func validateEnrichment(enr *schema.Enrichment) error {
	if enr.QualityScore < 0 || enr.QualityScore > 10 {
		return fmt.Errorf("llm_quality_score %.2f out of range [0,10]", enr.QualityScore)
	}
	if enr.BusinessImpactScore < 0 || enr.BusinessImpactScore > 10 {
		return fmt.Errorf("business_impact_score %.2f out of range [0,10]", enr.BusinessImpactScore)
	}
	enr.FeatureType = strings.ToLower(strings.TrimSpace(enr.FeatureType))
	if _, ok := schema.ValidFeatureTypes[enr.FeatureType]; !ok {
		return fmt.Errorf("invalid feature_type %q", enr.FeatureType)
	}
	enr.ComplexityLevel = strings.ToLower(strings.TrimSpace(enr.ComplexityLevel))
	if _, ok := schema.ValidComplexityLevels[enr.ComplexityLevel]; !ok {
		return fmt.Errorf("invalid complexity_level %q", enr.ComplexityLevel)
	}
	enr.RiskLevel = strings.ToLower(strings.TrimSpace(enr.RiskLevel))
	if _, ok := schema.ValidRiskLevels[enr.RiskLevel]; !ok {
		return fmt.Errorf("invalid risk_level %q", enr.RiskLevel)
	}
	return nil
}
