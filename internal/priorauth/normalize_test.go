package priorauth

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// =============================================================================
// Payload Normalization Test Suite
// =============================================================================

type NormalizeSuite struct {
	suite.Suite
}

func TestNormalizeSuite(t *testing.T) {
	suite.Run(t, new(NormalizeSuite))
}

// =============================================================================
// Payload Decoding
// =============================================================================

func (s *NormalizeSuite) TestDecodePayload() {
	s.Run("plain JSON object decodes", func() {
		p := DecodePayload([]byte(`{"hard_stop": true}`))
		s.Equal(true, p["hard_stop"])
	})

	s.Run("markdown fences are stripped", func() {
		p := DecodePayload([]byte("```json\n{\"excluded\": true}\n```"))
		s.Equal(true, p["excluded"])
	})

	s.Run("non-JSON body is kept as raw_response", func() {
		p := DecodePayload([]byte("the provider appears to be in good standing"))
		s.Equal("the provider appears to be in good standing", p["raw_response"])
	})

	s.Run("JSON array is kept as raw_response", func() {
		p := DecodePayload([]byte(`[1, 2, 3]`))
		s.Contains(p, "raw_response")
	})

	s.Run("null is kept as raw_response", func() {
		p := DecodePayload([]byte(`null`))
		s.Contains(p, "raw_response")
	})
}

// =============================================================================
// Sanctions Normalization
// =============================================================================

func (s *NormalizeSuite) TestNormalizeSanctions() {
	s.Run("empty payload defaults to clear", func() {
		r := NormalizeSanctions(map[string]any{})
		s.False(r.HardStop)
		s.False(r.Excluded)
		s.True(r.NPIActive)
		s.Empty(r.AuditRef)
	})

	s.Run("mistyped booleans take defaults", func() {
		r := NormalizeSanctions(map[string]any{
			"hard_stop":  "yes",
			"excluded":   1,
			"npi_active": "false",
		})
		s.False(r.HardStop)
		s.False(r.Excluded)
		s.True(r.NPIActive)
	})

	s.Run("well-formed exclusion is preserved", func() {
		r := NormalizeSanctions(map[string]any{
			"hard_stop":      true,
			"excluded":       true,
			"exclusion_type": "1128a1",
			"exclusion_date": "2023-05-01",
			"audit_ref":      "OIG-20260219-101500-2386",
		})
		s.True(r.HardStop)
		s.True(r.Excluded)
		s.Equal("1128a1", r.ExclusionType)
		s.Equal("OIG-20260219-101500-2386", r.AuditRef)
	})
}

// =============================================================================
// Coding Normalization
// =============================================================================

func (s *NormalizeSuite) TestNormalizeCoding() {
	s.Run("empty payload defaults to valid", func() {
		r := NormalizeCoding(map[string]any{})
		s.True(r.CodesValid)
		s.Empty(r.Issues)
	})

	s.Run("issues are extracted with their kinds and actions", func() {
		r := NormalizeCoding(map[string]any{
			"codes_valid": false,
			"issues": []any{
				map[string]any{
					"code":        "27370",
					"type":        "CCI_BUNDLE",
					"description": "bundled into 27447",
					"action":      "REMOVE",
				},
				map[string]any{
					"code":   "M25.361",
					"type":   "REDUNDANT_DX",
					"issue":  "redundant with M17.11",
					"action": "REVIEW",
				},
			},
		})
		s.False(r.CodesValid)
		s.Require().Len(r.Issues, 2)
		s.Equal(IssueCCIBundle, r.Issues[0].Kind)
		s.Equal(ActionRemove, r.Issues[0].Action)
		s.Equal("redundant with M17.11", r.Issues[1].Description)
	})

	s.Run("non-object issue entries are skipped", func() {
		r := NormalizeCoding(map[string]any{
			"codes_valid": false,
			"issues":      []any{"27370", map[string]any{"code": "27447"}},
		})
		s.Len(r.Issues, 1)
	})

	s.Run("corrected codes are extracted", func() {
		r := NormalizeCoding(map[string]any{
			"corrected_codes": map[string]any{
				"icd10": []any{"M17.11"},
				"cpt":   []any{"27447"},
			},
		})
		s.Equal([]string{"M17.11"}, r.CorrectedCodes.ICD10)
		s.Equal([]string{"27447"}, r.CorrectedCodes.CPT)
	})
}

// =============================================================================
// Eligibility Normalization
// =============================================================================

func (s *NormalizeSuite) TestNormalizeEligibility() {
	s.Run("empty payload defaults to eligible", func() {
		r := NormalizeEligibility(map[string]any{})
		s.True(r.ProviderValid)
		s.True(r.ProviderInNetwork)
		s.True(r.MemberEligible)
		s.False(r.RequiresReferral)
	})

	s.Run("benefit details are extracted", func() {
		r := NormalizeEligibility(map[string]any{
			"member_eligible": false,
			"benefit_details": map[string]any{
				"coverage_tier":   "gold",
				"copay":           float64(40),
				"plan_exclusions": []any{"cosmetic"},
			},
		})
		s.False(r.MemberEligible)
		s.Equal("gold", r.BenefitDetails.CoverageTier)
		s.Require().NotNil(r.BenefitDetails.Copay)
		s.InDelta(40, *r.BenefitDetails.Copay, 0.001)
		s.Equal([]string{"cosmetic"}, r.BenefitDetails.PlanExclusions)
	})

	s.Run("mistyped benefit details take defaults", func() {
		r := NormalizeEligibility(map[string]any{"benefit_details": "none"})
		s.Empty(r.BenefitDetails.CoverageTier)
		s.Nil(r.BenefitDetails.Copay)
	})
}

// =============================================================================
// Policy Normalization
// =============================================================================

func (s *NormalizeSuite) TestNormalizePolicy() {
	s.Run("missing determination defaults to PEND", func() {
		r := NormalizePolicy(map[string]any{})
		s.Equal(PolicyPend, r.Determination)
	})

	s.Run("mistyped determination defaults to PEND", func() {
		r := NormalizePolicy(map[string]any{"determination": true})
		s.Equal(PolicyPend, r.Determination)
	})

	s.Run("unrecognized determination string is preserved", func() {
		r := NormalizePolicy(map[string]any{"determination": "ESCALATE"})
		s.Equal("ESCALATE", r.Determination)
	})

	s.Run("criteria and requirements are extracted", func() {
		r := NormalizePolicy(map[string]any{
			"determination":    "DENY",
			"doc_requirements": []any{"imaging report"},
			"policy_ref":       "MCG A-0423",
			"reason":           "conservative therapy not documented",
			"criteria": []any{
				map[string]any{"name": "conservative therapy", "met": false, "policy_ref": "MCG A-0423"},
			},
		})
		s.Equal(PolicyDeny, r.Determination)
		s.Equal([]string{"imaging report"}, r.DocRequirements)
		s.Require().Len(r.Criteria, 1)
		s.False(r.Criteria[0].Met)
	})
}

// =============================================================================
// Regulatory Normalization
// =============================================================================

func (s *NormalizeSuite) TestNormalizeRegulatory() {
	s.Run("empty payload defaults to no override", func() {
		r := NormalizeRegulatory(map[string]any{})
		s.False(r.OverrideFlag)
		s.Empty(r.Items)
	})

	s.Run("items are extracted", func() {
		r := NormalizeRegulatory(map[string]any{
			"override_flag": true,
			"items": []any{
				map[string]any{
					"title":             "CMS NCD 280.1 Amendment",
					"effective_date":    "2025-01-01",
					"jurisdiction":      "federal",
					"mandates_coverage": true,
				},
			},
		})
		s.True(r.OverrideFlag)
		s.Require().Len(r.Items, 1)
		s.Equal("CMS NCD 280.1 Amendment", r.Items[0].Title)
		s.True(r.Items[0].MandatesCoverage)
	})

	s.Run("raw_response fallback yields all defaults", func() {
		r := NormalizeRegulatory(DecodePayload([]byte("no relevant regulations found")))
		s.False(r.OverrideFlag)
		s.Empty(r.Items)
	})
}
