package priorauth

import (
	"encoding/json"
	"strings"
)

// Capability payloads are weakly typed: fields may be missing or mistyped and
// unknown keys must be ignored. Normalization extracts each field with a
// default chosen so a malformed response degrades toward non-blocking
// progression ("no problem found") rather than an unintended hard failure.
// This default-to-permissive behavior is deliberate; do not tighten it here.

// DecodePayload parses a raw capability response body. Markdown code fences
// are stripped before parsing. A body that is not a JSON object is kept as
// {"raw_response": <text>} so every field takes its default downstream.
func DecodePayload(raw []byte) map[string]any {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, "```") {
		var kept []string
		for _, line := range strings.Split(text, "\n") {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				continue
			}
			kept = append(kept, line)
		}
		text = strings.TrimSpace(strings.Join(kept, "\n"))
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text), &payload); err != nil || payload == nil {
		return map[string]any{"raw_response": text}
	}
	return payload
}

// NormalizeSanctions applies sanctions-screening defaults.
func NormalizeSanctions(p map[string]any) SanctionsResult {
	return SanctionsResult{
		HardStop:      boolField(p, "hard_stop", false),
		Excluded:      boolField(p, "excluded", false),
		ExclusionType: stringField(p, "exclusion_type"),
		ExclusionDate: stringField(p, "exclusion_date"),
		NPIActive:     boolField(p, "npi_active", true),
		AuditRef:      stringField(p, "audit_ref"),
	}
}

// NormalizeCoding applies code-validation defaults.
func NormalizeCoding(p map[string]any) CodingResult {
	result := CodingResult{
		CodesValid: boolField(p, "codes_valid", true),
	}

	for _, item := range listField(p, "issues") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		issue := CodingIssue{
			Code:        stringField(m, "code"),
			Kind:        IssueKind(stringField(m, "type")),
			Description: stringField(m, "description"),
			Suggestion:  stringField(m, "suggestion"),
			Action:      IssueAction(stringField(m, "action")),
		}
		if issue.Description == "" {
			issue.Description = stringField(m, "issue")
		}
		result.Issues = append(result.Issues, issue)
	}

	corrected := mapField(p, "corrected_codes")
	result.CorrectedCodes = CorrectedCodes{
		ICD10: stringList(corrected, "icd10"),
		CPT:   stringList(corrected, "cpt"),
	}
	return result
}

// NormalizeEligibility applies eligibility defaults.
func NormalizeEligibility(p map[string]any) EligibilityResult {
	benefits := mapField(p, "benefit_details")
	return EligibilityResult{
		ProviderValid:     boolField(p, "provider_valid", true),
		ProviderInNetwork: boolField(p, "provider_in_network", true),
		MemberEligible:    boolField(p, "member_eligible", true),
		BenefitDetails: BenefitDetails{
			CoverageTier:   stringField(benefits, "coverage_tier"),
			Copay:          floatField(benefits, "copay"),
			PlanExclusions: stringList(benefits, "plan_exclusions"),
		},
		RequiresReferral: boolField(p, "requires_referral", false),
	}
}

// NormalizePolicy applies policy-evaluation defaults. The determination
// defaults to PEND when absent or mistyped; any present string value is
// preserved as-is and handled by the assembler.
func NormalizePolicy(p map[string]any) PolicyResult {
	determination := stringField(p, "determination")
	if determination == "" {
		determination = PolicyPend
	}

	result := PolicyResult{
		Determination:     determination,
		CMSCoverageStatus: stringField(p, "cms_coverage_status"),
		DocRequirements:   stringList(p, "doc_requirements"),
		PolicyRef:         stringField(p, "policy_ref"),
		Reason:            stringField(p, "reason"),
	}

	for _, item := range listField(p, "criteria") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		result.Criteria = append(result.Criteria, PolicyCriterion{
			Name:      stringField(m, "name"),
			Met:       boolField(m, "met", false),
			Evidence:  stringField(m, "evidence"),
			PolicyRef: stringField(m, "policy_ref"),
		})
	}
	return result
}

// NormalizeRegulatory applies regulatory-search defaults.
func NormalizeRegulatory(p map[string]any) RegulatoryResult {
	result := RegulatoryResult{
		OverrideFlag: boolField(p, "override_flag", false),
	}

	for _, item := range listField(p, "items") {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		result.Items = append(result.Items, RegulatoryItem{
			Title:            stringField(m, "title"),
			EffectiveDate:    stringField(m, "effective_date"),
			Jurisdiction:     stringField(m, "jurisdiction"),
			Summary:          stringField(m, "summary"),
			MandatesCoverage: boolField(m, "mandates_coverage", false),
		})
	}
	return result
}

func boolField(m map[string]any, key string, def bool) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return def
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func listField(m map[string]any, key string) []any {
	if v, ok := m[key].([]any); ok {
		return v
	}
	return nil
}

func mapField(m map[string]any, key string) map[string]any {
	if v, ok := m[key].(map[string]any); ok {
		return v
	}
	return nil
}

func stringList(m map[string]any, key string) []string {
	var out []string
	for _, item := range listField(m, key) {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func floatField(m map[string]any, key string) *float64 {
	if v, ok := m[key].(float64); ok {
		return &v
	}
	return nil
}
