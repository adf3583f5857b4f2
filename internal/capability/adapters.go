package capability

import (
	"context"

	"priorauth/internal/priorauth"
)

// Capability names, in pipeline order.
const (
	NameSanctions   = "sanctions"
	NameCoding      = "coding"
	NameEligibility = "eligibility"
	NamePolicy      = "policy"
	NameRegulatory  = "regulatory"
)

// Adapters implementing the pipeline's capability ports over an Invoker.
// Each adapter owns its request contract and hands the raw payload to the
// pipeline's normalizers.

type SanctionsClient struct {
	invoker Invoker
}

func NewSanctionsClient(invoker Invoker) *SanctionsClient {
	return &SanctionsClient{invoker: invoker}
}

func (c *SanctionsClient) Check(ctx context.Context, npi, providerName string) (priorauth.SanctionsResult, error) {
	payload, err := c.invoker.Invoke(ctx, NameSanctions, map[string]any{
		"npi":           npi,
		"provider_name": providerName,
	})
	if err != nil {
		return priorauth.SanctionsResult{}, err
	}
	return priorauth.NormalizeSanctions(payload), nil
}

type CodingClient struct {
	invoker Invoker
}

func NewCodingClient(invoker Invoker) *CodingClient {
	return &CodingClient{invoker: invoker}
}

func (c *CodingClient) Validate(ctx context.Context, icd10, cpt []string, serviceDate string) (priorauth.CodingResult, error) {
	payload, err := c.invoker.Invoke(ctx, NameCoding, map[string]any{
		"icd10_codes":  icd10,
		"cpt_codes":    cpt,
		"service_date": serviceDate,
	})
	if err != nil {
		return priorauth.CodingResult{}, err
	}

	result := priorauth.NormalizeCoding(payload)
	// When the capability offers no corrections, echo the submitted codes so
	// callers always get a usable corrected set.
	if result.CorrectedCodes.ICD10 == nil {
		result.CorrectedCodes.ICD10 = icd10
	}
	if result.CorrectedCodes.CPT == nil {
		result.CorrectedCodes.CPT = cpt
	}
	return result, nil
}

type EligibilityClient struct {
	invoker Invoker
}

func NewEligibilityClient(invoker Invoker) *EligibilityClient {
	return &EligibilityClient{invoker: invoker}
}

func (c *EligibilityClient) Verify(ctx context.Context, memberID, npi string, lob priorauth.LineOfBusiness, serviceCategory string) (priorauth.EligibilityResult, error) {
	payload, err := c.invoker.Invoke(ctx, NameEligibility, map[string]any{
		"member_id":        memberID,
		"npi":              npi,
		"line_of_business": string(lob),
		"service_category": serviceCategory,
	})
	if err != nil {
		return priorauth.EligibilityResult{}, err
	}
	return priorauth.NormalizeEligibility(payload), nil
}

type PolicyClient struct {
	invoker Invoker
}

func NewPolicyClient(invoker Invoker) *PolicyClient {
	return &PolicyClient{invoker: invoker}
}

func (c *PolicyClient) Evaluate(ctx context.Context, icd10, cpt []string, lob priorauth.LineOfBusiness, clinicalNotes string) (priorauth.PolicyResult, error) {
	payload, err := c.invoker.Invoke(ctx, NamePolicy, map[string]any{
		"icd10_codes":      icd10,
		"cpt_codes":        cpt,
		"line_of_business": string(lob),
		"clinical_notes":   clinicalNotes,
	})
	if err != nil {
		return priorauth.PolicyResult{}, err
	}
	return priorauth.NormalizePolicy(payload), nil
}

type RegulatoryClient struct {
	invoker Invoker
}

func NewRegulatoryClient(invoker Invoker) *RegulatoryClient {
	return &RegulatoryClient{invoker: invoker}
}

func (c *RegulatoryClient) Search(ctx context.Context, req priorauth.RegulatorySearch) (priorauth.RegulatoryResult, error) {
	payload, err := c.invoker.Invoke(ctx, NameRegulatory, map[string]any{
		"icd10_codes":      req.ICD10Codes,
		"cpt_codes":        req.CPTCodes,
		"line_of_business": string(req.LOB),
		"state":            req.State,
		"service_date":     req.ServiceDate,
		"lookback_days":    req.LookbackDays,
	})
	if err != nil {
		return priorauth.RegulatoryResult{}, err
	}
	return priorauth.NormalizeRegulatory(payload), nil
}

// NewPorts wires all five adapters over one shared invoker.
func NewPorts(invoker Invoker) priorauth.Ports {
	return priorauth.Ports{
		Sanctions:   NewSanctionsClient(invoker),
		Coding:      NewCodingClient(invoker),
		Eligibility: NewEligibilityClient(invoker),
		Policy:      NewPolicyClient(invoker),
		Regulatory:  NewRegulatoryClient(invoker),
	}
}
