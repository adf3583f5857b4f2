package priorauth

import "context"

// Ports for the five external capabilities. Each capability is an opaque
// evaluation service invoked with a fixed request contract; implementations
// live in internal/capability so the pipeline can be tested against stubs.

// SanctionsPort screens the rendering provider against exclusion lists.
type SanctionsPort interface {
	Check(ctx context.Context, npi, providerName string) (SanctionsResult, error)
}

// CodingPort validates ICD-10 and CPT codes for a service date.
type CodingPort interface {
	Validate(ctx context.Context, icd10, cpt []string, serviceDate string) (CodingResult, error)
}

// EligibilityPort verifies member benefits and provider network status.
type EligibilityPort interface {
	Verify(ctx context.Context, memberID, npi string, lob LineOfBusiness, serviceCategory string) (EligibilityResult, error)
}

// PolicyPort evaluates coverage-policy criteria for the requested service.
type PolicyPort interface {
	Evaluate(ctx context.Context, icd10, cpt []string, lob LineOfBusiness, clinicalNotes string) (PolicyResult, error)
}

// RegulatorySearch is the request contract for the regulatory capability.
type RegulatorySearch struct {
	ICD10Codes   []string
	CPTCodes     []string
	LOB          LineOfBusiness
	State        string
	ServiceDate  string
	LookbackDays int
}

// DefaultLookbackDays is how far back the regulatory search reaches when the
// caller does not override it.
const DefaultLookbackDays = 730

// RegulatoryPort searches for regulations that may override a policy denial.
type RegulatoryPort interface {
	Search(ctx context.Context, req RegulatorySearch) (RegulatoryResult, error)
}
